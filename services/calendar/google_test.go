package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "time/tzdata"

	"solarbot/models"

	"google.golang.org/api/option"
)

func newTestCalendar(t *testing.T, handler http.Handler) *GoogleCalendar {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g, err := NewGoogleCalendarWithOptions(context.Background(), "all", nil,
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("NewGoogleCalendarWithOptions: %v", err)
	}
	return g
}

func berlinSlot(t *testing.T, hour int) models.TimeInterval {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	start := time.Date(2024, time.November, 19, hour, 0, 0, 0, loc)
	return models.TimeInterval{Start: start, End: start.Add(time.Hour)}
}

func TestQueryParsesBusyPeriods(t *testing.T) {
	var got map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/freeBusy", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"kind": "calendar#freeBusy",
			"calendars": {"primary": {"busy": [
				{"start": "2024-11-19T13:45:00Z", "end": "2024-11-19T14:15:00Z"},
				{"start": "2024-11-19T13:00:00Z", "end": "2024-11-19T13:30:00Z"}
			]}}
		}`))
	})
	g := newTestCalendar(t, mux)

	busy, err := g.Query(context.Background(), "primary", berlinSlot(t, 14))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if got["timeMin"] != "2024-11-19T14:00:00+01:00" || got["timeZone"] != "Europe/Berlin" {
		t.Errorf("request = %v", got)
	}
	if len(busy) != 2 {
		t.Fatalf("busy = %v, want 2 periods", busy)
	}
	if busy[0].Start.Hour() != 14 || busy[0].Start.Minute() != 0 || busy[1].Start.Minute() != 45 {
		t.Errorf("busy not sorted or not in Berlin time: %v", busy)
	}
}

func TestQueryReportsCalendarErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/freeBusy", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"calendars": {"primary": {"errors": [{"domain": "global", "reason": "notFound"}]}}}`))
	})
	g := newTestCalendar(t, mux)

	_, err := g.Query(context.Background(), "primary", berlinSlot(t, 14))
	var remote *RemoteServiceError
	if !errors.As(err, &remote) {
		t.Fatalf("err = %v, want *RemoteServiceError", err)
	}
}

func TestQueryClassifiesHTTPFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		auth   bool
	}{
		{"server error", http.StatusInternalServerError, false},
		{"bad request", http.StatusBadRequest, false},
		{"unauthorized", http.StatusUnauthorized, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/freeBusy", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprintf(w, `{"error": {"code": %d, "message": "nope"}}`, tt.status)
			})
			g := newTestCalendar(t, mux)

			_, err := g.Query(context.Background(), "primary", berlinSlot(t, 14))
			var authErr *AuthError
			var remote *RemoteServiceError
			switch {
			case tt.auth && !errors.As(err, &authErr):
				t.Errorf("err = %v, want *AuthError", err)
			case !tt.auth && !errors.As(err, &remote):
				t.Errorf("err = %v, want *RemoteServiceError", err)
			case !tt.auth && remote.StatusCode != tt.status:
				t.Errorf("StatusCode = %d, want %d", remote.StatusCode, tt.status)
			}
		})
	}
}

func TestInsertSendsEvent(t *testing.T) {
	var body map[string]any
	var sendUpdates string
	mux := http.NewServeMux()
	mux.HandleFunc("/calendars/primary/events", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		sendUpdates = r.URL.Query().Get("sendUpdates")
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "evt-42", "htmlLink": "https://calendar.google.com/event?eid=evt-42"}`))
	})
	g := newTestCalendar(t, mux)

	created, err := g.Insert(context.Background(), "primary", models.EventDescriptor{
		Summary:     "Solar-Beratungsgespräch",
		Description: "Beratung",
		Interval:    berlinSlot(t, 14),
		TimeZone:    "Europe/Berlin",
		Attendees:   []string{"kunde@example.com"},
		Reminders:   []models.Reminder{{Method: "email", MinutesBefore: 1440}, {Method: "popup", MinutesBefore: 30}},
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if created.ID != "evt-42" || created.HTMLLink == "" {
		t.Errorf("created = %+v", created)
	}
	if sendUpdates != "all" {
		t.Errorf("sendUpdates = %q, want all", sendUpdates)
	}

	start := body["start"].(map[string]any)
	if start["dateTime"] != "2024-11-19T14:00:00+01:00" || start["timeZone"] != "Europe/Berlin" {
		t.Errorf("start = %v", start)
	}
	reminders := body["reminders"].(map[string]any)
	if useDefault, ok := reminders["useDefault"]; !ok || useDefault != false {
		t.Errorf("reminders.useDefault = %v (present %v), want false", useDefault, ok)
	}
	if overrides := reminders["overrides"].([]any); len(overrides) != 2 {
		t.Errorf("overrides = %v", overrides)
	}
	if attendees := body["attendees"].([]any); len(attendees) != 1 {
		t.Errorf("attendees = %v", attendees)
	}
}

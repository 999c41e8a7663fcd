package calendar

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"solarbot/models"

	"go.uber.org/zap"
	gcalendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleCalendar implements the free/busy and event services on the Google
// Calendar v3 API.
type GoogleCalendar struct {
	svc         *gcalendar.Service
	sendUpdates string
	logger      *zap.Logger
}

// NewGoogleCalendar acquires a token source from provider and builds the API
// client. Credential failures surface as *AuthError.
func NewGoogleCalendar(ctx context.Context, provider CredentialProvider, sendUpdates string, logger *zap.Logger) (*GoogleCalendar, error) {
	ts, err := provider.TokenSource(ctx)
	if err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) {
			return nil, err
		}
		return nil, &AuthError{Source: provider.Name(), Err: err}
	}
	return NewGoogleCalendarWithOptions(ctx, sendUpdates, logger, option.WithTokenSource(ts))
}

// NewGoogleCalendarWithOptions builds the client from raw client options.
func NewGoogleCalendarWithOptions(ctx context.Context, sendUpdates string, logger *zap.Logger, opts ...option.ClientOption) (*GoogleCalendar, error) {
	svc, err := gcalendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoogleCalendar{svc: svc, sendUpdates: sendUpdates, logger: logger}, nil
}

// Query returns the busy periods of calendarID overlapping iv, sorted by
// start and expressed in iv's location.
func (g *GoogleCalendar) Query(ctx context.Context, calendarID string, iv models.TimeInterval) ([]models.TimeInterval, error) {
	loc := iv.Start.Location()
	req := &gcalendar.FreeBusyRequest{
		TimeMin:  iv.Start.Format(time.RFC3339),
		TimeMax:  iv.End.Format(time.RFC3339),
		TimeZone: loc.String(),
		Items:    []*gcalendar.FreeBusyRequestItem{{Id: calendarID}},
	}

	res, err := g.svc.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, classify("freebusy.query", err)
	}

	cal, ok := res.Calendars[calendarID]
	if !ok {
		return nil, &RemoteServiceError{Op: "freebusy.query", Err: fmt.Errorf("calendar %q missing from response", calendarID)}
	}
	if len(cal.Errors) > 0 {
		return nil, &RemoteServiceError{Op: "freebusy.query", Err: fmt.Errorf("calendar %q: %s", calendarID, cal.Errors[0].Reason)}
	}

	busy := make([]models.TimeInterval, 0, len(cal.Busy))
	for _, period := range cal.Busy {
		start, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			return nil, &RemoteServiceError{Op: "freebusy.query", Err: fmt.Errorf("parse busy start: %w", err)}
		}
		end, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			return nil, &RemoteServiceError{Op: "freebusy.query", Err: fmt.Errorf("parse busy end: %w", err)}
		}
		b := models.TimeInterval{Start: start.In(loc), End: end.In(loc)}
		if !b.Valid() || !b.Overlaps(iv) {
			continue
		}
		busy = append(busy, b)
	}
	sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })
	return busy, nil
}

// Insert creates the event and notifies attendees according to sendUpdates.
func (g *GoogleCalendar) Insert(ctx context.Context, calendarID string, desc models.EventDescriptor) (models.CreatedEvent, error) {
	ev := &gcalendar.Event{
		Summary:     desc.Summary,
		Description: desc.Description,
		Start: &gcalendar.EventDateTime{
			DateTime: desc.Interval.Start.Format(time.RFC3339),
			TimeZone: desc.TimeZone,
		},
		End: &gcalendar.EventDateTime{
			DateTime: desc.Interval.End.Format(time.RFC3339),
			TimeZone: desc.TimeZone,
		},
		Reminders: &gcalendar.EventReminders{
			UseDefault: false,
			// UseDefault=false is otherwise dropped from the request body.
			ForceSendFields: []string{"UseDefault"},
		},
	}
	for _, email := range desc.Attendees {
		ev.Attendees = append(ev.Attendees, &gcalendar.EventAttendee{Email: email})
	}
	for _, r := range desc.Reminders {
		ev.Reminders.Overrides = append(ev.Reminders.Overrides, &gcalendar.EventReminder{
			Method:  r.Method,
			Minutes: r.MinutesBefore,
		})
	}

	call := g.svc.Events.Insert(calendarID, ev).Context(ctx)
	if g.sendUpdates != "" {
		call = call.SendUpdates(g.sendUpdates)
	}
	created, err := call.Do()
	if err != nil {
		return models.CreatedEvent{}, classify("events.insert", err)
	}

	g.logger.Info("Calendar event created",
		zap.String("eventID", created.Id),
		zap.String("calendarID", calendarID),
		zap.Time("start", desc.Interval.Start),
	)
	return models.CreatedEvent{ID: created.Id, HTMLLink: created.HtmlLink}, nil
}

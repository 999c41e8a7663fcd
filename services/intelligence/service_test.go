package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"solarbot/models"
	"solarbot/services/booking"
	"solarbot/utils"

	"github.com/google/generative-ai-go/genai"
)

func newTestChatService(session *scriptedSession, appts *fakeAppointments, store *memStore) (*DefaultChatService, *fakeAssistants) {
	assistants := &fakeAssistants{session: session}
	svc := NewChatService(assistants, newDispatcher(appts, &fakeSolar{}), store, time.Hour, berlin(), nil)
	svc.Now = func() time.Time { return at(18, 10, 0) }
	return svc, assistants
}

var bookingArgs = map[string]any{
	"start_time": "2024-11-19T14:00:00+01:00",
	"end_time":   "2024-11-19T15:00:00+01:00",
	"email":      "kunde@example.com",
}

func TestProcessMessageToolLoop(t *testing.T) {
	session := &scriptedSession{responses: []*genai.GenerateContentResponse{
		callResponse(ToolCreateAppointment, bookingArgs),
		textResponse("Ihr Termin ist gebucht."),
	}}
	appts := &fakeAppointments{result: models.BookingResult{Status: models.BookingBooked, EventID: "evt-1"}}
	store := newMemStore()
	svc, assistants := newTestChatService(session, appts, store)

	resp, err := svc.ProcessMessage(context.Background(), models.ChatRequest{ThreadID: "t1", Message: "Ich möchte einen Termin am Dienstag"})
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if resp.Response != "Ihr Termin ist gebucht." || resp.CalendarEvent != "created" || resp.Status != "success" {
		t.Errorf("unexpected response %+v", resp)
	}
	if assistants.kinds[0] != models.AssistantCalendar {
		t.Errorf("routed to %s", assistants.kinds[0])
	}

	if len(session.sent) != 2 {
		t.Fatalf("expected 2 model calls, got %d", len(session.sent))
	}
	fr, ok := session.sent[1][0].(genai.FunctionResponse)
	if !ok || fr.Name != ToolCreateAppointment || fr.Response["status"] != "BOOKED" {
		t.Errorf("function response not fed back: %#v", session.sent[1][0])
	}

	chat := store.chats["t1"]
	if chat.LastBooking == nil || chat.LastBooking.EventID != "evt-1" {
		t.Errorf("LastBooking not recorded: %+v", chat.LastBooking)
	}
	if len(chat.Turns) != 2 || chat.Turns[1].Text != "Ihr Termin ist gebucht." {
		t.Errorf("turns = %+v", chat.Turns)
	}
}

func TestProcessMessageBookingSurvivesModelFailure(t *testing.T) {
	session := &scriptedSession{
		responses: []*genai.GenerateContentResponse{callResponse(ToolCreateAppointment, bookingArgs)},
		errs:      []error{nil, errors.New("model unavailable")},
	}
	appts := &fakeAppointments{result: models.BookingResult{Status: models.BookingBooked, EventID: "evt-1"}}
	svc, _ := newTestChatService(session, appts, newMemStore())

	resp, err := svc.ProcessMessage(context.Background(), models.ChatRequest{ThreadID: "t1", Message: "Termin buchen bitte"})
	if err != nil {
		t.Fatalf("expected booking confirmation, got error %v", err)
	}
	if resp.CalendarEvent != "created" {
		t.Errorf("calendar_event = %q", resp.CalendarEvent)
	}
	if !strings.Contains(resp.Response, "kunde@example.com") || !strings.Contains(resp.Response, "19.11.2024") {
		t.Errorf("confirmation missing details: %q", resp.Response)
	}
}

func TestProcessMessageFailureWithoutBooking(t *testing.T) {
	session := &scriptedSession{errs: []error{errors.New("model unavailable")}}
	svc, _ := newTestChatService(session, &fakeAppointments{}, newMemStore())

	if _, err := svc.ProcessMessage(context.Background(), models.ChatRequest{ThreadID: "t1", Message: "Hallo"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestProcessMessageRejectedIsNotCreated(t *testing.T) {
	session := &scriptedSession{responses: []*genai.GenerateContentResponse{
		callResponse(ToolCreateAppointment, bookingArgs),
		textResponse("Leider belegt."),
	}}
	appts := &fakeAppointments{result: models.BookingResult{Status: models.BookingRejected, Reason: models.ReasonConflict}}
	store := newMemStore()
	svc, _ := newTestChatService(session, appts, store)

	resp, err := svc.ProcessMessage(context.Background(), models.ChatRequest{ThreadID: "t1", Message: "Termin am Dienstag"})
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if resp.CalendarEvent != "none" {
		t.Errorf("calendar_event = %q", resp.CalendarEvent)
	}
	if store.chats["t1"].LastBooking != nil {
		t.Error("rejected booking recorded as LastBooking")
	}
}

func TestProcessMessageToolRoundLimit(t *testing.T) {
	loop := callResponse(ToolSuggestTime, map[string]any{"message": "Montag"})
	session := &scriptedSession{responses: []*genai.GenerateContentResponse{loop, loop, loop, loop}}
	svc, _ := newTestChatService(session, &fakeAppointments{}, newMemStore())
	svc.MaxToolRounds = 2

	resp, err := svc.ProcessMessage(context.Background(), models.ChatRequest{ThreadID: "t1", Message: "Termin?"})
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if len(session.sent) != 3 {
		t.Errorf("expected 3 model calls, got %d", len(session.sent))
	}
	if resp.Response == "" {
		t.Error("expected fallback text")
	}
}

func TestProcessMessageUsesHistoryForRouting(t *testing.T) {
	store := newMemStore()
	store.chats["t1"] = models.ChatContext{ThreadID: "t1", Turns: []models.ChatTurn{
		{Role: "user", Text: "Ich brauche einen Beratungstermin"},
		{Role: "model", Text: "Gern, welcher Tag?"},
	}}
	session := &scriptedSession{responses: []*genai.GenerateContentResponse{textResponse("Dienstag passt.")}}
	svc, assistants := newTestChatService(session, &fakeAppointments{}, store)

	if _, err := svc.ProcessMessage(context.Background(), models.ChatRequest{ThreadID: "t1", Message: "Dienstag 14 Uhr"}); err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if assistants.kinds[0] != models.AssistantCalendar {
		t.Errorf("routed to %s", assistants.kinds[0])
	}
	if len(assistants.history[0]) != 2 {
		t.Errorf("history not passed to the session: %+v", assistants.history[0])
	}
}

func TestProcessMessageEmpty(t *testing.T) {
	svc, _ := newTestChatService(&scriptedSession{}, &fakeAppointments{}, newMemStore())
	if _, err := svc.ProcessMessage(context.Background(), models.ChatRequest{ThreadID: "t1", Message: "   "}); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("err = %v", err)
	}
}

func TestStartThread(t *testing.T) {
	store := newMemStore()
	svc, _ := newTestChatService(&scriptedSession{}, &fakeAppointments{}, store)

	thread, err := svc.StartThread(context.Background())
	if err != nil {
		t.Fatalf("StartThread: %v", err)
	}
	if _, ok := store.chats[thread.ThreadID]; !ok {
		t.Error("thread not initialized in store")
	}
	id, err := utils.ExtractThreadIDFromToken(thread.Token)
	if err != nil || id != thread.ThreadID {
		t.Errorf("token subject = %q, err = %v", id, err)
	}

	if err := svc.EndThread(context.Background(), thread.ThreadID); err != nil {
		t.Fatalf("EndThread: %v", err)
	}
	if _, ok := store.chats[thread.ThreadID]; ok {
		t.Error("thread not cleared")
	}
}

func TestChatOriginInContext(t *testing.T) {
	var origin booking.Origin
	appts := &originRecorder{fakeAppointments: fakeAppointments{result: models.BookingResult{Status: models.BookingBooked}}, origin: &origin}
	session := &scriptedSession{responses: []*genai.GenerateContentResponse{
		callResponse(ToolCreateAppointment, bookingArgs),
		textResponse("ok"),
	}}
	svc := NewChatService(&fakeAssistants{session: session}, NewToolDispatcher(appts, booking.NewAppointmentRequestParser(berlin()), &fakeSolar{}, berlin(), nil), newMemStore(), time.Hour, berlin(), nil)

	if _, err := svc.ProcessMessage(context.Background(), models.ChatRequest{ThreadID: "t9", Message: "Termin"}); err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if origin.Source != "chat" || origin.ThreadID != "t9" {
		t.Errorf("origin = %+v", origin)
	}
}

type originRecorder struct {
	fakeAppointments
	origin *booking.Origin
}

func (o *originRecorder) CreateAppointment(ctx context.Context, req models.AppointmentRequest) (models.BookingResult, error) {
	*o.origin = booking.OriginFrom(ctx)
	return o.fakeAppointments.CreateAppointment(ctx, req)
}

package ai

import (
	"context"
	"errors"
	"sync"
	"time"

	"solarbot/models"

	"github.com/google/generative-ai-go/genai"
)

func berlin() *time.Location {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		panic(err)
	}
	return loc
}

// at returns a time in November 2024; the 19th is a Tuesday.
func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.November, day, hour, minute, 0, 0, berlin())
}

func hourSlot(start time.Time) models.TimeInterval {
	return models.TimeInterval{Start: start, End: start.Add(time.Hour)}
}

type fakeAppointments struct {
	availability models.AvailabilityResult
	availErr     error
	result       models.BookingResult
	bookErr      error
	requests     []models.AppointmentRequest
	checked      []models.TimeInterval
}

func (f *fakeAppointments) CheckAvailability(_ context.Context, iv models.TimeInterval) (models.AvailabilityResult, error) {
	f.checked = append(f.checked, iv)
	return f.availability, f.availErr
}

func (f *fakeAppointments) CreateAppointment(_ context.Context, req models.AppointmentRequest) (models.BookingResult, error) {
	f.requests = append(f.requests, req)
	res := f.result
	res.Interval = req.Interval
	return res, f.bookErr
}

type fakeSolar struct {
	estimate models.SolarEstimate
	err      error
}

func (f *fakeSolar) Estimate(_ context.Context, address string, bill float64) (models.SolarEstimate, error) {
	if f.err != nil {
		return models.SolarEstimate{}, f.err
	}
	est := f.estimate
	est.Address = address
	est.MonthlyBill = bill
	return est, nil
}

// scriptedSession replays canned responses and records what was sent.
type scriptedSession struct {
	responses []*genai.GenerateContentResponse
	errs      []error
	sent      [][]genai.Part
}

func (s *scriptedSession) SendMessage(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	i := len(s.sent)
	s.sent = append(s.sent, parts)
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i >= len(s.responses) {
		return nil, errors.New("script exhausted")
	}
	return s.responses[i], nil
}

type fakeAssistants struct {
	session *scriptedSession
	kinds   []models.AssistantKind
	history [][]models.ChatTurn
}

func (f *fakeAssistants) StartSession(kind models.AssistantKind, history []models.ChatTurn, _ time.Time) ChatSession {
	f.kinds = append(f.kinds, kind)
	f.history = append(f.history, history)
	return f.session
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Role: "model", Parts: []genai.Part{genai.Text(text)}},
	}}}
}

func callResponse(name string, args map[string]any) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Role: "model", Parts: []genai.Part{genai.FunctionCall{Name: name, Args: args}}},
	}}}
}

type memStore struct {
	mu    sync.Mutex
	chats map[string]models.ChatContext
	err   error
}

func newMemStore() *memStore {
	return &memStore{chats: map[string]models.ChatContext{}}
}

func (m *memStore) Get(_ context.Context, threadID string) (*models.ChatContext, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.chats[threadID]
	if !ok {
		return &models.ChatContext{ThreadID: threadID}, nil
	}
	return &c, nil
}

func (m *memStore) Set(_ context.Context, chat *models.ChatContext) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chats[chat.ThreadID] = *chat
	return nil
}

func (m *memStore) Clear(_ context.Context, threadID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.chats, threadID)
	return nil
}

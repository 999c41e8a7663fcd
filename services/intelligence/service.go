package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"solarbot/models"
	"solarbot/services/booking"
	"solarbot/utils"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultMaxToolRounds = 8
	maxStoredTurns       = 40
)

var ErrEmptyMessage = errors.New("message must not be empty")

// ChatService runs the assistant conversation behind /start and /chat.
type ChatService interface {
	StartThread(ctx context.Context) (models.Thread, error)
	ProcessMessage(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error)
	EndThread(ctx context.Context, threadID string) error
}

type ToolRunner interface {
	Dispatch(ctx context.Context, call genai.FunctionCall) ToolOutcome
}

type DefaultChatService struct {
	Assistants    AssistantClient
	Tools         ToolRunner
	Store         ContextStore
	MaxToolRounds int
	TokenTTL      time.Duration
	Location      *time.Location
	Now           func() time.Time
	Logger        *zap.Logger
}

func NewChatService(assistants AssistantClient, tools ToolRunner, store ContextStore, tokenTTL time.Duration, loc *time.Location, logger *zap.Logger) *DefaultChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &DefaultChatService{
		Assistants:    assistants,
		Tools:         tools,
		Store:         store,
		MaxToolRounds: DefaultMaxToolRounds,
		TokenTTL:      tokenTTL,
		Location:      loc,
		Now:           time.Now,
		Logger:        logger,
	}
}

func (s *DefaultChatService) StartThread(ctx context.Context) (models.Thread, error) {
	id := uuid.New().String()
	token, err := utils.GenerateThreadToken(id, s.TokenTTL)
	if err != nil {
		return models.Thread{}, fmt.Errorf("failed to sign thread token: %w", err)
	}
	now := s.Now()
	if err := s.Store.Set(ctx, &models.ChatContext{ThreadID: id, UpdatedAt: now}); err != nil {
		return models.Thread{}, fmt.Errorf("failed to initialize thread: %w", err)
	}
	s.Logger.Info("Thread started", zap.String("threadID", id))
	return models.Thread{ThreadID: id, Token: token, Expires: now.Add(s.TokenTTL)}, nil
}

func (s *DefaultChatService) EndThread(ctx context.Context, threadID string) error {
	return s.Store.Clear(ctx, threadID)
}

// ProcessMessage answers one user message. Function calls requested by the
// model are executed and fed back until it produces text or the round limit
// is reached. If an appointment was booked during this message and the model
// fails afterwards, the booking confirmation is returned instead of an error.
func (s *DefaultChatService) ProcessMessage(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return models.ChatResponse{}, ErrEmptyMessage
	}

	chat, err := s.Store.Get(ctx, req.ThreadID)
	if err != nil {
		return models.ChatResponse{}, fmt.Errorf("failed to load chat context: %w", err)
	}
	chat.ThreadID = req.ThreadID

	kind := DetectAssistant(message, chat.Turns, req.Type)
	chat.Assistant = kind
	logger := s.Logger.With(zap.String("threadID", req.ThreadID), zap.String("assistant", string(kind)))
	logger.Debug("Processing chat message")

	ctx = booking.WithOrigin(ctx, booking.Origin{Source: "chat", ThreadID: req.ThreadID})
	session := s.Assistants.StartSession(kind, chat.Turns, s.Now().In(s.Location))

	var booked *models.BookingResult
	var bookedEmail string
	reply, runErr := s.run(ctx, session, message, logger, func(out ToolOutcome) {
		if out.Booking != nil && out.Booking.Booked() {
			booked = out.Booking
			bookedEmail = out.Email
		}
	})

	if booked != nil {
		chat.LastBooking = booked
	}
	if runErr != nil {
		if booked == nil {
			return models.ChatResponse{}, runErr
		}
		logger.Warn("Assistant failed after booking, answering with confirmation", zap.Error(runErr))
		reply = ConfirmationMessage(*booked, bookedEmail)
	}
	if strings.TrimSpace(reply) == "" {
		if booked != nil {
			reply = bookedFallbackMessage
		} else {
			reply = "Entschuldigung, ich konnte keine Antwort erzeugen. Bitte formulieren Sie Ihre Anfrage erneut."
		}
	}

	chat.Turns = append(chat.Turns,
		models.ChatTurn{Role: "user", Text: message},
		models.ChatTurn{Role: "model", Text: reply},
	)
	if len(chat.Turns) > maxStoredTurns {
		chat.Turns = chat.Turns[len(chat.Turns)-maxStoredTurns:]
	}
	chat.UpdatedAt = s.Now()
	if err := s.Store.Set(ctx, chat); err != nil {
		logger.Error("Failed to persist chat context", zap.Error(err))
	}

	resp := models.ChatResponse{Response: reply, Status: "success", CalendarEvent: "none", Assistant: kind}
	if booked != nil {
		resp.CalendarEvent = "created"
	}
	return resp, nil
}

func (s *DefaultChatService) run(ctx context.Context, session ChatSession, message string, logger *zap.Logger, observe func(ToolOutcome)) (string, error) {
	resp, err := session.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("assistant request failed: %w", err)
	}

	rounds := s.MaxToolRounds
	if rounds <= 0 {
		rounds = DefaultMaxToolRounds
	}
	for round := 0; ; round++ {
		text, calls := responseParts(resp)
		if len(calls) == 0 {
			return text, nil
		}
		if round >= rounds {
			logger.Warn("Tool round limit reached", zap.Int("rounds", rounds))
			return text, nil
		}

		parts := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			out := s.Tools.Dispatch(ctx, call)
			observe(out)
			parts = append(parts, genai.FunctionResponse{Name: call.Name, Response: out.Response})
		}
		resp, err = session.SendMessage(ctx, parts...)
		if err != nil {
			return "", fmt.Errorf("assistant request failed after %s: %w", calls[0].Name, err)
		}
	}
}

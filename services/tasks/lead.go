package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"solarbot/models"
	"solarbot/services/booking"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeLeadCapture = "lead:capture"

func NewLeadTask(payload models.LeadPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeLeadCapture, b)
	opts := []asynq.Option{
		asynq.MaxRetry(10),
		asynq.Timeout(30 * time.Second),
	}
	if payload.EventID != "" {
		opts = append(opts, asynq.TaskID("lead:"+payload.EventID))
	}
	return task, opts, nil
}

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// LeadCaptureListener enqueues a lead:capture task for every booked
// appointment.
type LeadCaptureListener struct {
	Queue  Enqueuer
	Logger *zap.Logger
}

func NewLeadCaptureListener(queue Enqueuer, logger *zap.Logger) *LeadCaptureListener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeadCaptureListener{Queue: queue, Logger: logger}
}

func (l *LeadCaptureListener) OnBooked(ctx context.Context, req models.AppointmentRequest, result models.BookingResult) error {
	origin := booking.OriginFrom(ctx)
	payload := models.LeadPayload{
		ThreadID:    origin.ThreadID,
		Email:       req.AttendeeEmail,
		EventID:     result.EventID,
		EventLink:   result.HTMLLink,
		Appointment: result.Interval,
		Summary:     req.Summary,
		BookedAt:    time.Now(),
	}
	task, opts, err := NewLeadTask(payload)
	if err != nil {
		return err
	}
	info, err := l.Queue.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	if err != nil {
		return err
	}
	l.Logger.Debug("Lead capture enqueued", zap.String("taskID", info.ID), zap.String("eventID", result.EventID))
	return nil
}

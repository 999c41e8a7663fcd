package booking

import (
	"context"
	"fmt"
	"strings"

	"solarbot/models"

	"go.uber.org/zap"
)

type bookingState string

const (
	stateValidating            bookingState = "validating"
	stateCheckingAvailability  bookingState = "checking_availability"
	stateBooking               bookingState = "booking"
	stateSearchingAlternatives bookingState = "searching_alternatives"
	stateResolved              bookingState = "resolved"
)

// DefaultReminders are attached to every consultation: an email one day
// ahead and a popup 30 minutes before.
var DefaultReminders = []models.Reminder{
	{Method: "email", MinutesBefore: 24 * 60},
	{Method: "popup", MinutesBefore: 30},
}

// BookingOrchestrator runs one booking attempt: validate, check, then either
// book or search for alternatives. It is stateless between calls.
type BookingOrchestrator struct {
	Policy     BusinessHoursPolicy
	Checker    *AvailabilityChecker
	Search     *SlotSearchEngine
	Events     EventService
	CalendarID string
	MaxResults int
	MaxProbes  int
	Reminders  []models.Reminder
	Listeners  []BookingListener
	Logger     *zap.Logger
}

// NewBookingOrchestrator wires checker and slot search around the same
// policy and calendar.
func NewBookingOrchestrator(policy BusinessHoursPolicy, fb FreeBusyService, events EventService, calendarID string, logger *zap.Logger) *BookingOrchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	checker := NewAvailabilityChecker(policy, fb, calendarID, logger)
	return &BookingOrchestrator{
		Policy:     policy,
		Checker:    checker,
		Search:     NewSlotSearchEngine(checker, logger),
		Events:     events,
		CalendarID: calendarID,
		MaxResults: DefaultMaxResults,
		MaxProbes:  DefaultMaxProbes,
		Reminders:  DefaultReminders,
		Logger:     logger,
	}
}

// AddListener registers a post-booking hook.
func (o *BookingOrchestrator) AddListener(l BookingListener) {
	o.Listeners = append(o.Listeners, l)
}

// CheckAvailability is a read-only pass-through to the availability checker.
func (o *BookingOrchestrator) CheckAvailability(ctx context.Context, iv models.TimeInterval) (models.AvailabilityResult, error) {
	return o.Checker.CheckAvailability(ctx, iv)
}

// CreateAppointment books the slot starting at req.Interval.Start if it is
// inside business hours and free. Consultations always last SlotDuration;
// the requested end is ignored. A policy violation yields REJECTED/OUTSIDE_HOURS without any remote
// call; a conflict yields REJECTED/CONFLICT with up to MaxResults alternative
// slots. Remote failures are returned as errors.
//
// Availability check and insert are not atomic; a concurrent booking in the
// window between them can still double-book.
func (o *BookingOrchestrator) CreateAppointment(ctx context.Context, req models.AppointmentRequest) (models.BookingResult, error) {
	iv := models.TimeInterval{Start: req.Interval.Start, End: req.Interval.Start.Add(SlotDuration)}
	if !req.Interval.End.Equal(iv.End) {
		o.Logger.Debug("CreateAppointment: normalizing duration",
			zap.Duration("requested", req.Interval.Duration()))
	}
	req.Interval = iv
	o.transition(stateValidating, iv)
	if !o.Policy.IsWithinBusinessHours(iv) {
		o.transition(stateResolved, iv, zap.String("reason", string(models.ReasonOutsideHours)))
		return models.BookingResult{
			Status:   models.BookingRejected,
			Interval: iv,
			Reason:   models.ReasonOutsideHours,
		}, nil
	}
	iv = iv.In(o.Policy.Location)

	o.transition(stateCheckingAvailability, iv)
	avail, err := o.Checker.CheckAvailability(ctx, iv)
	if err != nil {
		return models.BookingResult{}, err
	}

	if !avail.Available {
		o.transition(stateSearchingAlternatives, iv, zap.Int("busy", len(avail.Busy)))
		alternatives, err := o.Search.FindNextAvailableSlots(ctx, iv, o.MaxResults, o.MaxProbes)
		if err != nil {
			return models.BookingResult{}, err
		}
		o.transition(stateResolved, iv,
			zap.String("reason", string(avail.Reason)),
			zap.Int("alternatives", len(alternatives)))
		return models.BookingResult{
			Status:       models.BookingRejected,
			Interval:     iv,
			Reason:       avail.Reason,
			Alternatives: alternatives,
		}, nil
	}

	o.transition(stateBooking, iv)
	ev := models.EventDescriptor{
		Summary:     req.Summary,
		Description: req.Description,
		Interval:    iv,
		TimeZone:    o.Policy.Location.String(),
		Reminders:   o.Reminders,
	}
	if email := strings.TrimSpace(req.AttendeeEmail); email != "" {
		ev.Attendees = []string{email}
	}
	created, err := o.Events.Insert(ctx, o.CalendarID, ev)
	if err != nil {
		return models.BookingResult{}, fmt.Errorf("insert event: %w", err)
	}

	result := models.BookingResult{
		Status:   models.BookingBooked,
		EventID:  created.ID,
		HTMLLink: created.HTMLLink,
		Interval: iv,
	}
	o.transition(stateResolved, iv, zap.String("eventID", created.ID))
	o.notify(ctx, req, result)
	return result, nil
}

func (o *BookingOrchestrator) notify(ctx context.Context, req models.AppointmentRequest, result models.BookingResult) {
	for _, l := range o.Listeners {
		if err := l.OnBooked(ctx, req, result); err != nil {
			o.Logger.Warn("CreateAppointment: booking listener failed",
				zap.String("eventID", result.EventID), zap.Error(err))
		}
	}
}

func (o *BookingOrchestrator) transition(s bookingState, iv models.TimeInterval, fields ...zap.Field) {
	o.Logger.Debug("booking state",
		append([]zap.Field{zap.String("state", string(s)), zap.Time("start", iv.Start)}, fields...)...)
}

package booking

import (
	"context"

	"solarbot/models"
)

// FreeBusyService reports busy periods of a calendar overlapping an interval.
type FreeBusyService interface {
	Query(ctx context.Context, calendarID string, iv models.TimeInterval) ([]models.TimeInterval, error)
}

// EventService creates calendar events.
type EventService interface {
	Insert(ctx context.Context, calendarID string, ev models.EventDescriptor) (models.CreatedEvent, error)
}

// BookingListener is notified after an appointment was booked. Errors are
// logged by the orchestrator and never change the booking result.
type BookingListener interface {
	OnBooked(ctx context.Context, req models.AppointmentRequest, result models.BookingResult) error
}

// AppointmentService is the booking surface used by handlers and the
// assistant tool runtime.
type AppointmentService interface {
	CheckAvailability(ctx context.Context, iv models.TimeInterval) (models.AvailabilityResult, error)
	CreateAppointment(ctx context.Context, req models.AppointmentRequest) (models.BookingResult, error)
}

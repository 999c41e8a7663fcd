package models

// AppointmentRequest is the input to a booking attempt.
type AppointmentRequest struct {
	Summary       string       `json:"summary"`
	Description   string       `json:"description"`
	Interval      TimeInterval `json:"interval"`
	AttendeeEmail string       `json:"email"`
}

// BookingStatus tags a BookingResult.
type BookingStatus string

const (
	BookingBooked   BookingStatus = "BOOKED"
	BookingRejected BookingStatus = "REJECTED"
	BookingFault    BookingStatus = "FAULT"
)

// BookingResult is the tagged outcome of CreateAppointment. Only the fields
// belonging to Status are populated.
type BookingResult struct {
	Status       BookingStatus   `json:"status"`
	EventID      string          `json:"eventId,omitempty"`      // BOOKED
	HTMLLink     string          `json:"htmlLink,omitempty"`     // BOOKED
	Interval     TimeInterval    `json:"interval"`               // the requested interval
	Reason       RejectionReason `json:"reason,omitempty"`       // REJECTED
	Alternatives []TimeInterval  `json:"alternatives,omitempty"` // REJECTED with CONFLICT
	Message      string          `json:"message,omitempty"`      // FAULT
}

func (r BookingResult) Booked() bool {
	return r.Status == BookingBooked
}

// Reminder is a calendar notification relative to the event start.
type Reminder struct {
	Method        string `json:"method"` // "email" or "popup"
	MinutesBefore int64  `json:"minutes"`
}

// EventDescriptor is what the event service needs to create a calendar event.
type EventDescriptor struct {
	Summary     string
	Description string
	Interval    TimeInterval
	TimeZone    string
	Attendees   []string
	Reminders   []Reminder
}

// CreatedEvent identifies an event the calendar accepted.
type CreatedEvent struct {
	ID       string `json:"id"`
	HTMLLink string `json:"htmlLink"`
}

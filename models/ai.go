package models

import "time"

// AssistantKind selects which assistant answers a message.
type AssistantKind string

const (
	AssistantSolar    AssistantKind = "solar"
	AssistantCalendar AssistantKind = "calendar"
)

// Thread is returned by /start.
type Thread struct {
	ThreadID string    `json:"thread_id"`
	Token    string    `json:"token"`
	Expires  time.Time `json:"expires_at"`
}

// ChatRequest is the payload of /chat.
type ChatRequest struct {
	ThreadID string        `json:"thread_id" binding:"required"`
	Message  string        `json:"message" binding:"required"`
	Type     AssistantKind `json:"type,omitempty"` // optional explicit routing
}

// ChatResponse is what the chat handler returns to the frontend.
type ChatResponse struct {
	Response      string        `json:"response"`
	Status        string        `json:"status"`         // "success" or "error"
	CalendarEvent string        `json:"calendar_event"` // "created" or "none"
	Assistant     AssistantKind `json:"assistant"`
}

// ChatTurn is one persisted text exchange.
type ChatTurn struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

// ChatContext is the per-thread state kept between messages.
type ChatContext struct {
	ThreadID  string        `json:"threadId"`
	Assistant AssistantKind `json:"assistant"`
	Turns     []ChatTurn    `json:"turns"`
	// LastBooking is set when a create_appointment call returned BOOKED.
	LastBooking *BookingResult `json:"lastBooking,omitempty"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

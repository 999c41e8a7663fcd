package models

import "time"

// LeadPayload is carried by the lead:capture task after a successful booking.
type LeadPayload struct {
	ThreadID    string       `json:"threadId,omitempty"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone,omitempty"`
	Address     string       `json:"address,omitempty"`
	EventID     string       `json:"eventId"`
	EventLink   string       `json:"eventLink,omitempty"`
	Appointment TimeInterval `json:"appointment"`
	Summary     string       `json:"summary"`
	BookedAt    time.Time    `json:"bookedAt"`
}

// Lead is the persisted record of a booked consultation.
type Lead struct {
	ID          string       `bson:"id" json:"id"`
	ThreadID    string       `bson:"thread_id,omitempty" json:"thread_id,omitempty"`
	Name        string       `bson:"name" json:"name"`
	Email       string       `bson:"email" json:"email"`
	Phone       string       `bson:"phone,omitempty" json:"phone,omitempty"`
	Address     string       `bson:"address,omitempty" json:"address,omitempty"`
	EventID     string       `bson:"event_id" json:"event_id"`
	EventLink   string       `bson:"event_link,omitempty" json:"event_link,omitempty"`
	Appointment TimeInterval `bson:"appointment" json:"appointment"`
	Source      string       `bson:"source" json:"source"`                               // "chat" or "api"
	AirtableID  string       `bson:"airtable_id,omitempty" json:"airtable_id,omitempty"` // set once forwarded
	CreatedAt   time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `bson:"updated_at" json:"updated_at"`
}

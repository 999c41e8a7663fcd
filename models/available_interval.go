package models

import (
	"errors"
	"time"
)

// ErrInvalidInterval is returned when an interval does not start before it ends.
var ErrInvalidInterval = errors.New("interval start must be before end")

// TimeInterval is a half-open span [Start, End).
type TimeInterval struct {
	Start time.Time `json:"start" bson:"start"`
	End   time.Time `json:"end" bson:"end"`
}

// NewTimeInterval builds an interval, rejecting Start >= End.
func NewTimeInterval(start, end time.Time) (TimeInterval, error) {
	if !start.Before(end) {
		return TimeInterval{}, ErrInvalidInterval
	}
	return TimeInterval{Start: start, End: end}, nil
}

func (iv TimeInterval) Valid() bool {
	return iv.Start.Before(iv.End)
}

func (iv TimeInterval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// In converts both endpoints to loc; the instants are unchanged.
func (iv TimeInterval) In(loc *time.Location) TimeInterval {
	return TimeInterval{Start: iv.Start.In(loc), End: iv.End.In(loc)}
}

func (iv TimeInterval) Shift(d time.Duration) TimeInterval {
	return TimeInterval{Start: iv.Start.Add(d), End: iv.End.Add(d)}
}

// Overlaps reports whether the two half-open intervals share any instant.
func (iv TimeInterval) Overlaps(other TimeInterval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// RejectionReason explains why a requested interval cannot be booked.
type RejectionReason string

const (
	ReasonOutsideHours RejectionReason = "OUTSIDE_HOURS"
	ReasonConflict     RejectionReason = "CONFLICT"
)

// AvailabilityResult is the outcome of a single availability check. It is
// never cached; each check reflects the calendar at call time.
type AvailabilityResult struct {
	Available bool            `json:"available"`
	Busy      []TimeInterval  `json:"busy"`             // busy periods overlapping the requested interval
	Reason    RejectionReason `json:"reason,omitempty"` // empty when Available
}

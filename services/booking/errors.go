package booking

import (
	"fmt"
	"strings"

	"solarbot/models"
)

// ValidationError marks an interval the business policy refuses.
type ValidationError struct {
	Reason  models.RejectionReason
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func NewOutsideHoursError(iv models.TimeInterval) error {
	return &ValidationError{
		Reason: models.ReasonOutsideHours,
		Message: fmt.Sprintf("%s - %s is outside business hours",
			iv.Start.Format("Mon 02.01.2006 15:04"), iv.End.Format("15:04")),
	}
}

// ConflictError marks an interval that overlaps existing calendar entries.
type ConflictError struct {
	Busy         []models.TimeInterval
	Alternatives []models.TimeInterval
}

func (e *ConflictError) Error() string {
	if len(e.Busy) == 0 {
		return fmt.Sprintf("%s: requested interval is not available", models.ReasonConflict)
	}
	periods := make([]string, 0, len(e.Busy))
	for _, b := range e.Busy {
		periods = append(periods, b.Start.Format("15:04")+"-"+b.End.Format("15:04"))
	}
	return fmt.Sprintf("%s: calendar busy at %s", models.ReasonConflict, strings.Join(periods, ", "))
}

// RejectionError converts a REJECTED booking result into its typed error.
// It returns nil for any other status.
func RejectionError(r models.BookingResult) error {
	if r.Status != models.BookingRejected {
		return nil
	}
	switch r.Reason {
	case models.ReasonOutsideHours:
		return NewOutsideHoursError(r.Interval)
	default:
		return &ConflictError{Alternatives: r.Alternatives}
	}
}

package calendar

import (
	"context"

	"solarbot/models"
)

// Unavailable stands in for the calendar when no credential could be
// acquired at startup. Every call fails with Err.
type Unavailable struct {
	Err error
}

func (u Unavailable) Query(context.Context, string, models.TimeInterval) ([]models.TimeInterval, error) {
	return nil, u.Err
}

func (u Unavailable) Insert(context.Context, string, models.EventDescriptor) (models.CreatedEvent, error) {
	return models.CreatedEvent{}, u.Err
}

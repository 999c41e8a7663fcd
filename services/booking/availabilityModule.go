package booking

import (
	"context"
	"fmt"

	"solarbot/models"

	"go.uber.org/zap"
)

// AvailabilityChecker combines the business policy with the calendar's
// free/busy information.
type AvailabilityChecker struct {
	Policy     BusinessHoursPolicy
	FreeBusy   FreeBusyService
	CalendarID string
	Logger     *zap.Logger
}

func NewAvailabilityChecker(policy BusinessHoursPolicy, fb FreeBusyService, calendarID string, logger *zap.Logger) *AvailabilityChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityChecker{Policy: policy, FreeBusy: fb, CalendarID: calendarID, Logger: logger}
}

// CheckAvailability rejects intervals outside business hours without a remote
// call; otherwise it issues exactly one free/busy query. Query errors are
// returned as-is.
func (a *AvailabilityChecker) CheckAvailability(ctx context.Context, iv models.TimeInterval) (models.AvailabilityResult, error) {
	if !a.Policy.IsWithinBusinessHours(iv) {
		a.Logger.Debug("CheckAvailability: outside business hours",
			zap.Time("start", iv.Start), zap.Time("end", iv.End))
		return models.AvailabilityResult{
			Available: false,
			Busy:      []models.TimeInterval{},
			Reason:    models.ReasonOutsideHours,
		}, nil
	}

	iv = iv.In(a.Policy.Location)
	busy, err := a.FreeBusy.Query(ctx, a.CalendarID, iv)
	if err != nil {
		return models.AvailabilityResult{}, fmt.Errorf("free/busy query for %s: %w", iv.Start.Format("2006-01-02 15:04"), err)
	}
	if busy == nil {
		busy = []models.TimeInterval{}
	}

	result := models.AvailabilityResult{Available: len(busy) == 0, Busy: busy}
	if !result.Available {
		result.Reason = models.ReasonConflict
	}
	a.Logger.Debug("CheckAvailability: free/busy answered",
		zap.Time("start", iv.Start),
		zap.Bool("available", result.Available),
		zap.Int("busy", len(busy)),
	)
	return result, nil
}

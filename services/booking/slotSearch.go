package booking

import (
	"context"

	"solarbot/models"

	"go.uber.org/zap"
)

const (
	DefaultMaxResults = 3
	DefaultMaxProbes  = 24

	// SearchIncrement is how far each probe advances the candidate.
	SearchIncrement = SlotDuration
)

// SlotSearchEngine proposes free 60-minute slots after a conflicting request.
type SlotSearchEngine struct {
	Checker *AvailabilityChecker
	Logger  *zap.Logger
}

func NewSlotSearchEngine(checker *AvailabilityChecker, logger *zap.Logger) *SlotSearchEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlotSearchEngine{Checker: checker, Logger: logger}
}

// FindNextAvailableSlots walks forward from seed in one-hour steps. Every
// advance costs one probe, whether or not the candidate needed a remote call;
// candidates outside business hours are skipped locally. The search stops once
// maxResults slots are found or maxProbes advances were made. Results are
// chronological and each is exactly SlotDuration long.
func (e *SlotSearchEngine) FindNextAvailableSlots(ctx context.Context, seed models.TimeInterval, maxResults, maxProbes int) ([]models.TimeInterval, error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if maxProbes <= 0 {
		maxProbes = DefaultMaxProbes
	}

	slots := make([]models.TimeInterval, 0, maxResults)
	candidate := models.TimeInterval{Start: seed.Start, End: seed.Start.Add(SlotDuration)}
	probes := 0

	for len(slots) < maxResults && probes < maxProbes {
		candidate = candidate.Shift(SearchIncrement)
		probes++

		if !e.Checker.Policy.IsWithinBusinessHours(candidate) {
			continue
		}
		res, err := e.Checker.CheckAvailability(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if res.Available {
			slots = append(slots, candidate.In(e.Checker.Policy.Location))
		}
	}

	e.Logger.Debug("FindNextAvailableSlots: search finished",
		zap.Time("seed", seed.Start),
		zap.Int("probes", probes),
		zap.Int("found", len(slots)),
	)
	return slots, nil
}

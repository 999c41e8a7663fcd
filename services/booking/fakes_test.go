package booking

import (
	"context"
	"sync"
	"time"

	_ "time/tzdata"

	"solarbot/models"
)

func berlin() *time.Location {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		panic(err)
	}
	return loc
}

// at builds a Berlin wall-clock time in November 2024 (19th is a Tuesday).
func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.November, day, hour, minute, 0, 0, berlin())
}

func hourSlot(day, hour int) models.TimeInterval {
	return models.TimeInterval{Start: at(day, hour, 0), End: at(day, hour+1, 0)}
}

type fakeFreeBusy struct {
	mu      sync.Mutex
	busy    []models.TimeInterval
	allBusy bool
	err     error
	calls   []models.TimeInterval
}

func (f *fakeFreeBusy) Query(_ context.Context, _ string, iv models.TimeInterval) ([]models.TimeInterval, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, iv)
	if f.err != nil {
		return nil, f.err
	}
	if f.allBusy {
		return []models.TimeInterval{iv}, nil
	}
	var out []models.TimeInterval
	for _, b := range f.busy {
		if b.Overlaps(iv) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeFreeBusy) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeEvents struct {
	inserted []models.EventDescriptor
	err      error
	// calendar, when set, receives every inserted interval as busy time.
	calendar *fakeFreeBusy
}

func (f *fakeEvents) Insert(_ context.Context, _ string, ev models.EventDescriptor) (models.CreatedEvent, error) {
	if f.err != nil {
		return models.CreatedEvent{}, f.err
	}
	f.inserted = append(f.inserted, ev)
	if f.calendar != nil {
		f.calendar.mu.Lock()
		f.calendar.busy = append(f.calendar.busy, ev.Interval)
		f.calendar.mu.Unlock()
	}
	return models.CreatedEvent{ID: "evt-1", HTMLLink: "https://calendar.example/evt-1"}, nil
}

type recordingListener struct {
	results []models.BookingResult
	err     error
}

func (l *recordingListener) OnBooked(_ context.Context, _ models.AppointmentRequest, r models.BookingResult) error {
	l.results = append(l.results, r)
	return l.err
}

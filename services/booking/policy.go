package booking

import (
	"time"

	"solarbot/models"
)

// SlotDuration is the fixed length of a consultation.
const SlotDuration = time.Hour

// BusinessHoursPolicy describes when appointments may take place. Hours are
// wall-clock hours in Location.
type BusinessHoursPolicy struct {
	OpenHour    int
	CloseHour   int
	LunchStart  int
	LunchEnd    int
	WorkingDays map[time.Weekday]bool
	Location    *time.Location
}

// DefaultPolicy is Mon-Fri 09:00-17:00 with a 12:00-13:00 lunch break.
func DefaultPolicy(loc *time.Location) BusinessHoursPolicy {
	if loc == nil {
		loc = time.UTC
	}
	return BusinessHoursPolicy{
		OpenHour:   9,
		CloseHour:  17,
		LunchStart: 12,
		LunchEnd:   13,
		WorkingDays: map[time.Weekday]bool{
			time.Monday:    true,
			time.Tuesday:   true,
			time.Wednesday: true,
			time.Thursday:  true,
			time.Friday:    true,
		},
		Location: loc,
	}
}

// at returns the given wall-clock hour on t's calendar day.
func (p BusinessHoursPolicy) at(t time.Time, hour int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, p.Location)
}

// IsWithinBusinessHours reports whether iv lies on a working day between
// opening and closing time of its start day and does not touch the lunch
// break. Ending exactly at LunchStart or starting exactly at LunchEnd is fine.
func (p BusinessHoursPolicy) IsWithinBusinessHours(iv models.TimeInterval) bool {
	if !iv.Valid() {
		return false
	}
	iv = iv.In(p.Location)

	if !p.WorkingDays[iv.Start.Weekday()] {
		return false
	}
	if iv.Start.Before(p.at(iv.Start, p.OpenHour)) {
		return false
	}
	if iv.End.After(p.at(iv.Start, p.CloseHour)) {
		return false
	}

	lunch := models.TimeInterval{
		Start: p.at(iv.Start, p.LunchStart),
		End:   p.at(iv.Start, p.LunchEnd),
	}
	return !iv.Overlaps(lunch)
}

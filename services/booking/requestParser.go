package booking

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"solarbot/models"
)

const (
	defaultWeekday = time.Tuesday
	defaultHour    = 14
	defaultMinute  = 0
	earliestHour   = 9
	latestHour     = 17
)

// weekdayNames is scanned in order; the first name contained in the message wins.
var weekdayNames = []struct {
	name string
	day  time.Weekday
}{
	{"montag", time.Monday},
	{"dienstag", time.Tuesday},
	{"mittwoch", time.Wednesday},
	{"donnerstag", time.Thursday},
	{"freitag", time.Friday},
}

var timePattern = regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?\s*(?:uhr)?`)

// ParsedRequest is the weekday and time extracted from a free-text message.
type ParsedRequest struct {
	Weekday time.Weekday `json:"weekday"`
	Hour    int          `json:"hour"`
	Minute  int          `json:"minute"`
}

// AppointmentRequestParser turns German free text such as
// "Mittwoch um 15:30 Uhr" into a concrete appointment slot.
type AppointmentRequestParser struct {
	Location *time.Location
	Now      func() time.Time
}

func NewAppointmentRequestParser(loc *time.Location) *AppointmentRequestParser {
	if loc == nil {
		loc = time.UTC
	}
	return &AppointmentRequestParser{Location: loc, Now: time.Now}
}

// Parse never fails: unknown weekdays default to Tuesday and missing or
// out-of-hours times default to 14:00.
func (p *AppointmentRequestParser) Parse(text string) ParsedRequest {
	msg := strings.ToLower(text)

	req := ParsedRequest{Weekday: defaultWeekday, Hour: defaultHour, Minute: defaultMinute}
	for _, wd := range weekdayNames {
		if strings.Contains(msg, wd.name) {
			req.Weekday = wd.day
			break
		}
	}

	if m := timePattern.FindStringSubmatch(msg); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		req.Hour, req.Minute = hour, minute
	}

	if req.Hour < earliestHour || req.Hour > latestHour || req.Minute > 59 {
		req.Hour, req.Minute = defaultHour, defaultMinute
	}
	return req
}

// NextAvailableDate returns the next occurrence of weekday at hour:minute in
// the parser's location.
func (p *AppointmentRequestParser) NextAvailableDate(weekday time.Weekday, hour, minute int) time.Time {
	return NextOccurrence(p.now().In(p.Location), weekday, hour, minute)
}

// ResolveInterval parses text and returns the resulting one-hour slot.
func (p *AppointmentRequestParser) ResolveInterval(text string) (ParsedRequest, models.TimeInterval) {
	req := p.Parse(text)
	start := p.NextAvailableDate(req.Weekday, req.Hour, req.Minute)
	return req, models.TimeInterval{Start: start, End: start.Add(SlotDuration)}
}

func (p *AppointmentRequestParser) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// NextOccurrence finds the next weekday relative to now. When now already is
// that weekday the same day is used unless the current hour has reached the
// requested hour, in which case it rolls over to the following week.
func NextOccurrence(now time.Time, weekday time.Weekday, hour, minute int) time.Time {
	days := (int(weekday) - int(now.Weekday()) + 7) % 7
	if days == 0 && now.Hour() >= hour {
		days = 7
	}
	d := now.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, now.Location())
}

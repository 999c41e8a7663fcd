package booking

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	p := NewAppointmentRequestParser(berlin())

	tests := []struct {
		text    string
		weekday time.Weekday
		hour    int
		minute  int
	}{
		{"Ich hätte gerne einen Termin am Mittwoch um 15:30 Uhr", time.Wednesday, 15, 30},
		{"Freitag 10 uhr passt mir", time.Friday, 10, 0},
		{"DONNERSTAG um 17 Uhr", time.Thursday, 17, 0},
		{"Montag um 20 Uhr", time.Monday, 14, 0},
		{"Ich möchte einen Termin am Mittwoch um 20 Uhr", time.Wednesday, 14, 0},
		{"Montag um 8 Uhr", time.Monday, 14, 0},
		{"Hallo, wann haben Sie Zeit?", time.Tuesday, 14, 0},
		{"Dienstag oder Montag um 9", time.Monday, 9, 0},
		{"Mittwoch 9:75", time.Wednesday, 14, 0},
		{"Samstag um 11 Uhr", time.Tuesday, 11, 0},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := p.Parse(tt.text)
			if got.Weekday != tt.weekday || got.Hour != tt.hour || got.Minute != tt.minute {
				t.Errorf("Parse(%q) = %v %02d:%02d, want %v %02d:%02d",
					tt.text, got.Weekday, got.Hour, got.Minute, tt.weekday, tt.hour, tt.minute)
			}
		})
	}
}

func TestNextOccurrence(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		weekday time.Weekday
		hour    int
		want    time.Time
	}{
		{"monday asks for tuesday", at(18, 10, 0), time.Tuesday, 14, at(19, 14, 0)},
		{"tuesday after requested hour", at(19, 15, 0), time.Tuesday, 14, at(26, 14, 0)},
		{"tuesday at requested hour", at(19, 14, 0), time.Tuesday, 14, at(26, 14, 0)},
		{"tuesday before requested hour", at(19, 10, 0), time.Tuesday, 14, at(19, 14, 0)},
		{"friday asks for monday", at(22, 9, 0), time.Monday, 9, at(25, 9, 0)},
		{"wednesday asks for tuesday", at(20, 9, 0), time.Tuesday, 11, at(26, 11, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextOccurrence(tt.now, tt.weekday, tt.hour, 0)
			if !got.Equal(tt.want) {
				t.Errorf("NextOccurrence = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveIntervalUsesClock(t *testing.T) {
	p := NewAppointmentRequestParser(berlin())
	p.Now = func() time.Time { return at(18, 10, 0) }

	req, iv := p.ResolveInterval("Können wir uns Donnerstag um 13:30 treffen?")
	if req.Weekday != time.Thursday {
		t.Fatalf("weekday = %v, want Thursday", req.Weekday)
	}
	if !iv.Start.Equal(at(21, 13, 30)) || !iv.End.Equal(at(21, 14, 30)) {
		t.Errorf("interval = %v - %v, want Thu 21st 13:30-14:30", iv.Start, iv.End)
	}
}

func TestParseTimestamp(t *testing.T) {
	loc := berlin()
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2024-11-19T14:00:00+01:00", at(19, 14, 0), false},
		{"2024-11-19T13:00:00Z", at(19, 14, 0), false},
		{"2024-11-19T14:00:00", at(19, 14, 0), false},
		{" 2024-11-19 14:30 ", at(19, 14, 30), false},
		{"Dienstag", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in, loc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v", err)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

package entity

import (
	"strings"
	"time"
)

var (
	dateLayouts = []string{"02/01/06", "2/1/06", "02/01/2006", "2/1/2006", "2006-01-02"}
	hourLayouts = []string{"15:04", "15h04", "15H04", "15h"}
)

// ParseDate attempts to parse a match's date and hour display text.
// Returns time.Time{} (zero value) if the date cannot be parsed. An
// unparseable hour leaves the time at midnight.
// Supports dates "15/10/22", "15/10/2022", "2022-10-15" and hours "20:30", "20h30".
func ParseDate(date, hour string) time.Time {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Time{}
	}

	var day time.Time
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, date)
		if err == nil {
			day = t
			break
		}
	}
	if day.IsZero() {
		return time.Time{}
	}

	hour = strings.TrimSpace(hour)
	for _, layout := range hourLayouts {
		t, err := time.Parse(layout, hour)
		if err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
		}
	}

	return day
}

// When returns the parsed date and hour of the match
func (m Match) When() time.Time {
	return ParseDate(m.Date, m.Hour)
}

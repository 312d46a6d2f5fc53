package models

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// ParseClock converts "HH:MM" into minutes from midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock converts minutes from midnight into "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// AppointmentTime combines a booking date and clock time in the given location.
func AppointmentTime(date, clock string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" 15:04", date+" "+clock, loc)
}

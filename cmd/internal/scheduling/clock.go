package scheduling

import (
	"errors"
	"fmt"
	"time"
)

const (
	MinutesPerDay = 24 * 60
	DateLayout    = "2006-01-02"
	ClockLayout   = "15:04"
)

var (
	ErrInvalidClock = errors.New("time must be HH:MM in 24-hour format")
	ErrInvalidDate  = errors.New("date must be YYYY-MM-DD")
)

// ParseClock converts a zero-padded "HH:MM" wall-clock string into
// minutes since midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, ErrInvalidClock
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, ErrInvalidClock
		}
	}

	hours := int(s[0]-'0')*10 + int(s[1]-'0')
	minutes := int(s[3]-'0')*10 + int(s[4]-'0')
	if hours > 23 || minutes > 59 {
		return 0, ErrInvalidClock
	}
	return hours*60 + minutes, nil
}

// FormatClock is the inverse of ParseClock. End times past midnight keep
// counting hours (1445 -> "24:05") so they never wrap onto the same day.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate parses a calendar day in local wall-clock time.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// At returns the local instant for a date plus minutes since midnight.
func At(date time.Time, minutes int) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, time.Local)
}

package schedtime

import (
	"fmt"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

// TimeOfDay is a wall-clock hour:minute pair without a date or zone.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:mm" (24h clock).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: expected HH:mm", s)
	}

	hour, ok := parseDigits(parts[0])
	if !ok || hour > 23 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: hour must be 00-23", s)
	}
	minute, ok := parseDigits(parts[1])
	if !ok || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: minute must be 00-59", s)
	}

	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// parseDigits accepts ASCII digits only; no sign, no spaces.
func parseDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) minutes() int {
	return t.Hour*60 + t.Minute
}

func timeOfDayFromMinutes(m int) TimeOfDay {
	m = ((m % minutesPerDay) + minutesPerDay) % minutesPerDay
	return TimeOfDay{Hour: m / 60, Minute: m % 60}
}

const (
	MinOffset = -12 * time.Hour
	MaxOffset = 14 * time.Hour
)

// ParseOffset parses a UTC offset such as "+14:00", "-05:30", "+0545", "Z" or "UTC".
func ParseOffset(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "Z") || strings.EqualFold(s, "UTC") {
		return 0, nil
	}

	sign := time.Duration(1)
	switch s[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return 0, fmt.Errorf("invalid utc offset %q: must start with + or -", s)
	}

	body := strings.ReplaceAll(s[1:], ":", "")
	if len(body) != 2 && len(body) != 4 {
		return 0, fmt.Errorf("invalid utc offset %q: expected ±HH:mm", s)
	}

	hours, ok := parseDigits(body[:2])
	if !ok {
		return 0, fmt.Errorf("invalid utc offset %q: hour must be two digits", s)
	}
	minutes := 0
	if len(body) == 4 {
		if minutes, ok = parseDigits(body[2:]); !ok || minutes > 59 {
			return 0, fmt.Errorf("invalid utc offset %q: minute must be 00-59", s)
		}
	}

	offset := sign * (time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute)
	if err := validateOffset(offset); err != nil {
		return 0, err
	}
	return offset, nil
}

// FormatOffset renders an offset as ±HH:mm.
func FormatOffset(offset time.Duration) string {
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	total := int(offset / time.Minute)
	return fmt.Sprintf("%c%02d:%02d", sign, total/60, total%60)
}

func validateOffset(offset time.Duration) error {
	if offset < MinOffset || offset > MaxOffset {
		return fmt.Errorf("utc offset %s out of range [-12:00, +14:00]", FormatOffset(offset))
	}
	if offset%time.Minute != 0 {
		return fmt.Errorf("utc offset must be a whole number of minutes")
	}
	return nil
}

// Package schedtime converts the UTC fields of a recurring backup schedule to
// and from the wall-clock values seen in a viewer's time zone.
//
// Schedules are always persisted in UTC. Conversion only exists for display and
// editing, so every function here is pure and depends on nothing but its
// arguments and the converter's fixed offset.
package schedtime

import (
	"fmt"
	"time"
)

// anchorYear/anchorMonth name a month with 31 days whose preceding month also
// has 31 days, so every day-of-month 1-31 is constructible and a one day shift
// in either direction lands on a well defined calendar day. January 1st 2024
// is also a Monday, which makes day N of the anchor month weekday N.
const (
	anchorYear  = 2024
	anchorMonth = time.January
)

// Converter maps schedule fields between UTC and a fixed UTC offset.
type Converter struct {
	offset time.Duration
	local  *time.Location
}

// New returns a converter for the given offset east of UTC.
func New(offset time.Duration) (*Converter, error) {
	if err := validateOffset(offset); err != nil {
		return nil, err
	}
	return &Converter{
		offset: offset,
		local:  time.FixedZone(FormatOffset(offset), int(offset/time.Second)),
	}, nil
}

// ForLocation samples the offset that loc has at the given instant. DST zones
// therefore convert with the offset in effect "now", matching what the viewer
// sees on the wall clock while editing.
func ForLocation(loc *time.Location, at time.Time) (*Converter, error) {
	if loc == nil {
		return nil, fmt.Errorf("location is required")
	}
	_, seconds := at.In(loc).Zone()
	return New(time.Duration(seconds) * time.Second)
}

// UTC returns the identity converter.
func UTC() *Converter {
	c, _ := New(0)
	return c
}

func (c *Converter) Offset() time.Duration {
	return c.offset
}

func (c *Converter) ToLocalTimeOfDay(utc TimeOfDay) (TimeOfDay, error) {
	if err := utc.validate(); err != nil {
		return TimeOfDay{}, err
	}
	return timeOfDayFromMinutes(utc.minutes() + int(c.offset/time.Minute)), nil
}

func (c *Converter) ToUTCTimeOfDay(local TimeOfDay) (TimeOfDay, error) {
	if err := local.validate(); err != nil {
		return TimeOfDay{}, err
	}
	return timeOfDayFromMinutes(local.minutes() - int(c.offset/time.Minute)), nil
}

// ToLocalWeekday returns the local weekday (1=Monday..7=Sunday) on which a
// schedule firing at utcTime on utcWeekday is observed.
func (c *Converter) ToLocalWeekday(utcWeekday int, utcTime TimeOfDay) (int, error) {
	if err := validateWeekday(utcWeekday); err != nil {
		return 0, err
	}
	delta, err := c.dayDelta(utcWeekday, utcTime, time.UTC, c.local)
	if err != nil {
		return 0, err
	}
	return shiftWeekday(utcWeekday, delta), nil
}

// ToUTCWeekday is the inverse of ToLocalWeekday: localTime is the local
// time-of-day the viewer picked.
func (c *Converter) ToUTCWeekday(localWeekday int, localTime TimeOfDay) (int, error) {
	if err := validateWeekday(localWeekday); err != nil {
		return 0, err
	}
	delta, err := c.dayDelta(localWeekday, localTime, c.local, time.UTC)
	if err != nil {
		return 0, err
	}
	return shiftWeekday(localWeekday, delta), nil
}

// ToLocalDayOfMonth converts on the anchor month. The real month length is
// unknown when a schedule is defined, so the result is not clamped for short
// months; skipping those is up to whoever evaluates the schedule.
func (c *Converter) ToLocalDayOfMonth(utcDayOfMonth int, utcTime TimeOfDay) (int, error) {
	if err := validateDayOfMonth(utcDayOfMonth); err != nil {
		return 0, err
	}
	shifted, err := reinterpret(utcDayOfMonth, utcTime, time.UTC, c.local)
	if err != nil {
		return 0, err
	}
	return shifted.Day(), nil
}

func (c *Converter) ToUTCDayOfMonth(localDayOfMonth int, localTime TimeOfDay) (int, error) {
	if err := validateDayOfMonth(localDayOfMonth); err != nil {
		return 0, err
	}
	shifted, err := reinterpret(localDayOfMonth, localTime, c.local, time.UTC)
	if err != nil {
		return 0, err
	}
	return shifted.Day(), nil
}

// dayDelta is -1, 0 or +1 depending on whether the instant built from day/t
// in zone from falls on the previous, same or next calendar day in zone to.
func (c *Converter) dayDelta(day int, t TimeOfDay, from, to *time.Location) (int, error) {
	shifted, err := reinterpret(day, t, from, to)
	if err != nil {
		return 0, err
	}
	ref := time.Date(anchorYear, anchorMonth, day, 0, 0, 0, 0, time.UTC)
	got := time.Date(shifted.Year(), shifted.Month(), shifted.Day(), 0, 0, 0, 0, time.UTC)
	return int(got.Sub(ref) / (24 * time.Hour)), nil
}

func reinterpret(day int, t TimeOfDay, from, to *time.Location) (time.Time, error) {
	if err := t.validate(); err != nil {
		return time.Time{}, err
	}
	ref := time.Date(anchorYear, anchorMonth, day, t.Hour, t.Minute, 0, 0, from)
	return ref.In(to), nil
}

func shiftWeekday(weekday, delta int) int {
	return ((weekday-1+delta+7)%7 + 1)
}

func validateWeekday(w int) error {
	if w < 1 || w > 7 {
		return fmt.Errorf("weekday must be between 1 (Monday) and 7 (Sunday), got %d", w)
	}
	return nil
}

func validateDayOfMonth(d int) error {
	if d < 1 || d > 31 {
		return fmt.Errorf("day of month must be between 1 and 31, got %d", d)
	}
	return nil
}

func (t TimeOfDay) validate() error {
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return fmt.Errorf("invalid time of day %02d:%02d", t.Hour, t.Minute)
	}
	return nil
}

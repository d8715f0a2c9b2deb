package domain

import (
	"fmt"
	"time"

	"github.com/martijn/clustercalm/internal/core/schedtime"
	"github.com/robfig/cron/v3"
)

type IntervalType string

const (
	IntervalHourly  IntervalType = "HOURLY"
	IntervalDaily   IntervalType = "DAILY"
	IntervalWeekly  IntervalType = "WEEKLY"
	IntervalMonthly IntervalType = "MONTHLY"
)

func (t IntervalType) IsValid() bool {
	switch t {
	case IntervalHourly, IntervalDaily, IntervalWeekly, IntervalMonthly:
		return true
	}
	return false
}

// Interval is a recurring backup schedule. TimeOfDay, Weekday and DayOfMonth
// are always UTC; only the fields relevant to Interval are populated.
type Interval struct {
	Interval   IntervalType
	TimeOfDay  *string // HH:mm
	Weekday    *int    // 1=Monday..7=Sunday
	DayOfMonth *int    // 1-31
}

// Normalize drops the fields that are meaningless for the interval type.
func (i *Interval) Normalize() {
	switch i.Interval {
	case IntervalHourly:
		i.TimeOfDay, i.Weekday, i.DayOfMonth = nil, nil, nil
	case IntervalDaily:
		i.Weekday, i.DayOfMonth = nil, nil
	case IntervalWeekly:
		i.DayOfMonth = nil
	case IntervalMonthly:
		i.Weekday = nil
	}

	if i.TimeOfDay != nil {
		if tod, err := schedtime.ParseTimeOfDay(*i.TimeOfDay); err == nil {
			canonical := tod.String()
			i.TimeOfDay = &canonical
		}
	}
}

func (i *Interval) Validate() error {
	if !i.Interval.IsValid() {
		return NewValidationError("interval must be one of HOURLY, DAILY, WEEKLY, MONTHLY, got %q", i.Interval)
	}
	if i.Interval == IntervalHourly {
		return nil
	}

	if i.TimeOfDay == nil {
		return NewValidationError("timeOfDay is required for %s intervals", i.Interval)
	}
	if _, err := schedtime.ParseTimeOfDay(*i.TimeOfDay); err != nil {
		return NewValidationError("%s", err.Error())
	}

	switch i.Interval {
	case IntervalWeekly:
		if i.Weekday == nil {
			return NewValidationError("weekday is required for WEEKLY intervals")
		}
		if *i.Weekday < 1 || *i.Weekday > 7 {
			return NewValidationError("weekday must be between 1 (Monday) and 7 (Sunday), got %d", *i.Weekday)
		}
	case IntervalMonthly:
		if i.DayOfMonth == nil {
			return NewValidationError("dayOfMonth is required for MONTHLY intervals")
		}
		if *i.DayOfMonth < 1 || *i.DayOfMonth > 31 {
			return NewValidationError("dayOfMonth must be between 1 and 31, got %d", *i.DayOfMonth)
		}
	}

	return nil
}

// Equal compares the fields relevant to the interval type. A nil interval
// only equals another nil interval.
func (i *Interval) Equal(other *Interval) bool {
	if i == nil || other == nil {
		return i == nil && other == nil
	}
	if i.Interval != other.Interval {
		return false
	}

	switch i.Interval {
	case IntervalHourly:
		return true
	case IntervalDaily:
		return eqTimeOfDay(i.TimeOfDay, other.TimeOfDay)
	case IntervalWeekly:
		return eqTimeOfDay(i.TimeOfDay, other.TimeOfDay) && eqPtr(i.Weekday, other.Weekday)
	case IntervalMonthly:
		return eqTimeOfDay(i.TimeOfDay, other.TimeOfDay) && eqPtr(i.DayOfMonth, other.DayOfMonth)
	}
	return eqTimeOfDay(i.TimeOfDay, other.TimeOfDay) &&
		eqPtr(i.Weekday, other.Weekday) &&
		eqPtr(i.DayOfMonth, other.DayOfMonth)
}

// Clone returns a deep copy so callers can hand the same schedule to several
// databases without sharing pointers.
func (i *Interval) Clone() *Interval {
	if i == nil {
		return nil
	}
	c := &Interval{Interval: i.Interval}
	if i.TimeOfDay != nil {
		v := *i.TimeOfDay
		c.TimeOfDay = &v
	}
	if i.Weekday != nil {
		v := *i.Weekday
		c.Weekday = &v
	}
	if i.DayOfMonth != nil {
		v := *i.DayOfMonth
		c.DayOfMonth = &v
	}
	return c
}

// ToLocal returns a copy of the interval with weekday, day of month and time
// of day expressed in the converter's zone.
func (i *Interval) ToLocal(conv *schedtime.Converter) (*Interval, error) {
	return i.convert(conv, true)
}

// ToUTC is the inverse of ToLocal: the receiver holds local values.
func (i *Interval) ToUTC(conv *schedtime.Converter) (*Interval, error) {
	return i.convert(conv, false)
}

func (i *Interval) convert(conv *schedtime.Converter, toLocal bool) (*Interval, error) {
	if err := i.Validate(); err != nil {
		return nil, err
	}
	out := i.Clone()
	out.Normalize()
	if out.TimeOfDay == nil {
		return out, nil
	}

	tod, err := schedtime.ParseTimeOfDay(*out.TimeOfDay)
	if err != nil {
		return nil, NewValidationError("%s", err.Error())
	}

	var converted schedtime.TimeOfDay
	if toLocal {
		converted, err = conv.ToLocalTimeOfDay(tod)
	} else {
		converted, err = conv.ToUTCTimeOfDay(tod)
	}
	if err != nil {
		return nil, NewValidationError("%s", err.Error())
	}

	if out.Weekday != nil {
		var w int
		if toLocal {
			w, err = conv.ToLocalWeekday(*out.Weekday, tod)
		} else {
			w, err = conv.ToUTCWeekday(*out.Weekday, tod)
		}
		if err != nil {
			return nil, NewValidationError("%s", err.Error())
		}
		out.Weekday = &w
	}

	if out.DayOfMonth != nil {
		var d int
		if toLocal {
			d, err = conv.ToLocalDayOfMonth(*out.DayOfMonth, tod)
		} else {
			d, err = conv.ToUTCDayOfMonth(*out.DayOfMonth, tod)
		}
		if err != nil {
			return nil, NewValidationError("%s", err.Error())
		}
		out.DayOfMonth = &d
	}

	s := converted.String()
	out.TimeOfDay = &s
	return out, nil
}

// CronSpec renders the interval as a standard five field cron expression
// evaluated in UTC.
func (i *Interval) CronSpec() (string, error) {
	if err := i.Validate(); err != nil {
		return "", err
	}
	if i.Interval == IntervalHourly {
		return "0 * * * *", nil
	}

	tod, _ := schedtime.ParseTimeOfDay(*i.TimeOfDay)
	switch i.Interval {
	case IntervalWeekly:
		// cron counts Sunday as 0
		return fmt.Sprintf("%d %d * * %d", tod.Minute, tod.Hour, *i.Weekday%7), nil
	case IntervalMonthly:
		return fmt.Sprintf("%d %d %d * *", tod.Minute, tod.Hour, *i.DayOfMonth), nil
	default:
		return fmt.Sprintf("%d %d * * *", tod.Minute, tod.Hour), nil
	}
}

// NextRun returns the first UTC occurrence strictly after the given instant.
// Months without the configured day are skipped.
func (i *Interval) NextRun(after time.Time) (time.Time, error) {
	spec, err := i.CronSpec()
	if err != nil {
		return time.Time{}, err
	}
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse cron spec %q: %w", spec, err)
	}
	return schedule.Next(after.UTC()), nil
}

func eqPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// eqTimeOfDay compares parsed wall-clock times; unparsable values fall back
// to string equality.
func eqTimeOfDay(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, errA := schedtime.ParseTimeOfDay(*a)
	tb, errB := schedtime.ParseTimeOfDay(*b)
	if errA != nil || errB != nil {
		return *a == *b
	}
	return ta == tb
}

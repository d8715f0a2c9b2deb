package sqlite

import (
	"database/sql"

	"github.com/martijn/clustercalm/internal/core/domain"
)

// intervalColumns maps an optional domain.Interval onto the nullable
// interval_type/time_of_day/weekday/day_of_month columns shared by the
// cluster and database tables.
type intervalColumns struct {
	IntervalType sql.NullString `db:"interval_type"`
	TimeOfDay    sql.NullString `db:"time_of_day"`
	Weekday      sql.NullInt64  `db:"weekday"`
	DayOfMonth   sql.NullInt64  `db:"day_of_month"`
}

func newIntervalColumns(i *domain.Interval) intervalColumns {
	if i == nil {
		return intervalColumns{}
	}
	n := i.Clone()
	n.Normalize()
	t := string(n.Interval)
	return intervalColumns{
		IntervalType: NullString(&t),
		TimeOfDay:    NullString(n.TimeOfDay),
		Weekday:      NullInt(n.Weekday),
		DayOfMonth:   NullInt(n.DayOfMonth),
	}
}

func (c intervalColumns) toDomain() *domain.Interval {
	if !c.IntervalType.Valid {
		return nil
	}
	return &domain.Interval{
		Interval:   domain.IntervalType(c.IntervalType.String),
		TimeOfDay:  stringPtr(c.TimeOfDay),
		Weekday:    intPtr(c.Weekday),
		DayOfMonth: intPtr(c.DayOfMonth),
	}
}

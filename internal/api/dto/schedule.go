package dto

import "time"

// Interval is the wire form of a recurring schedule
type Interval struct {
	Interval   string  `json:"interval" binding:"required,oneof=HOURLY DAILY WEEKLY MONTHLY"`
	TimeOfDay  *string `json:"timeOfDay,omitempty"`  // HH:mm
	Weekday    *int    `json:"weekday,omitempty"`    // 1=Monday..7=Sunday
	DayOfMonth *int    `json:"dayOfMonth,omitempty"` // 1-31
}

// ScheduleConvertRequest converts an interval between UTC and a viewer's
// local time. Either UTCOffset ("+02:00") or Timezone ("Europe/Amsterdam")
// must be given.
type ScheduleConvertRequest struct {
	Interval  Interval `json:"interval" binding:"required"`
	UTCOffset *string  `json:"utcOffset,omitempty"`
	Timezone  *string  `json:"timezone,omitempty"`
	Direction string   `json:"direction" binding:"required,oneof=to_local to_utc"`
}

// ScheduleConvertResponse carries the converted interval. NextRun is the next
// UTC occurrence of the UTC side of the conversion.
type ScheduleConvertResponse struct {
	Interval  Interval   `json:"interval"`
	UTCOffset string     `json:"utcOffset"`
	NextRun   *time.Time `json:"nextRun,omitempty"`
}

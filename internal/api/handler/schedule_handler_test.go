package handler

import (
	"net/http"
	"testing"

	"github.com/martijn/clustercalm/internal/api/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertSchedule(t *testing.T) {
	tests := []struct {
		name     string
		req      dto.ScheduleConvertRequest
		expected dto.Interval
		offset   string
	}{
		{
			name: "UTC+14 Sunday late evening is Monday locally",
			req: dto.ScheduleConvertRequest{
				Interval:  dto.Interval{Interval: "WEEKLY", TimeOfDay: ptr("23:30"), Weekday: ptr(7)},
				UTCOffset: ptr("+14:00"),
				Direction: "to_local",
			},
			expected: dto.Interval{Interval: "WEEKLY", TimeOfDay: ptr("13:30"), Weekday: ptr(1)},
			offset:   "+14:00",
		},
		{
			name: "local Monday morning in UTC+14 is Sunday in UTC",
			req: dto.ScheduleConvertRequest{
				Interval:  dto.Interval{Interval: "WEEKLY", TimeOfDay: ptr("13:30"), Weekday: ptr(1)},
				UTCOffset: ptr("+14:00"),
				Direction: "to_utc",
			},
			expected: dto.Interval{Interval: "WEEKLY", TimeOfDay: ptr("23:30"), Weekday: ptr(7)},
			offset:   "+14:00",
		},
		{
			name: "monthly day one wraps onto the anchor month",
			req: dto.ScheduleConvertRequest{
				Interval:  dto.Interval{Interval: "MONTHLY", TimeOfDay: ptr("00:30"), DayOfMonth: ptr(1)},
				UTCOffset: ptr("-05:00"),
				Direction: "to_local",
			},
			expected: dto.Interval{Interval: "MONTHLY", TimeOfDay: ptr("19:30"), DayOfMonth: ptr(31)},
			offset:   "-05:00",
		},
		{
			name: "timezone name",
			req: dto.ScheduleConvertRequest{
				Interval:  dto.Interval{Interval: "DAILY", TimeOfDay: ptr("04:00")},
				Timezone:  ptr("UTC"),
				Direction: "to_local",
			},
			expected: dto.Interval{Interval: "DAILY", TimeOfDay: ptr("04:00")},
			offset:   "+00:00",
		},
		{
			name: "hourly has nothing to convert",
			req: dto.ScheduleConvertRequest{
				Interval:  dto.Interval{Interval: "HOURLY", TimeOfDay: ptr("10:00")},
				UTCOffset: ptr("+02:00"),
				Direction: "to_utc",
			},
			expected: dto.Interval{Interval: "HOURLY"},
			offset:   "+02:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t)

			w := env.makeRequest(t, http.MethodPost, "/schedule/convert", tt.req)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			resp := parseJSON[dto.ScheduleConvertResponse](t, w)
			assert.Equal(t, tt.expected, resp.Interval)
			assert.Equal(t, tt.offset, resp.UTCOffset)
			assert.NotNil(t, resp.NextRun)
		})
	}
}

func TestConvertSchedule_Errors(t *testing.T) {
	tests := []struct {
		name string
		req  any
	}{
		{"missing offset and timezone", dto.ScheduleConvertRequest{
			Interval: dto.Interval{Interval: "DAILY", TimeOfDay: ptr("04:00")}, Direction: "to_local",
		}},
		{"offset out of range", dto.ScheduleConvertRequest{
			Interval: dto.Interval{Interval: "DAILY", TimeOfDay: ptr("04:00")}, UTCOffset: ptr("+15:00"), Direction: "to_local",
		}},
		{"unknown timezone", dto.ScheduleConvertRequest{
			Interval: dto.Interval{Interval: "DAILY", TimeOfDay: ptr("04:00")}, Timezone: ptr("Mars/Olympus"), Direction: "to_local",
		}},
		{"weekday out of range", dto.ScheduleConvertRequest{
			Interval: dto.Interval{Interval: "WEEKLY", TimeOfDay: ptr("04:00"), Weekday: ptr(8)}, UTCOffset: ptr("+01:00"), Direction: "to_local",
		}},
		{"bad time of day", dto.ScheduleConvertRequest{
			Interval: dto.Interval{Interval: "DAILY", TimeOfDay: ptr("25:00")}, UTCOffset: ptr("+01:00"), Direction: "to_utc",
		}},
		{"unknown direction", dto.ScheduleConvertRequest{
			Interval: dto.Interval{Interval: "DAILY", TimeOfDay: ptr("04:00")}, UTCOffset: ptr("+01:00"), Direction: "sideways",
		}},
		{"unknown interval", dto.ScheduleConvertRequest{
			Interval: dto.Interval{Interval: "YEARLY"}, UTCOffset: ptr("+01:00"), Direction: "to_local",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t)

			w := env.makeRequest(t, http.MethodPost, "/schedule/convert", tt.req)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, http.StatusBadRequest, parseErrorResponse(t, w).Code)
		})
	}
}

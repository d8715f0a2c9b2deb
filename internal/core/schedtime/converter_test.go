package schedtime

import (
	"fmt"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// every 15 minutes from -12:00 to +14:00
func allOffsets() []time.Duration {
	var offsets []time.Duration
	for o := MinOffset; o <= MaxOffset; o += 15 * time.Minute {
		offsets = append(offsets, o)
	}
	return offsets
}

func sampleTimes() []TimeOfDay {
	var times []TimeOfDay
	for h := 0; h < 24; h++ {
		for _, m := range []int{0, 15, 30, 45, 59} {
			times = append(times, TimeOfDay{Hour: h, Minute: m})
		}
	}
	return times
}

func Test_ToLocalWeekday_RoundTripsForEveryOffset(t *testing.T) {
	for _, offset := range allOffsets() {
		conv, err := New(offset)
		require.NoError(t, err)

		for weekday := 1; weekday <= 7; weekday++ {
			for _, tod := range sampleTimes() {
				localWeekday, err := conv.ToLocalWeekday(weekday, tod)
				require.NoError(t, err)
				require.GreaterOrEqual(t, localWeekday, 1)
				require.LessOrEqual(t, localWeekday, 7)

				localTime, err := conv.ToLocalTimeOfDay(tod)
				require.NoError(t, err)

				back, err := conv.ToUTCWeekday(localWeekday, localTime)
				require.NoError(t, err)
				require.Equal(t, weekday, back,
					"offset %s weekday %d time %s", FormatOffset(offset), weekday, tod)
			}
		}
	}
}

func Test_ToLocalDayOfMonth_RoundTripsForEveryOffset(t *testing.T) {
	for _, offset := range allOffsets() {
		conv, err := New(offset)
		require.NoError(t, err)

		for day := 1; day <= 31; day++ {
			for _, tod := range sampleTimes() {
				localDay, err := conv.ToLocalDayOfMonth(day, tod)
				require.NoError(t, err)

				localTime, err := conv.ToLocalTimeOfDay(tod)
				require.NoError(t, err)

				back, err := conv.ToUTCDayOfMonth(localDay, localTime)
				require.NoError(t, err)
				require.Equal(t, day, back,
					"offset %s day %d time %s", FormatOffset(offset), day, tod)
			}
		}
	}
}

func Test_ToLocalWeekday_PlusFourteenRollsSundayIntoMonday(t *testing.T) {
	conv, err := New(14 * time.Hour)
	require.NoError(t, err)

	weekday, err := conv.ToLocalWeekday(7, TimeOfDay{Hour: 23, Minute: 30})
	require.NoError(t, err)
	assert.Equal(t, 1, weekday)

	localTime, err := conv.ToLocalTimeOfDay(TimeOfDay{Hour: 23, Minute: 30})
	require.NoError(t, err)
	assert.Equal(t, "13:30", localTime.String())
}

func Test_ToLocalWeekday_NegativeOffsetRollsMondayIntoSunday(t *testing.T) {
	conv, err := New(-5 * time.Hour)
	require.NoError(t, err)

	weekday, err := conv.ToLocalWeekday(1, TimeOfDay{Hour: 2, Minute: 0})
	require.NoError(t, err)
	assert.Equal(t, 7, weekday)
}

func Test_ToLocalDayOfMonth_WrapsOnAnchorMonth(t *testing.T) {
	tests := []struct {
		offset   time.Duration
		day      int
		tod      TimeOfDay
		expected int
	}{
		{14 * time.Hour, 31, TimeOfDay{23, 30}, 1},
		{-12 * time.Hour, 1, TimeOfDay{0, 30}, 31},
		{2 * time.Hour, 15, TimeOfDay{12, 0}, 15},
		{3 * time.Hour, 15, TimeOfDay{22, 0}, 16},
		{-3 * time.Hour, 15, TimeOfDay{1, 0}, 14},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%d_%s", FormatOffset(tt.offset), tt.day, tt.tod), func(t *testing.T) {
			conv, err := New(tt.offset)
			require.NoError(t, err)

			got, err := conv.ToLocalDayOfMonth(tt.day, tt.tod)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func Test_Converter_RejectsInvalidInput(t *testing.T) {
	conv := UTC()
	noon := TimeOfDay{Hour: 12}

	_, err := conv.ToLocalWeekday(0, noon)
	assert.Error(t, err)
	_, err = conv.ToLocalWeekday(8, noon)
	assert.Error(t, err)
	_, err = conv.ToUTCWeekday(8, noon)
	assert.Error(t, err)
	_, err = conv.ToLocalDayOfMonth(0, noon)
	assert.Error(t, err)
	_, err = conv.ToUTCDayOfMonth(32, noon)
	assert.Error(t, err)
	_, err = conv.ToLocalTimeOfDay(TimeOfDay{Hour: 24})
	assert.Error(t, err)

	_, err = New(15 * time.Hour)
	assert.Error(t, err)
	_, err = New(-13 * time.Hour)
	assert.Error(t, err)
}

func Test_ForLocation_UsesOffsetAtInstant(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Amsterdam")
	if err != nil {
		t.Skip("tzdata not available")
	}

	winter, err := ForLocation(loc, time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, time.Hour, winter.Offset())

	summer, err := ForLocation(loc, time.Date(2025, time.July, 15, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, summer.Offset())
}

func Test_ParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("04:05")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 4, Minute: 5}, tod)

	tod, err = ParseTimeOfDay(" 01:30 ")
	require.NoError(t, err)
	assert.Equal(t, "01:30", tod.String())

	for _, bad := range []string{"", "4:05", "24:00", "12:60", "ab:cd", "12:00:00", "+1:30", "-1:30", "01:+5", "1 :30"} {
		_, err := ParseTimeOfDay(bad)
		assert.Error(t, err, bad)
	}
}

func Test_ParseOffset(t *testing.T) {
	tests := map[string]time.Duration{
		"+14:00": 14 * time.Hour,
		"-05:30": -(5*time.Hour + 30*time.Minute),
		"+0545":  5*time.Hour + 45*time.Minute,
		"+02":    2 * time.Hour,
		"Z":      0,
		"UTC":    0,
	}
	for in, expected := range tests {
		got, err := ParseOffset(in)
		require.NoError(t, err, in)
		assert.Equal(t, expected, got, in)
	}

	for _, bad := range []string{"14:00", "+15:00", "-12:30", "+1:00", "+01:75", "+-5:00", "-+5:00", "+ 5:00", "+05:-1"} {
		_, err := ParseOffset(bad)
		assert.Error(t, err, bad)
	}
}

package cli

import (
	"fmt"
	"time"

	"github.com/martijn/clustercalm/internal/core/domain"
	"github.com/martijn/clustercalm/internal/core/schedtime"
	"github.com/spf13/cobra"
)

var scheduleFlags struct {
	interval   string
	timeOfDay  string
	weekday    int
	dayOfMonth int
	offset     string
	timezone   string
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Convert backup schedules between UTC and local time",
	Long: `Schedules are stored in UTC. These commands show what a stored schedule
looks like in a given zone, or which UTC schedule to store for a local one.`,
}

var scheduleToLocalCmd = &cobra.Command{
	Use:   "to-local",
	Short: "Convert a UTC schedule to local time",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScheduleConversion(true)
	},
}

var scheduleToUTCCmd = &cobra.Command{
	Use:   "to-utc",
	Short: "Convert a local schedule to UTC",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScheduleConversion(false)
	},
}

func runScheduleConversion(toLocal bool) error {
	now := time.Now()

	conv, err := scheduleConverter(now)
	if err != nil {
		return err
	}

	in := &domain.Interval{Interval: domain.IntervalType(scheduleFlags.interval)}
	if scheduleFlags.timeOfDay != "" {
		in.TimeOfDay = &scheduleFlags.timeOfDay
	}
	if scheduleFlags.weekday != 0 {
		in.Weekday = &scheduleFlags.weekday
	}
	if scheduleFlags.dayOfMonth != 0 {
		in.DayOfMonth = &scheduleFlags.dayOfMonth
	}

	var out, utc *domain.Interval
	if toLocal {
		out, err = in.ToLocal(conv)
		utc = in
	} else {
		out, err = in.ToUTC(conv)
		utc = out
	}
	if err != nil {
		return err
	}

	zone := "UTC"
	if toLocal {
		zone = "UTC" + schedtime.FormatOffset(conv.Offset())
	}
	fmt.Printf("Schedule: %s\n", formatInterval(out, zone))
	if next, err := utc.NextRun(now); err == nil {
		fmt.Printf("Next run: %s\n", next.UTC().Format(time.RFC3339))
	}
	return nil
}

func scheduleConverter(now time.Time) (*schedtime.Converter, error) {
	switch {
	case scheduleFlags.offset != "":
		offset, err := schedtime.ParseOffset(scheduleFlags.offset)
		if err != nil {
			return nil, err
		}
		return schedtime.New(offset)
	case scheduleFlags.timezone != "":
		loc, err := time.LoadLocation(scheduleFlags.timezone)
		if err != nil {
			return nil, fmt.Errorf("unknown timezone %q", scheduleFlags.timezone)
		}
		return schedtime.ForLocation(loc, now)
	default:
		return schedtime.ForLocation(time.Local, now)
	}
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.AddCommand(scheduleToLocalCmd)
	scheduleCmd.AddCommand(scheduleToUTCCmd)

	flags := scheduleCmd.PersistentFlags()
	flags.StringVar(&scheduleFlags.interval, "interval", string(domain.IntervalDaily), "HOURLY, DAILY, WEEKLY or MONTHLY")
	flags.StringVar(&scheduleFlags.timeOfDay, "time", "", "time of day as HH:mm")
	flags.IntVar(&scheduleFlags.weekday, "weekday", 0, "weekday, 1=Monday..7=Sunday")
	flags.IntVar(&scheduleFlags.dayOfMonth, "day", 0, "day of month, 1-31")
	flags.StringVar(&scheduleFlags.offset, "offset", "", "UTC offset such as +02:00")
	flags.StringVar(&scheduleFlags.timezone, "timezone", "", "IANA zone such as Europe/Amsterdam (default is the system zone)")
}

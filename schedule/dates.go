package schedule

import (
	"fmt"
	"sync"
	"time"

	"clementus360/day-planner/config"
)

const civilDateLayout = "2006-01-02"

var (
	locOnce sync.Once
	loc     *time.Location
)

// Location returns the civil calendar the whole system schedules in
// (Europe/London unless reconfigured).
func Location() *time.Location {
	locOnce.Do(func() {
		var err error
		loc, err = time.LoadLocation(config.Scheduling.Timezone)
		if err != nil {
			config.Logger.Error("Failed to load scheduling timezone, falling back to UTC: ", err)
			loc = time.UTC
		}
	})
	return loc
}

// ParseCivilDate parses an ISO YYYY-MM-DD string into a date-only value.
// Civil dates are normalized to UTC midnight so that day arithmetic stays
// exact across DST transitions; only full timestamps carry the local zone.
func ParseCivilDate(s string) (time.Time, error) {
	d, err := time.Parse(civilDateLayout, s)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Reason: fmt.Sprintf("not a YYYY-MM-DD civil date: %q", s)}
	}
	return d, nil
}

func FormatCivilDate(d time.Time) string {
	return d.Format(civilDateLayout)
}

// CivilToday returns the current civil date in the scheduling timezone.
func CivilToday(now time.Time) time.Time {
	y, m, d := now.In(Location()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CombineLocal composes a civil date with an HH:MM[:SS] local clock string
// into a full timestamp in the scheduling timezone.
func CombineLocal(day time.Time, clock string) (time.Time, error) {
	h, m, s, err := parseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, s, 0, Location()), nil
}

// LocalClock extracts the HH:MM local clock string from a timestamp.
func LocalClock(t time.Time) string {
	return t.In(Location()).Format("15:04")
}

func parseClock(clock string) (h, m, s int, err error) {
	switch len(clock) {
	case 5:
		_, err = fmt.Sscanf(clock, "%2d:%2d", &h, &m)
	case 8:
		_, err = fmt.Sscanf(clock, "%2d:%2d:%2d", &h, &m, &s)
	default:
		err = fmt.Errorf("unrecognized clock length")
	}
	if err != nil || h < 0 || h > 23 || m < 0 || m > 59 || s < 0 || s > 59 {
		return 0, 0, 0, &ValidationError{Field: "start_time", Reason: fmt.Sprintf("not an HH:MM[:SS] clock value: %q", clock)}
	}
	return h, m, s, nil
}

// DaysBetween returns b minus a in whole days for date-only values.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// MonthsBetween counts whole calendar months from a to b.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

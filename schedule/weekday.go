package schedule

import "time"

// Stored recurrence data (repeat_days, the day picker) numbers weekdays
// Monday=0 … Sunday=6, while time.Weekday is Sunday-based. All recurrence
// evaluation converts through these helpers; never compare a time.Weekday
// against repeat_days directly.

// ToCanonical converts a native Sunday-based weekday to the canonical
// Monday=0 numbering.
func ToCanonical(native time.Weekday) int {
	return (int(native) + 6) % 7
}

// ToNative is the inverse of ToCanonical.
func ToNative(canonical int) time.Weekday {
	return time.Weekday((canonical + 1) % 7)
}

func canonicalWeekdayOf(day time.Time) int {
	return ToCanonical(day.Weekday())
}

package schedule

import (
	"fmt"
	"time"

	"clementus360/day-planner/types"
)

// Recurrence units after normalization.
const (
	UnitNone    = "none"
	UnitDaily   = "daily"
	UnitWeekday = "weekday"
	UnitWeekly  = "weekly"
	UnitMonthly = "monthly"
	UnitAnnual  = "annual"
)

// Rule is a template's recurrence normalized into one canonical form. The
// legacy "repeat" alias and repeat_unit are reconciled here, once, so every
// read site sees a single source of truth: repeat_unit wins unless it is
// absent or "none", in which case the legacy field is authoritative.
type Rule struct {
	Unit       string
	Interval   int        // every N units, always >= 1
	Days       []int      // canonical weekdays, unit=weekly
	DayOfMonth int        // unit=monthly, 0 when unset
	Anchor     *time.Time // reference civil date, nil when the template has none
}

func RuleOf(tpl types.TaskTemplate) Rule {
	unit := normalizeUnit(tpl.RepeatUnit)
	if unit == UnitNone {
		unit = normalizeUnit(tpl.Repeat)
	}

	r := Rule{Unit: unit, Interval: tpl.RepeatInterval, DayOfMonth: tpl.DayOfMonth}
	if r.Interval < 1 {
		r.Interval = 1
	}
	if unit == UnitWeekly && len(tpl.RepeatDays) > 0 {
		r.Days = append(r.Days, tpl.RepeatDays...)
	}
	if tpl.Date != "" {
		if d, err := ParseCivilDate(tpl.Date); err == nil {
			r.Anchor = &d
		}
	}
	return r
}

func normalizeUnit(raw string) string {
	switch raw {
	case UnitDaily, UnitWeekday, UnitWeekly, UnitMonthly, UnitAnnual:
		return raw
	case "weekdays":
		return UnitWeekday
	case "yearly":
		return UnitAnnual
	default:
		return UnitNone
	}
}

// Recurring reports whether the rule generates occurrences at all. One-off
// tasks are placed directly by their anchor date, not by DueOn.
func (r Rule) Recurring() bool {
	return r.Unit != UnitNone
}

// DueOn reports whether an occurrence is due on the given civil date.
// ErrAmbiguousRecurrence is returned when the rule's data cannot decide;
// callers are expected to skip the template and keep going.
func (r Rule) DueOn(day time.Time) (bool, error) {
	switch r.Unit {
	case UnitNone:
		return false, nil
	case UnitDaily:
		return r.dueDaily(day)
	case UnitWeekday:
		return canonicalWeekdayOf(day) <= 4, nil
	case UnitWeekly:
		return r.dueWeekly(day)
	case UnitMonthly:
		return r.dueMonthly(day)
	case UnitAnnual:
		return r.dueAnnual(day)
	}
	return false, fmt.Errorf("%w: unknown unit %q", ErrAmbiguousRecurrence, r.Unit)
}

func (r Rule) dueDaily(day time.Time) (bool, error) {
	if r.Interval == 1 {
		return true, nil
	}
	if r.Anchor == nil {
		return false, fmt.Errorf("%w: daily interval %d with no reference date", ErrAmbiguousRecurrence, r.Interval)
	}
	gap := DaysBetween(*r.Anchor, day)
	return gap >= 0 && gap%r.Interval == 0, nil
}

func (r Rule) dueWeekly(day time.Time) (bool, error) {
	cw := canonicalWeekdayOf(day)

	if len(r.Days) == 0 {
		// No explicit day set: derive the single implied weekday from the
		// anchor date.
		if r.Anchor == nil {
			return false, fmt.Errorf("%w: weekly with neither repeat_days nor a reference date", ErrAmbiguousRecurrence)
		}
		if day.Weekday() != r.Anchor.Weekday() {
			return false, nil
		}
		return r.weeklyIntervalDue(day, cw)
	}

	match := false
	for _, d := range r.Days {
		if d == cw {
			match = true
			break
		}
	}
	if !match {
		return false, nil
	}
	// Occurrences strictly before the anchor are suppressed.
	if r.Anchor != nil && day.Before(*r.Anchor) {
		return false, nil
	}
	return r.weeklyIntervalDue(day, cw)
}

// weeklyIntervalDue applies repeat_interval in whole-week units, measured
// from the most recent matching weekday on or before the anchor date.
func (r Rule) weeklyIntervalDue(day time.Time, cw int) (bool, error) {
	if r.Interval == 1 {
		return true, nil
	}
	if r.Anchor == nil {
		return false, fmt.Errorf("%w: weekly interval %d with no reference date", ErrAmbiguousRecurrence, r.Interval)
	}
	back := (canonicalWeekdayOf(*r.Anchor) - cw + 7) % 7
	epoch := r.Anchor.AddDate(0, 0, -back)
	gap := DaysBetween(epoch, day)
	return gap >= 0 && (gap/7)%r.Interval == 0, nil
}

func (r Rule) dueMonthly(day time.Time) (bool, error) {
	dom := r.DayOfMonth
	if dom == 0 {
		if r.Anchor == nil {
			return false, fmt.Errorf("%w: monthly with neither day_of_month nor a reference date", ErrAmbiguousRecurrence)
		}
		dom = r.Anchor.Day()
	}
	// Months shorter than dom never match; no rollover to month end.
	if day.Day() != dom {
		return false, nil
	}
	if r.Interval == 1 {
		return true, nil
	}
	if r.Anchor == nil {
		return false, fmt.Errorf("%w: monthly interval %d with no reference date", ErrAmbiguousRecurrence, r.Interval)
	}
	gap := MonthsBetween(*r.Anchor, day)
	return gap >= 0 && gap%r.Interval == 0, nil
}

func (r Rule) dueAnnual(day time.Time) (bool, error) {
	if r.Anchor == nil {
		return false, fmt.Errorf("%w: annual recurrence with no reference date", ErrAmbiguousRecurrence)
	}
	if day.Month() != r.Anchor.Month() || day.Day() != r.Anchor.Day() {
		return false, nil
	}
	if r.Interval == 1 {
		return true, nil
	}
	gap := day.Year() - r.Anchor.Year()
	return gap >= 0 && gap%r.Interval == 0, nil
}

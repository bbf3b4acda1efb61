package schedule

import (
	"fmt"
	"strings"
	"time"

	"clementus360/day-planner/config"
	"clementus360/day-planner/types"

	"github.com/sirupsen/logrus"
)

// Synthetic id prefixes for projections that have not been persisted yet.
const (
	projectedIDPrefix = "future"
	oneOffIDPrefix    = "oneoff"
)

// Materialize projects the given templates over [rangeStart, rangeEnd] and
// returns the union of visible persisted rows and synthesized projections.
// Every (template, date) pair already covered by a persisted row — deleted
// or not — is skipped, which is what makes tombstones suppress regeneration.
// The call is read-only and idempotent: the same inputs always yield the
// same output, and persisting a projection removes it from the next call's
// output.
func Materialize(log *logrus.Logger, templates []types.TaskTemplate, existing []types.ScheduledTask, rangeStart, rangeEnd time.Time) []types.ScheduledTask {
	covered := make(map[string]bool, len(existing))
	out := make([]types.ScheduledTask, 0, len(existing))

	for _, row := range existing {
		if row.TemplateID != nil {
			covered[pairKey(*row.TemplateID, row.LocalDate)] = true
		}
		if !row.IsDeleted {
			out = append(out, row)
		}
	}

	for _, tpl := range templates {
		if tpl.IsDeleted {
			continue
		}
		rule := RuleOf(tpl)
		if rule.Recurring() {
			out = append(out, projectRecurring(log, tpl, rule, covered, rangeStart, rangeEnd)...)
		} else if row, ok := projectOneOff(tpl, rule, covered, rangeStart, rangeEnd); ok {
			out = append(out, row)
		}
	}
	return out
}

func projectRecurring(log *logrus.Logger, tpl types.TaskTemplate, rule Rule, covered map[string]bool, rangeStart, rangeEnd time.Time) []types.ScheduledTask {
	var out []types.ScheduledTask
	for day := rangeStart; !day.After(rangeEnd); day = day.AddDate(0, 0, 1) {
		due, err := rule.DueOn(day)
		if err != nil {
			// Data-quality condition, not a failure: skip this template and
			// let every other template keep rendering.
			if log != nil {
				log.WithField("template_id", tpl.ID).Warn("Skipping template with unevaluable recurrence: ", err)
			}
			return nil
		}
		if !due {
			continue
		}
		if covered[pairKey(tpl.ID, FormatCivilDate(day))] {
			continue
		}
		out = append(out, projection(tpl, day, projectedIDPrefix))
	}
	return out
}

func projectOneOff(tpl types.TaskTemplate, rule Rule, covered map[string]bool, rangeStart, rangeEnd time.Time) (types.ScheduledTask, bool) {
	if rule.Anchor == nil {
		return types.ScheduledTask{}, false
	}
	day := *rule.Anchor
	if day.Before(rangeStart) || day.After(rangeEnd) {
		return types.ScheduledTask{}, false
	}
	if covered[pairKey(tpl.ID, FormatCivilDate(day))] {
		return types.ScheduledTask{}, false
	}
	return projection(tpl, day, oneOffIDPrefix), true
}

func projection(tpl types.TaskTemplate, day time.Time, idPrefix string) types.ScheduledTask {
	date := FormatCivilDate(day)
	row := types.ScheduledTask{
		ID:               fmt.Sprintf("%s-%s-%s", idPrefix, tpl.ID, date),
		TemplateID:       &tpl.ID,
		UserID:           tpl.UserID,
		Title:            tpl.Title,
		Description:      tpl.Description,
		DurationMinutes:  durationOf(tpl),
		Priority:         tpl.Priority,
		LocalDate:        date,
		IsAppointment:    tpl.IsAppointment,
		IsRoutine:        tpl.IsRoutine,
		IsFixed:          tpl.IsFixed,
		IsFutureInstance: true,
	}
	if tpl.StartTime != nil && *tpl.StartTime != "" {
		if start, err := CombineLocal(day, *tpl.StartTime); err == nil {
			end := start.Add(time.Duration(row.DurationMinutes) * time.Minute)
			row.StartTime = &start
			row.EndTime = &end
		}
	}
	return row
}

func durationOf(tpl types.TaskTemplate) int {
	if tpl.DurationMinutes > 0 {
		return tpl.DurationMinutes
	}
	return config.Scheduling.DefaultFloatingDuration
}

func pairKey(templateID, localDate string) string {
	return templateID + "|" + localDate
}

// ProjectedRef identifies a not-yet-persisted occurrence encoded in a
// synthetic id of the form future-{template_id}-{date} or
// oneoff-{template_id}-{date}.
type ProjectedRef struct {
	TemplateID string
	LocalDate  string
}

// ParseProjectedID recovers the (template, date) pair from a synthetic
// projection id. Template ids may themselves contain hyphens, so the date is
// taken from the fixed-width tail.
func ParseProjectedID(id string) (ProjectedRef, bool) {
	rest, ok := strings.CutPrefix(id, projectedIDPrefix+"-")
	if !ok {
		rest, ok = strings.CutPrefix(id, oneOffIDPrefix+"-")
	}
	if !ok || len(rest) < len(civilDateLayout)+2 {
		return ProjectedRef{}, false
	}
	split := len(rest) - len(civilDateLayout)
	if rest[split-1] != '-' {
		return ProjectedRef{}, false
	}
	templateID, date := rest[:split-1], rest[split:]
	if _, err := ParseCivilDate(date); err != nil {
		return ProjectedRef{}, false
	}
	return ProjectedRef{TemplateID: templateID, LocalDate: date}, true
}

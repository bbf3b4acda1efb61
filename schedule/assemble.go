package schedule

import (
	"sort"
	"time"

	"clementus360/day-planner/types"

	"github.com/sirupsen/logrus"
)

// AssembleDay builds the "today" view for one civil date: the union of
// persisted rows and projections for that day, with display fields resolved
// against the live template. The template wins for title, description and
// priority — the user may have edited it after the row was created — while
// the row stays authoritative for timing and completion.
//
// Sort order: rows with a start time first, chronologically; rows without
// one (floating, not yet placed) after all timed rows; priority ascending
// breaks ties in both groups.
func AssembleDay(log *logrus.Logger, templates []types.TaskTemplate, existing []types.ScheduledTask, day time.Time) []types.ScheduledTask {
	rows := Materialize(log, templates, existing, day, day)

	byID := make(map[string]types.TaskTemplate, len(templates))
	for _, tpl := range templates {
		byID[tpl.ID] = tpl
	}
	for i := range rows {
		if rows[i].TemplateID == nil {
			continue
		}
		tpl, ok := byID[*rows[i].TemplateID]
		if !ok {
			continue
		}
		rows[i].Title = tpl.Title
		rows[i].Description = tpl.Description
		if tpl.Priority != 0 {
			rows[i].Priority = tpl.Priority
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch {
		case a.StartTime != nil && b.StartTime != nil:
			if !a.StartTime.Equal(*b.StartTime) {
				return a.StartTime.Before(*b.StartTime)
			}
			return a.Priority < b.Priority
		case a.StartTime != nil:
			return true
		case b.StartTime != nil:
			return false
		default:
			return a.Priority < b.Priority
		}
	})
	return rows
}

package schedule

import (
	"encoding/json"
	"fmt"

	"clementus360/day-planner/config"
	"clementus360/day-planner/types"
)

// Template kinds. Exactly one holds for a template at any time.
const (
	KindFloating    = "floating"
	KindRoutine     = "routine"
	KindAppointment = "appointment"
)

// NormalizeTemplate validates a template in place and applies the documented
// coercions: kind/flag consistency, the floating duration default, and
// demotion to floating when a timed kind has no resolvable start time.
// Anything else contradictory is a ValidationError, raised before any write.
func NormalizeTemplate(tpl *types.TaskTemplate) error {
	if tpl.Title == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}

	switch tpl.Kind {
	case "":
		// Older payloads only set the booleans; derive the kind once here.
		switch {
		case tpl.IsAppointment:
			tpl.Kind = KindAppointment
		case tpl.IsRoutine:
			tpl.Kind = KindRoutine
		default:
			tpl.Kind = KindFloating
		}
	case KindFloating, KindRoutine, KindAppointment:
	default:
		return &ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown kind %q", tpl.Kind)}
	}

	if tpl.StartTime != nil && *tpl.StartTime != "" {
		if _, _, _, err := parseClock(*tpl.StartTime); err != nil {
			return err
		}
	} else if tpl.Kind != KindFloating {
		// No resolvable start time: the effective kind degrades to floating.
		tpl.Kind = KindFloating
		tpl.StartTime = nil
	}

	tpl.IsAppointment = tpl.Kind == KindAppointment
	tpl.IsRoutine = tpl.Kind == KindRoutine
	tpl.IsFixed = tpl.IsAppointment

	if tpl.DurationMinutes < 0 {
		return &ValidationError{Field: "duration_minutes", Reason: "must be a positive number of minutes"}
	}
	if tpl.DurationMinutes == 0 {
		if tpl.Kind != KindFloating {
			return &ValidationError{Field: "duration_minutes", Reason: "required for routine and appointment templates"}
		}
		tpl.DurationMinutes = config.Scheduling.DefaultFloatingDuration
	}

	if tpl.Priority == 0 {
		tpl.Priority = config.Scheduling.DefaultPriority
	}
	if tpl.Priority < config.Scheduling.MinPriority || tpl.Priority > config.Scheduling.MaxPriority {
		return &ValidationError{Field: "priority", Reason: fmt.Sprintf("must be between %d and %d", config.Scheduling.MinPriority, config.Scheduling.MaxPriority)}
	}

	// Zero means unset and is read as "every 1 unit" by the evaluator.
	if tpl.RepeatInterval < 0 {
		return &ValidationError{Field: "repeat_interval", Reason: "must not be negative (omit or 0 for every occurrence)"}
	}
	for _, d := range tpl.RepeatDays {
		if d < 0 || d > 6 {
			return &ValidationError{Field: "repeat_days", Reason: fmt.Sprintf("weekday index %d out of range 0..6 (Monday=0)", d)}
		}
	}
	if tpl.DayOfMonth < 0 || tpl.DayOfMonth > 31 {
		return &ValidationError{Field: "day_of_month", Reason: "must be between 1 and 31"}
	}
	if tpl.Date != "" {
		if _, err := ParseCivilDate(tpl.Date); err != nil {
			return err
		}
	}

	if tpl.IsAppointment && (tpl.WindowStartLocal != nil || tpl.WindowEndLocal != nil) {
		return &ValidationError{Field: "window_start_local", Reason: "appointments anchor a fixed slot; scheduling windows do not apply"}
	}
	for _, w := range []*string{tpl.WindowStartLocal, tpl.WindowEndLocal} {
		if w != nil && *w != "" {
			if _, _, _, err := parseClock(*w); err != nil {
				return &ValidationError{Field: "window", Reason: fmt.Sprintf("not an HH:MM[:SS] clock value: %q", *w)}
			}
		}
	}
	return nil
}

// MergeTemplatePatch overlays a partial JSON update onto the stored template
// and runs the result through NormalizeTemplate, so PATCHed fields face the
// same checks and coercions as freshly created ones. It returns the merged
// template plus a column map ready to write; id, user ownership and creation
// time are never patchable.
func MergeTemplatePatch(current types.TaskTemplate, updates map[string]interface{}) (types.TaskTemplate, map[string]interface{}, error) {
	raw, err := json.Marshal(updates)
	if err != nil {
		return types.TaskTemplate{}, nil, &ValidationError{Field: "patch", Reason: "payload is not valid JSON"}
	}
	merged := current
	if err := json.Unmarshal(raw, &merged); err != nil {
		return types.TaskTemplate{}, nil, &ValidationError{Field: "patch", Reason: "fields do not match the template shape"}
	}
	if err := NormalizeTemplate(&merged); err != nil {
		return types.TaskTemplate{}, nil, err
	}

	cols, err := json.Marshal(merged)
	if err != nil {
		return types.TaskTemplate{}, nil, err
	}
	patch := map[string]interface{}{}
	if err := json.Unmarshal(cols, &patch); err != nil {
		return types.TaskTemplate{}, nil, err
	}
	delete(patch, "id")
	delete(patch, "user_id")
	delete(patch, "created_at")
	return merged, patch, nil
}

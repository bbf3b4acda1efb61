package schedule

import (
	"fmt"
	"time"

	"clementus360/day-planner/config"
	"clementus360/day-planner/types"

	"github.com/sirupsen/logrus"
)

// Store is the slice of the persistence collaborator the reconciliation
// engine needs. Implementations are already scoped to a single owner; the
// engine can never read or write another user's rows.
type Store interface {
	Template(id string) (types.TaskTemplate, error)
	ScheduledTask(id string) (types.ScheduledTask, error)
	// ScheduledTaskFor returns the row for a (template, date) pair, deleted
	// or not, or nil when no row exists.
	ScheduledTaskFor(templateID, localDate string) (*types.ScheduledTask, error)
	InsertScheduledTask(row types.ScheduledTask) (types.ScheduledTask, error)
	UpdateScheduledTask(id string, patch map[string]interface{}) error
	UpdateTemplate(id string, patch map[string]interface{}) error
}

// Scope selects whether a mutation applies to one occurrence or to the
// template governing the whole series.
type Scope string

const (
	ScopeSingle Scope = "single"
	ScopeSeries Scope = "series"
)

func ParseScope(raw string) (Scope, error) {
	switch raw {
	case "", string(ScopeSingle):
		return ScopeSingle, nil
	case string(ScopeSeries):
		return ScopeSeries, nil
	}
	return "", &ValidationError{Field: "scope", Reason: fmt.Sprintf("must be %q or %q, got %q", ScopeSingle, ScopeSeries, raw)}
}

// OccurrenceState is the explicit per-occurrence state machine, replacing
// inference from is_deleted/is_completed/is_future_instance combinations.
type OccurrenceState string

const (
	StateProjected OccurrenceState = "projected"
	StateActive    OccurrenceState = "active"
	StateCompleted OccurrenceState = "completed"
	StateDeleted   OccurrenceState = "deleted"
)

// StateOf derives the explicit state of a row.
func StateOf(row types.ScheduledTask) OccurrenceState {
	switch {
	case row.IsDeleted:
		return StateDeleted
	case row.IsCompleted:
		return StateCompleted
	case row.IsFutureInstance:
		return StateProjected
	default:
		return StateActive
	}
}

// Engine realizes user-initiated changes to occurrences and series as the
// minimal set of inserts, updates and tombstones that keeps the
// materializer's projection of the rest of the series correct.
type Engine struct {
	Store Store
	Log   *logrus.Logger
}

func NewEngine(store Store, log *logrus.Logger) *Engine {
	return &Engine{Store: store, Log: log}
}

// Move reschedules one occurrence, or rebases the series when scope is
// series. The returned row is nil for series moves, which touch only the
// template: already-materialized occurrences deliberately stay on their
// original dates.
func (e *Engine) Move(occurrenceID string, newDate time.Time, newTime string, scope Scope) (*types.ScheduledTask, error) {
	if scope == ScopeSeries {
		return nil, e.moveSeries(occurrenceID, newDate, newTime)
	}
	if ref, ok := ParseProjectedID(occurrenceID); ok {
		return e.moveProjected(ref, newDate, newTime)
	}
	return e.moveActive(occurrenceID, newDate, newTime)
}

func (e *Engine) moveProjected(ref ProjectedRef, newDate time.Time, newTime string) (*types.ScheduledTask, error) {
	tpl, err := e.Store.Template(ref.TemplateID)
	if err != nil {
		return nil, err
	}

	row, err := e.placeOccurrence(tpl, newDate, newTime, false)
	if err != nil {
		return nil, err
	}

	newDateStr := FormatCivilDate(newDate)
	if ref.LocalDate != newDateStr {
		// Suppress regeneration of the vacated date.
		if err := e.tombstone(tpl, ref.LocalDate); err != nil {
			return row, fmt.Errorf("occurrence moved but tombstone for %s failed: %w", ref.LocalDate, err)
		}
	}

	// One-off templates carry their own anchor; keep it in line with the
	// move. Recurring templates must stay untouched so the rest of the
	// series keeps projecting.
	if !RuleOf(tpl).Recurring() {
		patch := map[string]interface{}{"date": newDateStr}
		if newTime != "" {
			patch["start_time"] = newTime
		}
		if err := e.Store.UpdateTemplate(tpl.ID, patch); err != nil {
			return row, fmt.Errorf("occurrence moved but template anchor update failed: %w", err)
		}
	}
	return row, nil
}

func (e *Engine) moveActive(occurrenceID string, newDate time.Time, newTime string) (*types.ScheduledTask, error) {
	row, err := e.Store.ScheduledTask(occurrenceID)
	if err != nil {
		return nil, err
	}

	oldDate := row.LocalDate
	newDateStr := FormatCivilDate(newDate)
	clock := newTime
	if clock == "" && row.StartTime != nil {
		clock = LocalClock(*row.StartTime)
	}
	startPtr, endPtr, err := composeSlot(newDate, clock, row.DurationMinutes)
	if err != nil {
		return nil, err
	}

	if row.TemplateID != nil && newDateStr != oldDate {
		dest, err := e.Store.ScheduledTaskFor(*row.TemplateID, newDateStr)
		if err != nil {
			return nil, err
		}
		if dest != nil && dest.ID != row.ID {
			// Merge into the destination row, then retire the source, so
			// that at most one row per (template, date) survives. The
			// retired source stays at the vacated date and doubles as
			// its tombstone.
			patch := map[string]interface{}{
				"start_time":   startPtr,
				"end_time":     endPtr,
				"is_deleted":   false,
				"is_completed": row.IsCompleted,
			}
			if err := e.Store.UpdateScheduledTask(dest.ID, patch); err != nil {
				return nil, err
			}
			if err := e.Store.UpdateScheduledTask(row.ID, map[string]interface{}{"is_deleted": true}); err != nil {
				return dest, fmt.Errorf("destination updated but source row %s not retired: %w", row.ID, err)
			}
			dest.StartTime, dest.EndTime = startPtr, endPtr
			dest.IsDeleted = false
			dest.IsCompleted = row.IsCompleted
			return dest, nil
		}
	}

	patch := map[string]interface{}{
		"local_date": newDateStr,
		"start_time": startPtr,
		"end_time":   endPtr,
	}
	if err := e.Store.UpdateScheduledTask(row.ID, patch); err != nil {
		return nil, err
	}
	row.LocalDate = newDateStr
	row.StartTime, row.EndTime = startPtr, endPtr

	if row.TemplateID != nil && newDateStr != oldDate {
		// The moved row no longer covers the vacated date; without a
		// tombstone there the materializer would project it again.
		if err := e.tombstoneAt(row, oldDate); err != nil {
			return &row, fmt.Errorf("occurrence moved but tombstone for %s failed: %w", oldDate, err)
		}
	}

	if row.TemplateID != nil {
		if tpl, err := e.Store.Template(*row.TemplateID); err == nil && !RuleOf(tpl).Recurring() {
			patch := map[string]interface{}{"date": newDateStr}
			if newTime != "" {
				patch["start_time"] = newTime
			}
			if err := e.Store.UpdateTemplate(tpl.ID, patch); err != nil {
				return &row, fmt.Errorf("occurrence moved but template anchor update failed: %w", err)
			}
		}
	}
	return &row, nil
}

func (e *Engine) moveSeries(occurrenceID string, newDate time.Time, newTime string) error {
	templateID := ""
	if ref, ok := ParseProjectedID(occurrenceID); ok {
		templateID = ref.TemplateID
	} else {
		row, err := e.Store.ScheduledTask(occurrenceID)
		if err != nil {
			return err
		}
		if row.TemplateID == nil {
			return &ValidationError{Field: "scope", Reason: "occurrence has no template; series scope does not apply"}
		}
		templateID = *row.TemplateID
	}

	tpl, err := e.Store.Template(templateID)
	if err != nil {
		return err
	}

	patch := map[string]interface{}{"date": FormatCivilDate(newDate)}
	if newTime != "" {
		patch["start_time"] = newTime
	}
	if RuleOf(tpl).Unit == UnitWeekly {
		// Rebase the weekly pattern onto the single weekday of the new date.
		patch["repeat_days"] = []int{canonicalWeekdayOf(newDate)}
	}
	// Already-materialized occurrences keep their original dates and times;
	// only future projections follow the new pattern.
	return e.Store.UpdateTemplate(tpl.ID, patch)
}

// Delete skips one occurrence (single) or cancels the whole series (series).
// Single deletes of projections persist a tombstone; series deletes
// soft-delete the template, keeping past undeleted rows as history.
func (e *Engine) Delete(occurrenceID string, scope Scope) error {
	if ref, ok := ParseProjectedID(occurrenceID); ok {
		tpl, err := e.Store.Template(ref.TemplateID)
		if err != nil {
			return err
		}
		if scope == ScopeSeries {
			return e.Store.UpdateTemplate(tpl.ID, map[string]interface{}{"is_deleted": true})
		}
		return e.tombstone(tpl, ref.LocalDate)
	}

	row, err := e.Store.ScheduledTask(occurrenceID)
	if err != nil {
		return err
	}
	if scope == ScopeSeries {
		if row.TemplateID == nil {
			return &ValidationError{Field: "scope", Reason: "occurrence has no template; series scope does not apply"}
		}
		return e.Store.UpdateTemplate(*row.TemplateID, map[string]interface{}{"is_deleted": true})
	}
	return e.Store.UpdateScheduledTask(row.ID, map[string]interface{}{"is_deleted": true})
}

// Complete finishes one occurrence; with series scope it also retires the
// template ("finish and stop recurring"). Completing a projection persists
// the row in a single step rather than requiring a separate materialize.
func (e *Engine) Complete(occurrenceID string, scope Scope) (*types.ScheduledTask, error) {
	var row *types.ScheduledTask
	var templateID *string

	if ref, ok := ParseProjectedID(occurrenceID); ok {
		tpl, err := e.Store.Template(ref.TemplateID)
		if err != nil {
			return nil, err
		}
		day, err := ParseCivilDate(ref.LocalDate)
		if err != nil {
			return nil, err
		}
		clock := ""
		if tpl.StartTime != nil {
			clock = *tpl.StartTime
		}
		row, err = e.placeOccurrence(tpl, day, clock, true)
		if err != nil {
			return nil, err
		}
		templateID = &tpl.ID
	} else {
		r, err := e.Store.ScheduledTask(occurrenceID)
		if err != nil {
			return nil, err
		}
		if err := e.Store.UpdateScheduledTask(r.ID, map[string]interface{}{"is_completed": true}); err != nil {
			return nil, err
		}
		r.IsCompleted = true
		row = &r
		templateID = r.TemplateID
	}

	if scope == ScopeSeries {
		if templateID == nil {
			return row, &ValidationError{Field: "scope", Reason: "occurrence has no template; series scope does not apply"}
		}
		if err := e.Store.UpdateTemplate(*templateID, map[string]interface{}{"is_deleted": true}); err != nil {
			return row, fmt.Errorf("occurrence completed but series not retired: %w", err)
		}
	}
	return row, nil
}

// placeOccurrence upserts the row for (template, date): an existing row —
// tombstoned or live — is updated and revived, otherwise a fresh row is
// inserted. This update-if-exists policy is the correctness backstop for
// concurrent requests racing on the same pair.
func (e *Engine) placeOccurrence(tpl types.TaskTemplate, day time.Time, clock string, completed bool) (*types.ScheduledTask, error) {
	date := FormatCivilDate(day)
	if clock == "" && tpl.StartTime != nil {
		clock = *tpl.StartTime
	}
	startPtr, endPtr, err := composeSlot(day, clock, durationOf(tpl))
	if err != nil {
		return nil, err
	}

	existing, err := e.Store.ScheduledTaskFor(tpl.ID, date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		patch := map[string]interface{}{
			"start_time": startPtr,
			"end_time":   endPtr,
			"is_deleted": false,
		}
		if completed {
			patch["is_completed"] = true
		}
		if err := e.Store.UpdateScheduledTask(existing.ID, patch); err != nil {
			return nil, err
		}
		existing.StartTime, existing.EndTime = startPtr, endPtr
		existing.IsDeleted = false
		if completed {
			existing.IsCompleted = true
		}
		return existing, nil
	}

	row := types.ScheduledTask{
		TemplateID:      &tpl.ID,
		UserID:          tpl.UserID,
		Title:           tpl.Title,
		Description:     tpl.Description,
		DurationMinutes: durationOf(tpl),
		Priority:        tpl.Priority,
		LocalDate:       date,
		StartTime:       startPtr,
		EndTime:         endPtr,
		IsAppointment:   tpl.IsAppointment,
		IsRoutine:       tpl.IsRoutine,
		IsFixed:         tpl.IsFixed,
		IsCompleted:     completed,
	}
	created, err := e.Store.InsertScheduledTask(row)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// tombstone persists a pre-deleted row for (template, date) so the
// materializer never projects that pair again.
func (e *Engine) tombstone(tpl types.TaskTemplate, date string) error {
	return e.tombstoneAt(types.ScheduledTask{
		TemplateID:      &tpl.ID,
		UserID:          tpl.UserID,
		Title:           tpl.Title,
		Description:     tpl.Description,
		DurationMinutes: durationOf(tpl),
		Priority:        tpl.Priority,
		IsAppointment:   tpl.IsAppointment,
		IsRoutine:       tpl.IsRoutine,
		IsFixed:         tpl.IsFixed,
	}, date)
}

// tombstoneAt upserts a deleted marker row for (proto.TemplateID, date) so
// the materializer never projects that pair again. proto supplies the
// snapshot fields; its id, date, timing and flags are overwritten.
func (e *Engine) tombstoneAt(proto types.ScheduledTask, date string) error {
	if proto.TemplateID != nil {
		existing, err := e.Store.ScheduledTaskFor(*proto.TemplateID, date)
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.IsDeleted {
				return nil
			}
			return e.Store.UpdateScheduledTask(existing.ID, map[string]interface{}{"is_deleted": true})
		}
	}

	proto.ID = ""
	proto.LocalDate = date
	proto.StartTime, proto.EndTime = nil, nil
	proto.IsCompleted = false
	proto.IsDeleted = true
	proto.IsFutureInstance = false
	_, err := e.Store.InsertScheduledTask(proto)
	return err
}

func composeSlot(day time.Time, clock string, durationMinutes int) (*time.Time, *time.Time, error) {
	if clock == "" {
		return nil, nil, nil
	}
	start, err := CombineLocal(day, clock)
	if err != nil {
		return nil, nil, err
	}
	if durationMinutes <= 0 {
		durationMinutes = config.Scheduling.DefaultFloatingDuration
	}
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	return &start, &end, nil
}

package schedule

import (
	"fmt"
	"testing"
	"time"

	"clementus360/day-planner/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store used to exercise the engine without the
// backing service.
type memStore struct {
	templates map[string]types.TaskTemplate
	rows      map[string]types.ScheduledTask
	seq       int
}

func newMemStore() *memStore {
	return &memStore{
		templates: map[string]types.TaskTemplate{},
		rows:      map[string]types.ScheduledTask{},
	}
}

func (s *memStore) addTemplate(tpl types.TaskTemplate) {
	s.templates[tpl.ID] = tpl
}

func (s *memStore) addRow(row types.ScheduledTask) {
	s.rows[row.ID] = row
}

func (s *memStore) Template(id string) (types.TaskTemplate, error) {
	tpl, ok := s.templates[id]
	if !ok {
		return types.TaskTemplate{}, &NotFoundError{Resource: "template", ID: id}
	}
	return tpl, nil
}

func (s *memStore) ScheduledTask(id string) (types.ScheduledTask, error) {
	row, ok := s.rows[id]
	if !ok {
		return types.ScheduledTask{}, &NotFoundError{Resource: "scheduled task", ID: id}
	}
	return row, nil
}

func (s *memStore) ScheduledTaskFor(templateID, localDate string) (*types.ScheduledTask, error) {
	for _, row := range s.rows {
		if row.TemplateID != nil && *row.TemplateID == templateID && row.LocalDate == localDate {
			found := row
			return &found, nil
		}
	}
	return nil, nil
}

func (s *memStore) InsertScheduledTask(row types.ScheduledTask) (types.ScheduledTask, error) {
	s.seq++
	row.ID = fmt.Sprintf("row-%d", s.seq)
	s.rows[row.ID] = row
	return row, nil
}

func (s *memStore) UpdateScheduledTask(id string, patch map[string]interface{}) error {
	row, ok := s.rows[id]
	if !ok {
		return &NotFoundError{Resource: "scheduled task", ID: id}
	}
	for key, value := range patch {
		switch key {
		case "local_date":
			row.LocalDate = value.(string)
		case "start_time":
			row.StartTime = value.(*time.Time)
		case "end_time":
			row.EndTime = value.(*time.Time)
		case "is_deleted":
			row.IsDeleted = value.(bool)
		case "is_completed":
			row.IsCompleted = value.(bool)
		default:
			return fmt.Errorf("memStore: unexpected row patch key %q", key)
		}
	}
	s.rows[id] = row
	return nil
}

func (s *memStore) UpdateTemplate(id string, patch map[string]interface{}) error {
	tpl, ok := s.templates[id]
	if !ok {
		return &NotFoundError{Resource: "template", ID: id}
	}
	for key, value := range patch {
		switch key {
		case "date":
			tpl.Date = value.(string)
		case "start_time":
			clock := value.(string)
			tpl.StartTime = &clock
		case "repeat_days":
			tpl.RepeatDays = value.([]int)
		case "is_deleted":
			tpl.IsDeleted = value.(bool)
		default:
			return fmt.Errorf("memStore: unexpected template patch key %q", key)
		}
	}
	s.templates[id] = tpl
	return nil
}

func (s *memStore) allRows() []types.ScheduledTask {
	out := make([]types.ScheduledTask, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, row)
	}
	return out
}

func newEngineWithWeekly(t *testing.T) (*Engine, *memStore) {
	t.Helper()
	store := newMemStore()
	store.addTemplate(weeklyRoutine())
	return NewEngine(store, nil), store
}

func TestMoveSingleProjectedLeavesTombstoneBehind(t *testing.T) {
	engine, store := newEngineWithWeekly(t)

	// Move the Wednesday occurrence to Thursday.
	row, err := engine.Move("future-tpl-1-2025-06-04", mustDate(t, "2025-06-05"), "10:30", ScopeSingle)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "2025-06-05", row.LocalDate)
	require.NotNil(t, row.StartTime)
	assert.Equal(t, "10:30", LocalClock(*row.StartTime))
	assert.Equal(t, StateActive, StateOf(*row))

	// Tombstone suppresses the vacated Wednesday.
	old, err := store.ScheduledTaskFor("tpl-1", "2025-06-04")
	require.NoError(t, err)
	require.NotNil(t, old)
	assert.True(t, old.IsDeleted)

	// The template — and hence the rest of the series — is untouched.
	tpl := store.templates["tpl-1"]
	assert.Equal(t, []int{0, 2, 4}, tpl.RepeatDays)
	assert.Equal(t, "2025-06-02", tpl.Date)

	// The materializer now shows the moved row and still projects the rest.
	rows := Materialize(nil, []types.TaskTemplate{tpl}, store.allRows(),
		mustDate(t, "2025-06-01"), mustDate(t, "2025-06-08"))
	byDate := map[string]types.ScheduledTask{}
	for _, r := range rows {
		byDate[r.LocalDate] = r
	}
	assert.Len(t, rows, 3)
	assert.Contains(t, byDate, "2025-06-02")
	assert.Contains(t, byDate, "2025-06-05")
	assert.Contains(t, byDate, "2025-06-06")
	assert.NotContains(t, byDate, "2025-06-04")
}

func TestMoveSeriesRebasesTemplateOnly(t *testing.T) {
	engine, store := newEngineWithWeekly(t)

	materialized := types.ScheduledTask{
		ID:         "row-50",
		TemplateID: strPtr("tpl-1"),
		UserID:     "user-1",
		LocalDate:  "2025-06-02",
	}
	store.addRow(materialized)

	// Move the whole series to Fridays.
	row, err := engine.Move("future-tpl-1-2025-06-04", mustDate(t, "2025-06-06"), "08:00", ScopeSeries)
	require.NoError(t, err)
	assert.Nil(t, row)

	tpl := store.templates["tpl-1"]
	assert.Equal(t, []int{4}, tpl.RepeatDays)
	assert.Equal(t, "2025-06-06", tpl.Date)
	require.NotNil(t, tpl.StartTime)
	assert.Equal(t, "08:00", *tpl.StartTime)

	// Already-materialized occurrences keep their original placement.
	assert.Equal(t, "2025-06-02", store.rows["row-50"].LocalDate)
}

func TestMoveActiveRowUpdatesInPlace(t *testing.T) {
	engine, store := newEngineWithWeekly(t)

	start, err := CombineLocal(mustDate(t, "2025-06-02"), "09:00")
	require.NoError(t, err)
	end := start.Add(30 * time.Minute)
	store.addRow(types.ScheduledTask{
		ID:              "row-50",
		TemplateID:      strPtr("tpl-1"),
		UserID:          "user-1",
		DurationMinutes: 30,
		LocalDate:       "2025-06-02",
		StartTime:       &start,
		EndTime:         &end,
	})

	row, err := engine.Move("row-50", mustDate(t, "2025-06-03"), "", ScopeSingle)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-03", row.LocalDate)
	// No new time supplied: the original clock time is kept on the new date.
	require.NotNil(t, row.StartTime)
	assert.Equal(t, "09:00", LocalClock(*row.StartTime))
	assert.Equal(t, "2025-06-03", store.rows["row-50"].LocalDate)

	// Recurring template untouched.
	assert.Equal(t, "2025-06-02", store.templates["tpl-1"].Date)
}

func TestMoveActiveRowOffSeriesDateLeavesTombstone(t *testing.T) {
	engine, store := newEngineWithWeekly(t)

	// Wednesday's occurrence is already persisted.
	store.addRow(types.ScheduledTask{
		ID:         "row-50",
		TemplateID: strPtr("tpl-1"),
		UserID:     "user-1",
		LocalDate:  "2025-06-04",
	})

	row, err := engine.Move("row-50", mustDate(t, "2025-06-05"), "", ScopeSingle)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-05", row.LocalDate)

	// The vacated Wednesday is tombstoned so the series does not grow it back.
	tomb, err := store.ScheduledTaskFor("tpl-1", "2025-06-04")
	require.NoError(t, err)
	require.NotNil(t, tomb)
	assert.True(t, tomb.IsDeleted)

	rows := Materialize(nil, []types.TaskTemplate{store.templates["tpl-1"]}, store.allRows(),
		mustDate(t, "2025-06-01"), mustDate(t, "2025-06-08"))
	byDate := map[string]types.ScheduledTask{}
	for _, r := range rows {
		byDate[r.LocalDate] = r
	}
	require.Len(t, rows, 3)
	assert.NotContains(t, byDate, "2025-06-04")
	assert.Equal(t, "row-50", byDate["2025-06-05"].ID)
	assert.Contains(t, byDate, "2025-06-02")
	assert.Contains(t, byDate, "2025-06-06")
}

func TestMoveActiveRowMergesIntoCollidingDestination(t *testing.T) {
	engine, store := newEngineWithWeekly(t)

	store.addRow(types.ScheduledTask{
		ID:         "row-src",
		TemplateID: strPtr("tpl-1"),
		UserID:     "user-1",
		LocalDate:  "2025-06-02",
	})
	store.addRow(types.ScheduledTask{
		ID:         "row-dst",
		TemplateID: strPtr("tpl-1"),
		UserID:     "user-1",
		LocalDate:  "2025-06-04",
		IsDeleted:  true, // a tombstone being moved onto is revived
	})

	row, err := engine.Move("row-src", mustDate(t, "2025-06-04"), "11:00", ScopeSingle)
	require.NoError(t, err)
	assert.Equal(t, "row-dst", row.ID)
	assert.False(t, row.IsDeleted)

	// The source row is retired so only one live row per pair remains.
	assert.True(t, store.rows["row-src"].IsDeleted)
	assert.False(t, store.rows["row-dst"].IsDeleted)
}

func TestMoveOneOffRealignsTemplateAnchor(t *testing.T) {
	store := newMemStore()
	store.addTemplate(types.TaskTemplate{
		ID:     "tpl-2",
		UserID: "user-1",
		Title:  "Renew passport",
		Kind:   KindFloating,
		Date:   "2025-06-05",
	})
	engine := NewEngine(store, nil)

	_, err := engine.Move("oneoff-tpl-2-2025-06-05", mustDate(t, "2025-06-12"), "14:00", ScopeSingle)
	require.NoError(t, err)

	tpl := store.templates["tpl-2"]
	assert.Equal(t, "2025-06-12", tpl.Date)
	require.NotNil(t, tpl.StartTime)
	assert.Equal(t, "14:00", *tpl.StartTime)
}

func TestDeleteSingleProjectedInsertsTombstone(t *testing.T) {
	engine, store := newEngineWithWeekly(t)

	require.NoError(t, engine.Delete("future-tpl-1-2025-06-04", ScopeSingle))

	tomb, err := store.ScheduledTaskFor("tpl-1", "2025-06-04")
	require.NoError(t, err)
	require.NotNil(t, tomb)
	assert.True(t, tomb.IsDeleted)
	assert.Equal(t, StateDeleted, StateOf(*tomb))

	// Every other date in the series still projects.
	rows := Materialize(nil, []types.TaskTemplate{store.templates["tpl-1"]}, store.allRows(),
		mustDate(t, "2025-06-01"), mustDate(t, "2025-06-08"))
	require.Len(t, rows, 2)
	assert.Equal(t, "2025-06-02", rows[0].LocalDate)
	assert.Equal(t, "2025-06-06", rows[1].LocalDate)

	// Deleting an already-tombstoned date is a no-op, not an error.
	require.NoError(t, engine.Delete("future-tpl-1-2025-06-04", ScopeSingle))
}

func TestDeleteSeriesSoftDeletesTemplate(t *testing.T) {
	engine, store := newEngineWithWeekly(t)
	store.addRow(types.ScheduledTask{
		ID:          "row-past",
		TemplateID:  strPtr("tpl-1"),
		UserID:      "user-1",
		LocalDate:   "2025-05-30",
		IsCompleted: true,
	})

	require.NoError(t, engine.Delete("future-tpl-1-2025-06-04", ScopeSeries))
	assert.True(t, store.templates["tpl-1"].IsDeleted)

	// No projections anywhere, but history stays visible.
	rows := Materialize(nil, []types.TaskTemplate{store.templates["tpl-1"]}, store.allRows(),
		mustDate(t, "2025-05-26"), mustDate(t, "2025-06-30"))
	require.Len(t, rows, 1)
	assert.Equal(t, "row-past", rows[0].ID)
}

func TestDeleteSingleActiveFlipsFlag(t *testing.T) {
	engine, store := newEngineWithWeekly(t)
	store.addRow(types.ScheduledTask{
		ID:         "row-50",
		TemplateID: strPtr("tpl-1"),
		UserID:     "user-1",
		LocalDate:  "2025-06-02",
	})

	require.NoError(t, engine.Delete("row-50", ScopeSingle))
	assert.True(t, store.rows["row-50"].IsDeleted)
	assert.False(t, store.templates["tpl-1"].IsDeleted)
}

func TestCompleteProjectedPersistsCompletedRowInOneStep(t *testing.T) {
	engine, store := newEngineWithWeekly(t)

	row, err := engine.Complete("future-tpl-1-2025-06-04", ScopeSingle)
	require.NoError(t, err)
	assert.True(t, row.IsCompleted)
	assert.Equal(t, "2025-06-04", row.LocalDate)
	require.NotNil(t, row.StartTime)
	assert.Equal(t, "09:00", LocalClock(*row.StartTime))
	assert.Equal(t, StateCompleted, StateOf(*row))

	// The persisted row suppresses re-projection of that date.
	rows := Materialize(nil, []types.TaskTemplate{store.templates["tpl-1"]}, store.allRows(),
		mustDate(t, "2025-06-01"), mustDate(t, "2025-06-08"))
	count := 0
	for _, r := range rows {
		if r.LocalDate == "2025-06-04" {
			count++
			assert.True(t, r.IsCompleted)
		}
	}
	assert.Equal(t, 1, count)
}

func TestCompleteSeriesFinishesAndRetires(t *testing.T) {
	engine, store := newEngineWithWeekly(t)

	row, err := engine.Complete("future-tpl-1-2025-06-04", ScopeSeries)
	require.NoError(t, err)
	assert.True(t, row.IsCompleted)
	assert.True(t, store.templates["tpl-1"].IsDeleted)
}

func TestCompleteActiveRow(t *testing.T) {
	engine, store := newEngineWithWeekly(t)
	store.addRow(types.ScheduledTask{
		ID:         "row-50",
		TemplateID: strPtr("tpl-1"),
		UserID:     "user-1",
		LocalDate:  "2025-06-02",
	})

	row, err := engine.Complete("row-50", ScopeSingle)
	require.NoError(t, err)
	assert.True(t, row.IsCompleted)
	assert.True(t, store.rows["row-50"].IsCompleted)
}

func TestMutationsOnUnknownIDsFailClosed(t *testing.T) {
	engine, _ := newEngineWithWeekly(t)
	var notFound *NotFoundError

	_, err := engine.Move("row-999", mustDate(t, "2025-06-05"), "", ScopeSingle)
	require.ErrorAs(t, err, &notFound)

	_, err = engine.Move("future-tpl-999-2025-06-04", mustDate(t, "2025-06-05"), "", ScopeSingle)
	require.ErrorAs(t, err, &notFound)

	err = engine.Delete("row-999", ScopeSingle)
	require.ErrorAs(t, err, &notFound)

	_, err = engine.Complete("future-tpl-999-2025-06-04", ScopeSingle)
	require.ErrorAs(t, err, &notFound)
}

func TestParseScope(t *testing.T) {
	scope, err := ParseScope("")
	require.NoError(t, err)
	assert.Equal(t, ScopeSingle, scope)

	scope, err = ParseScope("series")
	require.NoError(t, err)
	assert.Equal(t, ScopeSeries, scope)

	_, err = ParseScope("everything")
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestStateOf(t *testing.T) {
	assert.Equal(t, StateDeleted, StateOf(types.ScheduledTask{IsDeleted: true, IsCompleted: true}))
	assert.Equal(t, StateCompleted, StateOf(types.ScheduledTask{IsCompleted: true}))
	assert.Equal(t, StateProjected, StateOf(types.ScheduledTask{IsFutureInstance: true}))
	assert.Equal(t, StateActive, StateOf(types.ScheduledTask{}))
}

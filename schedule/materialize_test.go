package schedule

import (
	"testing"
	"time"

	"clementus360/day-planner/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func weeklyRoutine() types.TaskTemplate {
	return types.TaskTemplate{
		ID:              "tpl-1",
		UserID:          "user-1",
		Title:           "Morning review",
		Kind:            KindRoutine,
		IsRoutine:       true,
		StartTime:       strPtr("09:00"),
		DurationMinutes: 30,
		RepeatUnit:      "weekly",
		RepeatDays:      []int{0, 2, 4},
		Date:            "2025-06-02",
	}
}

func TestMaterializeEndToEndScenario(t *testing.T) {
	// Mon/Wed/Fri routine over a Sunday-to-Sunday week.
	rows := Materialize(nil, []types.TaskTemplate{weeklyRoutine()}, nil,
		mustDate(t, "2025-06-01"), mustDate(t, "2025-06-08"))

	require.Len(t, rows, 3)
	assert.Equal(t, "future-tpl-1-2025-06-02", rows[0].ID)
	assert.Equal(t, "future-tpl-1-2025-06-04", rows[1].ID)
	assert.Equal(t, "future-tpl-1-2025-06-06", rows[2].ID)

	for _, row := range rows {
		require.NotNil(t, row.StartTime)
		require.NotNil(t, row.EndTime)
		assert.Contains(t, row.StartTime.Format(time.RFC3339), "T09:00")
		assert.Equal(t, 30*time.Minute, row.EndTime.Sub(*row.StartTime))
		assert.True(t, row.IsFutureInstance)
		assert.False(t, row.IsCompleted)
		assert.Equal(t, "user-1", row.UserID)
	}
}

func TestMaterializeIsIdempotent(t *testing.T) {
	templates := []types.TaskTemplate{weeklyRoutine()}
	start, end := mustDate(t, "2025-06-01"), mustDate(t, "2025-06-08")

	first := Materialize(nil, templates, nil, start, end)
	second := Materialize(nil, templates, nil, start, end)
	assert.Equal(t, first, second)

	// Persisting one projection must stop it from being projected again.
	persisted := first[0]
	persisted.ID = "row-1"
	persisted.IsFutureInstance = false

	after := Materialize(nil, templates, []types.ScheduledTask{persisted}, start, end)
	require.Len(t, after, 3)
	dates := map[string]int{}
	for _, row := range after {
		dates[row.LocalDate]++
	}
	assert.Equal(t, 1, dates["2025-06-02"])
	assert.Equal(t, 1, dates["2025-06-04"])
	assert.Equal(t, 1, dates["2025-06-06"])
}

func TestTombstoneSuppressesOneDateOnly(t *testing.T) {
	tombstone := types.ScheduledTask{
		ID:         "row-9",
		TemplateID: strPtr("tpl-1"),
		UserID:     "user-1",
		LocalDate:  "2025-06-04",
		IsDeleted:  true,
	}

	rows := Materialize(nil, []types.TaskTemplate{weeklyRoutine()}, []types.ScheduledTask{tombstone},
		mustDate(t, "2025-06-01"), mustDate(t, "2025-06-08"))

	require.Len(t, rows, 2)
	assert.Equal(t, "2025-06-02", rows[0].LocalDate)
	assert.Equal(t, "2025-06-06", rows[1].LocalDate)
}

func TestSeriesDeletionSuppressesAllProjectionsButKeepsHistory(t *testing.T) {
	tpl := weeklyRoutine()
	tpl.IsDeleted = true

	history := types.ScheduledTask{
		ID:          "row-2",
		TemplateID:  strPtr("tpl-1"),
		UserID:      "user-1",
		LocalDate:   "2025-05-30",
		IsCompleted: true,
	}

	rows := Materialize(nil, []types.TaskTemplate{tpl}, []types.ScheduledTask{history},
		mustDate(t, "2025-05-26"), mustDate(t, "2025-06-30"))

	require.Len(t, rows, 1)
	assert.Equal(t, "row-2", rows[0].ID)
}

func TestOneOffProjection(t *testing.T) {
	tpl := types.TaskTemplate{
		ID:     "tpl-2",
		UserID: "user-1",
		Title:  "Renew passport",
		Kind:   KindFloating,
		Date:   "2025-06-05",
	}

	rows := Materialize(nil, []types.TaskTemplate{tpl}, nil,
		mustDate(t, "2025-06-01"), mustDate(t, "2025-06-08"))
	require.Len(t, rows, 1)
	assert.Equal(t, "oneoff-tpl-2-2025-06-05", rows[0].ID)
	assert.Nil(t, rows[0].StartTime)
	// Floating duration defaults when the template carries none.
	assert.Equal(t, 25, rows[0].DurationMinutes)

	// Out of range: nothing projected.
	none := Materialize(nil, []types.TaskTemplate{tpl}, nil,
		mustDate(t, "2025-07-01"), mustDate(t, "2025-07-08"))
	assert.Empty(t, none)
}

func TestUnevaluableTemplateIsSkippedNotFatal(t *testing.T) {
	broken := types.TaskTemplate{
		ID:             "tpl-3",
		UserID:         "user-1",
		Title:          "Broken",
		RepeatUnit:     "weekly",
		RepeatInterval: 2, // interval with no anchor date
		RepeatDays:     []int{0},
	}

	rows := Materialize(nil, []types.TaskTemplate{broken, weeklyRoutine()}, nil,
		mustDate(t, "2025-06-01"), mustDate(t, "2025-06-08"))

	// The healthy template still renders all three occurrences.
	require.Len(t, rows, 3)
	for _, row := range rows {
		assert.Equal(t, "tpl-1", *row.TemplateID)
	}
}

func TestParseProjectedID(t *testing.T) {
	ref, ok := ParseProjectedID("future-tpl-1-2025-06-02")
	require.True(t, ok)
	assert.Equal(t, "tpl-1", ref.TemplateID)
	assert.Equal(t, "2025-06-02", ref.LocalDate)

	// Template ids containing hyphens (uuids) survive the round trip.
	ref, ok = ParseProjectedID("oneoff-550e8400-e29b-41d4-a716-446655440000-2025-12-31")
	require.True(t, ok)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", ref.TemplateID)
	assert.Equal(t, "2025-12-31", ref.LocalDate)

	for _, bad := range []string{"", "row-17", "future-", "future-x-notadate00", "future-2025-06-02"} {
		_, ok := ParseProjectedID(bad)
		assert.False(t, ok, bad)
	}
}

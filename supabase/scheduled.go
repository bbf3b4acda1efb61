package supabase

import (
	"encoding/json"
	"fmt"
	"time"

	"clementus360/day-planner/schedule"
	"clementus360/day-planner/types"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

const scheduledTable = "scheduled_tasks"

// GetScheduledTasks returns the user's rows with local_date inside
// [startDate, endDate]. The materializer needs soft-deleted rows too — they
// are the tombstones that suppress regeneration — so includeDeleted is
// normally true for scheduling reads and false for plain listings.
func GetScheduledTasks(client *supabase.Client, userID, startDate, endDate string, includeDeleted bool) ([]types.ScheduledTask, error) {
	query := client.From(scheduledTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Gte("local_date", startDate).
		Lte("local_date", endDate)

	if !includeDeleted {
		query = query.Eq("is_deleted", "false")
	}

	resp, _, err := query.
		Order("local_date", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scheduled tasks: %w", err)
	}

	var rows []types.ScheduledTask
	if err := json.Unmarshal(resp, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scheduled tasks: %w", err)
	}
	return rows, nil
}

func GetScheduledTask(client *supabase.Client, userID, id string) (types.ScheduledTask, error) {
	resp, _, err := client.From(scheduledTable).
		Select("*", "", false).
		Eq("id", id).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return types.ScheduledTask{}, fmt.Errorf("failed to fetch scheduled task: %w", err)
	}

	var rows []types.ScheduledTask
	if err := json.Unmarshal(resp, &rows); err != nil {
		return types.ScheduledTask{}, fmt.Errorf("failed to unmarshal scheduled task: %w", err)
	}
	if len(rows) == 0 {
		return types.ScheduledTask{}, &schedule.NotFoundError{Resource: "scheduled task", ID: id}
	}
	return rows[0], nil
}

// GetScheduledTaskFor looks up the row for a (template, date) pair, deleted
// or not. A nil row means the pair has never been materialized.
func GetScheduledTaskFor(client *supabase.Client, userID, templateID, localDate string) (*types.ScheduledTask, error) {
	resp, _, err := client.From(scheduledTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Eq("template_id", templateID).
		Eq("local_date", localDate).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to look up scheduled task for template %s on %s: %w", templateID, localDate, err)
	}

	var rows []types.ScheduledTask
	if err := json.Unmarshal(resp, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scheduled task lookup: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func InsertAndReturnScheduledTask(client *supabase.Client, row types.ScheduledTask) (types.ScheduledTask, error) {
	// Synthetic projection ids never reach the store; the database assigns
	// real ids unless the caller set one explicitly.
	row.IsFutureInstance = false
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now()
	}

	rows := []types.ScheduledTask{row}
	resp, _, err := client.From(scheduledTable).
		Insert(rows, false, "", "", "").
		Execute()
	if err != nil {
		return types.ScheduledTask{}, fmt.Errorf("failed to insert scheduled task: %w", err)
	}

	if err := json.Unmarshal(resp, &rows); err != nil {
		return types.ScheduledTask{}, fmt.Errorf("failed to unmarshal inserted scheduled task: %w", err)
	}
	if len(rows) == 0 {
		return types.ScheduledTask{}, fmt.Errorf("insert returned no scheduled task row")
	}
	return rows[0], nil
}

func UpdateScheduledTask(client *supabase.Client, id, userID string, patch map[string]interface{}) error {
	resp, _, err := client.From(scheduledTable).
		Update(patch, "", "").
		Eq("id", id).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update scheduled task: %w", err)
	}

	var rows []types.ScheduledTask
	if err := json.Unmarshal(resp, &rows); err != nil {
		return fmt.Errorf("failed to unmarshal updated scheduled task: %w", err)
	}
	if len(rows) == 0 {
		return &schedule.NotFoundError{Resource: "scheduled task", ID: id}
	}
	return nil
}

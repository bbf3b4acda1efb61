package supabase

import (
	"encoding/json"
	"fmt"

	"clementus360/day-planner/schedule"
	"clementus360/day-planner/types"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

const templatesTable = "task_templates"

// GetTemplates returns the user's task templates. Soft-deleted (series-
// cancelled) templates are excluded unless includeDeleted is set.
func GetTemplates(client *supabase.Client, userID string, includeDeleted bool) ([]types.TaskTemplate, error) {
	query := client.From(templatesTable).
		Select("*", "", false).
		Eq("user_id", userID)

	if !includeDeleted {
		query = query.Eq("is_deleted", "false")
	}

	resp, _, err := query.
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch templates: %w", err)
	}

	var templates []types.TaskTemplate
	if err := json.Unmarshal(resp, &templates); err != nil {
		return nil, fmt.Errorf("failed to unmarshal templates: %w", err)
	}
	return templates, nil
}

func GetSingleTemplate(client *supabase.Client, userID, templateID string) (types.TaskTemplate, error) {
	resp, _, err := client.From(templatesTable).
		Select("*", "", false).
		Eq("id", templateID).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return types.TaskTemplate{}, fmt.Errorf("failed to fetch template: %w", err)
	}

	var templates []types.TaskTemplate
	if err := json.Unmarshal(resp, &templates); err != nil {
		return types.TaskTemplate{}, fmt.Errorf("failed to unmarshal template: %w", err)
	}
	if len(templates) == 0 {
		return types.TaskTemplate{}, &schedule.NotFoundError{Resource: "template", ID: templateID}
	}
	return templates[0], nil
}

func InsertAndReturnTemplate(client *supabase.Client, tpl types.TaskTemplate) (types.TaskTemplate, error) {
	rows := []types.TaskTemplate{tpl}

	resp, _, err := client.From(templatesTable).
		Insert(rows, false, "", "", "").
		Execute()
	if err != nil {
		return types.TaskTemplate{}, fmt.Errorf("failed to insert template: %w", err)
	}

	if err := json.Unmarshal(resp, &rows); err != nil {
		return types.TaskTemplate{}, fmt.Errorf("failed to unmarshal inserted template: %w", err)
	}
	if len(rows) == 0 {
		return types.TaskTemplate{}, fmt.Errorf("insert returned no template row")
	}
	return rows[0], nil
}

func UpdateTemplate(client *supabase.Client, templateID, userID string, patch map[string]interface{}) (types.TaskTemplate, error) {
	resp, _, err := client.From(templatesTable).
		Update(patch, "", "").
		Eq("id", templateID).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return types.TaskTemplate{}, fmt.Errorf("failed to update template: %w", err)
	}

	var rows []types.TaskTemplate
	if err := json.Unmarshal(resp, &rows); err != nil {
		return types.TaskTemplate{}, fmt.Errorf("failed to unmarshal updated template: %w", err)
	}
	if len(rows) == 0 {
		return types.TaskTemplate{}, &schedule.NotFoundError{Resource: "template", ID: templateID}
	}
	return rows[0], nil
}

// DeleteTemplate cancels the whole series: a soft delete, so existing rows
// stay retrievable as history.
func DeleteTemplate(client *supabase.Client, templateID, userID string) error {
	_, err := UpdateTemplate(client, templateID, userID, map[string]interface{}{"is_deleted": true})
	return err
}

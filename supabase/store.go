package supabase

import (
	"strings"

	"clementus360/day-planner/schedule"
	"clementus360/day-planner/types"

	"github.com/supabase-community/supabase-go"
)

// UserStore binds a request-scoped client and its authenticated owner id
// into the persistence surface the reconciliation engine needs. Every call
// is filtered by user_id, so the engine can never touch another owner's
// rows.
type UserStore struct {
	Client *supabase.Client
	UserID string
}

var _ schedule.Store = (*UserStore)(nil)

func NewUserStore(client *supabase.Client, userID string) *UserStore {
	return &UserStore{Client: client, UserID: userID}
}

func (s *UserStore) Template(id string) (types.TaskTemplate, error) {
	return GetSingleTemplate(s.Client, s.UserID, id)
}

func (s *UserStore) ScheduledTask(id string) (types.ScheduledTask, error) {
	return GetScheduledTask(s.Client, s.UserID, id)
}

func (s *UserStore) ScheduledTaskFor(templateID, localDate string) (*types.ScheduledTask, error) {
	return GetScheduledTaskFor(s.Client, s.UserID, templateID, localDate)
}

func (s *UserStore) InsertScheduledTask(row types.ScheduledTask) (types.ScheduledTask, error) {
	row.UserID = s.UserID
	created, err := InsertAndReturnScheduledTask(s.Client, row)
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		// The unique (template_id, local_date) constraint fired under a
		// concurrent insert; surface it as a conflict the engine understands.
		templateID := ""
		if row.TemplateID != nil {
			templateID = *row.TemplateID
		}
		return types.ScheduledTask{}, &schedule.ConflictError{TemplateID: templateID, LocalDate: row.LocalDate}
	}
	return created, err
}

func (s *UserStore) UpdateScheduledTask(id string, patch map[string]interface{}) error {
	return UpdateScheduledTask(s.Client, id, s.UserID, patch)
}

func (s *UserStore) UpdateTemplate(id string, patch map[string]interface{}) error {
	_, err := UpdateTemplate(s.Client, id, s.UserID, patch)
	return err
}

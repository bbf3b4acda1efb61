package types

import "time"

// ScheduledTask is one materialized calendar occurrence of a template (or a
// manually created one-off when TemplateID is nil). Title, description and
// duration are display snapshots taken at creation time; the live template
// wins for those, while the row stays authoritative for that day's actual
// placement and completion state.
type ScheduledTask struct {
	ID         string  `json:"id,omitempty"`
	TemplateID *string `json:"template_id,omitempty"`
	UserID     string  `json:"user_id"`

	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	Priority        int    `json:"priority,omitempty"`

	LocalDate string     `json:"local_date"` // YYYY-MM-DD in the owner's civil calendar
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	IsAppointment bool `json:"is_appointment"`
	IsRoutine     bool `json:"is_routine"`
	IsFixed       bool `json:"is_fixed"`

	IsCompleted bool `json:"is_completed"`
	IsDeleted   bool `json:"is_deleted"`

	// IsFutureInstance marks a projection that only exists in a response,
	// carrying a synthetic id until it is persisted.
	IsFutureInstance bool `json:"is_future_instance,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

package types

import "time"

// TaskTemplate is the durable, possibly-recurring definition of a task.
// Recurrence fields are stored raw; the schedule package normalizes them
// (including the legacy "repeat" alias) into a single Rule before any
// evaluation.
type TaskTemplate struct {
	ID          string `json:"id,omitempty"`
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Notes       string `json:"notes,omitempty"`

	Kind          string `json:"kind,omitempty"` // floating | routine | appointment
	IsAppointment bool   `json:"is_appointment"`
	IsRoutine     bool   `json:"is_routine"`
	IsFixed       bool   `json:"is_fixed"`

	StartTime       *string `json:"start_time,omitempty"` // HH:MM[:SS] local clock
	DurationMinutes int     `json:"duration_minutes,omitempty"`

	RepeatUnit     string `json:"repeat_unit,omitempty"`
	Repeat         string `json:"repeat,omitempty"` // legacy alias for repeat_unit
	RepeatInterval int    `json:"repeat_interval,omitempty"`
	RepeatDays     []int  `json:"repeat_days,omitempty"` // canonical weekdays, Monday=0
	DayOfMonth     int    `json:"day_of_month,omitempty"`
	Date           string `json:"date,omitempty"` // anchor / one-off civil date, YYYY-MM-DD

	WindowStartLocal *string `json:"window_start_local,omitempty"`
	WindowEndLocal   *string `json:"window_end_local,omitempty"`

	Priority  int       `json:"priority,omitempty"` // 1 (highest) .. 5 (lowest)
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
}

package types

type ErrorResponse struct {
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error,omitempty"`
}

type TemplateResponse struct {
	Success      bool         `json:"success"`
	Template     TaskTemplate `json:"template,omitempty"`
	ErrorMessage string       `json:"error,omitempty"`
}

type GetTemplatesResponse struct {
	Success      bool           `json:"success"`
	Templates    []TaskTemplate `json:"templates,omitempty"`
	Total        int            `json:"total,omitempty"`
	ErrorMessage string         `json:"error,omitempty"`
}

// ScheduleResponse carries a materialized calendar range or a single
// assembled day.
type ScheduleResponse struct {
	Success      bool            `json:"success"`
	Tasks        []ScheduledTask `json:"tasks"`
	Date         string          `json:"date,omitempty"`
	Start        string          `json:"start,omitempty"`
	End          string          `json:"end,omitempty"`
	ErrorMessage string          `json:"error,omitempty"`
}

// MutationResponse is returned by move/delete/complete. Task is set when the
// mutation produced or updated a concrete row (nil for series-level edits).
type MutationResponse struct {
	Success      bool           `json:"success"`
	Task         *ScheduledTask `json:"task,omitempty"`
	Message      string         `json:"message,omitempty"`
	ErrorMessage string         `json:"error,omitempty"`
}

package types

// MoveTaskRequest reschedules one occurrence or rebases a whole series. ID
// accepts both persisted row ids and the synthetic future-/oneoff- ids of
// projections that have not been materialized yet.
type MoveTaskRequest struct {
	ID      string `json:"id"`
	NewDate string `json:"new_date"`           // YYYY-MM-DD
	NewTime string `json:"new_time,omitempty"` // HH:MM[:SS] local clock
	Scope   string `json:"scope,omitempty"`    // single (default) | series
}

type CompleteTaskRequest struct {
	ID    string `json:"id"`
	Scope string `json:"scope,omitempty"` // single (default) | series
}

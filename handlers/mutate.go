package handlers

import (
	"encoding/json"
	"net/http"

	"clementus360/day-planner/config"
	"clementus360/day-planner/schedule"
	"clementus360/day-planner/supabase"
	"clementus360/day-planner/types"

	"github.com/google/uuid"
)

// MoveTaskHandler reschedules one occurrence or, with scope=series, rebases
// the owning template. The id may be a persisted row id or a synthetic
// future-/oneoff- projection id.
func MoveTaskHandler(w http.ResponseWriter, r *http.Request) {
	var req types.MoveTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.Logger.Error("Failed to decode move JSON:", err)
		writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		writeError(w, "Missing occurrence ID", http.StatusBadRequest)
		return
	}

	newDate, err := schedule.ParseCivilDate(req.NewDate)
	if err != nil {
		writeError(w, "Invalid or missing new_date", http.StatusBadRequest)
		return
	}
	scope, err := schedule.ParseScope(req.Scope)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	supabaseClient, userId, err := supabase.ClientFromRequest(r)
	if err != nil {
		config.Logger.Error("Failed to create Supabase client:", err)
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	engine := schedule.NewEngine(supabase.NewUserStore(supabaseClient, userId), config.Logger)
	row, err := engine.Move(req.ID, newDate, req.NewTime, scope)
	if err != nil {
		config.Logger.Error("Failed to move occurrence:", err)
		writeError(w, err.Error(), errorStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, types.MutationResponse{
		Success: true,
		Task:    row,
		Message: "Task moved successfully",
	})
}

// DeleteOccurrenceHandler skips one occurrence (scope=single, the default)
// or cancels the whole series (scope=series).
func DeleteOccurrenceHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	occurrenceID := q.Get("id")
	if occurrenceID == "" {
		writeError(w, "Missing occurrence ID", http.StatusBadRequest)
		return
	}
	scope, err := schedule.ParseScope(q.Get("scope"))
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	supabaseClient, userId, err := supabase.ClientFromRequest(r)
	if err != nil {
		config.Logger.Error("Failed to create Supabase client:", err)
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	engine := schedule.NewEngine(supabase.NewUserStore(supabaseClient, userId), config.Logger)
	if err := engine.Delete(occurrenceID, scope); err != nil {
		config.Logger.Error("Failed to delete occurrence:", err)
		writeError(w, err.Error(), errorStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, types.MutationResponse{
		Success: true,
		Message: "Task deleted successfully",
	})
}

// CompleteTaskHandler finishes one occurrence; with scope=series it also
// retires the recurring template.
func CompleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	var req types.CompleteTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.Logger.Error("Failed to decode complete JSON:", err)
		writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		writeError(w, "Missing occurrence ID", http.StatusBadRequest)
		return
	}
	scope, err := schedule.ParseScope(req.Scope)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	supabaseClient, userId, err := supabase.ClientFromRequest(r)
	if err != nil {
		config.Logger.Error("Failed to create Supabase client:", err)
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	engine := schedule.NewEngine(supabase.NewUserStore(supabaseClient, userId), config.Logger)
	row, err := engine.Complete(req.ID, scope)
	if err != nil {
		config.Logger.Error("Failed to complete occurrence:", err)
		writeError(w, err.Error(), errorStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, types.MutationResponse{
		Success: true,
		Task:    row,
		Message: "Task completed successfully",
	})
}

// CreateScheduledTaskHandler inserts a manually created one-off row with no
// owning template.
func CreateScheduledTaskHandler(w http.ResponseWriter, r *http.Request) {
	var row types.ScheduledTask
	if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
		config.Logger.Error("Failed to decode scheduled task JSON:", err)
		writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if row.Title == "" {
		writeError(w, "Missing title", http.StatusBadRequest)
		return
	}
	if _, err := schedule.ParseCivilDate(row.LocalDate); err != nil {
		writeError(w, "Invalid or missing local_date", http.StatusBadRequest)
		return
	}

	supabaseClient, userId, err := supabase.ClientFromRequest(r)
	if err != nil {
		config.Logger.Error("Failed to create Supabase client:", err)
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	row.ID = uuid.NewString()
	row.UserID = userId
	row.TemplateID = nil
	row.IsFutureInstance = false

	created, err := supabase.InsertAndReturnScheduledTask(supabaseClient, row)
	if err != nil {
		config.Logger.Error("Failed to save scheduled task:", err)
		writeError(w, "Failed to create scheduled task", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, types.MutationResponse{
		Success: true,
		Task:    &created,
		Message: "Task created successfully",
	})
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"clementus360/day-planner/schedule"
	"clementus360/day-planner/types"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, message string, status int) {
	resp := types.ErrorResponse{
		Success:      false,
		ErrorMessage: message,
	}
	writeJSON(w, status, resp)
}

// errorStatus maps the schedule error taxonomy onto HTTP statuses.
func errorStatus(err error) int {
	var validation *schedule.ValidationError
	var notFound *schedule.NotFoundError
	var conflict *schedule.ConflictError

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

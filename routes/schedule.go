package routes

import (
	"net/http"

	"clementus360/day-planner/handlers"
)

// RegisterScheduleRoutes registers the calendar and occurrence-mutation routes
func RegisterScheduleRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /calendar/tasks", handlers.GetCalendarTasksHandler)
	mux.HandleFunc("GET /today", handlers.GetTodayHandler)
	mux.HandleFunc("POST /schedule/create", handlers.CreateScheduledTaskHandler)
	mux.HandleFunc("PATCH /schedule/move", handlers.MoveTaskHandler)
	mux.HandleFunc("DELETE /schedule/delete", handlers.DeleteOccurrenceHandler)
	mux.HandleFunc("POST /schedule/complete", handlers.CompleteTaskHandler)
}

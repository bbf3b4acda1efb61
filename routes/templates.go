package routes

import (
	"net/http"

	"clementus360/day-planner/handlers"
)

// RegisterTemplateRoutes registers the task-template CRUD routes
func RegisterTemplateRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /templates/create", handlers.CreateTemplateHandler)
	mux.HandleFunc("PATCH /templates/update", handlers.UpdateTemplateHandler)
	mux.HandleFunc("DELETE /templates/delete", handlers.DeleteTemplateHandler)
	mux.HandleFunc("GET /templates", handlers.GetTemplatesHandler)
	mux.HandleFunc("GET /template", handlers.GetSingleTemplateHandler)
}

package routes

import (
	"net/http"
	"os"

	"clementus360/day-planner/handlers"
)

// RegisterAllRoutes registers all application routes
func RegisterAllRoutes(mux *http.ServeMux) {
	RegisterTemplateRoutes(mux)
	RegisterScheduleRoutes(mux)

	if os.Getenv("APP_ENV") == "development" {
		mux.HandleFunc("GET /auth/test-token", handlers.TestTokenHandler)
	}
}

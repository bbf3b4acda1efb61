package handlers

import (
	"net/http"

	"clementus360/day-planner/config"
	"clementus360/day-planner/supabase"
)

// TestTokenHandler mints a signed JWT for a given user id so the API can be
// exercised locally without the auth frontend. Only registered when APP_ENV
// is development.
func TestTokenHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, "Missing user_id", http.StatusBadRequest)
		return
	}

	token, err := supabase.GenerateTestJWT(userID)
	if err != nil {
		config.Logger.Error("Failed to sign test JWT:", err)
		writeError(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
	})
}

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

func CreateTemplateHandler(w http.ResponseWriter, r *http.Request) {
	var tpl types.TaskTemplate

	if err := json.NewDecoder(r.Body).Decode(&tpl); err != nil {
		config.Logger.Error("Failed to decode template JSON:", err)
		writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if err := schedule.NormalizeTemplate(&tpl); err != nil {
		writeError(w, err.Error(), errorStatus(err))
		return
	}

	supabaseClient, userId, err := supabase.ClientFromRequest(r)
	if err != nil {
		config.Logger.Error("Failed to create Supabase client:", err)
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	tpl.UserID = userId
	tpl.IsDeleted = false

	savedTpl, err := supabase.InsertAndReturnTemplate(supabaseClient, tpl)
	if err != nil {
		config.Logger.Error("Failed to save template:", err)
		writeError(w, "Failed to create template", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, types.TemplateResponse{
		Success:  true,
		Template: savedTpl,
	})
}

func UpdateTemplateHandler(w http.ResponseWriter, r *http.Request) {
	templateID := r.URL.Query().Get("id")
	if templateID == "" {
		writeError(w, "Missing template ID", http.StatusBadRequest)
		return
	}
	if _, err := uuid.Parse(templateID); err != nil {
		config.Logger.Error("Invalid template ID format:", err)
		writeError(w, "Invalid template ID", http.StatusBadRequest)
		return
	}

	var updates map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil || len(updates) == 0 {
		config.Logger.Error("Failed to decode update JSON:", err)
		writeError(w, "Invalid or empty update payload", http.StatusBadRequest)
		return
	}

	client, userID, err := supabase.ClientFromRequest(r)
	if err != nil {
		config.Logger.Error("Failed to create Supabase client:", err)
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	current, err := supabase.GetSingleTemplate(client, userID, templateID)
	if err != nil {
		config.Logger.Error("Failed to fetch template for update:", err)
		writeError(w, "Failed to fetch template", errorStatus(err))
		return
	}

	// Patched fields go through the same validation as created ones.
	_, patch, err := schedule.MergeTemplatePatch(current, updates)
	if err != nil {
		writeError(w, err.Error(), errorStatus(err))
		return
	}

	updatedTpl, err := supabase.UpdateTemplate(client, templateID, userID, patch)
	if err != nil {
		config.Logger.Error("Failed to update template:", err)
		writeError(w, "Failed to update template", errorStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, types.TemplateResponse{
		Success:  true,
		Template: updatedTpl,
	})
}

// DeleteTemplateHandler cancels the whole series. The soft delete keeps
// already-materialized rows retrievable as history.
func DeleteTemplateHandler(w http.ResponseWriter, r *http.Request) {
	templateID := r.URL.Query().Get("id")
	if templateID == "" {
		writeError(w, "Missing template ID", http.StatusBadRequest)
		return
	}

	supabaseClient, userId, err := supabase.ClientFromRequest(r)
	if err != nil {
		config.Logger.Error("Failed to create Supabase client:", err)
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := supabase.DeleteTemplate(supabaseClient, templateID, userId); err != nil {
		config.Logger.Error("Failed to delete template:", err)
		writeError(w, "Could not delete template", errorStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, types.MutationResponse{
		Success: true,
		Message: "Template deleted successfully",
	})
}

func GetTemplatesHandler(w http.ResponseWriter, r *http.Request) {
	includeDeleted := r.URL.Query().Get("include_deleted") == "true"

	supabaseClient, userId, err := supabase.ClientFromRequest(r)
	if err != nil {
		config.Logger.Error("Failed to create Supabase client:", err)
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	templates, err := supabase.GetTemplates(supabaseClient, userId, includeDeleted)
	if err != nil {
		config.Logger.Error("Failed to fetch templates:", err)
		writeError(w, "Failed to fetch templates", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, types.GetTemplatesResponse{
		Success:   true,
		Templates: templates,
		Total:     len(templates),
	})
}

func GetSingleTemplateHandler(w http.ResponseWriter, r *http.Request) {
	templateID := r.URL.Query().Get("id")
	if templateID == "" {
		writeError(w, "Missing template ID", http.StatusBadRequest)
		return
	}

	supabaseClient, userId, err := supabase.ClientFromRequest(r)
	if err != nil {
		config.Logger.Error("Failed to create Supabase client:", err)
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	tpl, err := supabase.GetSingleTemplate(supabaseClient, userId, templateID)
	if err != nil {
		config.Logger.Error("Failed to fetch template:", err)
		writeError(w, "Failed to fetch template", errorStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, types.TemplateResponse{
		Success:  true,
		Template: tpl,
	})
}

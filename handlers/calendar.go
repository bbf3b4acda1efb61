package handlers

import (
	"net/http"
	"time"

	"clementus360/day-planner/config"
	"clementus360/day-planner/schedule"
	"clementus360/day-planner/supabase"
	"clementus360/day-planner/types"
)

// GetCalendarTasksHandler materializes the caller's schedule over a date
// range: persisted rows plus on-demand projections of every template due in
// the range. Responses are never cacheable — projections depend on edits
// made since the last call.
func GetCalendarTasksHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	startDay, err := schedule.ParseCivilDate(q.Get("start"))
	if err != nil {
		writeError(w, "Invalid or missing start date", http.StatusBadRequest)
		return
	}
	endDay, err := schedule.ParseCivilDate(q.Get("end"))
	if err != nil {
		writeError(w, "Invalid or missing end date", http.StatusBadRequest)
		return
	}
	if endDay.Before(startDay) {
		writeError(w, "End date is before start date", http.StatusBadRequest)
		return
	}
	if schedule.DaysBetween(startDay, endDay) > config.Scheduling.MaxRangeDays {
		writeError(w, "Date range too large", http.StatusBadRequest)
		return
	}

	supabaseClient, userId, err := supabase.ClientFromRequest(r)
	if err != nil {
		config.Logger.Error("Failed to create Supabase client:", err)
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	templates, err := supabase.GetTemplates(supabaseClient, userId, false)
	if err != nil {
		config.Logger.Error("Failed to fetch templates:", err)
		writeError(w, "Failed to fetch templates", http.StatusInternalServerError)
		return
	}

	// Deleted rows are needed too: they are the tombstones that keep moved
	// and skipped dates from being projected again.
	existing, err := supabase.GetScheduledTasks(supabaseClient, userId, schedule.FormatCivilDate(startDay), schedule.FormatCivilDate(endDay), true)
	if err != nil {
		config.Logger.Error("Failed to fetch scheduled tasks:", err)
		writeError(w, "Failed to fetch scheduled tasks", http.StatusInternalServerError)
		return
	}

	tasks := schedule.Materialize(config.Logger, templates, existing, startDay, endDay)

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, types.ScheduleResponse{
		Success: true,
		Tasks:   tasks,
		Start:   schedule.FormatCivilDate(startDay),
		End:     schedule.FormatCivilDate(endDay),
	})
}

// GetTodayHandler assembles the single-day view: materialized union for the
// date (defaulting to today in the scheduling timezone) with display fields
// resolved against the live templates and rows sorted for display.
func GetTodayHandler(w http.ResponseWriter, r *http.Request) {
	day := schedule.CivilToday(time.Now())
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := schedule.ParseCivilDate(raw)
		if err != nil {
			writeError(w, "Invalid date", http.StatusBadRequest)
			return
		}
		day = parsed
	}
	date := schedule.FormatCivilDate(day)

	supabaseClient, userId, err := supabase.ClientFromRequest(r)
	if err != nil {
		config.Logger.Error("Failed to create Supabase client:", err)
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	templates, err := supabase.GetTemplates(supabaseClient, userId, false)
	if err != nil {
		config.Logger.Error("Failed to fetch templates:", err)
		writeError(w, "Failed to fetch templates", http.StatusInternalServerError)
		return
	}

	existing, err := supabase.GetScheduledTasks(supabaseClient, userId, date, date, true)
	if err != nil {
		config.Logger.Error("Failed to fetch scheduled tasks:", err)
		writeError(w, "Failed to fetch scheduled tasks", http.StatusInternalServerError)
		return
	}

	rows := schedule.AssembleDay(config.Logger, templates, existing, day)

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, types.ScheduleResponse{
		Success: true,
		Tasks:   rows,
		Date:    date,
	})
}

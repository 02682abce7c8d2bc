package handlers

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"swms-backend/internal/models"
	"swms-backend/pkg/utils"
)

// GetAlerts lists alerts, unresolved first then newest first. Pass
// ?resolved=false to hide resolved ones.
func GetAlerts(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := `
			SELECT id, bin_id, type, level, message, is_resolved, created_at
			FROM alerts
			ORDER BY is_resolved ASC, created_at DESC
			LIMIT 200
		`
		if r.URL.Query().Get("resolved") == "false" {
			query = `
				SELECT id, bin_id, type, level, message, is_resolved, created_at
				FROM alerts
				WHERE is_resolved = FALSE
				ORDER BY created_at DESC
				LIMIT 200
			`
		}

		var alerts []models.Alert
		if err := db.Select(&alerts, query); err != nil {
			log.Printf("❌ Failed to fetch alerts: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch alerts")
			return
		}

		utils.Success(w, alerts)
	}
}

// ResolveAlert marks one alert handled. Idempotent.
func ResolveAlert(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var alert models.Alert
		err := db.Get(&alert, `
			UPDATE alerts SET is_resolved = TRUE WHERE id = $1
			RETURNING id, bin_id, type, level, message, is_resolved, created_at
		`, id)
		if err != nil {
			utils.Error(w, http.StatusNotFound, "Alert not found")
			return
		}

		utils.Success(w, alert)
	}
}

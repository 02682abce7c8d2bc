package handlers

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"swms-backend/internal/models"
	"swms-backend/pkg/utils"
)

// GetBins returns all bin snapshots, most recently seen first.
func GetBins(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var bins []models.Bin
		err := db.Select(&bins, `
			SELECT id, bin_id, fill_level, temperature_c, battery_level,
			       latitude, longitude, last_seen_at, created_at, updated_at
			FROM bins
			ORDER BY last_seen_at DESC
		`)
		if err != nil {
			log.Printf("❌ Failed to fetch bins: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch bins")
			return
		}

		utils.Success(w, bins)
	}
}

// GetBin returns one bin snapshot by its external bin id.
func GetBin(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		binID := chi.URLParam(r, "binId")

		var bin models.Bin
		err := db.Get(&bin, `SELECT * FROM bins WHERE bin_id = $1`, binID)
		if err != nil {
			utils.Error(w, http.StatusNotFound, "Bin not found")
			return
		}

		utils.Success(w, bin)
	}
}

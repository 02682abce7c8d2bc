package handlers

import (
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"

	"swms-backend/internal/models"
	"swms-backend/internal/services"
	"swms-backend/pkg/utils"
)

// DashboardOverview is the at-a-glance summary for the operations view.
type DashboardOverview struct {
	TotalBins         int     `json:"totalBins"`
	AverageFillLevel  float64 `json:"averageFillLevel"`
	BinsNeedingPickup int     `json:"binsNeedingPickup"`
	UnresolvedAlerts  int     `json:"unresolvedAlerts"`
	OpenRoutes        int     `json:"openRoutes"`
	OpenReports       int     `json:"openReports"`
}

// GetDashboardOverview aggregates counts for the admin dashboard.
func GetDashboardOverview(db *sqlx.DB, th services.Thresholds) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var overview DashboardOverview

		err := db.Get(&overview.TotalBins, `SELECT COUNT(*) FROM bins`)
		if err != nil {
			log.Printf("❌ Failed to count bins: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to build overview")
			return
		}

		err = db.Get(&overview.AverageFillLevel, `SELECT COALESCE(AVG(fill_level), 0) FROM bins`)
		if err != nil {
			log.Printf("❌ Failed to average fill level: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to build overview")
			return
		}

		err = db.Get(&overview.BinsNeedingPickup, `SELECT COUNT(*) FROM bins WHERE fill_level >= $1`, th.FillWarning)
		if err != nil {
			log.Printf("❌ Failed to count full bins: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to build overview")
			return
		}

		err = db.Get(&overview.UnresolvedAlerts, `SELECT COUNT(*) FROM alerts WHERE is_resolved = FALSE`)
		if err != nil {
			log.Printf("❌ Failed to count alerts: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to build overview")
			return
		}

		err = db.Get(&overview.OpenRoutes, `SELECT COUNT(*) FROM route_plans WHERE status != $1`, models.RouteStatusCompleted)
		if err != nil {
			log.Printf("❌ Failed to count open routes: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to build overview")
			return
		}

		err = db.Get(&overview.OpenReports, `SELECT COUNT(*) FROM citizen_reports WHERE status = $1`, models.ReportStatusOpen)
		if err != nil {
			log.Printf("❌ Failed to count open reports: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to build overview")
			return
		}

		utils.Success(w, overview)
	}
}

// GetCriticalForecast returns the predicted time-to-critical per bin,
// soonest first. An empty list means nothing is trending critical
// within the horizon.
func GetCriticalForecast(db *sqlx.DB, th services.Thresholds) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		forecasts, err := services.ForecastCriticalBins(db, th)
		if err != nil {
			log.Printf("❌ Failed to build forecast: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to build forecast")
			return
		}

		utils.Success(w, forecasts)
	}
}

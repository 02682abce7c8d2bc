package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"swms-backend/internal/middleware"
	"swms-backend/internal/models"
	"swms-backend/pkg/utils"
)

// CreateReport files a citizen report. Any authenticated user can
// report; the reporter is taken from the token, with optional free-form
// contact details for follow-up.
func CreateReport(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req models.CreateReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := req.Validate(); err != nil {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		now := time.Now().Unix()
		report := models.CitizenReport{
			ID:            uuid.New().String(),
			ReporterID:    &claims.UserID,
			Type:          req.Type,
			Description:   req.Description,
			Latitude:      req.Location.Lat,
			Longitude:     req.Location.Lng,
			PhotoURL:      req.PhotoURL,
			ReporterName:  req.ReporterName,
			ReporterEmail: req.ReporterEmail,
			Status:        models.ReportStatusOpen,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		_, err := db.Exec(`
			INSERT INTO citizen_reports (id, reporter_id, type, description, latitude, longitude,
			                             photo_url, reporter_name, reporter_email, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		`, report.ID, report.ReporterID, report.Type, report.Description, report.Latitude, report.Longitude,
			report.PhotoURL, report.ReporterName, report.ReporterEmail, report.Status, report.CreatedAt)
		if err != nil {
			log.Printf("❌ Failed to create report: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to create report")
			return
		}

		log.Printf("📣 [REPORT] %s filed a %s report", claims.UserID, report.Type)
		utils.JSON(w, http.StatusCreated, report)
	}
}

// GetMyReports returns the caller's reports, newest first.
func GetMyReports(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var reports []models.CitizenReport
		err := db.Select(&reports, `
			SELECT * FROM citizen_reports
			WHERE reporter_id = $1
			ORDER BY created_at DESC
			LIMIT 200
		`, claims.UserID)
		if err != nil {
			log.Printf("❌ Failed to list reports for %s: %v", claims.UserID, err)
			utils.Error(w, http.StatusInternalServerError, "Failed to list reports")
			return
		}

		utils.Success(w, reports)
	}
}

// ListReports returns all reports for the operations dashboard.
func ListReports(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var reports []models.CitizenReport
		err := db.Select(&reports, `
			SELECT * FROM citizen_reports
			ORDER BY created_at DESC
			LIMIT 300
		`)
		if err != nil {
			log.Printf("❌ Failed to list reports: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to list reports")
			return
		}

		utils.Success(w, reports)
	}
}

// UpdateReportStatus moves a report through its review states.
func UpdateReportStatus(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reportID := chi.URLParam(r, "reportId")

		var req models.ReportStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := req.Validate(); err != nil {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		var report models.CitizenReport
		err := db.Get(&report, `
			UPDATE citizen_reports
			SET status = $1, updated_at = $2
			WHERE id = $3
			RETURNING *
		`, req.Status, time.Now().Unix(), reportID)
		if err != nil {
			utils.Error(w, http.StatusNotFound, "Report not found")
			return
		}

		utils.Success(w, report)
	}
}

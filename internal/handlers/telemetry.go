package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"swms-backend/internal/models"
	"swms-backend/internal/services"
	"swms-backend/internal/websocket"
	"swms-backend/pkg/utils"
)

// IngestTelemetry is the device-facing write path: validate the sample,
// then upsert the bin snapshot, append the history record, and insert
// the alert batch in one transaction, so a failed sample leaves no
// partial state. Dashboards are notified only after commit; event
// delivery is best-effort.
func IngestTelemetry(db *sqlx.DB, hub *websocket.Hub, fcm *services.FCMService, th services.Thresholds) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.TelemetryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if err := req.Validate(); err != nil {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		now := time.Now()
		recordedAt := req.RecordedAt(now)

		tx, err := db.Beginx()
		if err != nil {
			log.Printf("❌ Failed to begin ingest transaction: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to store telemetry")
			return
		}
		defer tx.Rollback()

		// Single-statement upsert: concurrent samples for the same bin
		// serialize on the bin_id unique index, last writer wins.
		var bin models.Bin
		err = tx.Get(&bin, `
			INSERT INTO bins (id, bin_id, fill_level, temperature_c, battery_level,
			                  latitude, longitude, last_seen_at, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
			ON CONFLICT (bin_id) DO UPDATE SET
				fill_level = EXCLUDED.fill_level,
				temperature_c = EXCLUDED.temperature_c,
				battery_level = EXCLUDED.battery_level,
				latitude = EXCLUDED.latitude,
				longitude = EXCLUDED.longitude,
				last_seen_at = EXCLUDED.last_seen_at,
				updated_at = EXCLUDED.updated_at
			RETURNING *
		`, uuid.New().String(), req.BinID, req.FillLevel, req.TemperatureC, req.BatteryLevel,
			req.Location.Lat, req.Location.Lng, recordedAt, now.Unix())
		if err != nil {
			log.Printf("❌ Failed to upsert bin %s: %v", req.BinID, err)
			utils.Error(w, http.StatusInternalServerError, "Failed to store telemetry")
			return
		}

		_, err = tx.Exec(`
			INSERT INTO telemetry_records (id, bin_id, fill_level, temperature_c, battery_level,
			                               latitude, longitude, recorded_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, uuid.New().String(), req.BinID, req.FillLevel, req.TemperatureC, req.BatteryLevel,
			req.Location.Lat, req.Location.Lng, recordedAt)
		if err != nil {
			log.Printf("❌ Failed to append telemetry for %s: %v", req.BinID, err)
			utils.Error(w, http.StatusInternalServerError, "Failed to store telemetry")
			return
		}

		alerts := services.EvaluateAlerts(req.BinID, req.FillLevel, req.TemperatureC, th)
		saved, err := services.SaveAlerts(tx, alerts)
		if err != nil {
			log.Printf("❌ Failed to save alerts for %s: %v", req.BinID, err)
			utils.Error(w, http.StatusInternalServerError, "Failed to store alerts")
			return
		}

		if err := tx.Commit(); err != nil {
			log.Printf("❌ Failed to commit ingest for %s: %v", req.BinID, err)
			utils.Error(w, http.StatusInternalServerError, "Failed to store telemetry")
			return
		}

		hub.Emit(websocket.EventBinUpdated, bin)
		for _, alert := range saved {
			hub.Emit(websocket.EventAlertCreated, alert)

			if alert.Level == models.LevelCritical {
				log.Printf("🚨 [ALERT] %s", alert.Message)
				notifyAdmins(db, fcm, alert)
			}
		}

		utils.JSON(w, http.StatusAccepted, models.IngestResponse{
			Status:        "accepted",
			AlertsCreated: len(saved),
		})
	}
}

// notifyAdmins pushes a critical alert to every registered admin device.
// Push failures are logged and swallowed.
func notifyAdmins(db *sqlx.DB, fcm *services.FCMService, alert models.Alert) {
	if fcm == nil {
		return
	}

	tokens, err := tokensForRole(db, models.RoleAdmin)
	if err != nil {
		log.Printf("⚠️ Failed to load admin FCM tokens: %v", err)
		return
	}

	for _, token := range tokens {
		if err := fcm.SendCriticalAlertNotification(token, alert.BinID, alert.Type, alert.Message); err != nil {
			log.Printf("⚠️ Failed to push alert to admin device: %v", err)
		}
	}
}

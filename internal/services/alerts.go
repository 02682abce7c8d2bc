package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"swms-backend/internal/models"
)

// Thresholds configure alert evaluation and candidate selection.
// Invariant: FillWarning < FillCritical.
type Thresholds struct {
	FillWarning  float64
	FillCritical float64
	TempCritical float64
}

// EvaluateAlerts maps one telemetry sample to zero or more alerts.
// Critical fill takes precedence over warning (never both); fire risk
// is evaluated independently of the fill checks.
func EvaluateAlerts(binID string, fillLevel, temperatureC float64, th Thresholds) []models.Alert {
	var alerts []models.Alert

	if fillLevel >= th.FillCritical {
		alerts = append(alerts, models.Alert{
			BinID:   binID,
			Type:    models.AlertFillCritical,
			Level:   models.LevelCritical,
			Message: fmt.Sprintf("Bin %s reached critical fill level (%v%%).", binID, fillLevel),
		})
	} else if fillLevel >= th.FillWarning {
		alerts = append(alerts, models.Alert{
			BinID:   binID,
			Type:    models.AlertFillWarning,
			Level:   models.LevelWarning,
			Message: fmt.Sprintf("Bin %s reached warning fill level (%v%%).", binID, fillLevel),
		})
	}

	if temperatureC >= th.TempCritical {
		alerts = append(alerts, models.Alert{
			BinID:   binID,
			Type:    models.AlertFireRisk,
			Level:   models.LevelCritical,
			Message: fmt.Sprintf("Bin %s has high temperature (%v C).", binID, temperatureC),
		})
	}

	return alerts
}

// SaveAlerts persists the batch inside the caller's transaction and
// returns the stored rows with ids and timestamps filled in. The caller
// owns the commit, so the alerts land together with the sample that
// produced them or not at all.
func SaveAlerts(tx *sqlx.Tx, alerts []models.Alert) ([]models.Alert, error) {
	if len(alerts) == 0 {
		return nil, nil
	}

	now := time.Now().Unix()
	saved := make([]models.Alert, 0, len(alerts))

	for _, alert := range alerts {
		alert.ID = uuid.New().String()
		alert.CreatedAt = now

		_, err := tx.Exec(`
			INSERT INTO alerts (id, bin_id, type, level, message, is_resolved, created_at)
			VALUES ($1, $2, $3, $4, $5, FALSE, $6)
		`, alert.ID, alert.BinID, alert.Type, alert.Level, alert.Message, alert.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert alert: %w", err)
		}

		saved = append(saved, alert)
	}

	return saved, nil
}

package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"swms-backend/internal/models"
)

// Predictor window and horizon. Projections past four days are too
// unreliable to report; a slope at or under 0.1%/h is treated as flat.
const (
	predictorMinSamples   = 3
	predictorMaxSamples   = 20
	predictorLookbackDays = 14
	predictorHorizonHours = 96
	predictorMinSlope     = 0.1
)

// CriticalForecast is one bin's estimated time until it crosses the
// critical fill threshold.
type CriticalForecast struct {
	BinID       string  `json:"binId"`
	EtaHours    float64 `json:"etaHours"`
	CurrentFill float64 `json:"currentFill"`
}

// EstimateTimeToCritical fits a straight line through the oldest and
// newest sample of a newest-first window and projects when the fill
// level reaches critical. The second return is false when no estimate
// can be made: too few samples, flat or falling trend, or an ETA
// outside (0, 96) hours. That outcome is silent, not an error.
func EstimateTimeToCritical(records []models.TelemetryRecord, critical float64) (float64, bool) {
	if len(records) < predictorMinSamples {
		return 0, false
	}

	newest := records[0]
	oldest := records[len(records)-1]

	// Clamp to one hour so a burst of samples cannot blow up the slope.
	hours := math.Max(float64(newest.RecordedAt-oldest.RecordedAt)/3600, 1)
	slope := (newest.FillLevel - oldest.FillLevel) / hours
	if slope <= predictorMinSlope {
		return 0, false
	}

	etaHours := (critical - newest.FillLevel) / slope
	if etaHours <= 0 || etaHours >= predictorHorizonHours {
		return 0, false
	}

	return math.Round(etaHours*10) / 10, true
}

// ForecastCriticalBins estimates time-to-critical for every bin that is
// not already critical and returns the list sorted soonest-first.
func ForecastCriticalBins(db *sqlx.DB, th Thresholds) ([]CriticalForecast, error) {
	var bins []models.Bin
	err := db.Select(&bins, `
		SELECT id, bin_id, fill_level, temperature_c, battery_level,
		       latitude, longitude, last_seen_at, created_at, updated_at
		FROM bins
		WHERE fill_level < $1
	`, th.FillCritical)
	if err != nil {
		return nil, fmt.Errorf("failed to query bins for forecast: %w", err)
	}

	since := time.Now().AddDate(0, 0, -predictorLookbackDays).Unix()
	forecasts := make([]CriticalForecast, 0)

	for _, bin := range bins {
		var records []models.TelemetryRecord
		err := db.Select(&records, `
			SELECT id, bin_id, fill_level, temperature_c, battery_level,
			       latitude, longitude, recorded_at
			FROM telemetry_records
			WHERE bin_id = $1 AND recorded_at >= $2
			ORDER BY recorded_at DESC
			LIMIT $3
		`, bin.BinID, since, predictorMaxSamples)
		if err != nil {
			return nil, fmt.Errorf("failed to query telemetry for bin %s: %w", bin.BinID, err)
		}

		eta, ok := EstimateTimeToCritical(records, th.FillCritical)
		if !ok {
			continue
		}

		forecasts = append(forecasts, CriticalForecast{
			BinID:       bin.BinID,
			EtaHours:    eta,
			CurrentFill: records[0].FillLevel,
		})
	}

	sort.Slice(forecasts, func(i, j int) bool {
		return forecasts[i].EtaHours < forecasts[j].EtaHours
	})

	return forecasts, nil
}

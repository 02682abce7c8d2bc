package models

import (
	"fmt"
	"math"
	"time"
)

// TelemetryRecord is one immutable historical sample for a bin.
// Append-only, ordered by recorded_at per bin.
type TelemetryRecord struct {
	ID           string   `json:"id" db:"id"`
	BinID        string   `json:"binId" db:"bin_id"`
	FillLevel    float64  `json:"fillLevel" db:"fill_level"`
	TemperatureC float64  `json:"temperatureC" db:"temperature_c"`
	BatteryLevel *float64 `json:"batteryLevel,omitempty" db:"battery_level"`
	Latitude     float64  `json:"latitude" db:"latitude"`
	Longitude    float64  `json:"longitude" db:"longitude"`
	RecordedAt   int64    `json:"recordedAt" db:"recorded_at"` // Unix timestamp
}

// Location is a lat/lng pair as sent by devices and the optimizer.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// TelemetryRequest is the request body for POST /api/v1/telemetry.
type TelemetryRequest struct {
	BinID        string    `json:"binId"`
	FillLevel    float64   `json:"fillLevel"`
	TemperatureC float64   `json:"temperatureC"`
	BatteryLevel *float64  `json:"batteryLevel,omitempty"`
	Timestamp    *string   `json:"timestamp,omitempty"` // RFC3339, defaults to now
	Location     *Location `json:"location"`
}

// Validate checks ranges and required fields before any state is touched.
func (t *TelemetryRequest) Validate() error {
	if t.BinID == "" {
		return fmt.Errorf("binId is required")
	}
	if t.FillLevel < 0 || t.FillLevel > 100 {
		return fmt.Errorf("fillLevel must be between 0 and 100")
	}
	if t.TemperatureC < -20 || t.TemperatureC > 150 {
		return fmt.Errorf("temperatureC must be between -20 and 150")
	}
	if t.BatteryLevel != nil && (*t.BatteryLevel < 0 || *t.BatteryLevel > 100) {
		return fmt.Errorf("batteryLevel must be between 0 and 100")
	}
	if t.Location == nil {
		return fmt.Errorf("location is required")
	}
	if !isFinite(t.Location.Lat) || !isFinite(t.Location.Lng) {
		return fmt.Errorf("location must have finite lat and lng")
	}
	if t.Timestamp != nil {
		if _, err := time.Parse(time.RFC3339, *t.Timestamp); err != nil {
			return fmt.Errorf("timestamp must be RFC3339")
		}
	}
	return nil
}

// RecordedAt resolves the sample time, falling back to now when the
// device did not include a timestamp.
func (t *TelemetryRequest) RecordedAt(now time.Time) int64 {
	if t.Timestamp != nil {
		if parsed, err := time.Parse(time.RFC3339, *t.Timestamp); err == nil {
			return parsed.Unix()
		}
	}
	return now.Unix()
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// IngestResponse is returned to the device gateway.
type IngestResponse struct {
	Status        string `json:"status"`
	AlertsCreated int    `json:"alertsCreated"`
}

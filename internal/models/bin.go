package models

// Bin is the latest-known snapshot for one physical bin, keyed by the
// stable external bin_id. It is upserted on every telemetry sample and
// is not a history; see TelemetryRecord for the append-only trail.
type Bin struct {
	ID           string   `json:"id" db:"id"`
	BinID        string   `json:"binId" db:"bin_id"`
	FillLevel    float64  `json:"fillLevel" db:"fill_level"`
	TemperatureC float64  `json:"temperatureC" db:"temperature_c"`
	BatteryLevel *float64 `json:"batteryLevel,omitempty" db:"battery_level"`
	Latitude     *float64 `json:"latitude,omitempty" db:"latitude"`
	Longitude    *float64 `json:"longitude,omitempty" db:"longitude"`
	LastSeenAt   int64    `json:"lastSeenAt" db:"last_seen_at"` // Unix timestamp
	CreatedAt    int64    `json:"createdAt" db:"created_at"`    // Unix timestamp
	UpdatedAt    int64    `json:"updatedAt" db:"updated_at"`    // Unix timestamp
}

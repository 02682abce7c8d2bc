package models

// Alert types emitted by the evaluator.
const (
	AlertFillWarning  = "fill_warning"
	AlertFillCritical = "fill_critical"
	AlertFireRisk     = "fire_risk"
)

// Alert levels.
const (
	LevelWarning  = "warning"
	LevelCritical = "critical"
)

// Alert is created by the alert evaluator when a telemetry sample
// crosses a configured threshold. Resolution is a dashboard action.
type Alert struct {
	ID         string `json:"id" db:"id"`
	BinID      string `json:"binId" db:"bin_id"`
	Type       string `json:"type" db:"type"`
	Level      string `json:"level" db:"level"`
	Message    string `json:"message" db:"message"`
	IsResolved bool   `json:"isResolved" db:"is_resolved"`
	CreatedAt  int64  `json:"createdAt" db:"created_at"` // Unix timestamp
}

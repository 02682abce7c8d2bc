package models

// CollectionEvent is an immutable audit record, one per stop-status
// transition. It references the plan by id only; no cascade.
type CollectionEvent struct {
	ID          string  `json:"id" db:"id"`
	RoutePlanID string  `json:"routePlanId" db:"route_plan_id"`
	BinID       string  `json:"binId" db:"bin_id"`
	CollectorID string  `json:"collectorId" db:"collector_id"`
	Action      string  `json:"action" db:"action"`
	Note        *string `json:"note,omitempty" db:"note"`
	CreatedAt   int64   `json:"createdAt" db:"created_at"` // Unix timestamp
}

package models

import "fmt"

// RoutePlan status values. Transitions are forward-only:
// assigned -> in_progress -> completed.
const (
	RouteStatusAssigned   = "assigned"
	RouteStatusInProgress = "in_progress"
	RouteStatusCompleted  = "completed"
)

// Stop status values. A stop leaves "pending" exactly once; later
// updates are corrections between the terminal statuses.
const (
	StopStatusPending   = "pending"
	StopStatusCollected = "collected"
	StopStatusSkipped   = "skipped"
	StopStatusDamaged   = "damaged"
)

// RoutePlan is an ordered work order covering one or more stops.
// Stops are created atomically with the plan and never added or
// removed afterwards, only mutated in place.
type RoutePlan struct {
	ID          string  `json:"id" db:"id"`
	CollectorID *string `json:"collectorId,omitempty" db:"collector_id"`
	GeneratedBy string  `json:"generatedBy" db:"generated_by"`
	Algorithm   string  `json:"algorithm" db:"algorithm"`
	Status      string  `json:"status" db:"status"`
	StartedAt   *int64  `json:"startedAt,omitempty" db:"started_at"`     // Unix timestamp, set once
	CompletedAt *int64  `json:"completedAt,omitempty" db:"completed_at"` // Unix timestamp, set once
	CreatedAt   int64   `json:"createdAt" db:"created_at"`
	UpdatedAt   int64   `json:"updatedAt" db:"updated_at"`

	Stops []Stop `json:"stops" db:"-"`
}

// Stop is one scheduled visit within a RoutePlan. It has no identity
// outside its plan; stop_order is fixed at creation.
type Stop struct {
	ID          int     `json:"-" db:"id"`
	RoutePlanID string  `json:"-" db:"route_plan_id"`
	BinID       string  `json:"binId" db:"bin_id"`
	StopOrder   int     `json:"order" db:"stop_order"`
	Status      string  `json:"status" db:"status"`
	Note        *string `json:"note,omitempty" db:"note"`
	CompletedAt *int64  `json:"completedAt,omitempty" db:"completed_at"` // Unix timestamp
}

// PendingLeft reports whether any stop is still pending.
func (rp *RoutePlan) PendingLeft() bool {
	for i := range rp.Stops {
		if rp.Stops[i].Status == StopStatusPending {
			return true
		}
	}
	return false
}

// FindStop returns the stop for a bin, or nil if the plan has none.
func (rp *RoutePlan) FindStop(binID string) *Stop {
	for i := range rp.Stops {
		if rp.Stops[i].BinID == binID {
			return &rp.Stops[i]
		}
	}
	return nil
}

// GenerateRouteRequest is the request body for POST /api/v1/routes/generate.
type GenerateRouteRequest struct {
	CollectorID *string   `json:"collectorId,omitempty"`
	Depot       *Location `json:"depot,omitempty"`
}

// StopStatusRequest is the request body for
// PATCH /api/v1/routes/{routeId}/stops/{binId}/status.
type StopStatusRequest struct {
	Status string  `json:"status"`
	Note   *string `json:"note,omitempty"`
}

// Validate rejects anything outside the terminal stop statuses.
func (r *StopStatusRequest) Validate() error {
	switch r.Status {
	case StopStatusCollected, StopStatusSkipped, StopStatusDamaged:
	default:
		return fmt.Errorf("status must be one of collected, skipped, damaged")
	}
	if r.Note != nil && len(*r.Note) > 500 {
		return fmt.Errorf("note must be at most 500 characters")
	}
	return nil
}

package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"swms-backend/internal/models"
)

// ApplyStopUpdate applies one stop-status change to a plan in memory
// and re-evaluates the route-level state machine:
//
//   - the first stop update of any kind moves the route to in_progress
//     and stamps startedAt once;
//   - when no stop remains pending the route completes and completedAt
//     is stamped once;
//   - status never regresses: correcting a stop on a completed route
//     leaves the route completed.
//
// Returns the mutated stop. The caller persists plan, stop, and the
// matching collection event together.
func ApplyStopUpdate(plan *models.RoutePlan, binID, status string, note *string, now time.Time) (*models.Stop, error) {
	stop := plan.FindStop(binID)
	if stop == nil {
		return nil, ErrStopNotFound
	}

	ts := now.Unix()
	stop.Status = status
	stop.Note = note
	stop.CompletedAt = &ts

	if plan.StartedAt == nil {
		plan.StartedAt = &ts
		plan.Status = models.RouteStatusInProgress
	}

	if !plan.PendingLeft() && plan.CompletedAt == nil {
		plan.Status = models.RouteStatusCompleted
		plan.CompletedAt = &ts
	}

	plan.UpdatedAt = ts
	return stop, nil
}

// UpdateStopStatus runs the full lifecycle operation: load the plan
// under a row lock, authorize the actor, apply the state machine, and
// persist the stop, the route transition, and the collection event as
// one transaction. The row lock serializes concurrent stop updates on
// the same route.
func UpdateStopStatus(db *sqlx.DB, routeID, binID, status string, note *string, actorID, actorRole string) (*models.RoutePlan, error) {
	tx, err := db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var plan models.RoutePlan
	err = tx.Get(&plan, `SELECT * FROM route_plans WHERE id = $1 FOR UPDATE`, routeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRouteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load route plan: %w", err)
	}

	// Collectors may only touch their own route; admins may touch any.
	if actorRole == models.RoleCollector {
		if plan.CollectorID == nil || *plan.CollectorID != actorID {
			return nil, ErrNotYourRoute
		}
	}

	err = tx.Select(&plan.Stops, `
		SELECT id, route_plan_id, bin_id, stop_order, status, note, completed_at
		FROM route_stops
		WHERE route_plan_id = $1
		ORDER BY stop_order ASC
	`, routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stops: %w", err)
	}

	stop, err := ApplyStopUpdate(&plan, binID, status, note, time.Now())
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(`
		UPDATE route_stops
		SET status = $1, note = $2, completed_at = $3
		WHERE route_plan_id = $4 AND bin_id = $5
	`, stop.Status, stop.Note, stop.CompletedAt, routeID, binID)
	if err != nil {
		return nil, fmt.Errorf("failed to update stop: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE route_plans
		SET status = $1, started_at = $2, completed_at = $3, updated_at = $4
		WHERE id = $5
	`, plan.Status, plan.StartedAt, plan.CompletedAt, plan.UpdatedAt, routeID)
	if err != nil {
		return nil, fmt.Errorf("failed to update route plan: %w", err)
	}

	// The audit event commits with the route mutation or not at all.
	_, err = tx.Exec(`
		INSERT INTO collection_events (id, route_plan_id, bin_id, collector_id, action, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, uuid.New().String(), routeID, binID, actorID, status, note, plan.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to append collection event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stop update: %w", err)
	}

	return &plan, nil
}

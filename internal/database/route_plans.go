package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"swms-backend/internal/models"
)

// CreateRoutePlan inserts a plan and its full stop list in one
// transaction. A plan is never persisted without its stops; stops are
// never added or removed afterwards.
func CreateRoutePlan(db *sqlx.DB, collectorID *string, generatedBy, algorithm string, stopBinIDs []string) (*models.RoutePlan, error) {
	tx, err := db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	plan := &models.RoutePlan{
		ID:          uuid.New().String(),
		CollectorID: collectorID,
		GeneratedBy: generatedBy,
		Algorithm:   algorithm,
		Status:      models.RouteStatusAssigned,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err = tx.Exec(`
		INSERT INTO route_plans (id, collector_id, generated_by, algorithm, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, plan.ID, plan.CollectorID, plan.GeneratedBy, plan.Algorithm, plan.Status, plan.CreatedAt, plan.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create route plan: %w", err)
	}

	for i, binID := range stopBinIDs {
		stop := models.Stop{
			RoutePlanID: plan.ID,
			BinID:       binID,
			StopOrder:   i + 1,
			Status:      models.StopStatusPending,
		}

		_, err = tx.Exec(`
			INSERT INTO route_stops (route_plan_id, bin_id, stop_order, status)
			VALUES ($1, $2, $3, $4)
		`, stop.RoutePlanID, stop.BinID, stop.StopOrder, stop.Status)
		if err != nil {
			return nil, fmt.Errorf("failed to create stop %d: %w", i+1, err)
		}

		plan.Stops = append(plan.Stops, stop)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit route plan: %w", err)
	}

	return plan, nil
}

// GetRoutePlan loads one plan with its stops in visiting order.
func GetRoutePlan(db *sqlx.DB, id string) (*models.RoutePlan, error) {
	var plan models.RoutePlan
	err := db.Get(&plan, `SELECT * FROM route_plans WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get route plan: %w", err)
	}

	if err := attachStops(db, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListRoutePlans returns the most recent plans, stops included.
func ListRoutePlans(db *sqlx.DB, limit int) ([]models.RoutePlan, error) {
	var plans []models.RoutePlan
	err := db.Select(&plans, `
		SELECT * FROM route_plans
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list route plans: %w", err)
	}

	for i := range plans {
		if err := attachStops(db, &plans[i]); err != nil {
			return nil, err
		}
	}
	return plans, nil
}

// GetLatestRouteForCollector returns the collector's newest plan, or
// nil when none is assigned.
func GetLatestRouteForCollector(db *sqlx.DB, collectorID string) (*models.RoutePlan, error) {
	var plan models.RoutePlan
	err := db.Get(&plan, `
		SELECT * FROM route_plans
		WHERE collector_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, collectorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get collector route: %w", err)
	}

	if err := attachStops(db, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func attachStops(db *sqlx.DB, plan *models.RoutePlan) error {
	err := db.Select(&plan.Stops, `
		SELECT id, route_plan_id, bin_id, stop_order, status, note, completed_at
		FROM route_stops
		WHERE route_plan_id = $1
		ORDER BY stop_order ASC
	`, plan.ID)
	if err != nil {
		return fmt.Errorf("failed to load stops for plan %s: %w", plan.ID, err)
	}
	return nil
}

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"swms-backend/internal/database"
	"swms-backend/internal/middleware"
	"swms-backend/internal/models"
	"swms-backend/internal/services"
	"swms-backend/internal/websocket"
	"swms-backend/pkg/utils"
)

// defaultDepot is where routes start and where the dispatch office sits.
var defaultDepot = models.Location{Lat: -1.286389, Lng: 36.817223}

// EmptyRouteResponse is returned when no bin needs collection; the
// optimizer is never called in that case.
type EmptyRouteResponse struct {
	Algorithm string   `json:"algorithm"`
	Stops     []string `json:"stops"`
	Message   string   `json:"message"`
}

// GenerateRoute builds a new route plan: select eligible bins, ask the
// optimization service for a visiting order, persist plan and stops
// atomically, then notify the assigned collector.
func GenerateRoute(db *sqlx.DB, hub *websocket.Hub, fcm *services.FCMService, optimizerClient *services.OptimizerClient, th services.Thresholds) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		// Body is optional; an empty request means no collector and the
		// default depot.
		var req models.GenerateRouteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		depot := defaultDepot
		if req.Depot != nil {
			depot = *req.Depot
		}

		if req.CollectorID != nil {
			var count int
			err := db.Get(&count, `SELECT COUNT(*) FROM users WHERE id = $1 AND role = $2`, *req.CollectorID, models.RoleCollector)
			if err != nil || count == 0 {
				utils.Error(w, http.StatusBadRequest, "Unknown collector")
				return
			}
		}

		candidates, err := services.SelectCandidates(db, th)
		if errors.Is(err, services.ErrNoEligibleBins) {
			log.Println("ℹ️ Route generation requested but no bin is above threshold")
			utils.Success(w, EmptyRouteResponse{
				Algorithm: "none",
				Stops:     []string{},
				Message:   "No bins above threshold.",
			})
			return
		}
		if err != nil {
			log.Printf("❌ Failed to select candidates: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to select candidate bins")
			return
		}

		optimized, err := optimizerClient.Optimize(r.Context(), depot, candidates)
		if err != nil {
			if errors.Is(err, services.ErrOptimizerUnavailable) {
				log.Printf("❌ Optimizer unavailable: %v", err)
				utils.Error(w, http.StatusBadGateway, "Optimizer service unavailable")
				return
			}
			log.Printf("❌ Optimizer call failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to optimize route")
			return
		}

		plan, err := database.CreateRoutePlan(db, req.CollectorID, claims.UserID, optimized.Algorithm, optimized.Stops)
		if err != nil {
			log.Printf("❌ Failed to persist route plan: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to create route plan")
			return
		}

		log.Printf("✅ [ROUTE] Generated plan %s with %d stops (%s)", plan.ID, len(plan.Stops), plan.Algorithm)

		if req.CollectorID != nil {
			hub.EmitToUser(*req.CollectorID, websocket.EventRouteAssigned, plan)
			notifyCollector(db, fcm, *req.CollectorID, plan)
		}

		utils.JSON(w, http.StatusCreated, plan)
	}
}

// ListRoutes returns recent plans, newest first, stops included.
func ListRoutes(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plans, err := database.ListRoutePlans(db, 50)
		if err != nil {
			log.Printf("❌ Failed to list route plans: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to list routes")
			return
		}

		utils.Success(w, plans)
	}
}

// GetRoute returns one plan with its stops.
func GetRoute(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routeID := chi.URLParam(r, "routeId")

		plan, err := database.GetRoutePlan(db, routeID)
		if err != nil {
			log.Printf("❌ Failed to load route plan %s: %v", routeID, err)
			utils.Error(w, http.StatusInternalServerError, "Failed to load route")
			return
		}
		if plan == nil {
			utils.Error(w, http.StatusNotFound, "Route not found")
			return
		}

		utils.Success(w, plan)
	}
}

// GetMyActiveRoute returns the caller's newest assigned plan.
func GetMyActiveRoute(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		plan, err := database.GetLatestRouteForCollector(db, claims.UserID)
		if err != nil {
			log.Printf("❌ Failed to load route for collector %s: %v", claims.UserID, err)
			utils.Error(w, http.StatusInternalServerError, "Failed to load route")
			return
		}
		if plan == nil {
			utils.Error(w, http.StatusNotFound, "No route assigned")
			return
		}

		utils.Success(w, plan)
	}
}

// UpdateStopStatus records the outcome of one stop and advances the
// route state machine.
func UpdateStopStatus(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		routeID := chi.URLParam(r, "routeId")
		binID := chi.URLParam(r, "binId")

		var req models.StopStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := req.Validate(); err != nil {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		plan, err := services.UpdateStopStatus(db, routeID, binID, req.Status, req.Note, claims.UserID, claims.Role)
		switch {
		case errors.Is(err, services.ErrRouteNotFound):
			utils.Error(w, http.StatusNotFound, "Route not found")
			return
		case errors.Is(err, services.ErrStopNotFound):
			utils.Error(w, http.StatusNotFound, "Stop not found on this route")
			return
		case errors.Is(err, services.ErrNotYourRoute):
			utils.Error(w, http.StatusForbidden, "Route is not assigned to you")
			return
		case err != nil:
			log.Printf("❌ Failed to update stop %s on route %s: %v", binID, routeID, err)
			utils.Error(w, http.StatusInternalServerError, "Failed to update stop")
			return
		}

		if plan.Status == models.RouteStatusCompleted {
			log.Printf("✅ [ROUTE] Plan %s completed", plan.ID)
		}

		hub.EmitToRole(models.RoleAdmin, websocket.EventRouteUpdated, plan)

		utils.Success(w, plan)
	}
}

// notifyCollector pushes the new assignment to the collector's devices.
func notifyCollector(db *sqlx.DB, fcm *services.FCMService, collectorID string, plan *models.RoutePlan) {
	if fcm == nil {
		return
	}

	tokens, err := tokensForUser(db, collectorID)
	if err != nil {
		log.Printf("⚠️ Failed to load FCM tokens for %s: %v", collectorID, err)
		return
	}

	for _, token := range tokens {
		if err := fcm.SendRouteAssignedNotification(token, plan.ID, len(plan.Stops)); err != nil {
			log.Printf("⚠️ Failed to push route assignment: %v", err)
		}
	}
}

package main

import (
	"encoding/json"
	"log"
	"math"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"swms-backend/internal/models"
	"swms-backend/internal/optimizer"
	"swms-backend/pkg/utils"
)

type optimizeRequest struct {
	Depot *models.Location      `json:"depot"`
	Bins  []optimizer.Candidate `json:"bins"`
}

func handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Depot == nil {
		utils.Error(w, http.StatusBadRequest, "depot is required")
		return
	}
	if math.IsNaN(req.Depot.Lat) || math.IsInf(req.Depot.Lat, 0) ||
		math.IsNaN(req.Depot.Lng) || math.IsInf(req.Depot.Lng, 0) {
		utils.Error(w, http.StatusBadRequest, "depot must have finite lat and lng")
		return
	}
	for _, bin := range req.Bins {
		if bin.BinID == "" {
			utils.Error(w, http.StatusBadRequest, "every bin needs a binId")
			return
		}
	}

	plan := optimizer.Optimize(*req.Depot, req.Bins)
	log.Printf("✅ [OPTIMIZE] Ordered %d stops", len(plan.Stops))

	utils.JSON(w, http.StatusOK, plan)
}

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 SWMS OPTIMIZER SERVICE STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	}

	port := os.Getenv("OPTIMIZER_PORT")
	if port == "" {
		port = "5001"
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Post("/optimize", handleOptimize)

	log.Printf("🌐 Optimizer listening on port %s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"log"
	"net/http"
	"os"

	"swms-backend/internal/config"
	"swms-backend/internal/database"
	"swms-backend/internal/handlers"
	"swms-backend/internal/middleware"
	"swms-backend/internal/models"
	"swms-backend/internal/services"
	"swms-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 SWMS BACKEND SERVER STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Load .env file
	log.Println("📂 Loading environment variables...")
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: DATABASE_URL environment variable is required")
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal("DATABASE_URL environment variable is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("APP_JWT_SECRET environment variable is required")
	}
	if cfg.IoTDeviceToken == "" {
		log.Println("⚠️  IOT_DEVICE_TOKEN not set; telemetry ingest will reject all devices")
	}

	// Connect to database
	log.Println("🔌 Connecting to database...")
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Database connection failed")
		log.Printf("   Error: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	defer db.Close()

	// Run migrations
	log.Println("🔄 Running database migrations...")
	if err := database.Migrate(db); err != nil {
		log.Println("❌ FATAL ERROR: Database migrations failed")
		log.Fatal(err)
	}
	log.Println("✅ Database migrations completed")

	// Seed database
	log.Println("🌱 Seeding database with initial data...")
	if err := database.SeedUsers(db); err != nil {
		log.Println("❌ FATAL ERROR: User seeding failed")
		log.Fatal(err)
	}
	if err := database.SeedBins(db); err != nil {
		log.Println("❌ FATAL ERROR: Bin seeding failed")
		log.Fatal(err)
	}
	log.Println("✅ Seed data in place")

	// Initialize Firebase Cloud Messaging
	// Supports both file path and base64-encoded credentials (for cloud deployments)
	var fcmService *services.FCMService
	fcmCredsBase64 := os.Getenv("FIREBASE_CREDENTIALS_BASE64")

	if fcmCredsBase64 != "" {
		fcmService, err = services.NewFCMServiceFromBase64(fcmCredsBase64)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from base64: %v (push notifications disabled)", err)
			fcmService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from base64 credentials")
		}
	} else {
		fcmCredentialsFile := os.Getenv("FIREBASE_CREDENTIALS_FILE")
		if fcmCredentialsFile == "" {
			fcmCredentialsFile = "./firebase-service-account.json"
		}

		fcmService, err = services.NewFCMService(fcmCredentialsFile)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from file: %v (push notifications disabled)", err)
			fcmService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from file")
		}
	}

	// Initialize WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()
	log.Println("✅ WebSocket hub started")

	thresholds := services.Thresholds{
		FillWarning:  cfg.FillWarning,
		FillCritical: cfg.FillCritical,
		TempCritical: cfg.TempCritical,
	}
	optimizerClient := services.NewOptimizerClient(cfg.OptimizerURL)
	log.Printf("✅ Optimizer client targeting %s", cfg.OptimizerURL)

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "x-device-token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// WebSocket endpoint (authentication handled in handler via query param)
	r.Get("/ws", websocket.HandleWebSocket(wsHub))

	r.Route("/api/v1", func(r chi.Router) {
		// Authentication (no auth required)
		r.Post("/auth/login", handlers.Login(db))

		// Device-facing ingest, gated by the shared device token
		r.Group(func(r chi.Router) {
			r.Use(middleware.DeviceAuth)
			r.Post("/telemetry", handlers.IngestTelemetry(db, wsHub, fcmService, thresholds))
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)

			r.Post("/fcm/tokens", handlers.RegisterFCMToken(db))

			// Citizen reports: anyone signed in can file and see their own
			r.Post("/reports", handlers.CreateReport(db))
			r.Get("/reports/my", handlers.GetMyReports(db))

			r.Get("/bins", handlers.GetBins(db))
			r.Get("/bins/{binId}", handlers.GetBin(db))
			r.Get("/alerts", handlers.GetAlerts(db))

			r.Get("/dashboard/overview", handlers.GetDashboardOverview(db, thresholds))
			r.Get("/dashboard/forecast", handlers.GetCriticalForecast(db, thresholds))

			// Collector surface
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleCollector, models.RoleAdmin))
				r.Get("/routes/my", handlers.GetMyActiveRoute(db))
				r.Patch("/routes/{routeId}/stops/{binId}/status", handlers.UpdateStopStatus(db, wsHub))
			})

			// Admin surface
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))
				r.Post("/routes/generate", handlers.GenerateRoute(db, wsHub, fcmService, optimizerClient, thresholds))
				r.Get("/routes", handlers.ListRoutes(db))
				r.Get("/routes/{routeId}", handlers.GetRoute(db))
				r.Post("/users", handlers.CreateUser(db))
				r.Get("/users/collectors", handlers.ListCollectors(db))
				r.Patch("/alerts/{id}/resolve", handlers.ResolveAlert(db))
				r.Get("/reports", handlers.ListReports(db))
				r.Patch("/reports/{reportId}/status", handlers.UpdateReportStatus(db))
			})
		})
	})

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Printf("🌐 Server listening on port %s", cfg.Port)
	log.Println("═══════════════════════════════════════════════════════════════════")

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}

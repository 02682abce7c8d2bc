package database

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(dbURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Database connection established")
	return db, nil
}

func Migrate(db *sqlx.DB) error {
	migrations := []string{
		// Create users table
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL CHECK(role IN ('admin', 'collector', 'citizen')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create bins table (latest-known snapshot per device, upserted on ingest)
		`CREATE TABLE IF NOT EXISTS bins (
			id TEXT PRIMARY KEY,
			bin_id TEXT NOT NULL UNIQUE,
			fill_level DOUBLE PRECISION NOT NULL,
			temperature_c DOUBLE PRECISION NOT NULL,
			battery_level DOUBLE PRECISION,
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			last_seen_at BIGINT NOT NULL,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create telemetry_records table (append-only history)
		`CREATE TABLE IF NOT EXISTS telemetry_records (
			id TEXT PRIMARY KEY,
			bin_id TEXT NOT NULL,
			fill_level DOUBLE PRECISION NOT NULL,
			temperature_c DOUBLE PRECISION NOT NULL,
			battery_level DOUBLE PRECISION,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			recorded_at BIGINT NOT NULL
		)`,

		// Create alerts table
		`CREATE TABLE IF NOT EXISTS alerts (
			id TEXT PRIMARY KEY,
			bin_id TEXT NOT NULL,
			type TEXT NOT NULL CHECK(type IN ('fill_warning', 'fill_critical', 'fire_risk')),
			level TEXT NOT NULL CHECK(level IN ('warning', 'critical')),
			message TEXT NOT NULL,
			is_resolved BOOLEAN NOT NULL DEFAULT FALSE,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create route_plans table
		`CREATE TABLE IF NOT EXISTS route_plans (
			id TEXT PRIMARY KEY,
			collector_id TEXT REFERENCES users(id),
			generated_by TEXT NOT NULL REFERENCES users(id),
			algorithm TEXT NOT NULL,
			status TEXT NOT NULL CHECK(status IN ('assigned', 'in_progress', 'completed')) DEFAULT 'assigned',
			started_at BIGINT,
			completed_at BIGINT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create route_stops table (owned by route_plans, fixed at creation)
		`CREATE TABLE IF NOT EXISTS route_stops (
			id SERIAL PRIMARY KEY,
			route_plan_id TEXT NOT NULL,
			bin_id TEXT NOT NULL,
			stop_order INT NOT NULL,
			status TEXT NOT NULL CHECK(status IN ('pending', 'collected', 'skipped', 'damaged')) DEFAULT 'pending',
			note TEXT,
			completed_at BIGINT,
			FOREIGN KEY (route_plan_id) REFERENCES route_plans(id) ON DELETE CASCADE,
			UNIQUE (route_plan_id, bin_id)
		)`,

		// Create collection_events table (append-only audit log; references
		// route_plans by id only, no cascade)
		`CREATE TABLE IF NOT EXISTS collection_events (
			id TEXT PRIMARY KEY,
			route_plan_id TEXT NOT NULL,
			bin_id TEXT NOT NULL,
			collector_id TEXT NOT NULL,
			action TEXT NOT NULL CHECK(action IN ('collected', 'skipped', 'damaged')),
			note TEXT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create citizen_reports table (resident-submitted issues)
		`CREATE TABLE IF NOT EXISTS citizen_reports (
			id TEXT PRIMARY KEY,
			reporter_id TEXT REFERENCES users(id),
			type TEXT NOT NULL CHECK(type IN ('overflow', 'damaged_bin', 'illegal_dumping', 'new_bin_request')),
			description TEXT NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			photo_url TEXT,
			reporter_name TEXT,
			reporter_email TEXT,
			status TEXT NOT NULL CHECK(status IN ('open', 'in_review', 'resolved', 'rejected')) DEFAULT 'open',
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create FCM tokens table
		`CREATE TABLE IF NOT EXISTS fcm_tokens (
			id SERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			token TEXT NOT NULL UNIQUE,
			device_type TEXT NOT NULL CHECK(device_type IN ('ios', 'android')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		// Create indexes
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_telemetry_bin_id ON telemetry_records(bin_id)`,
		`CREATE INDEX IF NOT EXISTS idx_telemetry_bin_recorded ON telemetry_records(bin_id, recorded_at)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_bin_id ON alerts(bin_id)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_is_resolved ON alerts(is_resolved)`,
		`CREATE INDEX IF NOT EXISTS idx_route_plans_collector_id ON route_plans(collector_id)`,
		`CREATE INDEX IF NOT EXISTS idx_route_plans_status ON route_plans(status)`,
		`CREATE INDEX IF NOT EXISTS idx_route_plans_created_at ON route_plans(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_route_stops_plan_id ON route_stops(route_plan_id)`,
		`CREATE INDEX IF NOT EXISTS idx_route_stops_plan_order ON route_stops(route_plan_id, stop_order)`,
		`CREATE INDEX IF NOT EXISTS idx_collection_events_plan_id ON collection_events(route_plan_id)`,
		`CREATE INDEX IF NOT EXISTS idx_collection_events_collector_id ON collection_events(collector_id)`,
		`CREATE INDEX IF NOT EXISTS idx_collection_events_created_at ON collection_events(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_fcm_tokens_user_id ON fcm_tokens(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_citizen_reports_reporter_id ON citizen_reports(reporter_id)`,
		`CREATE INDEX IF NOT EXISTS idx_citizen_reports_status ON citizen_reports(status)`,
		`CREATE INDEX IF NOT EXISTS idx_citizen_reports_created_at ON citizen_reports(created_at)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Printf("✅ Ran %d migrations", len(migrations))
	return nil
}

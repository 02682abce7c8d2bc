package database

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

func SeedUsers(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM users"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Users already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding test users...")

	adminPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	collectorPassword, err := bcrypt.GenerateFromPassword([]byte("collector123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []map[string]interface{}{
		{
			"id":       uuid.New().String(),
			"email":    "admin@swms.local",
			"password": string(adminPassword),
			"name":     "SWMS Admin",
			"role":     "admin",
		},
		{
			"id":       uuid.New().String(),
			"email":    "collector@swms.local",
			"password": string(collectorPassword),
			"name":     "SWMS Collector",
			"role":     "collector",
		},
	}

	for _, user := range users {
		query := `
			INSERT INTO users (id, email, password, name, role)
			VALUES (:id, :email, :password, :name, :role)
		`
		if _, err := db.NamedExec(query, user); err != nil {
			return err
		}
		log.Printf("  ✓ Created user: %s (%s)", user["email"], user["role"])
	}

	log.Println("✓ Successfully seeded test users")
	log.Println("  📧 Admin:     admin@swms.local / admin123")
	log.Println("  📧 Collector: collector@swms.local / collector123")
	return nil
}

// SeedBins provisions a handful of downtown Nairobi bins so the
// dashboard and optimizer have data before any device reports in.
func SeedBins(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM bins"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Bins already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding bins...")

	bins := []map[string]interface{}{
		{"bin_id": "BIN-001", "fill_level": 45.0, "temperature_c": 26.0, "latitude": -1.2864, "longitude": 36.8172},
		{"bin_id": "BIN-002", "fill_level": 67.0, "temperature_c": 28.5, "latitude": -1.2833, "longitude": 36.8219},
		{"bin_id": "BIN-003", "fill_level": 23.0, "temperature_c": 25.0, "latitude": -1.2921, "longitude": 36.8214},
		{"bin_id": "BIN-004", "fill_level": 89.0, "temperature_c": 31.0, "latitude": -1.2801, "longitude": 36.8130},
		{"bin_id": "BIN-005", "fill_level": 12.0, "temperature_c": 24.0, "latitude": -1.2950, "longitude": 36.8090},
		{"bin_id": "BIN-006", "fill_level": 94.0, "temperature_c": 30.0, "latitude": -1.2889, "longitude": 36.8250},
		{"bin_id": "BIN-007", "fill_level": 78.0, "temperature_c": 27.0, "latitude": -1.2790, "longitude": 36.8205},
		{"bin_id": "BIN-008", "fill_level": 56.0, "temperature_c": 26.5, "latitude": -1.2910, "longitude": 36.8155},
	}

	now := time.Now().Unix()
	for _, bin := range bins {
		_, err := db.Exec(`
			INSERT INTO bins (id, bin_id, fill_level, temperature_c, latitude, longitude, last_seen_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, uuid.New().String(), bin["bin_id"], bin["fill_level"], bin["temperature_c"],
			bin["latitude"], bin["longitude"], now)
		if err != nil {
			return err
		}
	}

	log.Printf("✓ Successfully seeded %d bins", len(bins))
	return nil
}

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"swms-backend/internal/models"
)

// simBin is one simulated device. Fill only rises between collections;
// a small chance per tick empties the bin as if a crew had come by.
type simBin struct {
	binID string
	lat   float64
	lng   float64
	fill  float64
	temp  float64
}

func newFleet() []*simBin {
	coords := [][2]float64{
		{-1.2833, 36.8167},
		{-1.2921, 36.8219},
		{-1.3000, 36.8100},
		{-1.2700, 36.8300},
		{-1.2950, 36.8250},
		{-1.2800, 36.8050},
	}

	fleet := make([]*simBin, 0, len(coords))
	for i, c := range coords {
		fleet = append(fleet, &simBin{
			binID: fmt.Sprintf("SIM-%03d", i+1),
			lat:   c[0],
			lng:   c[1],
			fill:  rand.Float64() * 50,
			temp:  20 + rand.Float64()*10,
		})
	}
	return fleet
}

func (b *simBin) tick() {
	b.fill += rand.Float64() * 5
	if b.fill > 100 {
		b.fill = 100
	}
	// Occasionally the bin gets collected
	if rand.Float64() < 0.03 {
		b.fill = rand.Float64() * 10
	}

	b.temp = 20 + rand.Float64()*15
	// Rare fire-risk spike
	if rand.Float64() < 0.01 {
		b.temp = 60 + rand.Float64()*20
	}
}

func (b *simBin) post(apiURL, deviceToken string) {
	battery := 50 + rand.Float64()*50
	payload := models.TelemetryRequest{
		BinID:        b.binID,
		FillLevel:    b.fill,
		TemperatureC: b.temp,
		BatteryLevel: &battery,
		Location:     &models.Location{Lat: b.lat, Lng: b.lng},
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequest(http.MethodPost, apiURL+"/api/v1/telemetry", bytes.NewReader(body))
	if err != nil {
		log.Printf("❌ [%s] Failed to build request: %v", b.binID, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-device-token", deviceToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("❌ [%s] Failed to send telemetry: %v", b.binID, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		log.Printf("⚠️ [%s] Unexpected status %d", b.binID, resp.StatusCode)
		return
	}

	log.Printf("📡 [%s] fill=%.1f%% temp=%.1f°C", b.binID, b.fill, b.temp)
}

func main() {
	log.Println("🤖 SWMS IoT SIMULATOR STARTING")

	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	}

	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080"
	}
	deviceToken := os.Getenv("IOT_DEVICE_TOKEN")
	if deviceToken == "" {
		log.Fatal("IOT_DEVICE_TOKEN environment variable is required")
	}

	interval := 10 * time.Second
	if raw := os.Getenv("SIMULATOR_INTERVAL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			interval = parsed
		}
	}

	fleet := newFleet()
	log.Printf("📡 Simulating %d bins against %s every %s", len(fleet), apiURL, interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		for _, bin := range fleet {
			bin.tick()
			bin.post(apiURL, deviceToken)
		}
	}
}

package config

import (
	"os"
	"strconv"
)

// Config holds all environment-derived settings.
// Thresholds drive both alert evaluation and route candidate selection,
// so they live here rather than scattered across handlers.
type Config struct {
	Port           string
	DatabaseURL    string
	JWTSecret      string
	IoTDeviceToken string
	OptimizerURL   string

	FillWarning  float64
	FillCritical float64
	TempCritical float64
}

// Load reads configuration from environment variables with the same
// defaults the dashboard and simulator expect.
func Load() Config {
	return Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("APP_JWT_SECRET"),
		IoTDeviceToken: os.Getenv("IOT_DEVICE_TOKEN"),
		OptimizerURL:   getEnv("OPTIMIZER_URL", "http://localhost:5001"),
		FillWarning:    getEnvFloat("ALERT_FILL_WARNING", 80),
		FillCritical:   getEnvFloat("ALERT_FILL_CRITICAL", 90),
		TempCritical:   getEnvFloat("ALERT_TEMPERATURE_CRITICAL", 60),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

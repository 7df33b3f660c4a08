// Package config loads process-wide configuration at startup.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Coordinate is a latitude/longitude pair.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Config holds all startup configuration. It is built once in main and
// passed into constructors; nothing reads the environment afterwards.
type Config struct {
	// Port is the HTTP listen port.
	Port string

	// Environment names the deployment environment.
	Environment string

	// OTLPEndpoint is the OpenTelemetry collector endpoint.
	OTLPEndpoint string

	// TelemetryEnabled toggles OTLP export.
	TelemetryEnabled bool

	// DefaultLat/DefaultLon back the ingestion endpoint when the request
	// carries no coordinate. Empty strings mean no default.
	DefaultLat string
	DefaultLon string

	// IngestInterval is the worker's ingestion cadence.
	IngestInterval time.Duration
}

// Load reads configuration from the environment, honoring a local .env
// file when present.
func Load() Config {
	_ = godotenv.Load()

	interval, err := time.ParseDuration(getEnvOrDefault("INGEST_INTERVAL", "1h"))
	if err != nil {
		interval = time.Hour
	}

	return Config{
		Port:             getEnvOrDefault("APP_PORT", "8080"),
		Environment:      getEnvOrDefault("APP_ENV", "development"),
		OTLPEndpoint:     getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TelemetryEnabled: os.Getenv("OTEL_ENABLED") == "true",
		DefaultLat:       os.Getenv("DEFAULT_LAT"),
		DefaultLon:       os.Getenv("DEFAULT_LON"),
		IngestInterval:   interval,
	}
}

// DefaultCoordinate returns the configured default coordinate, or false
// when either value is missing or not a valid float.
func (c Config) DefaultCoordinate() (Coordinate, bool) {
	lat, errLat := strconv.ParseFloat(c.DefaultLat, 64)
	lon, errLon := strconv.ParseFloat(c.DefaultLon, 64)
	if errLat != nil || errLon != nil {
		return Coordinate{}, false
	}
	return Coordinate{Lat: lat, Lon: lon}, true
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

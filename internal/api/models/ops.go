package models

import "time"

// HealthStatus values for the ops endpoints.
const (
	HealthStatusOK       = "ok"
	HealthStatusDegraded = "degraded"
)

// Health is the liveness/readiness response body.
type Health struct {
	Status  string         `json:"status"`
	Time    time.Time      `json:"time"`
	Details map[string]any `json:"details,omitempty"`
}

// Package observation defines the hourly weather sample domain model and
// its persistence contract.
package observation

import (
	"errors"
	"time"
)

// Predefined errors for the observation domain.
var (
	// ErrInvalidCoordinates is returned for out-of-range or missing coordinates.
	ErrInvalidCoordinates = errors.New("invalid coordinates")

	// ErrUpstream is returned when both provider endpoints failed.
	ErrUpstream = errors.New("upstream provider failed")

	// ErrMalformedResponse is returned when the provider payload cannot be
	// trusted (e.g. hourly arrays of different lengths).
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrStorage wraps persistence-layer failures.
	ErrStorage = errors.New("storage failure")

	// ErrNoData is returned when an export window contains no records.
	// This is an expected outcome, not a fault.
	ErrNoData = errors.New("no data in window")

	// ErrEmptyWindow is returned when a chart is requested for an empty
	// window. Callers are expected to check emptiness first.
	ErrEmptyWindow = errors.New("empty series window")
)

// Observation is one hourly weather sample for a coordinate.
// Immutable once stored; replaced only by a later ingest whose batch
// range overlaps its timestamp.
type Observation struct {
	Timestamp   time.Time `json:"timestamp"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Temperature float64   `json:"temperature_2m"`
	Humidity    float64   `json:"relative_humidity_2m"`
}

// SeriesWindow is a queried, time-bounded, ascending slice of stored
// observations. Derived per request, never stored.
type SeriesWindow struct {
	Start        time.Time
	End          time.Time
	Observations []Observation
}

// Empty reports whether the window holds no observations.
func (w SeriesWindow) Empty() bool {
	return len(w.Observations) == 0
}

// ValidateCoordinates checks that a coordinate pair is on the globe.
func ValidateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}

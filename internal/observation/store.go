package observation

import (
	"context"
	"time"
)

// Store persists hourly observations and answers time-range queries.
type Store interface {
	// Upsert replaces all records for the exact coordinate whose
	// timestamp falls inside the batch's [min, max] range, then inserts
	// the batch. The delete+insert pair is atomic. An empty batch is a
	// no-op.
	Upsert(ctx context.Context, lat, lon float64, batch []Observation) error

	// QueryRange returns records with start <= timestamp <= end across
	// all coordinates, ascending by timestamp.
	QueryRange(ctx context.Context, start, end time.Time) ([]Observation, error)

	// LatestFor returns the maximum-timestamp record for an exact
	// coordinate match, or nil if none exists.
	LatestFor(ctx context.Context, lat, lon float64) (*Observation, error)
}

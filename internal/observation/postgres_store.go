package observation

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// insertChunkSize bounds how many rows go into a single batched insert.
const insertChunkSize = 500

// PostgresStore is a PostgreSQL implementation of Store.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL observation store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the observations table and its indexes.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS observations (
			id BIGSERIAL PRIMARY KEY,
			timestamp TIMESTAMPTZ NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			temperature_2m DOUBLE PRECISION NOT NULL,
			relative_humidity_2m DOUBLE PRECISION NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_observations_timestamp
			ON observations (timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_observations_coord_timestamp
			ON observations (latitude, longitude, timestamp)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%w: ensure schema: %v", ErrStorage, err)
		}
	}
	return nil
}

// Upsert replaces overlapping records for the coordinate, then inserts
// the batch, all inside one transaction. Ingests for the same coordinate
// serialize on an advisory lock; across separate calls the last commit
// wins, which is the documented policy.
func (s *PostgresStore) Upsert(ctx context.Context, lat, lon float64, batch []Observation) error {
	if len(batch) == 0 {
		// Deleting on an empty batch would be unbounded; do nothing.
		return nil
	}

	minTs, maxTs := batchRange(batch)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin upsert: %v", ErrStorage, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, coordinateLockKey(lat, lon)); err != nil {
		return fmt.Errorf("%w: acquire coordinate lock: %v", ErrStorage, err)
	}

	deleteQuery := `
		DELETE FROM observations
		WHERE latitude = $1 AND longitude = $2
		  AND timestamp >= $3 AND timestamp <= $4
	`
	if _, err := tx.Exec(ctx, deleteQuery, lat, lon, minTs, maxTs); err != nil {
		return fmt.Errorf("%w: delete overlapping range: %v", ErrStorage, err)
	}

	insertQuery := `
		INSERT INTO observations (timestamp, latitude, longitude, temperature_2m, relative_humidity_2m)
		VALUES ($1, $2, $3, $4, $5)
	`
	for offset := 0; offset < len(batch); offset += insertChunkSize {
		end := offset + insertChunkSize
		if end > len(batch) {
			end = len(batch)
		}

		b := &pgx.Batch{}
		for _, obs := range batch[offset:end] {
			b.Queue(insertQuery, obs.Timestamp.UTC(), lat, lon, obs.Temperature, obs.Humidity)
		}
		if err := tx.SendBatch(ctx, b).Close(); err != nil {
			return fmt.Errorf("%w: insert batch: %v", ErrStorage, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit upsert: %v", ErrStorage, err)
	}
	return nil
}

// QueryRange returns records within [start, end] ordered ascending.
func (s *PostgresStore) QueryRange(ctx context.Context, start, end time.Time) ([]Observation, error) {
	query := `
		SELECT timestamp, latitude, longitude, temperature_2m, relative_humidity_2m
		FROM observations
		WHERE timestamp >= $1 AND timestamp <= $2
		ORDER BY timestamp ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: query range: %v", ErrStorage, err)
	}
	defer rows.Close()

	var observations []Observation
	for rows.Next() {
		var obs Observation
		if err := rows.Scan(&obs.Timestamp, &obs.Latitude, &obs.Longitude, &obs.Temperature, &obs.Humidity); err != nil {
			return nil, fmt.Errorf("%w: scan observation: %v", ErrStorage, err)
		}
		obs.Timestamp = obs.Timestamp.UTC()
		observations = append(observations, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate range: %v", ErrStorage, err)
	}

	return observations, nil
}

// LatestFor returns the newest record for an exact coordinate match.
func (s *PostgresStore) LatestFor(ctx context.Context, lat, lon float64) (*Observation, error) {
	query := `
		SELECT timestamp, latitude, longitude, temperature_2m, relative_humidity_2m
		FROM observations
		WHERE latitude = $1 AND longitude = $2
		ORDER BY timestamp DESC
		LIMIT 1
	`

	var obs Observation
	err := s.pool.QueryRow(ctx, query, lat, lon).Scan(
		&obs.Timestamp,
		&obs.Latitude,
		&obs.Longitude,
		&obs.Temperature,
		&obs.Humidity,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: latest for coordinate: %v", ErrStorage, err)
	}

	obs.Timestamp = obs.Timestamp.UTC()
	return &obs, nil
}

// batchRange computes the inclusive [min, max] timestamp span of a batch.
func batchRange(batch []Observation) (time.Time, time.Time) {
	minTs, maxTs := batch[0].Timestamp, batch[0].Timestamp
	for _, obs := range batch[1:] {
		if obs.Timestamp.Before(minTs) {
			minTs = obs.Timestamp
		}
		if obs.Timestamp.After(maxTs) {
			maxTs = obs.Timestamp
		}
	}
	return minTs.UTC(), maxTs.UTC()
}

// coordinateLockKey derives a stable advisory lock key for a coordinate pair.
func coordinateLockKey(lat, lon float64) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%.6f:%.6f", lat, lon)
	return int64(h.Sum64()) //nolint:gosec // lock key, wraparound is fine
}

// Ensure PostgresStore implements Store.
var _ Store = (*PostgresStore)(nil)

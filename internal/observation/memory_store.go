package observation

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryStore is an in-memory implementation of Store.
// This is intended for testing. Production should use PostgresStore.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []Observation
}

// NewInMemoryStore creates a new in-memory observation store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Upsert mirrors the Postgres semantics: delete records for the exact
// coordinate inside the batch's timestamp span, then append the batch.
func (s *InMemoryStore) Upsert(_ context.Context, lat, lon float64, batch []Observation) error {
	if len(batch) == 0 {
		return nil
	}

	minTs, maxTs := batchRange(batch)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	for _, rec := range s.records {
		overlaps := rec.Latitude == lat && rec.Longitude == lon &&
			!rec.Timestamp.Before(minTs) && !rec.Timestamp.After(maxTs)
		if !overlaps {
			kept = append(kept, rec)
		}
	}
	s.records = kept

	for _, obs := range batch {
		obs.Latitude = lat
		obs.Longitude = lon
		obs.Timestamp = obs.Timestamp.UTC()
		s.records = append(s.records, obs)
	}
	return nil
}

// QueryRange returns records within [start, end] ordered ascending.
func (s *InMemoryStore) QueryRange(_ context.Context, start, end time.Time) ([]Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Observation
	for _, rec := range s.records {
		if !rec.Timestamp.Before(start) && !rec.Timestamp.After(end) {
			result = append(result, rec)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	return result, nil
}

// LatestFor returns the newest record for an exact coordinate match.
func (s *InMemoryStore) LatestFor(_ context.Context, lat, lon float64) (*Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *Observation
	for i := range s.records {
		rec := s.records[i]
		if rec.Latitude != lat || rec.Longitude != lon {
			continue
		}
		if latest == nil || rec.Timestamp.After(latest.Timestamp) {
			cpy := rec
			latest = &cpy
		}
	}
	return latest, nil
}

// Ensure InMemoryStore implements Store.
var _ Store = (*InMemoryStore)(nil)

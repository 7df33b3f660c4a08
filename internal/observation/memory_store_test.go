package observation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyreport/skyreport/internal/observation"
)

func ts(hour int) time.Time {
	return time.Date(2024, 1, 1, hour, 0, 0, 0, time.UTC)
}

func obs(hour int, temp, hum float64) observation.Observation {
	return observation.Observation{
		Timestamp:   ts(hour),
		Latitude:    47.0,
		Longitude:   8.0,
		Temperature: temp,
		Humidity:    hum,
	}
}

func TestStore_UpsertAndQueryRange(t *testing.T) {
	store := observation.NewInMemoryStore()
	ctx := context.Background()

	batch := []observation.Observation{
		obs(0, 5.0, 60),
		obs(1, 5.5, 58),
	}
	require.NoError(t, store.Upsert(ctx, 47.0, 8.0, batch))

	got, err := store.QueryRange(ctx, ts(0), ts(1))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ts(0), got[0].Timestamp)
	assert.Equal(t, 5.0, got[0].Temperature)
	assert.Equal(t, 60.0, got[0].Humidity)
	assert.Equal(t, ts(1), got[1].Timestamp)
	assert.Equal(t, 5.5, got[1].Temperature)
}

func TestStore_UpsertIdempotent(t *testing.T) {
	store := observation.NewInMemoryStore()
	ctx := context.Background()

	batch := []observation.Observation{
		obs(0, 5.0, 60),
		obs(1, 5.5, 58),
	}
	require.NoError(t, store.Upsert(ctx, 47.0, 8.0, batch))
	require.NoError(t, store.Upsert(ctx, 47.0, 8.0, batch))

	got, err := store.QueryRange(ctx, ts(0), ts(23))
	require.NoError(t, err)
	assert.Len(t, got, 2, "duplicate upsert must not duplicate rows")
}

func TestStore_UpsertReplacesOverlappingRange(t *testing.T) {
	store := observation.NewInMemoryStore()
	ctx := context.Background()

	// Existing records at T1 < T2 < T3.
	require.NoError(t, store.Upsert(ctx, 47.0, 8.0, []observation.Observation{
		obs(1, 1.0, 10),
		obs(2, 2.0, 20),
		obs(3, 3.0, 30),
	}))

	// New batch covering [T2, T4] replaces T2 and T3, leaves T1.
	require.NoError(t, store.Upsert(ctx, 47.0, 8.0, []observation.Observation{
		obs(2, 22.0, 22),
		obs(4, 44.0, 44),
	}))

	got, err := store.QueryRange(ctx, ts(0), ts(23))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 1.0, got[0].Temperature, "T1 must be untouched")
	assert.Equal(t, 22.0, got[1].Temperature, "T2 must be replaced")
	assert.Equal(t, ts(4), got[2].Timestamp)
}

func TestStore_UpsertOtherCoordinateUntouched(t *testing.T) {
	store := observation.NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, 47.0, 8.0, []observation.Observation{obs(1, 1.0, 10)}))

	other := []observation.Observation{{
		Timestamp:   ts(1),
		Latitude:    52.0,
		Longitude:   4.9,
		Temperature: 9.0,
		Humidity:    90,
	}}
	require.NoError(t, store.Upsert(ctx, 52.0, 4.9, other))

	got, err := store.QueryRange(ctx, ts(0), ts(23))
	require.NoError(t, err)
	assert.Len(t, got, 2, "overlap delete is scoped to the exact coordinate")
}

func TestStore_UpsertEmptyBatchIsNoOp(t *testing.T) {
	store := observation.NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, 47.0, 8.0, []observation.Observation{obs(1, 1.0, 10)}))
	require.NoError(t, store.Upsert(ctx, 47.0, 8.0, nil))

	got, err := store.QueryRange(ctx, ts(0), ts(23))
	require.NoError(t, err)
	assert.Len(t, got, 1, "empty batch must not delete anything")
}

func TestStore_LatestFor(t *testing.T) {
	store := observation.NewInMemoryStore()
	ctx := context.Background()

	latest, err := store.LatestFor(ctx, 47.0, 8.0)
	require.NoError(t, err)
	assert.Nil(t, latest)

	require.NoError(t, store.Upsert(ctx, 47.0, 8.0, []observation.Observation{
		obs(0, 5.0, 60),
		obs(2, 6.0, 55),
		obs(1, 5.5, 58),
	}))

	latest, err = store.LatestFor(ctx, 47.0, 8.0)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, ts(2), latest.Timestamp)
	assert.Equal(t, 6.0, latest.Temperature)

	// Exact coordinate match only.
	latest, err = store.LatestFor(ctx, 47.0, 8.5)
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestValidateCoordinates(t *testing.T) {
	assert.NoError(t, observation.ValidateCoordinates(47.0, 8.0))
	assert.ErrorIs(t, observation.ValidateCoordinates(91.0, 8.0), observation.ErrInvalidCoordinates)
	assert.ErrorIs(t, observation.ValidateCoordinates(47.0, -181.0), observation.ErrInvalidCoordinates)
}

package pricing

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealtracker/internal/lib/pricesource"
	"dealtracker/internal/models"
)

type fakeSource struct {
	price float64
	err   error
	calls int
}

func (s *fakeSource) Lookup(_ context.Context, _ string) (float64, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	return s.price, nil
}

type fakeStorage struct {
	updated   bool
	productID int64
	price     float64
	diff      float64
	at        time.Time
	err       error
}

func (s *fakeStorage) UpdateRefreshedPrice(
	_ context.Context,
	productID int64,
	currentPrice, priceDifference float64,
	refreshedAt time.Time,
) error {
	if s.err != nil {
		return s.err
	}
	s.updated = true
	s.productID = productID
	s.price = currentPrice
	s.diff = priceDifference
	s.at = refreshedAt
	return nil
}

type fakeCache struct {
	saved []models.Product
}

func (c *fakeCache) SaveProduct(_ context.Context, product models.Product) error {
	c.saved = append(c.saved, product)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func product(initial, current float64, lastRefreshed time.Time) models.Product {
	return models.Product{
		ID:            1,
		ExternalID:    "ext-1",
		Name:          "widget",
		InitialPrice:  initial,
		CurrentPrice:  current,
		LastRefreshed: lastRefreshed,
	}
}

func TestRefreshIfStale(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	t.Run("FreshProductIsUntouched", func(t *testing.T) {
		source := &fakeSource{price: 50}
		store := &fakeStorage{}
		r := New(discardLogger(), source, store, &fakeCache{}, 12*time.Hour)

		p := product(100, 100, now.Add(-11*time.Hour))

		got, err := r.RefreshIfStale(context.Background(), p, now)
		require.NoError(t, err)
		assert.Equal(t, p, got)
		assert.Zero(t, source.calls)
		assert.False(t, store.updated)
	})

	t.Run("StaleProductIsRefreshedAndPersisted", func(t *testing.T) {
		source := &fakeSource{price: 90}
		store := &fakeStorage{}
		cache := &fakeCache{}
		r := New(discardLogger(), source, store, cache, 12*time.Hour)

		p := product(100, 100, now.Add(-13*time.Hour))

		got, err := r.RefreshIfStale(context.Background(), p, now)
		require.NoError(t, err)

		assert.Equal(t, 90.0, got.CurrentPrice)
		assert.Equal(t, 10.0, got.PriceDifference)
		assert.Equal(t, now, got.LastRefreshed)

		require.True(t, store.updated)
		assert.Equal(t, int64(1), store.productID)
		assert.Equal(t, 90.0, store.price)
		assert.Equal(t, 10.0, store.diff)
		assert.Equal(t, now, store.at)

		require.Len(t, cache.saved, 1)
		assert.Equal(t, got, cache.saved[0])
	})

	t.Run("ExactThresholdCountsAsStale", func(t *testing.T) {
		source := &fakeSource{price: 80}
		store := &fakeStorage{}
		r := New(discardLogger(), source, store, &fakeCache{}, 12*time.Hour)

		p := product(100, 100, now.Add(-12*time.Hour))

		_, err := r.RefreshIfStale(context.Background(), p, now)
		require.NoError(t, err)
		assert.Equal(t, 1, source.calls)
	})

	t.Run("FailedLookupLeavesEveryFieldUntouched", func(t *testing.T) {
		source := &fakeSource{err: pricesource.ErrNotFound}
		store := &fakeStorage{}
		cache := &fakeCache{}
		r := New(discardLogger(), source, store, cache, 12*time.Hour)

		lastRefreshed := now.Add(-13 * time.Hour)
		p := product(100, 100, lastRefreshed)

		got, err := r.RefreshIfStale(context.Background(), p, now)
		require.NoError(t, err)

		// last_refreshed stays put so the next read retries immediately.
		assert.Equal(t, p, got)
		assert.Equal(t, lastRefreshed, got.LastRefreshed)
		assert.False(t, store.updated)
		assert.Empty(t, cache.saved)
	})

	t.Run("PersistFailurePropagates", func(t *testing.T) {
		persistErr := errors.New("connection reset")
		source := &fakeSource{price: 90}
		store := &fakeStorage{err: persistErr}
		r := New(discardLogger(), source, store, &fakeCache{}, 12*time.Hour)

		p := product(100, 100, now.Add(-13*time.Hour))

		_, err := r.RefreshIfStale(context.Background(), p, now)
		require.ErrorIs(t, err, persistErr)
		assert.Contains(t, err.Error(), "pricing.RefreshIfStale")
	})
}

package pricewatch

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealtracker/internal/models"
	"dealtracker/internal/storage"
)

type fakeStorage struct {
	product models.Product
	getErr  error

	updated bool
	price   float64
	diff    float64
}

func (f *fakeStorage) ProductByID(_ context.Context, _ int64) (models.Product, error) {
	if f.getErr != nil {
		return models.Product{}, f.getErr
	}
	return f.product, nil
}

func (f *fakeStorage) UpdateRefreshedPrice(
	_ context.Context,
	_ int64,
	currentPrice, priceDifference float64,
	_ time.Time,
) error {
	f.updated = true
	f.price = currentPrice
	f.diff = priceDifference
	return nil
}

type fakeCache struct {
	dropped []int64
}

func (f *fakeCache) DeleteProduct(_ context.Context, productID int64) error {
	f.dropped = append(f.dropped, productID)
	return nil
}

// syncConsumer feeds each body to the handler inline and records the
// handler's verdict.
type syncConsumer struct {
	bodies [][]byte
	errs   []error
}

func (c *syncConsumer) Consume(ctx context.Context, handler func(ctx context.Context, body []byte) error) error {
	for _, body := range c.bodies {
		c.errs = append(c.errs, handler(ctx, body))
	}
	return nil
}

func marshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestPriceWatch(t *testing.T) {
	t.Run("FoundPriceIsAppliedAndCacheInvalidated", func(t *testing.T) {
		store := &fakeStorage{
			product: models.Product{ID: 5, InitialPrice: 100},
		}
		cache := &fakeCache{}
		consumer := &syncConsumer{bodies: [][]byte{
			marshal(t, models.PriceUpdate{ProductID: 5, Price: 80, Found: true}),
		}}

		watch := New(store, cache, consumer)
		require.NoError(t, watch.Run(context.Background()))

		require.Len(t, consumer.errs, 1)
		require.NoError(t, consumer.errs[0])

		assert.True(t, store.updated)
		assert.Equal(t, 80.0, store.price)
		assert.Equal(t, 20.0, store.diff)
		assert.Equal(t, []int64{5}, cache.dropped)
	})

	t.Run("NotFoundIsAcknowledgedWithoutChanges", func(t *testing.T) {
		store := &fakeStorage{product: models.Product{ID: 5, InitialPrice: 100}}
		cache := &fakeCache{}
		consumer := &syncConsumer{bodies: [][]byte{
			marshal(t, models.PriceUpdate{ProductID: 5, Found: false}),
		}}

		watch := New(store, cache, consumer)
		require.NoError(t, watch.Run(context.Background()))

		require.NoError(t, consumer.errs[0])
		assert.False(t, store.updated)
		assert.Empty(t, cache.dropped)
	})

	t.Run("UnknownProductIsRequeued", func(t *testing.T) {
		store := &fakeStorage{getErr: storage.ErrProductNotFound}
		consumer := &syncConsumer{bodies: [][]byte{
			marshal(t, models.PriceUpdate{ProductID: 99, Price: 10, Found: true}),
		}}

		watch := New(store, &fakeCache{}, consumer)
		require.NoError(t, watch.Run(context.Background()))

		require.ErrorIs(t, consumer.errs[0], storage.ErrProductNotFound)
	})

	t.Run("GarbageMessageFails", func(t *testing.T) {
		consumer := &syncConsumer{bodies: [][]byte{[]byte("not json")}}

		watch := New(&fakeStorage{}, &fakeCache{}, consumer)
		require.NoError(t, watch.Run(context.Background()))

		require.Error(t, consumer.errs[0])
	})
}

package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealtracker/internal/models"
	"dealtracker/internal/storage"
)

type fakePostgres struct {
	products map[int64]models.Product
	alerts   []models.Alert
	total    int64

	createAlertID  int64
	createProdID   int64
	createdProduct bool
	createErr      error
}

func (f *fakePostgres) CreateAlert(
	_ context.Context,
	_ int64,
	_ string,
	_ float64,
	_ *models.ProductMetadata,
	_ time.Time,
) (int64, int64, bool, error) {
	if f.createErr != nil {
		return 0, 0, false, f.createErr
	}
	return f.createAlertID, f.createProdID, f.createdProduct, nil
}

func (f *fakePostgres) RecentAlerts(_ context.Context, _, _ int64) ([]models.Alert, error) {
	return f.alerts, nil
}

func (f *fakePostgres) Alerts(_ context.Context, _, _, _ int64) ([]models.Alert, int64, error) {
	return f.alerts, f.total, nil
}

func (f *fakePostgres) UpdateAlert(_ context.Context, _ int64, _ float64, _ time.Time) error {
	return nil
}

func (f *fakePostgres) DeleteAlert(_ context.Context, _ int64) error {
	return nil
}

func (f *fakePostgres) ProductByID(_ context.Context, productID int64) (models.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return models.Product{}, storage.ErrProductNotFound
	}
	return p, nil
}

type fakeRedis struct {
	cached map[int64]models.Product
	saved  []int64
}

func (f *fakeRedis) SaveProduct(_ context.Context, product models.Product) error {
	f.saved = append(f.saved, product.ID)
	return nil
}

func (f *fakeRedis) Product(_ context.Context, productID int64) (models.Product, error) {
	p, ok := f.cached[productID]
	if !ok {
		return models.Product{}, storage.ErrProductNotFound
	}
	return p, nil
}

type passthroughRefresher struct {
	touched []int64
}

func (r *passthroughRefresher) RefreshIfStale(_ context.Context, product models.Product, _ time.Time) (models.Product, error) {
	r.touched = append(r.touched, product.ID)
	return product, nil
}

type fakeProducer struct {
	published []any
}

func (f *fakeProducer) PublishJSON(_ context.Context, msg any) error {
	f.published = append(f.published, msg)
	return nil
}

func TestFormatAlerts(t *testing.T) {
	now := time.Now()

	pg := &fakePostgres{
		products: map[int64]models.Product{
			10: {ID: 10, Name: "widget", Link: "l10", Image: "i10", Store: "ebay", Currency: "USD", CurrentPrice: 90, PriceDifference: 10},
			20: {ID: 20, Name: "gadget", Link: "l20", Image: "i20", Store: "ebay", Currency: "EUR", CurrentPrice: 200, PriceDifference: -5},
		},
	}
	refresher := &passthroughRefresher{}
	op := New(pg, &fakeRedis{}, refresher, &fakeProducer{}, 5, 5)

	rows := []models.Alert{
		{ID: 1, ProductID: 20, DesiredPrice: 150},
		{ID: 2, ProductID: 10, DesiredPrice: 80},
	}

	views, err := op.FormatAlerts(context.Background(), rows, now)
	require.NoError(t, err)
	require.Len(t, views, 2)

	// Input order is preserved, no re-sorting.
	assert.Equal(t, int64(1), views[0].AlertID)
	assert.Equal(t, "gadget", views[0].ProductName)
	assert.Equal(t, 150.0, views[0].DesiredPrice)
	assert.Equal(t, 200.0, views[0].ProductPrice)
	assert.Equal(t, "EUR", views[0].ProductCurrency)
	assert.Equal(t, -5.0, views[0].PriceDifference)

	assert.Equal(t, int64(2), views[1].AlertID)
	assert.Equal(t, "widget", views[1].ProductName)
	assert.Equal(t, "l10", views[1].ProductLink)
	assert.Equal(t, "i10", views[1].ProductImage)
	assert.Equal(t, "ebay", views[1].ProductStore)

	// Every product went through the refresher.
	assert.Equal(t, []int64{20, 10}, refresher.touched)
}

func TestFormatAlerts_MissingProduct(t *testing.T) {
	pg := &fakePostgres{products: map[int64]models.Product{}}
	op := New(pg, &fakeRedis{}, &passthroughRefresher{}, &fakeProducer{}, 5, 5)

	_, err := op.FormatAlerts(context.Background(), []models.Alert{{ID: 1, ProductID: 99}}, time.Now())
	require.ErrorIs(t, err, storage.ErrProductNotFound)
}

func TestProductReadThrough(t *testing.T) {
	now := time.Now()

	t.Run("CacheMissFallsBackToPostgresAndCaches", func(t *testing.T) {
		pg := &fakePostgres{
			products: map[int64]models.Product{10: {ID: 10, Name: "widget"}},
		}
		cache := &fakeRedis{cached: map[int64]models.Product{}}
		op := New(pg, cache, &passthroughRefresher{}, &fakeProducer{}, 5, 5)

		views, err := op.FormatAlerts(context.Background(), []models.Alert{{ID: 1, ProductID: 10}}, now)
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, []int64{10}, cache.saved)
	})

	t.Run("CacheHitSkipsPostgres", func(t *testing.T) {
		pg := &fakePostgres{products: map[int64]models.Product{}}
		cache := &fakeRedis{
			cached: map[int64]models.Product{10: {ID: 10, Name: "cached widget"}},
		}
		op := New(pg, cache, &passthroughRefresher{}, &fakeProducer{}, 5, 5)

		views, err := op.FormatAlerts(context.Background(), []models.Alert{{ID: 1, ProductID: 10}}, now)
		require.NoError(t, err)
		assert.Equal(t, "cached widget", views[0].ProductName)
	})
}

func TestAddAlert(t *testing.T) {
	now := time.Now()

	t.Run("NewProductQueuesAFetchTask", func(t *testing.T) {
		pg := &fakePostgres{createAlertID: 7, createProdID: 3, createdProduct: true}
		producer := &fakeProducer{}
		op := New(pg, &fakeRedis{}, &passthroughRefresher{}, producer, 5, 5)

		alertID, err := op.AddAlert(context.Background(), 1, "ext-3", 49.99, &models.ProductMetadata{}, now)
		require.NoError(t, err)
		assert.Equal(t, int64(7), alertID)

		require.Len(t, producer.published, 1)
		task := producer.published[0].(models.FetchTask)
		assert.Equal(t, int64(3), task.ProductID)
		assert.Equal(t, "ext-3", task.ExternalID)
	})

	t.Run("ExistingProductPublishesNothing", func(t *testing.T) {
		pg := &fakePostgres{createAlertID: 8, createProdID: 3, createdProduct: false}
		producer := &fakeProducer{}
		op := New(pg, &fakeRedis{}, &passthroughRefresher{}, producer, 5, 5)

		_, err := op.AddAlert(context.Background(), 1, "ext-3", 49.99, nil, now)
		require.NoError(t, err)
		assert.Empty(t, producer.published)
	})

	t.Run("DuplicateAlertSurfaces", func(t *testing.T) {
		pg := &fakePostgres{createErr: storage.ErrAlertExists}
		op := New(pg, &fakeRedis{}, &passthroughRefresher{}, &fakeProducer{}, 5, 5)

		_, err := op.AddAlert(context.Background(), 1, "ext-3", 49.99, nil, now)
		require.ErrorIs(t, err, storage.ErrAlertExists)
	})
}

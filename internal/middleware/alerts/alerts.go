// Package alerts holds the alert operator: creation, edits, deletion and
// the display pipeline that joins alerts with refreshed products.
package alerts

import (
	"context"
	"errors"
	"time"

	"dealtracker/internal/models"
	"dealtracker/internal/storage"
)

type PostgresStorage interface {
	CreateAlert(
		ctx context.Context,
		userID int64,
		externalProductID string,
		desiredPrice float64,
		meta *models.ProductMetadata,
		now time.Time,
	) (alertID, productID int64, createdProduct bool, err error)
	RecentAlerts(ctx context.Context, userID, limit int64) ([]models.Alert, error)
	Alerts(ctx context.Context, userID, limit, offset int64) ([]models.Alert, int64, error)
	UpdateAlert(ctx context.Context, alertID int64, desiredPrice float64, now time.Time) error
	DeleteAlert(ctx context.Context, alertID int64) error
	ProductByID(ctx context.Context, productID int64) (models.Product, error)
}

type RedisStorage interface {
	SaveProduct(ctx context.Context, product models.Product) error
	Product(ctx context.Context, productID int64) (models.Product, error)
}

type Refresher interface {
	RefreshIfStale(ctx context.Context, product models.Product, now time.Time) (models.Product, error)
}

type RabbitMQ interface {
	PublishJSON(ctx context.Context, msg any) error
}

type AlertOperator struct {
	RecentLimit  int64
	ItemsPerPage int
	Postgres     PostgresStorage
	Redis        RedisStorage
	Pricing      Refresher
	Rabbitmq     RabbitMQ
}

func New(
	pg PostgresStorage,
	r RedisStorage,
	refresher Refresher,
	rabbit RabbitMQ,
	recentLimit int64,
	itemsPerPage int,
) *AlertOperator {
	return &AlertOperator{
		RecentLimit:  recentLimit,
		ItemsPerPage: itemsPerPage,
		Postgres:     pg,
		Redis:        r,
		Pricing:      refresher,
		Rabbitmq:     rabbit,
	}
}

// AddAlert creates an alert for the user. A brand-new product gets a fetch
// task on the parsing queue so its scraped metadata price is verified.
func (o *AlertOperator) AddAlert(
	ctx context.Context,
	userID int64,
	externalProductID string,
	desiredPrice float64,
	meta *models.ProductMetadata,
	now time.Time,
) (int64, error) {
	alertID, productID, createdProduct, err := o.Postgres.CreateAlert(
		ctx, userID, externalProductID, desiredPrice, meta, now,
	)
	if err != nil {
		return 0, err
	}

	if createdProduct {
		task := models.FetchTask{
			ProductID:  productID,
			ExternalID: externalProductID,
		}

		// The alert is already committed; a lost task only delays the
		// first refresh until the next stale read.
		_ = o.Rabbitmq.PublishJSON(ctx, task)
	}

	return alertID, nil
}

func (o *AlertOperator) EditAlert(ctx context.Context, alertID int64, desiredPrice float64, now time.Time) error {
	return o.Postgres.UpdateAlert(ctx, alertID, desiredPrice, now)
}

func (o *AlertOperator) DeleteAlert(ctx context.Context, alertID int64) error {
	return o.Postgres.DeleteAlert(ctx, alertID)
}

// RecentAlerts returns the user's newest alerts as display records.
func (o *AlertOperator) RecentAlerts(ctx context.Context, userID int64, now time.Time) ([]models.AlertView, error) {
	rows, err := o.Postgres.RecentAlerts(ctx, userID, o.RecentLimit)
	if err != nil {
		return nil, err
	}

	return o.FormatAlerts(ctx, rows, now)
}

// PagedAlerts returns one page of the user's alerts as display records plus
// the total alert count. The page is pushed down to storage as LIMIT/OFFSET.
func (o *AlertOperator) PagedAlerts(
	ctx context.Context,
	userID int64,
	limit, offset int64,
	now time.Time,
) ([]models.AlertView, int64, error) {
	rows, total, err := o.Postgres.Alerts(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	views, err := o.FormatAlerts(ctx, rows, now)
	if err != nil {
		return nil, 0, err
	}

	return views, total, nil
}

// FormatAlerts resolves each alert's product, refreshes it when stale and
// projects the display fields. Output order follows the input rows.
func (o *AlertOperator) FormatAlerts(ctx context.Context, rows []models.Alert, now time.Time) ([]models.AlertView, error) {
	views := make([]models.AlertView, 0, len(rows))

	for _, row := range rows {
		product, err := o.productByID(ctx, row.ProductID)
		if err != nil {
			return nil, err
		}

		product, err = o.Pricing.RefreshIfStale(ctx, product, now)
		if err != nil {
			return nil, err
		}

		views = append(views, models.AlertView{
			AlertID:         row.ID,
			DesiredPrice:    row.DesiredPrice,
			ProductName:     product.Name,
			ProductLink:     product.Link,
			ProductImage:    product.Image,
			ProductPrice:    product.CurrentPrice,
			ProductCurrency: product.Currency,
			ProductStore:    product.Store,
			PriceDifference: product.PriceDifference,
		})
	}

	return views, nil
}

// productByID reads through the cache: redis first, postgres on a miss,
// and the fetched row is cached for the next read.
func (o *AlertOperator) productByID(ctx context.Context, productID int64) (models.Product, error) {
	product, err := o.Redis.Product(ctx, productID)
	switch {
	case err == nil:
		return product, nil

	case !errors.Is(err, storage.ErrProductNotFound):
		return models.Product{}, err
	}

	product, err = o.Postgres.ProductByID(ctx, productID)
	if err != nil {
		return models.Product{}, err
	}

	_ = o.Redis.SaveProduct(ctx, product)

	return product, nil
}

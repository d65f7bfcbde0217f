// Package pricing keeps displayed product prices within the staleness
// budget: a product read through here is refreshed from the marketplace
// once its cached price is older than the configured threshold.
package pricing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	sl "dealtracker/internal/lib/logger"
	"dealtracker/internal/models"
)

type PriceSource interface {
	Lookup(ctx context.Context, externalID string) (float64, error)
}

type ProductStorage interface {
	UpdateRefreshedPrice(
		ctx context.Context,
		productID int64,
		currentPrice, priceDifference float64,
		refreshedAt time.Time,
	) error
}

type ProductCache interface {
	SaveProduct(ctx context.Context, product models.Product) error
}

type Refresher struct {
	RefreshAfter time.Duration
	Source       PriceSource
	Postgres     ProductStorage
	Redis        ProductCache
	log          *slog.Logger
}

func New(
	log *slog.Logger,
	source PriceSource,
	pg ProductStorage,
	cache ProductCache,
	refreshAfter time.Duration,
) *Refresher {
	return &Refresher{
		RefreshAfter: refreshAfter,
		Source:       source,
		Postgres:     pg,
		Redis:        cache,
		log:          log,
	}
}

// RefreshIfStale returns the product with a price no older than the
// threshold when the marketplace cooperates.
//
// A failed or not-found lookup returns the product untouched, including
// last_refreshed, so the very next read retries. Two concurrent refreshes
// of one product may both hit the source; every written field derives from
// the fetched price alone, so the last write wins without corruption.
func (r *Refresher) RefreshIfStale(ctx context.Context, product models.Product, now time.Time) (models.Product, error) {
	const op = "pricing.RefreshIfStale"

	if now.Sub(product.LastRefreshed) < r.RefreshAfter {
		return product, nil
	}

	newPrice, err := r.Source.Lookup(ctx, product.ExternalID)
	if err != nil {
		// Served with the last-known price; never a user-visible failure.
		r.log.Warn("price lookup failed, serving cached price",
			slog.String("op", op),
			slog.Int64("product_id", product.ID),
			sl.Err(err),
		)

		return product, nil
	}

	product.CurrentPrice = newPrice
	product.PriceDifference = product.InitialPrice - newPrice
	product.LastRefreshed = now

	err = r.Postgres.UpdateRefreshedPrice(
		ctx,
		product.ID,
		product.CurrentPrice,
		product.PriceDifference,
		product.LastRefreshed,
	)
	if err != nil {
		return models.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	_ = r.Redis.SaveProduct(ctx, product)

	return product, nil
}

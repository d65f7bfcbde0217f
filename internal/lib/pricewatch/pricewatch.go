// Package pricewatch applies price updates arriving from the parsing queue
// to tracked products.
package pricewatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dealtracker/internal/models"
)

type PostgresStorage interface {
	ProductByID(ctx context.Context, productID int64) (models.Product, error)
	UpdateRefreshedPrice(
		ctx context.Context,
		productID int64,
		currentPrice, priceDifference float64,
		refreshedAt time.Time,
	) error
}

type ProductCache interface {
	DeleteProduct(ctx context.Context, productID int64) error
}

type Consumer interface {
	Consume(ctx context.Context, handler func(ctx context.Context, body []byte) error) error
}

type PriceWatch struct {
	postgres PostgresStorage
	cache    ProductCache
	consumer Consumer
}

func New(pg PostgresStorage, cache ProductCache, c Consumer) *PriceWatch {
	return &PriceWatch{
		postgres: pg,
		cache:    cache,
		consumer: c,
	}
}

func (p *PriceWatch) Run(ctx context.Context) error {
	return p.consumer.Consume(ctx, p.handleMessage)
}

func (p *PriceWatch) handleMessage(ctx context.Context, body []byte) error {
	var msg models.PriceUpdate

	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("invalid message format: %w", err)
	}

	// A not-found result changes nothing; the staleness gate retries on
	// the next read.
	if !msg.Found {
		return nil
	}

	product, err := p.postgres.ProductByID(ctx, msg.ProductID)
	if err != nil {
		return err
	}

	err = p.postgres.UpdateRefreshedPrice(
		ctx,
		product.ID,
		msg.Price,
		product.InitialPrice-msg.Price,
		time.Now(),
	)
	if err != nil {
		return err
	}

	_ = p.cache.DeleteProduct(ctx, product.ID)

	return nil
}

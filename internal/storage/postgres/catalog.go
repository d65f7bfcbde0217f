package postgres

import (
	"context"
	"errors"
	"fmt"

	"dealtracker/internal/models"
	"dealtracker/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Deals returns the curated landing-page deal list.
func (r *PostgresRepo) Deals(ctx context.Context) ([]models.Deal, error) {
	const op = "storage.postgres.Deals"

	const query = `
		SELECT id, name, link, image, price, currency, store
		FROM deals
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}

	deals, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Deal])
	if err != nil {
		return nil, fmt.Errorf("%s: collect: %w", op, err)
	}

	return deals, nil
}

func (r *PostgresRepo) SaveDeal(ctx context.Context, deal models.Deal) (int64, error) {
	const op = "storage.postgres.SaveDeal"

	const query = `
		INSERT INTO deals (name, link, image, price, currency, store)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64

	err := r.pool.QueryRow(ctx, query,
		deal.Name, deal.Link, deal.Image, deal.Price, deal.Currency, deal.Store,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to save deal: %w", op, err)
	}

	return id, nil
}

func (r *PostgresRepo) Filters(ctx context.Context) ([]models.Filter, error) {
	const op = "storage.postgres.Filters"

	rows, err := r.pool.Query(ctx, `SELECT id, name FROM filters ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}

	filters, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Filter])
	if err != nil {
		return nil, fmt.Errorf("%s: collect: %w", op, err)
	}

	return filters, nil
}

func (r *PostgresRepo) SaveFilter(ctx context.Context, name string) (int64, error) {
	const op = "storage.postgres.SaveFilter"

	var id int64

	err := r.pool.QueryRow(ctx,
		`INSERT INTO filters (name) VALUES ($1) RETURNING id`,
		name,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == storage.UniqueViolation {
			return 0, storage.ErrFilterExists
		}

		return 0, fmt.Errorf("%s: failed to save filter: %w", op, err)
	}

	return id, nil
}

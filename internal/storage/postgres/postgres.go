package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dealtracker/internal/config"
	"dealtracker/internal/models"
	"dealtracker/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, cfg config.Postgres) (*PostgresRepo, error) {
	const op = "storage.postgres.New"

	poolConfig, err := pgxpool.ParseConfig(dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse config: %w", op, err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create pool: %w", op, err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%s: ping failed: %w", op, err)
	}

	return &PostgresRepo{pool: pool}, nil
}

// SaveUser stores the user on first login; an already known external id is
// returned as-is.
func (r *PostgresRepo) SaveUser(ctx context.Context, externalID, name, email string) (int64, error) {
	const op = "storage.postgres.SaveUser"

	const query = `
		INSERT INTO users (external_id, name, email)
		VALUES ($1, $2, $3)
		ON CONFLICT (external_id) DO UPDATE SET external_id = EXCLUDED.external_id
		RETURNING id
	`

	var id int64

	err := r.pool.QueryRow(ctx, query, externalID, name, email).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to save user: %w", op, err)
	}

	return id, nil
}

func (r *PostgresRepo) UserByExternalID(ctx context.Context, externalID string) (models.User, error) {
	const op = "storage.postgres.UserByExternalID"

	const query = `
		SELECT id, external_id, name, email
		FROM users
		WHERE external_id = $1
	`

	var u models.User

	err := r.pool.QueryRow(ctx, query, externalID).Scan(&u.ID, &u.ExternalID, &u.Name, &u.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrUserNotFound
		}

		return models.User{}, fmt.Errorf("%s: failed to scan user: %w", op, err)
	}

	return u, nil
}

func (r *PostgresRepo) ProductByID(ctx context.Context, productID int64) (models.Product, error) {
	const op = "storage.postgres.ProductByID"

	const query = `
		SELECT id, external_id, name, link, image, store, currency,
		       initial_price, current_price, price_difference, last_refreshed, created_at
		FROM products
		WHERE id = $1
	`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return models.Product{}, fmt.Errorf("%s: query: %w", op, err)
	}

	p, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Product])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Product{}, storage.ErrProductNotFound
		}

		return models.Product{}, fmt.Errorf("%s: collect: %w", op, err)
	}

	return p, nil
}

// UpdateRefreshedPrice writes the freshly fetched price, the recomputed
// difference and the refresh timestamp in a single statement, so a failure
// never leaves a new price next to a stale timestamp.
func (r *PostgresRepo) UpdateRefreshedPrice(
	ctx context.Context,
	productID int64,
	currentPrice, priceDifference float64,
	refreshedAt time.Time,
) error {
	const op = "storage.postgres.UpdateRefreshedPrice"

	const query = `
		UPDATE products
		SET current_price = $1,
			price_difference = $2,
			last_refreshed = $3
		WHERE id = $4
	`

	cmd, err := r.pool.Exec(ctx, query, currentPrice, priceDifference, refreshedAt, productID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmd.RowsAffected() == 0 {
		return storage.ErrProductNotFound
	}

	return nil
}

// CreateAlert inserts the alert and, when the external product id has never
// been tracked by anyone, creates the product from the supplied metadata.
// Both writes happen in one transaction; createdProduct reports whether the
// product row is new.
func (r *PostgresRepo) CreateAlert(
	ctx context.Context,
	userID int64,
	externalProductID string,
	desiredPrice float64,
	meta *models.ProductMetadata,
	now time.Time,
) (alertID, productID int64, createdProduct bool, err error) {
	const op = "storage.postgres.CreateAlert"

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return 0, 0, false, fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	err = tx.QueryRow(ctx,
		`SELECT id FROM products WHERE external_id = $1`,
		externalProductID,
	).Scan(&productID)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		if meta == nil {
			return 0, 0, false, storage.ErrProductNotFound
		}

		const insertProduct = `
			INSERT INTO products (external_id, name, link, image, store, currency,
			                      initial_price, current_price, price_difference,
			                      last_refreshed, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $7, 0, $8, $8)
			RETURNING id
		`

		err = tx.QueryRow(ctx, insertProduct,
			externalProductID, meta.Name, meta.Link, meta.Image,
			meta.Store, meta.Currency, meta.Price, now,
		).Scan(&productID)
		if err != nil {
			return 0, 0, false, fmt.Errorf("%s: insert product: %w", op, err)
		}

		createdProduct = true

	case err != nil:
		return 0, 0, false, fmt.Errorf("%s: select product: %w", op, err)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO alerts (user_id, product_id, desired_price, created)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		userID, productID, desiredPrice, now,
	).Scan(&alertID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == storage.UniqueViolation {
			return 0, 0, false, storage.ErrAlertExists
		}

		return 0, 0, false, fmt.Errorf("%s: insert alert: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, false, fmt.Errorf("%s: commit: %w", op, err)
	}

	return alertID, productID, createdProduct, nil
}

// RecentAlerts returns the user's newest alerts, creation descending.
func (r *PostgresRepo) RecentAlerts(ctx context.Context, userID, limit int64) ([]models.Alert, error) {
	const op = "storage.postgres.RecentAlerts"

	const query = `
		SELECT id, user_id, product_id, desired_price, created
		FROM alerts
		WHERE user_id = $1
		ORDER BY created DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}

	alerts, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Alert])
	if err != nil {
		return nil, fmt.Errorf("%s: collect: %w", op, err)
	}

	return alerts, nil
}

// Alerts returns one page of the user's alerts plus the total count, with
// the page pushed down as LIMIT/OFFSET.
func (r *PostgresRepo) Alerts(ctx context.Context, userID, limit, offset int64) ([]models.Alert, int64, error) {
	const op = "storage.postgres.Alerts"

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	const query = `
		SELECT id, user_id, product_id, desired_price, created
		FROM alerts
		WHERE user_id = $1
		ORDER BY created DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := tx.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: query: %w", op, err)
	}

	alerts, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Alert])
	if err != nil {
		return nil, 0, fmt.Errorf("%s: collect: %w", op, err)
	}

	var total int64
	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM alerts WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: count: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("%s: commit: %w", op, err)
	}

	return alerts, total, nil
}

// UpdateAlert sets a new desired price and resets the creation timestamp,
// so an edited alert surfaces as recent again.
func (r *PostgresRepo) UpdateAlert(ctx context.Context, alertID int64, desiredPrice float64, now time.Time) error {
	const op = "storage.postgres.UpdateAlert"

	const query = `
		UPDATE alerts
		SET desired_price = $1,
			created = $2
		WHERE id = $3
	`

	cmd, err := r.pool.Exec(ctx, query, desiredPrice, now, alertID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmd.RowsAffected() == 0 {
		return storage.ErrAlertNotFound
	}

	return nil
}

func (r *PostgresRepo) DeleteAlert(ctx context.Context, alertID int64) error {
	const op = "storage.postgres.DeleteAlert"

	cmd, err := r.pool.Exec(ctx, `DELETE FROM alerts WHERE id = $1`, alertID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmd.RowsAffected() == 0 {
		return storage.ErrAlertNotFound
	}

	return nil
}

func (r *PostgresRepo) Close() {
	r.pool.Close()
}

func dsn(cfg config.Postgres) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s database=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DBName,
		cfg.SSLMode,
	)
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dealtracker/internal/models"
	"dealtracker/internal/storage"

	"github.com/jackc/pgx/v5"
)

func (r *PostgresRepo) Categories(ctx context.Context) ([]models.Category, error) {
	const op = "storage.postgres.Categories"

	rows, err := r.pool.Query(ctx, `SELECT id, type FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}

	categories, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Category])
	if err != nil {
		return nil, fmt.Errorf("%s: collect: %w", op, err)
	}

	return categories, nil
}

func (r *PostgresRepo) CategoryByID(ctx context.Context, categoryID int64) (models.Category, error) {
	const op = "storage.postgres.CategoryByID"

	var c models.Category

	err := r.pool.QueryRow(ctx, `SELECT id, type FROM categories WHERE id = $1`, categoryID).
		Scan(&c.ID, &c.Type)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Category{}, storage.ErrCategoryNotFound
		}

		return models.Category{}, fmt.Errorf("%s: failed to scan category: %w", op, err)
	}

	return c, nil
}

func (r *PostgresRepo) SaveCategory(ctx context.Context, categoryType string) (int64, error) {
	const op = "storage.postgres.SaveCategory"

	var id int64

	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories (type) VALUES ($1) RETURNING id`,
		categoryType,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to save category: %w", op, err)
	}

	return id, nil
}

func (r *PostgresRepo) Questions(ctx context.Context) ([]models.Question, error) {
	const op = "storage.postgres.Questions"

	const query = `
		SELECT id, question, answer, category_id, difficulty, rating
		FROM questions
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}

	questions, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Question])
	if err != nil {
		return nil, fmt.Errorf("%s: collect: %w", op, err)
	}

	return questions, nil
}

func (r *PostgresRepo) QuestionsByCategory(ctx context.Context, categoryID int64) ([]models.Question, error) {
	const op = "storage.postgres.QuestionsByCategory"

	const query = `
		SELECT id, question, answer, category_id, difficulty, rating
		FROM questions
		WHERE category_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}

	questions, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Question])
	if err != nil {
		return nil, fmt.Errorf("%s: collect: %w", op, err)
	}

	return questions, nil
}

// SearchQuestions matches the term case-insensitively anywhere in the
// question text.
func (r *PostgresRepo) SearchQuestions(ctx context.Context, term string) ([]models.Question, error) {
	const op = "storage.postgres.SearchQuestions"

	const query = `
		SELECT id, question, answer, category_id, difficulty, rating
		FROM questions
		WHERE question ILIKE '%' || $1 || '%'
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, term)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}

	questions, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Question])
	if err != nil {
		return nil, fmt.Errorf("%s: collect: %w", op, err)
	}

	return questions, nil
}

func (r *PostgresRepo) SaveQuestion(ctx context.Context, q models.Question) (int64, error) {
	const op = "storage.postgres.SaveQuestion"

	const query = `
		INSERT INTO questions (question, answer, category_id, difficulty, rating)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64

	err := r.pool.QueryRow(ctx, query,
		q.Question, q.Answer, q.CategoryID, q.Difficulty, q.Rating,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to save question: %w", op, err)
	}

	return id, nil
}

func (r *PostgresRepo) DeleteQuestion(ctx context.Context, questionID int64) error {
	const op = "storage.postgres.DeleteQuestion"

	cmd, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, questionID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmd.RowsAffected() == 0 {
		return storage.ErrQuestionNotFound
	}

	return nil
}

// SaveGame stores a finished game, creating the player on first sight.
// Both writes share one transaction.
func (r *PostgresRepo) SaveGame(
	ctx context.Context,
	playerName string,
	categoryID int64,
	score int,
	playedAt time.Time,
) (int64, error) {
	const op = "storage.postgres.SaveGame"

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return 0, fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var playerID int64

	err = tx.QueryRow(ctx,
		`INSERT INTO players (name) VALUES ($1)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`,
		playerName,
	).Scan(&playerID)
	if err != nil {
		return 0, fmt.Errorf("%s: upsert player: %w", op, err)
	}

	var gameID int64

	err = tx.QueryRow(ctx,
		`INSERT INTO games (player_id, category_id, score, played_at)
		 VALUES ($1, NULLIF($2, 0), $3, $4)
		 RETURNING id`,
		playerID, categoryID, score, playedAt,
	).Scan(&gameID)
	if err != nil {
		return 0, fmt.Errorf("%s: insert game: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%s: commit: %w", op, err)
	}

	return gameID, nil
}

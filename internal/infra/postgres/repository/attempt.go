package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz/internal/infra/postgres"
)

var ErrAttemptNotFound = errors.New("attempt not found")

const attemptColumns = `
	id, account_id, category, score, max_score, COALESCE(difficulty, ''), xp_earned, completed_at
`

// AttemptRepository provides access to completed quiz attempts in the database.
type AttemptRepository struct {
	db postgres.DBTX
}

// NewAttemptRepository creates a new AttemptRepository with the provided database pool.
func NewAttemptRepository(db postgres.DBTX) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// Create inserts an attempt and returns its ID.
func (r *AttemptRepository) Create(ctx context.Context, attempt *entities.Attempt) (int64, error) {
	query := `
		INSERT INTO attempts (account_id, category, score, max_score, difficulty, xp_earned, completed_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
		RETURNING id
	`

	var id int64
	err := postgres.Conn(ctx, r.db).QueryRow(
		ctx,
		query,
		attempt.AccountID,
		attempt.Category,
		attempt.Score,
		attempt.MaxScore,
		string(attempt.Difficulty),
		attempt.XPEarned,
		attempt.CompletedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create attempt: %w", err)
	}

	return id, nil
}

// LatestByCategory retrieves the most recent attempt of an account in a category.
func (r *AttemptRepository) LatestByCategory(ctx context.Context, accountID int64, category string) (*entities.Attempt, error) {
	query := `
		SELECT ` + attemptColumns + `
		FROM attempts
		WHERE account_id = $1 AND category = $2
		ORDER BY completed_at DESC, id DESC
		LIMIT 1
	`

	var a entities.Attempt
	var difficulty string
	err := postgres.Conn(ctx, r.db).QueryRow(ctx, query, accountID, category).Scan(
		&a.ID, &a.AccountID, &a.Category, &a.Score, &a.MaxScore, &difficulty, &a.XPEarned, &a.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get latest attempt: %w", err)
	}
	a.Difficulty = entities.Difficulty(difficulty)

	return &a, nil
}

// ListByAccount returns the newest attempts of an account.
func (r *AttemptRepository) ListByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.Attempt, error) {
	query := `
		SELECT ` + attemptColumns + `
		FROM attempts
		WHERE account_id = $1
		ORDER BY completed_at DESC, id DESC
		LIMIT $2
	`

	rows, err := postgres.Conn(ctx, r.db).Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	attempts := make([]*entities.Attempt, 0, limit)
	for rows.Next() {
		a := new(entities.Attempt)
		var difficulty string
		if err := rows.Scan(
			&a.ID, &a.AccountID, &a.Category, &a.Score, &a.MaxScore, &difficulty, &a.XPEarned, &a.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.Difficulty = entities.Difficulty(difficulty)
		attempts = append(attempts, a)
	}

	return attempts, rows.Err()
}

// AccountSummary returns the total number of attempts of an account and its
// best score in one category.
func (r *AttemptRepository) AccountSummary(ctx context.Context, accountID int64, category string) (total, best int, err error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(MAX(score) FILTER (WHERE category = $2), 0)
		FROM attempts
		WHERE account_id = $1
	`

	if err := postgres.Conn(ctx, r.db).QueryRow(ctx, query, accountID, category).Scan(&total, &best); err != nil {
		return 0, 0, fmt.Errorf("account attempt summary: %w", err)
	}
	return total, best, nil
}

// CategoryStandings aggregates attempts per (account, category).
func (r *AttemptRepository) CategoryStandings(ctx context.Context) ([]entities.CategoryStanding, error) {
	query := `
		SELECT s.category,
		       a.id,
		       a.username,
		       a.avatar,
		       COUNT(s.id),
		       AVG(s.score * 100.0 / NULLIF(s.max_score, 0))::float8,
		       MAX(s.score * 100.0 / NULLIF(s.max_score, 0))::float8,
		       MAX(s.completed_at)
		FROM attempts s
		JOIN accounts a ON a.id = s.account_id
		WHERE s.max_score > 0
		GROUP BY s.category, a.id, a.username, a.avatar
		ORDER BY s.category, 7 DESC, 6 DESC, 8 DESC
	`

	rows, err := postgres.Conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("category standings: %w", err)
	}
	defer rows.Close()

	var standings []entities.CategoryStanding
	for rows.Next() {
		var s entities.CategoryStanding
		if err := rows.Scan(
			&s.Category, &s.AccountID, &s.Username, &s.Avatar,
			&s.Attempts, &s.AvgPercentage, &s.BestPercentage, &s.LastAttemptAt,
		); err != nil {
			return nil, fmt.Errorf("scan category standing: %w", err)
		}
		standings = append(standings, s)
	}

	return standings, rows.Err()
}

// GlobalStandings aggregates attempts per account across all categories.
func (r *AttemptRepository) GlobalStandings(ctx context.Context, limit int) ([]entities.GlobalStanding, error) {
	query := `
		SELECT a.id,
		       a.username,
		       a.avatar,
		       COUNT(s.id),
		       AVG(s.score * 100.0 / NULLIF(s.max_score, 0))::float8
		FROM attempts s
		JOIN accounts a ON a.id = s.account_id
		WHERE s.max_score > 0
		GROUP BY a.id, a.username, a.avatar
		ORDER BY 5 DESC, a.username
		LIMIT $1
	`

	rows, err := postgres.Conn(ctx, r.db).Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("global standings: %w", err)
	}
	defer rows.Close()

	var standings []entities.GlobalStanding
	for rows.Next() {
		var s entities.GlobalStanding
		if err := rows.Scan(&s.AccountID, &s.Username, &s.Avatar, &s.TotalAttempts, &s.AvgPercentage); err != nil {
			return nil, fmt.Errorf("scan global standing: %w", err)
		}
		standings = append(standings, s)
	}

	return standings, rows.Err()
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz/internal/infra/postgres"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrUsernameTaken   = errors.New("username already exists")
	ErrEmailTaken      = errors.New("email already registered")
)

const accountColumns = `
	id, username, email, password_hash, full_name, bio, avatar,
	total_xp, current_streak, best_streak, last_quiz_date, created_at
`

// AccountRepository provides access to account data in the database.
type AccountRepository struct {
	db postgres.DBTX
}

// NewAccountRepository creates a new AccountRepository with the provided database pool.
func NewAccountRepository(db postgres.DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account and returns its ID.
func (r *AccountRepository) Create(ctx context.Context, account *entities.Account) (int64, error) {
	query := `
		INSERT INTO accounts (username, email, password_hash, full_name, bio, avatar, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err := postgres.Conn(ctx, r.db).QueryRow(
		ctx,
		query,
		account.Username,
		account.Email,
		account.PasswordHash,
		account.FullName,
		account.Bio,
		account.Avatar,
		account.CreatedAt,
	).Scan(&id)
	if err != nil {
		switch {
		case postgres.IsUniqueViolation(err, "accounts_username_key"):
			return 0, ErrUsernameTaken
		case postgres.IsUniqueViolation(err, "accounts_email_key"):
			return 0, ErrEmailTaken
		}
		return 0, fmt.Errorf("create account: %w", err)
	}

	return id, nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.getOne(ctx, "get account", query, id)
}

// GetByUsername retrieves an account by its handle.
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`
	return r.getOne(ctx, "get account by username", query, username)
}

// GetForUpdate retrieves an account with a row-level lock. It must run inside a transaction.
func (r *AccountRepository) GetForUpdate(ctx context.Context, id int64) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, "get account for update", query, id)
}

// UpdateProgress stores experience and streak counters.
func (r *AccountRepository) UpdateProgress(ctx context.Context, account *entities.Account) error {
	query := `
		UPDATE accounts
		SET total_xp = $1,
		    current_streak = $2,
		    best_streak = $3,
		    last_quiz_date = $4
		WHERE id = $5
	`

	lastDate := pgtype.Date{}
	if account.Streak.LastCompletedOn != nil {
		lastDate = pgtype.Date{Time: *account.Streak.LastCompletedOn, Valid: true}
	}

	tag, err := postgres.Conn(ctx, r.db).Exec(
		ctx,
		query,
		account.TotalXP,
		account.Streak.Current,
		account.Streak.Best,
		lastDate,
		account.ID,
	)
	if err != nil {
		return fmt.Errorf("update account progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}

	return nil
}

// UpdateProfile stores the editable profile fields.
func (r *AccountRepository) UpdateProfile(ctx context.Context, account *entities.Account) error {
	query := `
		UPDATE accounts
		SET full_name = $1, bio = $2, avatar = $3
		WHERE id = $4
	`

	tag, err := postgres.Conn(ctx, r.db).Exec(ctx, query, account.FullName, account.Bio, account.Avatar, account.ID)
	if err != nil {
		return fmt.Errorf("update account profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}

	return nil
}

func (r *AccountRepository) getOne(ctx context.Context, op, query string, arg any) (*entities.Account, error) {
	var (
		account  entities.Account
		lastDate pgtype.Date
	)

	err := postgres.Conn(ctx, r.db).QueryRow(ctx, query, arg).Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.PasswordHash,
		&account.FullName,
		&account.Bio,
		&account.Avatar,
		&account.TotalXP,
		&account.Streak.Current,
		&account.Streak.Best,
		&lastDate,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if lastDate.Valid {
		day := entities.CalendarDay(lastDate.Time)
		account.Streak.LastCompletedOn = &day
	}

	return &account, nil
}

package service

import (
	"context"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
)

// QuestionFetcher gathers questions for a quiz. It never fails; an outage
// yields a short or empty list.
type QuestionFetcher interface {
	Fetch(ctx context.Context, topics []string, n int, difficulty entities.Difficulty) []entities.Question
}

// QuizSessionStore keeps one quiz per browser session.
type QuizSessionStore interface {
	Get(ctx context.Context, sessionID string) (*entities.QuizSession, error)
	Save(ctx context.Context, sessionID string, session *entities.QuizSession) error
	Delete(ctx context.Context, sessionID string) error
}

// Transactor runs fn in one database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type AccountRepository interface {
	Create(ctx context.Context, account *entities.Account) (int64, error)
	GetByID(ctx context.Context, id int64) (*entities.Account, error)
	GetByUsername(ctx context.Context, username string) (*entities.Account, error)
	GetForUpdate(ctx context.Context, id int64) (*entities.Account, error)
	UpdateProgress(ctx context.Context, account *entities.Account) error
	UpdateProfile(ctx context.Context, account *entities.Account) error
}

type AttemptRepository interface {
	Create(ctx context.Context, attempt *entities.Attempt) (int64, error)
	LatestByCategory(ctx context.Context, accountID int64, category string) (*entities.Attempt, error)
	ListByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.Attempt, error)
	AccountSummary(ctx context.Context, accountID int64, category string) (total, best int, err error)
	CategoryStandings(ctx context.Context) ([]entities.CategoryStanding, error)
	GlobalStandings(ctx context.Context, limit int) ([]entities.GlobalStanding, error)
}

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// ResultRecorder persists a finished quiz for an account.
type ResultRecorder interface {
	Record(ctx context.Context, account *entities.Account, outcome entities.QuizOutcome) *QuizResult
}

// Sweeper drops expired entries from an in-process store.
type Sweeper interface {
	Sweep() int
}

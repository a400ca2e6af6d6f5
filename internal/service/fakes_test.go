package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz/internal/infra/postgres/repository"
	"github.com/aliskhannn/trivia-quiz/internal/security"
)

var errBoom = errors.New("boom")

// fakeDB is an in-memory stand-in for the accounts and attempts tables.
// WithinTx snapshots state and restores it when fn fails.
type fakeDB struct {
	mu       sync.Mutex
	accounts map[int64]entities.Account
	attempts []entities.Attempt
	nextID   int64

	failCreateAttempt bool
	failUpdate        bool
	failSummary       bool
	failStandings     bool
}

func newFakeDB() *fakeDB {
	return &fakeDB{accounts: make(map[int64]entities.Account)}
}

func (db *fakeDB) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	db.mu.Lock()
	accounts := make(map[int64]entities.Account, len(db.accounts))
	for k, v := range db.accounts {
		accounts[k] = v
	}
	attempts := append([]entities.Attempt(nil), db.attempts...)
	db.mu.Unlock()

	if err := fn(ctx); err != nil {
		db.mu.Lock()
		db.accounts, db.attempts = accounts, attempts
		db.mu.Unlock()
		return err
	}
	return nil
}

func (db *fakeDB) addAccount(username string) *entities.Account {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.nextID++
	a := entities.Account{ID: db.nextID, Username: username, Email: username + "@example.com"}
	db.accounts[a.ID] = a
	return &a
}

func (db *fakeDB) attemptsOf(accountID int64) []entities.Attempt {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []entities.Attempt
	for _, a := range db.attempts {
		if a.AccountID == accountID {
			out = append(out, a)
		}
	}
	return out
}

func (db *fakeDB) account(id int64) entities.Account {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.accounts[id]
}

// accounts

func (db *fakeDB) Create(_ context.Context, account *entities.Account) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, a := range db.accounts {
		if a.Username == account.Username {
			return 0, repository.ErrUsernameTaken
		}
		if a.Email == account.Email {
			return 0, repository.ErrEmailTaken
		}
	}
	db.nextID++
	stored := *account
	stored.ID = db.nextID
	db.accounts[stored.ID] = stored
	return stored.ID, nil
}

func (db *fakeDB) GetByID(_ context.Context, id int64) (*entities.Account, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	a, ok := db.accounts[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	return &a, nil
}

func (db *fakeDB) GetByUsername(_ context.Context, username string) (*entities.Account, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, a := range db.accounts {
		if a.Username == username {
			return &a, nil
		}
	}
	return nil, repository.ErrAccountNotFound
}

func (db *fakeDB) GetForUpdate(ctx context.Context, id int64) (*entities.Account, error) {
	return db.GetByID(ctx, id)
}

func (db *fakeDB) UpdateProgress(_ context.Context, account *entities.Account) error {
	if db.failUpdate {
		return errBoom
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	stored := db.accounts[account.ID]
	stored.TotalXP = account.TotalXP
	stored.Streak = account.Streak
	db.accounts[account.ID] = stored
	return nil
}

func (db *fakeDB) UpdateProfile(_ context.Context, account *entities.Account) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	stored, ok := db.accounts[account.ID]
	if !ok {
		return repository.ErrAccountNotFound
	}
	stored.FullName, stored.Bio, stored.Avatar = account.FullName, account.Bio, account.Avatar
	db.accounts[account.ID] = stored
	return nil
}

// attemptStore adapts fakeDB to AttemptRepository; Create would clash with accounts otherwise.
type attemptStore struct{ db *fakeDB }

func (s attemptStore) Create(_ context.Context, attempt *entities.Attempt) (int64, error) {
	if s.db.failCreateAttempt {
		return 0, errBoom
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	stored := *attempt
	stored.ID = int64(len(s.db.attempts) + 1)
	s.db.attempts = append(s.db.attempts, stored)
	return stored.ID, nil
}

func (s attemptStore) LatestByCategory(_ context.Context, accountID int64, category string) (*entities.Attempt, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var latest *entities.Attempt
	for i := range s.db.attempts {
		a := s.db.attempts[i]
		if a.AccountID != accountID || a.Category != category {
			continue
		}
		if latest == nil || !a.CompletedAt.Before(latest.CompletedAt) {
			latest = &a
		}
	}
	if latest == nil {
		return nil, repository.ErrAttemptNotFound
	}
	return latest, nil
}

func (s attemptStore) ListByAccount(_ context.Context, accountID int64, limit int) ([]*entities.Attempt, error) {
	out := make([]*entities.Attempt, 0)
	for _, a := range s.db.attemptsOf(accountID) {
		a := a
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s attemptStore) AccountSummary(_ context.Context, accountID int64, category string) (int, int, error) {
	if s.db.failSummary {
		return 0, 0, errBoom
	}
	total, best := 0, 0
	for _, a := range s.db.attemptsOf(accountID) {
		total++
		if a.Category == category && a.Score > best {
			best = a.Score
		}
	}
	return total, best, nil
}

func (s attemptStore) CategoryStandings(context.Context) ([]entities.CategoryStanding, error) {
	if s.db.failStandings {
		return nil, errBoom
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	type key struct {
		category string
		account  int64
	}
	rows := make(map[key]*entities.CategoryStanding)
	var order []key
	for _, a := range s.db.attempts {
		k := key{a.Category, a.AccountID}
		st, ok := rows[k]
		if !ok {
			acc := s.db.accounts[a.AccountID]
			st = &entities.CategoryStanding{Category: a.Category, AccountID: a.AccountID, Username: acc.Username, Avatar: acc.Avatar}
			rows[k] = st
			order = append(order, k)
		}
		pct := a.Percentage()
		st.AvgPercentage = (st.AvgPercentage*float64(st.Attempts) + pct) / float64(st.Attempts+1)
		st.Attempts++
		st.BestPercentage = max(st.BestPercentage, pct)
		if a.CompletedAt.After(st.LastAttemptAt) {
			st.LastAttemptAt = a.CompletedAt
		}
	}

	out := make([]entities.CategoryStanding, 0, len(order))
	for _, k := range order {
		out = append(out, *rows[k])
	}
	return out, nil
}

func (s attemptStore) GlobalStandings(_ context.Context, limit int) ([]entities.GlobalStanding, error) {
	if s.db.failStandings {
		return nil, errBoom
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	rows := make(map[int64]*entities.GlobalStanding)
	var order []int64
	for _, a := range s.db.attempts {
		st, ok := rows[a.AccountID]
		if !ok {
			acc := s.db.accounts[a.AccountID]
			st = &entities.GlobalStanding{AccountID: a.AccountID, Username: acc.Username, Avatar: acc.Avatar}
			rows[a.AccountID] = st
			order = append(order, a.AccountID)
		}
		st.AvgPercentage = (st.AvgPercentage*float64(st.TotalAttempts) + a.Percentage()) / float64(st.TotalAttempts+1)
		st.TotalAttempts++
	}

	out := make([]entities.GlobalStanding, 0, len(order))
	for _, id := range order {
		out = append(out, *rows[id])
	}
	entities.SortGlobalStandings(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// fakeFetcher returns a fixed question list.
type fakeFetcher struct {
	questions []entities.Question
	calls     int
	topics    []string
	n         int
}

func (f *fakeFetcher) Fetch(_ context.Context, topics []string, n int, _ entities.Difficulty) []entities.Question {
	f.calls++
	f.topics, f.n = topics, n
	if len(f.questions) > n {
		return f.questions[:n]
	}
	return f.questions
}

func mathQuestions(n int) []entities.Question {
	out := make([]entities.Question, n)
	for i := range out {
		answer := string(rune('A' + i))
		out[i] = entities.Question{
			Prompt:        "Question " + answer,
			Options:       []string{answer, "wrong"},
			CorrectAnswer: answer,
			Category:      "Mathematics",
		}
	}
	return out
}

// fakeHasher stores passwords with a visible prefix.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return security.ErrPasswordMismatch
	}
	return nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newResultService(db *fakeDB, c *clock) *ResultService {
	s := NewResultService(db, db, attemptStore{db}, 5*time.Second, time.UTC, zap.NewNop())
	s.now = c.now
	return s
}

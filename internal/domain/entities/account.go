package entities

import (
	"strings"
	"time"
)

// Account represents a registered user.
type Account struct {
	ID           int64
	Username     string // unique handle
	Email        string // unique
	PasswordHash string
	FullName     string // optional display name
	Bio          string
	Avatar       string // optional avatar reference (URL or static path)
	TotalXP      int    // experience accumulated across all attempts
	Streak       Streak
	CreatedAt    time.Time
}

// NewAccount creates an account with normalized identity fields.
func NewAccount(username, email, passwordHash string, now time.Time) *Account {
	return &Account{
		Username:     strings.TrimSpace(username),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}
}

// DisplayName returns the name used on result pages and boards.
func (a *Account) DisplayName() string {
	if name := strings.TrimSpace(a.FullName); name != "" {
		return name
	}
	return a.Username
}

// RecordCompletion applies a newly persisted attempt to the account totals.
func (a *Account) RecordCompletion(attempt *Attempt, today time.Time) {
	a.TotalXP += attempt.XPEarned
	a.Streak = a.Streak.Advance(today)
}

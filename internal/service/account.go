package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz/internal/infra/postgres/repository"
	"github.com/aliskhannn/trivia-quiz/internal/security"
)

const historyLimit = 50

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Username        string `validate:"required,min=3,max=80"`
	Email           string `validate:"required,email,max=120"`
	Password        string `validate:"required,min=8,max=72"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

var registerMessages = fieldMessages{
	"Username":        "Username must be between 3 and 80 characters.",
	"Email":           "Please enter a valid email address.",
	"Password":        "Password must be at least 8 characters long.",
	"ConfirmPassword": "Passwords do not match.",
}

// LoginInput is the sign-in form.
type LoginInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

var loginMessages = fieldMessages{
	"Username": "Both username and password are required.",
	"Password": "Both username and password are required.",
}

// ProfileInput is the profile edit form. Avatar is a URL or a path under the static directory.
type ProfileInput struct {
	FullName     string `validate:"max=120"`
	Bio          string `validate:"max=500"`
	Avatar       string `validate:"omitempty,max=255"`
	RemoveAvatar bool
}

var profileMessages = fieldMessages{
	"FullName": "Full name must be at most 120 characters.",
	"Bio":      "Bio must be at most 500 characters.",
	"Avatar":   "Avatar reference must be at most 255 characters.",
}

// AccountService manages registration, sign-in and profiles.
type AccountService struct {
	accounts AccountRepository
	attempts AttemptRepository
	hasher   PasswordHasher
	logger   *zap.Logger
	now      func() time.Time
}

// NewAccountService creates an AccountService.
func NewAccountService(
	accounts AccountRepository,
	attempts AttemptRepository,
	hasher PasswordHasher,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		accounts: accounts,
		attempts: attempts,
		hasher:   hasher,
		logger:   logger,
		now:      time.Now,
	}
}

// Register creates a new account.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*entities.Account, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if err := check(in, registerMessages); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	account := entities.NewAccount(in.Username, in.Email, hash, s.now())
	id, err := s.accounts.Create(ctx, account)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			return nil, conflict("Username already exists.")
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, conflict("Email already registered.")
		}
		return nil, err
	}
	account.ID = id

	s.logger.Info("account registered", zap.Int64("account_id", id))
	return account, nil
}

// Authenticate checks a username and password pair.
func (s *AccountService) Authenticate(ctx context.Context, in LoginInput) (*entities.Account, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := check(in, loginMessages); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.hasher.Compare(account.PasswordHash, in.Password); err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return account, nil
}

// Get returns the account with id.
func (s *AccountService) Get(ctx context.Context, id int64) (*entities.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// UpdateProfile stores the editable profile fields of an account.
func (s *AccountService) UpdateProfile(ctx context.Context, id int64, in ProfileInput) (*entities.Account, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Bio = strings.TrimSpace(in.Bio)
	in.Avatar = strings.TrimSpace(in.Avatar)

	if err := check(in, profileMessages); err != nil {
		return nil, err
	}
	if strings.Contains(in.Avatar, "..") {
		return nil, invalid("Avatar must be a URL or an image under the static directory.")
	}

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	account.FullName = in.FullName
	account.Bio = in.Bio
	switch {
	case in.RemoveAvatar:
		account.Avatar = ""
	case in.Avatar != "":
		account.Avatar = strings.TrimPrefix(in.Avatar, "/")
	}

	if err := s.accounts.UpdateProfile(ctx, account); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return account, nil
}

// History returns the newest attempts of an account for the dashboard.
func (s *AccountService) History(ctx context.Context, id int64) ([]*entities.Attempt, error) {
	return s.attempts.ListByAccount(ctx, id, historyLimit)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz/internal/infra/postgres/repository"
)

// ResultService stores finished quizzes and keeps streaks and experience in step.
// A failure to persist never hides the result from the player.
type ResultService struct {
	tx              Transactor
	accounts        AccountRepository
	attempts        AttemptRepository
	duplicateWindow time.Duration
	location        *time.Location // zone that decides calendar days for streaks
	logger          *zap.Logger
	now             func() time.Time
}

// NewResultService creates a ResultService.
func NewResultService(
	tx Transactor,
	accounts AccountRepository,
	attempts AttemptRepository,
	duplicateWindow time.Duration,
	location *time.Location,
	logger *zap.Logger,
) *ResultService {
	if location == nil {
		location = time.UTC
	}
	return &ResultService{
		tx:              tx,
		accounts:        accounts,
		attempts:        attempts,
		duplicateWindow: duplicateWindow,
		location:        location,
		logger:          logger,
		now:             time.Now,
	}
}

// Record saves the attempt of an authenticated player. Anonymous results are
// only displayed.
func (s *ResultService) Record(ctx context.Context, account *entities.Account, outcome entities.QuizOutcome) *QuizResult {
	outcome.Score = entities.ClampScore(outcome.Score, outcome.Total)
	res := &QuizResult{Outcome: outcome}
	if account == nil {
		return res
	}

	now := s.now()
	log := s.logger.With(
		zap.Int64("account_id", account.ID),
		zap.String("category", outcome.Category),
		zap.Int("score", outcome.Score),
		zap.Int("total", outcome.Total),
	)

	var (
		saved     *entities.Attempt
		updated   *entities.Account
		duplicate bool
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		acc, err := s.accounts.GetForUpdate(ctx, account.ID)
		if err != nil {
			return fmt.Errorf("lock account: %w", err)
		}

		last, err := s.attempts.LatestByCategory(ctx, acc.ID, outcome.Category)
		if err != nil && !errors.Is(err, repository.ErrAttemptNotFound) {
			return fmt.Errorf("latest attempt: %w", err)
		}
		if entities.IsDuplicateSubmission(last, outcome.Score, outcome.Total, now, s.duplicateWindow) {
			duplicate = true
			return nil
		}

		attempt := entities.NewAttempt(acc.ID, outcome, now)
		id, err := s.attempts.Create(ctx, attempt)
		if err != nil {
			return err
		}
		attempt.ID = id

		acc.RecordCompletion(attempt, now.In(s.location))
		if err := s.accounts.UpdateProgress(ctx, acc); err != nil {
			return err
		}

		saved, updated = attempt, acc
		return nil
	})
	if err != nil {
		log.Error("failed to save quiz result", zap.Error(err))
		return res
	}

	if duplicate {
		log.Info("skipping duplicate quiz result", zap.Duration("window", s.duplicateWindow))
		res.Duplicate = true
		return res
	}

	res.Saved = true
	res.XPEarned = saved.XPEarned
	res.Streak = updated.Streak
	log.Info("quiz result saved", zap.Int64("attempt_id", saved.ID), zap.Int("xp", saved.XPEarned))

	total, best, err := s.attempts.AccountSummary(ctx, updated.ID, outcome.Category)
	if err != nil {
		log.Warn("failed to evaluate achievements", zap.Error(err))
		return res
	}

	res.Achievements = entities.EvaluateAchievements(entities.AchievementInput{
		TotalAttempts:  total,
		BestInCategory: best,
		Streak:         updated.Streak.Current,
		Outcome:        outcome,
	})

	return res
}

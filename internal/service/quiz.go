package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz/internal/storage"
)

// StartQuizInput is what the player picked on the entry page.
type StartQuizInput struct {
	DisplayName string   `validate:"required,max=80"`
	Topics      []string `validate:"required,min=1,dive,required,max=100"`
	Difficulty  string   `validate:"omitempty,oneof=easy medium hard"`
	TimeLimit   int      `validate:"min=0,max=3600"` // seconds
}

var startQuizMessages = fieldMessages{
	"DisplayName": "Please enter your name.",
	"Topics":      "Please select at least one topic.",
	"Topics[]":    "Topic names must be at most 100 characters.",
	"Difficulty":  "Unknown difficulty.",
	"TimeLimit":   "Time limit must be between 0 and 3600 seconds.",
}

// QuestionView is the current question together with quiz progress.
type QuestionView struct {
	Question  entities.Question
	Number    int            // one-based
	Total     int
	Score     int
	Remaining *time.Duration // nil when the quiz has no time limit
	Category  string
}

// QuizResult is what the result page shows.
type QuizResult struct {
	Outcome      entities.QuizOutcome
	Saved        bool // an attempt was stored for this quiz
	Duplicate    bool // the submission repeated a recent identical one
	XPEarned     int
	Streak       entities.Streak
	Achievements []entities.Achievement
}

// QuizService drives the quiz session state machine for one browser session.
type QuizService struct {
	fetcher          QuestionFetcher
	store            QuizSessionStore
	results          ResultRecorder
	questionsPerQuiz int
	defaultTimeLimit int
	logger           *zap.Logger
	now              func() time.Time
}

// NewQuizService creates a QuizService.
func NewQuizService(
	fetcher QuestionFetcher,
	store QuizSessionStore,
	results ResultRecorder,
	questionsPerQuiz int,
	defaultTimeLimit int,
	logger *zap.Logger,
) *QuizService {
	if questionsPerQuiz <= 0 {
		questionsPerQuiz = 5
	}
	return &QuizService{
		fetcher:          fetcher,
		store:            store,
		results:          results,
		questionsPerQuiz: questionsPerQuiz,
		defaultTimeLimit: defaultTimeLimit,
		logger:           logger,
		now:              time.Now,
	}
}

// Start fetches questions and begins a new quiz, replacing any quiz the session had.
// No session is stored when the questions could not be fetched.
func (s *QuizService) Start(ctx context.Context, sessionID string, in StartQuizInput) (*entities.QuizSession, error) {
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	in.Topics = cleanTopics(in.Topics)

	if err := check(in, startQuizMessages); err != nil {
		return nil, err
	}

	difficulty, err := entities.ParseDifficulty(in.Difficulty)
	if err != nil {
		return nil, invalid(startQuizMessages["Difficulty"])
	}

	questions := s.fetcher.Fetch(ctx, in.Topics, s.questionsPerQuiz, difficulty)
	if len(questions) == 0 {
		s.logger.Warn("quiz not started, no questions",
			zap.Strings("topics", in.Topics),
			zap.String("difficulty", string(difficulty)),
		)
		return nil, ErrQuestionsUnavailable
	}

	timeLimit := in.TimeLimit
	if timeLimit == 0 {
		timeLimit = s.defaultTimeLimit
	}

	session := entities.NewQuizSession(in.DisplayName, entities.CategoryLabel(in.Topics), difficulty, timeLimit)
	if err := session.Begin(questions, s.now()); err != nil {
		return nil, fmt.Errorf("begin quiz: %w", err)
	}

	if err := s.store.Save(ctx, sessionID, session); err != nil {
		return nil, fmt.Errorf("save quiz session: %w", err)
	}

	s.logger.Info("quiz started",
		zap.String("category", session.Category),
		zap.Int("questions", session.Total()),
		zap.Int("time_limit", session.TimeLimit),
	)

	return session, nil
}

// Current returns the question to show. A finished quiz reports completed=true
// and the caller moves on to the result.
func (s *QuizService) Current(ctx context.Context, sessionID string) (view QuestionView, completed bool, err error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return QuestionView{}, false, err
	}

	now := s.now()
	wasCompleted := session.Completed()

	q, ok := session.Current(now)
	if !ok {
		if !wasCompleted {
			if err := s.store.Save(ctx, sessionID, session); err != nil {
				return QuestionView{}, false, fmt.Errorf("save quiz session: %w", err)
			}
		}
		return QuestionView{}, true, nil
	}

	return s.view(session, q, now), false, nil
}

// Submit applies one answer. With explain set the index does not move and the
// result carries the explanation.
func (s *QuizService) Submit(ctx context.Context, sessionID, answer string, explain bool) (entities.AnswerResult, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return entities.AnswerResult{}, err
	}

	now := s.now()
	var res entities.AnswerResult
	if explain {
		res, err = session.Explain(answer, now)
	} else {
		res, err = session.Answer(answer, now)
	}
	if err != nil {
		if errors.Is(err, entities.ErrQuizNotStarted) {
			return entities.AnswerResult{}, ErrNoActiveQuiz
		}
		return entities.AnswerResult{}, fmt.Errorf("apply answer: %w", err)
	}

	if err := s.store.Save(ctx, sessionID, session); err != nil {
		return entities.AnswerResult{}, fmt.Errorf("save quiz session: %w", err)
	}

	return res, nil
}

// Finish reads the completed quiz once, erases it and records the result.
// account is nil for anonymous players.
func (s *QuizService) Finish(ctx context.Context, sessionID string, account *entities.Account) (*QuizResult, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !session.Completed() {
		if _, ok := session.Current(now); ok {
			return nil, ErrQuizInProgress
		}
	}

	if err := s.store.Delete(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("delete quiz session: %w", err)
	}

	outcome := session.Outcome(now)
	if account != nil {
		outcome.DisplayName = account.DisplayName()
	}

	return s.results.Record(ctx, account, outcome), nil
}

// Abandon drops the quiz of a session, if any.
func (s *QuizService) Abandon(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete quiz session: %w", err)
	}
	return nil
}

func (s *QuizService) load(ctx context.Context, sessionID string) (*entities.QuizSession, error) {
	if sessionID == "" {
		return nil, ErrNoActiveQuiz
	}

	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrSessionNotFound):
			return nil, ErrNoActiveQuiz
		case errors.Is(err, storage.ErrCorruptSession):
			s.logger.Warn("dropping unreadable quiz session", zap.Error(err))
			_ = s.store.Delete(ctx, sessionID)
			return nil, ErrNoActiveQuiz
		}
		return nil, fmt.Errorf("load quiz session: %w", err)
	}

	if session.Status == entities.QuizNotStarted || session.Total() == 0 {
		return nil, ErrNoActiveQuiz
	}

	return session, nil
}

func (s *QuizService) view(session *entities.QuizSession, q entities.Question, now time.Time) QuestionView {
	v := QuestionView{
		Question: q,
		Number:   session.Index + 1,
		Total:    session.Total(),
		Score:    session.Score,
		Category: session.Category,
	}
	if left, limited := session.Remaining(now); limited {
		v.Remaining = &left
	}
	return v
}

func cleanTopics(topics []string) []string {
	out := make([]string, 0, len(topics))
	seen := make(map[string]struct{}, len(topics))
	for _, t := range topics {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

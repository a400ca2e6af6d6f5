package httpdelivery

import (
	"context"
	"time"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz/internal/service"
)

type QuizService interface {
	Start(ctx context.Context, sessionID string, in service.StartQuizInput) (*entities.QuizSession, error)
	Current(ctx context.Context, sessionID string) (service.QuestionView, bool, error)
	Submit(ctx context.Context, sessionID, answer string, explain bool) (entities.AnswerResult, error)
	Finish(ctx context.Context, sessionID string, account *entities.Account) (*service.QuizResult, error)
}

type AccountService interface {
	Register(ctx context.Context, in service.RegisterInput) (*entities.Account, error)
	Authenticate(ctx context.Context, in service.LoginInput) (*entities.Account, error)
	Get(ctx context.Context, id int64) (*entities.Account, error)
	UpdateProfile(ctx context.Context, id int64, in service.ProfileInput) (*entities.Account, error)
	History(ctx context.Context, id int64) ([]*entities.Attempt, error)
}

type LeaderboardService interface {
	Board(ctx context.Context) entities.Leaderboard
}

// TokenService issues and verifies the identity token stored in the auth cookie.
type TokenService interface {
	Issue(accountID int64) (string, error)
	Verify(token string) (int64, error)
	TTL() time.Duration
}

package httpdelivery

import (
	"context"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
)

type contextKey string

const (
	sessionIDKey contextKey = "sessionID"
	accountKey   contextKey = "account"
)

func withSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// sessionID returns the browser session the request belongs to.
func sessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

func withAccount(ctx context.Context, account *entities.Account) context.Context {
	return context.WithValue(ctx, accountKey, account)
}

// currentAccount returns the signed-in account or nil.
func currentAccount(ctx context.Context) *entities.Account {
	account, _ := ctx.Value(accountKey).(*entities.Account)
	return account
}

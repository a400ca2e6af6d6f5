package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz/internal/service"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling turns service errors into chat replies.
func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		switch {
		case err == nil:
		case errors.Is(err, service.ErrQuestionsUnavailable):
			h.sendError(chatID, msgUnavailable)
		case errors.Is(err, service.ErrNoActiveQuiz):
			h.sendError(chatID, msgNoActiveQuiz)
		default:
			h.logger.Error("handle error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			h.sendError(chatID, msgInternalError)
		}
		return nil
	}
}

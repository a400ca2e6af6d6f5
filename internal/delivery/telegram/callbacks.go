package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	defer h.answerCallback(cb.ID, "")

	if cb.Message == nil || cb.Message.Chat == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	data := decodeCallback(cb.Data)

	var fn HandlerFunc
	switch data.Action {
	case actionTopic:
		fn = h.topicCallback(data, displayName(cb.From))
	case actionAnswer:
		fn = h.answerQuestionCallback(data, cb.Message.MessageID)
	case actionExplain:
		fn = h.explainCallback(data)
	default:
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
		return
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

func (h *Handler) topicCallback(data callbackData, name string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		id, ok := data.param(0)
		if !ok {
			return nil
		}
		c, ok := categoryByID(id)
		if !ok {
			h.sendError(chatID, msgUnknownTopic)
			return nil
		}
		return h.startQuiz(ctx, chatID, c, name)
	}
}

func (h *Handler) answerQuestionCallback(data callbackData, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		number, ok1 := data.param(0)
		opt, ok2 := data.param(1)
		if !ok1 || !ok2 {
			return nil
		}

		sid := sessionID(chatID)
		view, completed, err := h.quiz.Current(ctx, sid)
		if err != nil {
			return err
		}
		if completed {
			return h.sendResult(ctx, chatID)
		}
		if view.Number != number || opt < 0 || opt >= len(view.Question.Options) {
			h.sendError(chatID, msgStaleQuestion)
			return nil
		}

		res, err := h.quiz.Submit(ctx, sid, view.Question.Options[opt], false)
		if err != nil {
			return err
		}

		edit := tgbotapi.NewEditMessageText(chatID, messageID, formatVerdict(view, res))
		edit.ParseMode = tgbotapi.ModeHTML
		h.send(edit)

		if res.Completed {
			return h.sendResult(ctx, chatID)
		}
		return h.sendCurrent(ctx, chatID)
	}
}

func (h *Handler) explainCallback(data callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		number, ok := data.param(0)
		if !ok {
			return nil
		}

		sid := sessionID(chatID)
		view, completed, err := h.quiz.Current(ctx, sid)
		if err != nil {
			return err
		}
		if completed || view.Number != number {
			h.sendError(chatID, msgStaleQuestion)
			return nil
		}

		res, err := h.quiz.Submit(ctx, sid, "", true)
		if err != nil {
			return err
		}

		h.send(newHTMLMessage(chatID, formatExplanation(res)))
		return nil
	}
}

func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Debug("failed to answer callback", zap.Error(err))
	}
}

package telegram

import (
	"context"
	"strings"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz/internal/service"
)

func (h *Handler) sendTopics(chatID int64) {
	msg := newHTMLMessage(chatID, msgPickTopic)
	msg.ReplyMarkup = buildTopicsKeyboard()
	h.send(msg)
}

// quizHandler starts a quiz for the topic named in the command arguments.
func (h *Handler) quizHandler(args, name string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if strings.TrimSpace(args) == "" {
			h.sendTopics(chatID)
			return nil
		}

		c, ok := findCategory(args)
		if !ok {
			h.sendError(chatID, msgUnknownTopic)
			return nil
		}

		return h.startQuiz(ctx, chatID, c, name)
	}
}

func (h *Handler) startQuiz(ctx context.Context, chatID int64, c entities.Category, name string) error {
	_, err := h.quiz.Start(ctx, sessionID(chatID), service.StartQuizInput{
		DisplayName: name,
		Topics:      []string{c.Label},
	})
	if err != nil {
		return err
	}

	return h.sendCurrent(ctx, chatID)
}

// sendCurrent sends the current question, or the result when the quiz is over.
func (h *Handler) sendCurrent(ctx context.Context, chatID int64) error {
	sid := sessionID(chatID)

	view, completed, err := h.quiz.Current(ctx, sid)
	if err != nil {
		return err
	}
	if completed {
		return h.sendResult(ctx, chatID)
	}

	msg := newHTMLMessage(chatID, formatQuestion(view))
	msg.ReplyMarkup = buildQuestionKeyboard(view)
	h.send(msg)
	return nil
}

func (h *Handler) sendResult(ctx context.Context, chatID int64) error {
	result, err := h.quiz.Finish(ctx, sessionID(chatID), nil)
	if err != nil {
		return err
	}

	h.send(newHTMLMessage(chatID, formatResult(result)))
	return nil
}

package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Handler struct {
	bot         Bot
	logger      *zap.Logger
	quiz        QuizService
	leaderboard LeaderboardService
}

func NewHandler(bot Bot, logger *zap.Logger, quiz QuizService, leaderboard LeaderboardService) *Handler {
	return &Handler{
		bot:         bot,
		logger:      logger,
		quiz:        quiz,
		leaderboard: leaderboard,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.Chat == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID
	msg := newHTMLMessage(chatID, "")

	if !update.Message.IsCommand() {
		msg.Text = msgUnknownCommand
		h.send(msg)
		return
	}

	switch update.Message.Command() {
	case "start", "help":
		msg.Text = msgWelcome
		h.send(msg)

	case "topics":
		h.sendTopics(chatID)

	case "quiz":
		name := displayName(update.Message.From)
		_ = h.withErrorHandling(h.quizHandler(update.Message.CommandArguments(), name))(ctx, chatID)

	case "leaderboard":
		msg.Text = formatLeaderboard(h.leaderboard.Top(ctx))
		h.send(msg)

	default:
		msg.Text = msgUnknownCommand
		h.send(msg)
	}
}

func (h *Handler) sendError(chatID int64, err string) {
	msg := newHTMLMessage(chatID, err)
	h.send(msg)
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}

package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz/internal/service"
)

// Bot is the part of *tgbotapi.BotAPI the handler uses.
type Bot interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type QuizService interface {
	Start(ctx context.Context, sessionID string, in service.StartQuizInput) (*entities.QuizSession, error)
	Current(ctx context.Context, sessionID string) (service.QuestionView, bool, error)
	Submit(ctx context.Context, sessionID, answer string, explain bool) (entities.AnswerResult, error)
	Finish(ctx context.Context, sessionID string, account *entities.Account) (*service.QuizResult, error)
}

type LeaderboardService interface {
	Top(ctx context.Context) []entities.GlobalStanding
}

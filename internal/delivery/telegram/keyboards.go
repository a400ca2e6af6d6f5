package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz/internal/service"
)

// buildTopicsKeyboard lists categories two per row.
func buildTopicsKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for _, c := range entities.Categories() {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(c.Label, buildTopicCallback(c.UpstreamID)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildQuestionKeyboard has one row per option and an explain button.
func buildQuestionKeyboard(view service.QuestionView) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(view.Question.Options)+1)
	for i, opt := range view.Question.Options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(opt, buildAnswerCallback(view.Number, i)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("💡 Explain", buildExplainCallback(view.Number)),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func categoryByID(id int) (entities.Category, bool) {
	for _, c := range entities.Categories() {
		if c.UpstreamID == id {
			return c, true
		}
	}
	return entities.Category{}, false
}

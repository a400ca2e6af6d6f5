package telegram

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
)

const defaultDisplayName = "Telegram player"

func newHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return msg
}

// sessionID keys the quiz session of a chat. Chats never share a session
// with browsers because of the prefix.
func sessionID(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}

func displayName(u *tgbotapi.User) string {
	if u == nil {
		return defaultDisplayName
	}
	if u.UserName != "" {
		return u.UserName
	}
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return defaultDisplayName
}

// findCategory matches a topic label case-insensitively.
func findCategory(label string) (entities.Category, bool) {
	label = strings.TrimSpace(label)
	for _, c := range entities.Categories() {
		if strings.EqualFold(c.Label, label) {
			return c, true
		}
	}
	return entities.Category{}, false
}

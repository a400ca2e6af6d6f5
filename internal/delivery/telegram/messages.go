// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"html"
	"strings"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz/internal/service"
)

const (
	msgWelcome = "<b>Welcome to Trivia Quiz!</b>\n\n" +
		"/topics — pick a topic and start a quiz\n" +
		"/quiz &lt;topic&gt; — start a quiz right away\n" +
		"/leaderboard — top players"
	msgPickTopic       = "Pick a topic:"
	msgUnknownTopic    = "Unknown topic. Use /topics to see the list."
	msgUnavailable     = "Unable to load quiz questions. Please try again later."
	msgNoActiveQuiz    = "No active quiz. Use /topics to start one."
	msgStaleQuestion   = "This question is no longer active."
	msgEmptyBoard      = "No quizzes have been played yet."
	msgInternalError   = "Something went wrong. Please try again later."
	msgUnknownCommand  = "Unknown command.\n\n" + "/topics — pick a topic\n/quiz &lt;topic&gt; — start a quiz\n/leaderboard — top players"
	msgCorrect         = "✅ Correct!"
	msgIncorrectFormat = "❌ Wrong. The correct answer is: %s"
)

func formatQuestion(view service.QuestionView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>Question %d/%d</b> · %s\n", view.Number, view.Total, html.EscapeString(view.Category))
	if view.Remaining != nil {
		fmt.Fprintf(&b, "⏱ %d seconds left\n", int(view.Remaining.Seconds()))
	}
	b.WriteString("\n")
	b.WriteString(html.EscapeString(view.Question.Prompt))
	return b.String()
}

func formatVerdict(view service.QuestionView, res entities.AnswerResult) string {
	verdict := msgCorrect
	if !res.Correct {
		verdict = fmt.Sprintf(msgIncorrectFormat, html.EscapeString(res.CorrectAnswer))
	}
	return fmt.Sprintf("%s\n\nYour answer: %s\n%s", formatQuestion(view), html.EscapeString(res.Answer), verdict)
}

func formatExplanation(res entities.AnswerResult) string {
	return "💡 " + html.EscapeString(res.Explanation)
}

func formatResult(result *service.QuizResult) string {
	o := result.Outcome
	return fmt.Sprintf(
		"🏁 <b>Quiz finished</b>\n\n%s scored <b>%d / %d</b> (%.1f%%) in %s.\n\nUse /topics to play again.",
		html.EscapeString(o.DisplayName),
		o.Score,
		o.Total,
		o.Percentage(),
		html.EscapeString(o.Category),
	)
}

func formatLeaderboard(top []entities.GlobalStanding) string {
	if len(top) == 0 {
		return msgEmptyBoard
	}

	var b strings.Builder
	b.WriteString("🏆 <b>Top players</b>\n")
	for i, s := range top {
		fmt.Fprintf(&b, "\n%d. %s — %.1f%% average over %d quiz(zes)",
			i+1, html.EscapeString(s.Username), s.AvgPercentage, s.TotalAttempts)
	}
	return b.String()
}

package entities

// Question is a single multiple-choice question held inside a quiz session.
// It is never persisted.
type Question struct {
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`        // shuffled, contains CorrectAnswer
	CorrectAnswer string   `json:"correct_answer"` // compared by exact string equality
	Explanation   string   `json:"explanation,omitempty"`
	Category      string   `json:"category,omitempty"`
	Difficulty    string   `json:"difficulty,omitempty"`
}

// IsCorrect reports whether answer matches the recorded correct answer.
func (q Question) IsCorrect(answer string) bool {
	return answer == q.CorrectAnswer
}

// ExplanationText returns the explanation shown on request.
// The trivia source rarely carries one, so the correct answer is the fallback.
func (q Question) ExplanationText() string {
	if q.Explanation != "" {
		return q.Explanation
	}
	return "The correct answer is: " + q.CorrectAnswer
}

package entities

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrQuizNotStarted     = errors.New("quiz has not been started")
	ErrQuizAlreadyStarted = errors.New("quiz has already been started")
	ErrNoQuestions        = errors.New("quiz has no questions")
)

// QuizStatus is the state of a quiz session.
type QuizStatus string

const (
	QuizNotStarted QuizStatus = "not_started"
	QuizInProgress QuizStatus = "in_progress"
	QuizCompleted  QuizStatus = "completed"
)

// QuizSession represents a single quiz played within one browser session.
// It moves NotStarted -> InProgress -> Completed and never goes back.
type QuizSession struct {
	Status      QuizStatus `json:"status"`
	DisplayName string     `json:"display_name"`         // name shown on the result page
	Category    string     `json:"category"`             // label the attempt is recorded under
	Difficulty  Difficulty `json:"difficulty,omitempty"` // optional difficulty filter
	Questions   []Question `json:"questions"`
	Index       int        `json:"index"`                  // zero-based position of the current question
	Score       int        `json:"score"`                  // number of correct answers so far
	TimeLimit   int        `json:"time_limit,omitempty"`   // seconds, 0 means unlimited
	StartedAt   *time.Time `json:"started_at,omitempty"`   // set by Begin
	CompletedAt *time.Time `json:"completed_at,omitempty"` // set on transition to Completed
}

// UnmarshalJSON decodes a stored session. A score or index that is not an
// integer decodes as 0; ClampScore and the index guard in Current handle the rest.
func (qs *QuizSession) UnmarshalJSON(data []byte) error {
	type stored QuizSession
	aux := struct {
		*stored
		Index json.RawMessage `json:"index"`
		Score json.RawMessage `json:"score"`
	}{stored: (*stored)(qs)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	qs.Index = lenientInt(aux.Index)
	qs.Score = lenientInt(aux.Score)
	return nil
}

func lenientInt(raw json.RawMessage) int {
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0
	}
	return n
}

// NewQuizSession creates a quiz session that has not been started yet.
func NewQuizSession(displayName, category string, difficulty Difficulty, timeLimit int) *QuizSession {
	if timeLimit < 0 {
		timeLimit = 0
	}
	return &QuizSession{
		Status:      QuizNotStarted,
		DisplayName: displayName,
		Category:    category,
		Difficulty:  difficulty,
		TimeLimit:   timeLimit,
	}
}

// Begin loads the questions and moves the session to InProgress at index 0.
func (qs *QuizSession) Begin(questions []Question, now time.Time) error {
	if qs.Status != QuizNotStarted {
		return ErrQuizAlreadyStarted
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}

	qs.Questions = questions
	qs.Index = 0
	qs.Score = 0
	qs.StartedAt = &now
	qs.Status = QuizInProgress
	return nil
}

// Completed reports whether the session reached its terminal state.
func (qs *QuizSession) Completed() bool {
	return qs.Status == QuizCompleted
}

// Total returns the number of questions in the quiz.
func (qs *QuizSession) Total() int {
	return len(qs.Questions)
}

// Current returns the question at the current index.
//
// Every read checks the time limit first. An expired quiz, or an index outside
// [0, N), completes the session instead of failing.
func (qs *QuizSession) Current(now time.Time) (Question, bool) {
	if qs.Status != QuizInProgress {
		return Question{}, false
	}
	if qs.expired(now) || qs.Index < 0 || qs.Index >= len(qs.Questions) {
		qs.complete(now)
		return Question{}, false
	}
	return qs.Questions[qs.Index], true
}

// AnswerResult describes what happened to one submission.
type AnswerResult struct {
	Index         int    // index of the question the submission applied to
	Answer        string // answer as submitted
	Correct       bool
	CorrectAnswer string
	Explanation   string // set only for explanation requests
	Explained     bool   // true when the index was not advanced
	Completed     bool   // true when the session is now Completed
}

// Answer scores the submission against the current question and advances the index.
func (qs *QuizSession) Answer(answer string, now time.Time) (AnswerResult, error) {
	if qs.Status == QuizNotStarted {
		return AnswerResult{}, ErrQuizNotStarted
	}

	q, ok := qs.Current(now)
	if !ok {
		return AnswerResult{Index: qs.Index, Answer: answer, Completed: true}, nil
	}

	res := AnswerResult{
		Index:         qs.Index,
		Answer:        answer,
		Correct:       q.IsCorrect(answer),
		CorrectAnswer: q.CorrectAnswer,
	}
	if res.Correct {
		qs.Score++
	}

	qs.Index++
	if qs.Index >= len(qs.Questions) {
		qs.complete(now)
	}
	res.Completed = qs.Completed()

	return res, nil
}

// Explain returns the verdict and explanation for the current question
// without advancing the index.
func (qs *QuizSession) Explain(answer string, now time.Time) (AnswerResult, error) {
	if qs.Status == QuizNotStarted {
		return AnswerResult{}, ErrQuizNotStarted
	}

	q, ok := qs.Current(now)
	if !ok {
		return AnswerResult{Index: qs.Index, Answer: answer, Completed: true}, nil
	}

	return AnswerResult{
		Index:         qs.Index,
		Answer:        answer,
		Correct:       q.IsCorrect(answer),
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.ExplanationText(),
		Explained:     true,
	}, nil
}

// Remaining returns the time left before the limit, or false when unlimited.
func (qs *QuizSession) Remaining(now time.Time) (time.Duration, bool) {
	if qs.TimeLimit <= 0 || qs.StartedAt == nil {
		return 0, false
	}
	left := time.Duration(qs.TimeLimit)*time.Second - now.Sub(*qs.StartedAt)
	if left < 0 {
		left = 0
	}
	return left, true
}

// Outcome summarizes the session for score submission.
func (qs *QuizSession) Outcome(now time.Time) QuizOutcome {
	total := len(qs.Questions)
	out := QuizOutcome{
		DisplayName: qs.DisplayName,
		Category:    qs.Category,
		Difficulty:  qs.Difficulty,
		Score:       ClampScore(qs.Score, total),
		Total:       total,
		TimeLimit:   qs.TimeLimit,
	}

	if qs.StartedAt != nil {
		end := now
		if qs.CompletedAt != nil {
			end = *qs.CompletedAt
		}
		elapsed := end.Sub(*qs.StartedAt)
		if elapsed < 0 {
			elapsed = 0
		}
		out.Elapsed = &elapsed
	}

	return out
}

func (qs *QuizSession) expired(now time.Time) bool {
	left, limited := qs.Remaining(now)
	return limited && left <= 0
}

func (qs *QuizSession) complete(now time.Time) {
	qs.Status = QuizCompleted
	qs.CompletedAt = &now
}

// QuizOutcome is the final, display-ready result of a quiz.
type QuizOutcome struct {
	DisplayName string
	Category    string
	Difficulty  Difficulty
	Score       int
	Total       int
	TimeLimit   int            // seconds, 0 means unlimited
	Elapsed     *time.Duration // nil when the start time is unknown
}

// Percentage returns score/total as a percentage.
func (o QuizOutcome) Percentage() float64 {
	if o.Total <= 0 {
		return 0
	}
	return float64(o.Score) / float64(o.Total) * 100
}

// ClampScore keeps a score inside [0, total].
func ClampScore(score, total int) int {
	if total < 0 {
		total = 0
	}
	return min(max(score, 0), total)
}

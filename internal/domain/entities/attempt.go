package entities

import "time"

// Attempt is the persisted outcome of one completed quiz. It is immutable once stored.
type Attempt struct {
	ID          int64
	AccountID   int64
	Category    string
	Score       int        // 0 <= Score <= MaxScore
	MaxScore    int        // number of questions
	Difficulty  Difficulty // empty when no filter was used
	XPEarned    int
	CompletedAt time.Time
}

// NewAttempt builds the record for a finished quiz.
func NewAttempt(accountID int64, outcome QuizOutcome, completedAt time.Time) *Attempt {
	score := ClampScore(outcome.Score, outcome.Total)
	return &Attempt{
		AccountID:   accountID,
		Category:    outcome.Category,
		Score:       score,
		MaxScore:    max(outcome.Total, 0),
		Difficulty:  outcome.Difficulty,
		XPEarned:    ExperienceFor(score, outcome.Difficulty),
		CompletedAt: completedAt,
	}
}

// Percentage returns Score/MaxScore as a percentage.
func (a *Attempt) Percentage() float64 {
	if a.MaxScore <= 0 {
		return 0
	}
	return float64(a.Score) / float64(a.MaxScore) * 100
}

// IsDuplicateSubmission reports whether a result with (score, total) submitted
// at now repeats last, the most recent attempt in the same category.
// Only an identical result younger than window counts as a repeat.
func IsDuplicateSubmission(last *Attempt, score, total int, now time.Time, window time.Duration) bool {
	if last == nil {
		return false
	}
	if last.Score != score || last.MaxScore != total {
		return false
	}
	return now.Sub(last.CompletedAt) < window
}

package entities

import (
	"fmt"
	"time"
)

// Achievement is a badge shown on the result page. Achievements are not persisted.
type Achievement struct {
	Title       string
	Description string
}

// AchievementInput holds what is known about an account right after an attempt was saved.
type AchievementInput struct {
	TotalAttempts  int // attempts across all categories, including the new one
	BestInCategory int // best score in the attempt's category, including the new one
	Streak         int // current streak after the attempt
	Outcome        QuizOutcome
}

// EvaluateAchievements returns the badges earned by an attempt, most notable first.
func EvaluateAchievements(in AchievementInput) []Achievement {
	var out []Achievement
	o := in.Outcome

	if in.TotalAttempts == 1 {
		out = append(out, Achievement{Title: "First Quiz!", Description: "You completed your first quiz."})
	}
	if o.Total > 0 && o.Score == o.Total {
		out = append(out, Achievement{Title: "Perfect Score", Description: "All answers correct. Outstanding!"})
	}
	if o.Elapsed != nil && o.TimeLimit > 0 && *o.Elapsed <= time.Duration(o.TimeLimit/2)*time.Second {
		out = append(out, Achievement{Title: "Speed Runner", Description: "Finished in half the allotted time."})
	}
	if in.BestInCategory == o.Score {
		out = append(out, Achievement{Title: "Personal Best", Description: fmt.Sprintf("Best score in %s.", o.Category)})
	}

	switch {
	case in.Streak >= 30:
		out = append(out, Achievement{Title: "30-Day Streak!", Description: "30 consecutive days of learning."})
	case in.Streak >= 7:
		out = append(out, Achievement{Title: "7-Day Streak!", Description: "A week of consistent practice."})
	case in.Streak >= 3:
		out = append(out, Achievement{Title: "On Fire!", Description: fmt.Sprintf("%d day streak.", in.Streak)})
	}

	return out
}

package entities

import (
	"testing"
	"time"
)

func titles(a []Achievement) []string {
	out := make([]string, len(a))
	for i := range a {
		out[i] = a[i].Title
	}
	return out
}

func TestEvaluateAchievements(t *testing.T) {
	elapsed := 30 * time.Second
	got := titles(EvaluateAchievements(AchievementInput{
		TotalAttempts:  1,
		BestInCategory: 5,
		Streak:         3,
		Outcome:        QuizOutcome{Category: "Art", Score: 5, Total: 5, TimeLimit: 60, Elapsed: &elapsed},
	}))

	want := []string{"First Quiz!", "Perfect Score", "Speed Runner", "Personal Best", "On Fire!"}
	if len(got) != len(want) {
		t.Fatalf("achievements = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("achievements = %v, want %v", got, want)
		}
	}
}

func TestEvaluateAchievementsNone(t *testing.T) {
	elapsed := 50 * time.Second
	got := EvaluateAchievements(AchievementInput{
		TotalAttempts:  4,
		BestInCategory: 4,
		Streak:         1,
		Outcome:        QuizOutcome{Category: "Art", Score: 2, Total: 5, TimeLimit: 60, Elapsed: &elapsed},
	})
	if len(got) != 0 {
		t.Fatalf("achievements = %v, want none", titles(got))
	}
}

func TestEvaluateAchievementsStreakTiers(t *testing.T) {
	tests := []struct {
		streak int
		want   string
	}{
		{7, "7-Day Streak!"},
		{29, "7-Day Streak!"},
		{30, "30-Day Streak!"},
	}
	for _, tt := range tests {
		got := titles(EvaluateAchievements(AchievementInput{
			TotalAttempts:  2,
			BestInCategory: 5,
			Streak:         tt.streak,
			Outcome:        QuizOutcome{Score: 1, Total: 5},
		}))
		if len(got) != 1 || got[0] != tt.want {
			t.Errorf("streak %d: %v, want [%s]", tt.streak, got, tt.want)
		}
	}
}

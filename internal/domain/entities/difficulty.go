package entities

import (
	"fmt"
	"strings"
)

// Difficulty is the optional upstream difficulty filter.
type Difficulty string

const (
	DifficultyAny    Difficulty = ""
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty accepts an empty string as "any difficulty".
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case DifficultyAny, DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	default:
		return DifficultyAny, fmt.Errorf("unknown difficulty %q", s)
	}
}

// XPPerCorrect returns the experience awarded for each correct answer.
func (d Difficulty) XPPerCorrect() int {
	switch d {
	case DifficultyEasy:
		return 5
	case DifficultyHard:
		return 15
	default:
		return 10
	}
}

// ExperienceFor returns the experience earned for a finished quiz.
func ExperienceFor(score int, d Difficulty) int {
	if score <= 0 {
		return 0
	}
	return score * d.XPPerCorrect()
}

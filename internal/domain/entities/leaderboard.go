package entities

import (
	"sort"
	"time"
)

// DefaultAvatar is the placeholder used when an account has no usable avatar.
const DefaultAvatar = "images/default-avatar.svg"

// CategoryStanding aggregates one account's attempts in one category.
type CategoryStanding struct {
	Category       string
	AccountID      int64
	Username       string
	Avatar         string
	Attempts       int
	AvgPercentage  float64
	BestPercentage float64
	LastAttemptAt  time.Time
}

// GlobalStanding aggregates one account's attempts across all categories.
type GlobalStanding struct {
	AccountID     int64
	Username      string
	Avatar        string
	TotalAttempts int
	AvgPercentage float64
}

// CategoryBoard is the ranked standings of one category.
type CategoryBoard struct {
	Category  string
	Standings []CategoryStanding
}

// Leaderboard is the full read model rendered on the leaderboard page.
type Leaderboard struct {
	Categories []CategoryBoard
	Top        []GlobalStanding
}

// Empty reports whether there is nothing to rank.
func (l Leaderboard) Empty() bool {
	return len(l.Categories) == 0 && len(l.Top) == 0
}

// SortCategoryStandings orders by best percentage, then average, then recency,
// all descending. Username is the final tie-break so output is stable.
func SortCategoryStandings(s []CategoryStanding) {
	sort.SliceStable(s, func(i, j int) bool {
		a, b := s[i], s[j]
		if a.BestPercentage != b.BestPercentage {
			return a.BestPercentage > b.BestPercentage
		}
		if a.AvgPercentage != b.AvgPercentage {
			return a.AvgPercentage > b.AvgPercentage
		}
		if !a.LastAttemptAt.Equal(b.LastAttemptAt) {
			return a.LastAttemptAt.After(b.LastAttemptAt)
		}
		return a.Username < b.Username
	})
}

// SortGlobalStandings orders by average percentage descending.
func SortGlobalStandings(s []GlobalStanding) {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].AvgPercentage != s[j].AvgPercentage {
			return s[i].AvgPercentage > s[j].AvgPercentage
		}
		return s[i].Username < s[j].Username
	})
}

package entities

import "strings"

// MixedCategory labels a quiz drawn from more than one topic.
const MixedCategory = "Mixed Topics"

// Category maps a topic label shown to users onto the upstream category id.
type Category struct {
	Label      string
	UpstreamID int
}

var categories = []Category{
	{Label: "General Knowledge", UpstreamID: 9},
	{Label: "Science & Nature", UpstreamID: 17},
	{Label: "Computers", UpstreamID: 18},
	{Label: "Mathematics", UpstreamID: 19},
	{Label: "Sports", UpstreamID: 21},
	{Label: "History", UpstreamID: 23},
	{Label: "Geography", UpstreamID: 22},
	{Label: "Art", UpstreamID: 25},
	{Label: "Celebrities", UpstreamID: 26},
}

// Categories returns the known topics in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryID returns the upstream id for a topic label.
// Unknown labels report false and are fetched unfiltered.
func CategoryID(label string) (int, bool) {
	for _, c := range categories {
		if c.Label == label {
			return c.UpstreamID, true
		}
	}
	return 0, false
}

// CategoryLabel returns the label an attempt is recorded under.
func CategoryLabel(topics []string) string {
	switch len(topics) {
	case 0:
		return ""
	case 1:
		return strings.TrimSpace(topics[0])
	default:
		return MixedCategory
	}
}

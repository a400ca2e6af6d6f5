package entities

import "testing"

func TestCategoryID(t *testing.T) {
	if id, ok := CategoryID("History"); !ok || id != 23 {
		t.Fatalf("History = %d, %v", id, ok)
	}
	if _, ok := CategoryID("Astrology"); ok {
		t.Fatalf("unknown topic resolved")
	}
}

func TestCategoryLabel(t *testing.T) {
	tests := []struct {
		topics []string
		want   string
	}{
		{nil, ""},
		{[]string{" Art "}, "Art"},
		{[]string{"Art", "History"}, MixedCategory},
	}
	for _, tt := range tests {
		if got := CategoryLabel(tt.topics); got != tt.want {
			t.Errorf("CategoryLabel(%v) = %q, want %q", tt.topics, got, tt.want)
		}
	}
}

func TestCategoriesReturnsCopy(t *testing.T) {
	c := Categories()
	c[0].Label = "changed"
	if Categories()[0].Label == "changed" {
		t.Fatalf("Categories exposed its backing slice")
	}
}

func TestParseDifficulty(t *testing.T) {
	if d, err := ParseDifficulty(" Hard "); err != nil || d != DifficultyHard {
		t.Fatalf("ParseDifficulty(Hard) = %q, %v", d, err)
	}
	if d, err := ParseDifficulty(""); err != nil || d != DifficultyAny {
		t.Fatalf("ParseDifficulty(\"\") = %q, %v", d, err)
	}
	if _, err := ParseDifficulty("extreme"); err == nil {
		t.Fatalf("unknown difficulty accepted")
	}
}

func TestExplanationFallback(t *testing.T) {
	q := Question{CorrectAnswer: "Paris"}
	if q.ExplanationText() != "The correct answer is: Paris" {
		t.Fatalf("fallback = %q", q.ExplanationText())
	}
	q.Explanation = "Capital of France."
	if q.ExplanationText() != "Capital of France." || !q.IsCorrect("Paris") || q.IsCorrect("paris") {
		t.Fatalf("explanation or comparison wrong")
	}
}

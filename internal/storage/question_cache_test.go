package storage

import (
	"testing"
	"time"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
)

func TestQuestionCacheTTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := NewQuestionCache(2 * time.Minute)
	cache.now = func() time.Time { return now }

	cache.Set("k", []entities.Question{{Prompt: "q", Options: []string{"a", "b"}, CorrectAnswer: "a"}})

	got, ok := cache.Get("k")
	if !ok || len(got) != 1 {
		t.Fatalf("expected cache hit, got %v %v", got, ok)
	}

	got[0].Options[0] = "mutated"
	again, _ := cache.Get("k")
	if again[0].Options[0] != "a" {
		t.Fatalf("cache returned shared option slice")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := cache.Get("k"); ok {
		t.Fatalf("expected entry to expire after ttl")
	}
}

func TestQuestionCacheDisabled(t *testing.T) {
	cache := NewQuestionCache(0)
	cache.Set("k", []entities.Question{{Prompt: "q"}})
	if _, ok := cache.Get("k"); ok {
		t.Fatalf("cache with zero ttl should not store entries")
	}
}

func TestQuestionCacheSweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := NewQuestionCache(time.Minute)
	cache.now = func() time.Time { return now }

	cache.Set("a", nil)
	cache.Set("b", nil)
	now = now.Add(time.Minute)
	cache.Set("c", nil)

	if removed := cache.Sweep(); removed != 2 {
		t.Fatalf("Sweep removed %d, want 2", removed)
	}
	if _, ok := cache.Get("c"); !ok {
		t.Fatalf("fresh entry should survive sweep")
	}
}

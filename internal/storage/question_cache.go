package storage

import (
	"sync"
	"time"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
)

type cacheEntry struct {
	questions []entities.Question
	expiresAt time.Time
}

// QuestionCache is a small TTL cache of fetched question selections.
// The key space is tiny (topic sets × counts), so expiry is the only eviction.
type QuestionCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewQuestionCache creates a cache whose entries live for ttl. A non-positive ttl disables caching.
func NewQuestionCache(ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns a copy of the cached questions for key.
func (c *QuestionCache) Get(key string) ([]entities.Question, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}

	return cloneQuestions(entry.questions), true
}

// Set stores a copy of questions under key.
func (c *QuestionCache) Set(key string, questions []entities.Question) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{
		questions: cloneQuestions(questions),
		expiresAt: c.now().Add(c.ttl),
	}
}

// Sweep drops expired entries and returns how many were removed.
func (c *QuestionCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

func cloneQuestions(in []entities.Question) []entities.Question {
	out := make([]entities.Question, len(in))
	for i, q := range in {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}

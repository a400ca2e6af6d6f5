package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
)

var (
	ErrSessionNotFound = errors.New("quiz session not found")
	ErrCorruptSession  = errors.New("quiz session is unreadable")
)

type sessionEntry struct {
	payload   []byte
	expiresAt time.Time
}

// QuizStorage keeps quiz sessions in process memory, keyed by browser session ID.
// Sessions are stored serialized so callers never share state.
type QuizStorage struct {
	mu       sync.RWMutex
	sessions map[string]sessionEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewQuizStorage creates a new QuizStorage whose entries expire after ttl of inactivity.
func NewQuizStorage(ttl time.Duration) *QuizStorage {
	return &QuizStorage{
		sessions: make(map[string]sessionEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get retrieves the quiz session stored for sessionID.
func (s *QuizStorage) Get(_ context.Context, sessionID string) (*entities.QuizSession, error) {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok || s.expired(entry) {
		return nil, ErrSessionNotFound
	}

	var session entities.QuizSession
	if err := json.Unmarshal(entry.payload, &session); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}
	return &session, nil
}

// Save stores the quiz session for sessionID and refreshes its expiry.
func (s *QuizStorage) Save(_ context.Context, sessionID string, session *entities.QuizSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode quiz session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = sessionEntry{payload: payload, expiresAt: s.now().Add(s.ttl)}
	return nil
}

// Delete removes the quiz session for sessionID.
func (s *QuizStorage) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// Sweep drops expired sessions and returns how many were removed.
func (s *QuizStorage) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.sessions {
		if s.expired(entry) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *QuizStorage) expired(entry sessionEntry) bool {
	return s.ttl > 0 && !s.now().Before(entry.expiresAt)
}

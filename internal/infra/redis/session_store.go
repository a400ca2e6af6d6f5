package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz/internal/storage"
)

const sessionKeyPrefix = "quiz:session:"

// QuizSessionStore keeps quiz sessions in Redis so they survive restarts
// and are shared between server replicas.
type QuizSessionStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewQuizSessionStore creates a store whose keys expire after ttl of inactivity.
func NewQuizSessionStore(client redis.UniversalClient, ttl time.Duration) *QuizSessionStore {
	return &QuizSessionStore{client: client, ttl: ttl}
}

// Get retrieves the quiz session stored for sessionID.
func (s *QuizSessionStore) Get(ctx context.Context, sessionID string) (*entities.QuizSession, error) {
	payload, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get quiz session: %w", err)
	}

	var session entities.QuizSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrCorruptSession, err)
	}
	return &session, nil
}

// Save stores the quiz session and refreshes its expiry.
func (s *QuizSessionStore) Save(ctx context.Context, sessionID string, session *entities.QuizSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode quiz session: %w", err)
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+sessionID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save quiz session: %w", err)
	}
	return nil
}

// Delete removes the quiz session for sessionID.
func (s *QuizSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("delete quiz session: %w", err)
	}
	return nil
}

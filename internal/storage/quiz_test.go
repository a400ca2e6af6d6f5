package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
)

func TestQuizStorageRoundTripIsIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewQuizStorage(time.Hour)

	session := entities.NewQuizSession("alice", "Mathematics", entities.DifficultyAny, 0)
	if err := session.Begin([]entities.Question{{Prompt: "1+1?", Options: []string{"2", "3"}, CorrectAnswer: "2"}}, time.Now()); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := store.Save(ctx, "sid-a", session); err != nil {
		t.Fatalf("Save: %v", err)
	}

	session.Score = 99

	got, err := store.Get(ctx, "sid-a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Score != 0 || got.DisplayName != "alice" || len(got.Questions) != 1 {
		t.Fatalf("unexpected stored session: %+v", got)
	}

	if _, err := store.Get(ctx, "sid-b"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("other session lookup error = %v, want ErrSessionNotFound", err)
	}

	if err := store.Delete(ctx, "sid-a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "sid-a"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("deleted session lookup error = %v, want ErrSessionNotFound", err)
	}
}

func TestQuizStorageExpiresAndSweeps(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	store := NewQuizStorage(time.Minute)
	store.now = func() time.Time { return now }

	if err := store.Save(ctx, "sid", entities.NewQuizSession("bob", "Art", entities.DifficultyAny, 0)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := store.Get(ctx, "sid"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expired lookup error = %v, want ErrSessionNotFound", err)
	}
	if removed := store.Sweep(); removed != 1 {
		t.Fatalf("Sweep removed %d, want 1", removed)
	}
}

func TestQuizStorageCoercesNonIntegerScore(t *testing.T) {
	ctx := context.Background()
	store := NewQuizStorage(time.Hour)
	store.sessions["sid"] = sessionEntry{
		payload:   []byte(`{"status":"in_progress","questions":[{"prompt":"p","options":["a"],"correct_answer":"a"}],"index":0,"score":"abc"}`),
		expiresAt: time.Now().Add(time.Hour),
	}

	got, err := store.Get(ctx, "sid")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Score != 0 || got.Status != entities.QuizInProgress {
		t.Fatalf("session = %+v", got)
	}

	store.sessions["bad"] = sessionEntry{payload: []byte("{not json"), expiresAt: time.Now().Add(time.Hour)}
	if _, err := store.Get(ctx, "bad"); !errors.Is(err, ErrCorruptSession) {
		t.Fatalf("Get error = %v, want ErrCorruptSession", err)
	}
}

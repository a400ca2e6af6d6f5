package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz/internal/service"
	"github.com/aliskhannn/trivia-quiz/internal/storage"
)

func newTestStore(t *testing.T, ttl time.Duration) (*QuizSessionStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewQuizSessionStore(client, ttl), mr
}

func TestQuizSessionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, time.Hour)

	session := entities.NewQuizSession("alice", "History", entities.DifficultyHard, 60)
	questions := []entities.Question{
		{Prompt: "Year?", Options: []string{"1066", "1067"}, CorrectAnswer: "1066"},
	}
	if err := session.Begin(questions, time.Now()); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	if err := store.Save(ctx, "sid", session); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(ctx, "sid")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != entities.QuizInProgress || got.Difficulty != entities.DifficultyHard || got.TimeLimit != 60 {
		t.Fatalf("unexpected session: %+v", got)
	}
	if len(got.Questions) != 1 || got.Questions[0].CorrectAnswer != "1066" {
		t.Fatalf("questions not preserved: %+v", got.Questions)
	}

	if err := store.Delete(ctx, "sid"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "sid"); !errors.Is(err, storage.ErrSessionNotFound) {
		t.Fatalf("Get after delete error = %v, want ErrSessionNotFound", err)
	}
}

func TestQuizSessionStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t, time.Minute)

	if err := store.Save(ctx, "sid", entities.NewQuizSession("bob", "Art", entities.DifficultyAny, 0)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := store.Get(ctx, "sid"); !errors.Is(err, storage.ErrSessionNotFound) {
		t.Fatalf("Get after expiry error = %v, want ErrSessionNotFound", err)
	}
}

func TestQuizSessionStoreCorruptPayload(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t, time.Minute)

	if err := mr.Set(sessionKeyPrefix+"sid", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := store.Get(ctx, "sid"); !errors.Is(err, storage.ErrCorruptSession) {
		t.Fatalf("Get error = %v, want ErrCorruptSession", err)
	}
}

type echoRecorder struct{}

func (echoRecorder) Record(_ context.Context, _ *entities.Account, o entities.QuizOutcome) *service.QuizResult {
	return &service.QuizResult{Outcome: o}
}

func TestNonIntegerScoreFinishesAsZero(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t, time.Minute)

	payload := `{"status":"completed","display_name":"alice","category":"Art",` +
		`"questions":[{"prompt":"p","options":["a","b"],"correct_answer":"a"}],` +
		`"index":1,"score":"abc","started_at":"2026-03-10T12:00:00Z","completed_at":"2026-03-10T12:01:00Z"}`
	if err := mr.Set(sessionKeyPrefix+"sid", payload); err != nil {
		t.Fatalf("seed: %v", err)
	}

	quiz := service.NewQuizService(nil, store, echoRecorder{}, 5, 0, zap.NewNop())
	result, err := quiz.Finish(ctx, "sid", nil)
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if result.Outcome.Score != 0 || result.Outcome.Total != 1 || result.Outcome.DisplayName != "alice" {
		t.Fatalf("outcome = %+v", result.Outcome)
	}
	if mr.Exists(sessionKeyPrefix + "sid") {
		t.Fatalf("finished session still stored")
	}
}

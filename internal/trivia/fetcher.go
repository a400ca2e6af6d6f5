package trivia

import (
	"context"
	"errors"
	"html"
	"math/rand"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
)

// Source performs one upstream request.
type Source interface {
	Fetch(ctx context.Context, req Request) ([]RawQuestion, error)
}

// Cache holds recent question selections.
type Cache interface {
	Get(key string) ([]entities.Question, bool)
	Set(key string, questions []entities.Question)
}

type outcomeKind int

const (
	outcomeOK outcomeKind = iota
	outcomeEmpty
	outcomeFailed
)

func (k outcomeKind) String() string {
	switch k {
	case outcomeOK:
		return "ok"
	case outcomeEmpty:
		return "empty"
	default:
		return "failed"
	}
}

// fetchOutcome keeps "nothing there" apart from "could not ask" for logging.
// Callers of Fetcher only ever see the questions.
type fetchOutcome struct {
	kind      outcomeKind
	questions []entities.Question
	attempts  int
	err       error
}

// Fetcher assembles a quiz worth of questions from several topics.
type Fetcher struct {
	source      Source
	cache       Cache
	log         *zap.Logger
	attempts    int
	backoffStep time.Duration

	sleep func(ctx context.Context, d time.Duration) error
	perm  func(n int) []int
}

// NewFetcher creates a Fetcher. attempts is the number of tries per topic
// and attempt i waits i*backoffStep before it starts.
func NewFetcher(source Source, cache Cache, attempts int, backoffStep time.Duration, log *zap.Logger) *Fetcher {
	if attempts < 1 {
		attempts = 1
	}
	return &Fetcher{
		source:      source,
		cache:       cache,
		log:         log,
		attempts:    attempts,
		backoffStep: backoffStep,
		sleep:       sleepContext,
		perm:        rand.Perm,
	}
}

// Fetch returns at most n questions spread over topics. Upstream failures
// never surface as errors; the list is simply shorter, possibly empty.
func (f *Fetcher) Fetch(ctx context.Context, topics []string, n int, difficulty entities.Difficulty) []entities.Question {
	if n <= 0 || len(topics) == 0 {
		return nil
	}

	key := cacheKey(topics, n, difficulty)
	if f.cache != nil {
		if cached, ok := f.cache.Get(key); ok {
			f.log.Debug("question cache hit", zap.String("key", key), zap.Int("count", len(cached)))
			return cached
		}
	}

	questions := make([]entities.Question, 0, n)
	for i, share := range distribute(n, len(topics)) {
		if share == 0 {
			continue
		}

		topic := topics[i]
		categoryID, known := entities.CategoryID(topic)
		if !known {
			f.log.Warn("unknown topic, fetching unfiltered", zap.String("topic", topic))
		}

		out := f.fetchWithRetry(ctx, Request{Amount: share, CategoryID: categoryID, Difficulty: difficulty})
		f.logOutcome("topic fetch", topic, share, out)
		questions = append(questions, out.questions...)
	}

	if len(questions) < n {
		out := f.fetchOnce(ctx, Request{Amount: n, Difficulty: difficulty})
		out.attempts = 1
		f.logOutcome("top-up fetch", "", n, out)
		questions = append(questions, out.questions...)
	}

	if len(questions) > n {
		questions = f.sample(questions, n)
	}

	// An empty selection is not cached so the next start retries the upstream.
	if f.cache != nil && len(questions) > 0 {
		f.cache.Set(key, questions)
	}

	return questions
}

func (f *Fetcher) fetchWithRetry(ctx context.Context, req Request) fetchOutcome {
	var last fetchOutcome
	for i := 0; i < f.attempts; i++ {
		if i > 0 {
			if err := f.sleep(ctx, time.Duration(i)*f.backoffStep); err != nil {
				return fetchOutcome{kind: outcomeFailed, attempts: i, err: err}
			}
		}

		last = f.fetchOnce(ctx, req)
		last.attempts = i + 1
		if last.kind != outcomeFailed {
			return last
		}
	}
	return last
}

func (f *Fetcher) fetchOnce(ctx context.Context, req Request) fetchOutcome {
	raw, err := f.source.Fetch(ctx, req)
	if err != nil {
		if errors.Is(err, ErrNoResults) {
			return fetchOutcome{kind: outcomeEmpty}
		}
		return fetchOutcome{kind: outcomeFailed, err: err}
	}

	questions := f.normalize(raw)
	if len(questions) == 0 {
		return fetchOutcome{kind: outcomeEmpty}
	}
	return fetchOutcome{kind: outcomeOK, questions: questions}
}

func (f *Fetcher) logOutcome(msg, topic string, amount int, out fetchOutcome) {
	fields := []zap.Field{
		zap.String("topic", topic),
		zap.Int("requested", amount),
		zap.Int("received", len(out.questions)),
		zap.Int("attempts", out.attempts),
		zap.Stringer("outcome", out.kind),
	}

	switch out.kind {
	case outcomeFailed:
		f.log.Warn(msg+" failed", append(fields, zap.Error(out.err))...)
	case outcomeEmpty:
		f.log.Info(msg+" returned nothing", fields...)
	default:
		f.log.Debug(msg, fields...)
	}
}

// normalize unescapes HTML entities, shuffles options and drops records
// without a prompt or a correct answer.
func (f *Fetcher) normalize(raw []RawQuestion) []entities.Question {
	out := make([]entities.Question, 0, len(raw))
	for _, r := range raw {
		prompt := html.UnescapeString(r.Question)
		correct := html.UnescapeString(r.CorrectAnswer)
		if strings.TrimSpace(prompt) == "" || strings.TrimSpace(correct) == "" {
			continue
		}

		options := make([]string, 0, len(r.IncorrectAnswers)+1)
		for _, wrong := range r.IncorrectAnswers {
			options = append(options, html.UnescapeString(wrong))
		}
		options = append(options, correct)

		out = append(out, entities.Question{
			Prompt:        prompt,
			Options:       f.shuffle(options),
			CorrectAnswer: correct,
			Category:      html.UnescapeString(r.Category),
			Difficulty:    r.Difficulty,
		})
	}
	return out
}

func (f *Fetcher) shuffle(options []string) []string {
	out := make([]string, len(options))
	for i, j := range f.perm(len(options)) {
		out[i] = options[j]
	}
	return out
}

// sample picks n questions uniformly at random without replacement.
func (f *Fetcher) sample(questions []entities.Question, n int) []entities.Question {
	idx := f.perm(len(questions))[:n]
	out := make([]entities.Question, n)
	for i, j := range idx {
		out[i] = questions[j]
	}
	return out
}

// distribute splits n over k topics as evenly as possible.
// The remainder goes to the first topics.
func distribute(n, k int) []int {
	shares := make([]int, k)
	base, rem := n/k, n%k
	for i := range shares {
		shares[i] = base
		if i < rem {
			shares[i]++
		}
	}
	return shares
}

func cacheKey(topics []string, n int, difficulty entities.Difficulty) string {
	sorted := slices.Clone(topics)
	slices.Sort(sorted)
	return strings.Join(sorted, "|") + "#" + strconv.Itoa(n) + "#" + string(difficulty)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

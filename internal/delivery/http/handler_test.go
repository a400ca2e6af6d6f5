package httpdelivery

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz/internal/infra/postgres/repository"
	"github.com/aliskhannn/trivia-quiz/internal/security"
	"github.com/aliskhannn/trivia-quiz/internal/service"
	"github.com/aliskhannn/trivia-quiz/internal/storage"
)

type stubFetcher struct{ questions []entities.Question }

func (f stubFetcher) Fetch(_ context.Context, _ []string, n int, _ entities.Difficulty) []entities.Question {
	if len(f.questions) > n {
		return f.questions[:n]
	}
	return f.questions
}

// recorder keeps every result it was asked to record.
type recorder struct{ outcomes []entities.QuizOutcome }

func (r *recorder) Record(_ context.Context, account *entities.Account, o entities.QuizOutcome) *service.QuizResult {
	r.outcomes = append(r.outcomes, o)
	return &service.QuizResult{Outcome: o, Saved: account != nil}
}

type stubAccounts struct {
	account  *entities.Account
	password string
}

func (s *stubAccounts) Register(_ context.Context, in service.RegisterInput) (*entities.Account, error) {
	return &entities.Account{ID: 2, Username: in.Username}, nil
}

func (s *stubAccounts) Authenticate(_ context.Context, in service.LoginInput) (*entities.Account, error) {
	if in.Username != s.account.Username || in.Password != s.password {
		return nil, service.ErrInvalidCredentials
	}
	return s.account, nil
}

func (s *stubAccounts) Get(_ context.Context, id int64) (*entities.Account, error) {
	if id != s.account.ID {
		return nil, repository.ErrAccountNotFound
	}
	return s.account, nil
}

func (s *stubAccounts) UpdateProfile(_ context.Context, _ int64, in service.ProfileInput) (*entities.Account, error) {
	updated := *s.account
	updated.FullName = in.FullName
	return &updated, nil
}

func (s *stubAccounts) History(context.Context, int64) ([]*entities.Attempt, error) {
	return []*entities.Attempt{{Category: "Art", Score: 3, MaxScore: 5, CompletedAt: time.Now()}}, nil
}

type stubBoard struct{ board entities.Leaderboard }

func (s stubBoard) Board(context.Context) entities.Leaderboard { return s.board }

func questions(n int) []entities.Question {
	out := make([]entities.Question, n)
	for i := range out {
		answer := "answer-" + string(rune('a'+i))
		out[i] = entities.Question{
			Prompt:        "Prompt " + string(rune('A'+i)),
			Options:       []string{"wrong", answer},
			CorrectAnswer: answer,
		}
	}
	return out
}

type testApp struct {
	server   *httptest.Server
	client   *http.Client
	recorder *recorder
}

func newTestApp(t *testing.T, qs []entities.Question) *testApp {
	t.Helper()

	rec := &recorder{}
	quiz := service.NewQuizService(stubFetcher{questions: qs}, storage.NewQuizStorage(time.Hour), rec, 5, 0, zap.NewNop())
	accounts := &stubAccounts{account: &entities.Account{ID: 1, Username: "alice"}, password: "s3cret-pass"}

	h, err := NewHandler(quiz, accounts, stubBoard{}, security.NewJWTService("secret", time.Hour), Options{}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}

	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &testApp{server: srv, client: client, recorder: rec}
}

func (a *testApp) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.Get(a.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp, readBody(t, resp)
}

func (a *testApp) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.PostForm(a.server.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp, readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func expectRedirect(t *testing.T, resp *http.Response, to string) {
	t.Helper()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != to {
		t.Fatalf("redirect to %q, want %q", loc, to)
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, nil)

	resp, body := app.get(t, "/health")
	if resp.StatusCode != http.StatusOK || body != "OK" {
		t.Fatalf("health = %d %q", resp.StatusCode, body)
	}
}

func TestFullQuizFlow(t *testing.T) {
	app := newTestApp(t, questions(5))

	resp, body := app.get(t, "/")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "Mathematics") {
		t.Fatalf("index = %d", resp.StatusCode)
	}

	resp, _ = app.post(t, "/quiz", url.Values{"username": {"zoe"}, "topics": {"Mathematics"}})
	expectRedirect(t, resp, "/question")

	for i, q := range questions(5) {
		resp, body = app.get(t, "/question")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("question %d status = %d", i, resp.StatusCode)
		}
		if !strings.Contains(body, q.Prompt) {
			t.Fatalf("question %d page does not show %q", i, q.Prompt)
		}

		resp, _ = app.post(t, "/question", url.Values{"answer": {q.CorrectAnswer}})
		if i < 4 {
			expectRedirect(t, resp, "/question")
		} else {
			expectRedirect(t, resp, "/result")
		}
	}

	resp, body = app.get(t, "/result")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("result status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "5 / 5") || !strings.Contains(body, "zoe") {
		t.Fatalf("result page missing score or name")
	}
	if len(app.recorder.outcomes) != 1 || app.recorder.outcomes[0].Category != "Mathematics" {
		t.Fatalf("unexpected recorded outcomes %+v", app.recorder.outcomes)
	}

	resp, _ = app.get(t, "/result")
	expectRedirect(t, resp, "/")
	if len(app.recorder.outcomes) != 1 {
		t.Fatalf("result recorded twice")
	}
}

func TestStartQuizErrors(t *testing.T) {
	app := newTestApp(t, nil)

	resp, body := app.post(t, "/quiz", url.Values{"username": {"zoe"}})
	if resp.StatusCode != http.StatusBadRequest || !strings.Contains(body, "select at least one topic") {
		t.Fatalf("missing topics = %d", resp.StatusCode)
	}

	resp, body = app.post(t, "/quiz", url.Values{"username": {"zoe"}, "topics": {"Art", "History"}})
	if resp.StatusCode != http.StatusServiceUnavailable || !strings.Contains(body, "try again later") {
		t.Fatalf("unavailable = %d", resp.StatusCode)
	}

	resp, _ = app.get(t, "/question")
	expectRedirect(t, resp, "/")
}

func TestShowExplanationKeepsQuestion(t *testing.T) {
	app := newTestApp(t, questions(2))

	resp, _ := app.post(t, "/quiz", url.Values{"username": {"zoe"}, "quiz_type": {"Art"}})
	expectRedirect(t, resp, "/question")

	resp, body := app.post(t, "/question", url.Values{"answer": {"wrong"}, "show_explanation": {"1"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("explain status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "The correct answer is: answer-a") || !strings.Contains(body, "Question 1 of 2") {
		t.Fatalf("explanation page missing verdict or progress")
	}

	_, body = app.get(t, "/question")
	if !strings.Contains(body, "Question 1 of 2") {
		t.Fatalf("explanation advanced the quiz")
	}
}

func TestResultWithoutQuizRedirects(t *testing.T) {
	app := newTestApp(t, nil)

	resp, _ := app.get(t, "/result")
	expectRedirect(t, resp, "/")
}

func TestAccountPagesRequireLogin(t *testing.T) {
	app := newTestApp(t, nil)

	for _, path := range []string{"/dashboard", "/profile", "/leaderboard"} {
		resp, _ := app.get(t, path)
		expectRedirect(t, resp, "/login")
	}

	resp, _ := app.post(t, "/login", url.Values{"username": {"alice"}, "password": {"bad"}})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d, want 401", resp.StatusCode)
	}

	resp, _ = app.post(t, "/login", url.Values{"username": {"alice"}, "password": {"s3cret-pass"}})
	expectRedirect(t, resp, "/")

	resp, body := app.get(t, "/dashboard")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "Art") {
		t.Fatalf("dashboard = %d", resp.StatusCode)
	}

	resp, body = app.get(t, "/leaderboard")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "No quizzes have been played yet") {
		t.Fatalf("empty leaderboard = %d", resp.StatusCode)
	}

	resp, _ = app.post(t, "/logout", nil)
	expectRedirect(t, resp, "/")

	resp, _ = app.get(t, "/dashboard")
	expectRedirect(t, resp, "/login")
}

func TestSignedInPlayerUsesAccountName(t *testing.T) {
	app := newTestApp(t, questions(1))

	resp, _ := app.post(t, "/login", url.Values{"username": {"alice"}, "password": {"s3cret-pass"}})
	expectRedirect(t, resp, "/")

	resp, _ = app.post(t, "/quiz", url.Values{"topics": {"Art"}})
	expectRedirect(t, resp, "/question")

	resp, _ = app.post(t, "/question", url.Values{"answer": {"answer-a"}})
	expectRedirect(t, resp, "/result")

	resp, body := app.get(t, "/result")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "alice") {
		t.Fatalf("result page for signed-in player = %d", resp.StatusCode)
	}
	if app.recorder.outcomes[0].DisplayName != "alice" {
		t.Fatalf("display name = %q, want alice", app.recorder.outcomes[0].DisplayName)
	}
}

package httpdelivery

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz/internal/service"
)

// Options configures the web front-end.
type Options struct {
	StaticDir    string
	CookieSecure bool
}

// Handler serves the server-rendered quiz pages.
type Handler struct {
	quiz        QuizService
	accounts    AccountService
	leaderboard LeaderboardService
	tokens      TokenService
	views       *renderer
	opts        Options
	logger      *zap.Logger
}

// NewHandler creates a Handler and parses the embedded templates.
func NewHandler(
	quiz QuizService,
	accounts AccountService,
	leaderboard LeaderboardService,
	tokens TokenService,
	opts Options,
	logger *zap.Logger,
) (*Handler, error) {
	views, err := newRenderer(logger)
	if err != nil {
		return nil, err
	}

	return &Handler{
		quiz:        quiz,
		accounts:    accounts,
		leaderboard: leaderboard,
		tokens:      tokens,
		views:       views,
		opts:        opts,
		logger:      logger,
	}, nil
}

// Router wires routes and middlewares.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if h.opts.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(h.opts.StaticDir))))
	}

	r.Group(func(r chi.Router) {
		r.Use(BrowserSession(h.opts.CookieSecure))
		r.Use(Authenticate(h.tokens, h.accounts, h.opts.CookieSecure, h.logger))

		r.Get("/", h.Index)
		r.Post("/quiz", h.StartQuiz)
		r.Get("/question", h.ShowQuestion)
		r.Post("/question", h.AnswerQuestion)
		r.Get("/result", h.Result)

		r.Get("/register", h.RegisterForm)
		r.Post("/register", h.Register)
		r.Get("/login", h.LoginForm)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(RequireAccount)

			r.Get("/dashboard", h.Dashboard)
			r.Get("/profile", h.ProfileForm)
			r.Post("/profile", h.UpdateProfile)
			r.Get("/leaderboard", h.Leaderboard)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.views.message(w, r, http.StatusNotFound, "Not found", "The page you are looking for does not exist.")
	})

	return r
}

// fail renders the page matching a service error. Technical details only go to the log.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve) && errors.Is(err, service.ErrAccountExists):
		h.views.message(w, r, http.StatusConflict, "Already registered", ve.Message)
	case errors.As(err, &ve):
		h.views.message(w, r, http.StatusBadRequest, "Invalid input", ve.Message)
	case errors.Is(err, service.ErrQuestionsUnavailable):
		h.views.message(w, r, http.StatusServiceUnavailable, "Questions unavailable",
			"Unable to load quiz questions. Please try again later.")
	case errors.Is(err, service.ErrInvalidCredentials):
		h.views.message(w, r, http.StatusUnauthorized, "Sign in failed", "Invalid username or password.")
	default:
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		h.views.message(w, r, http.StatusInternalServerError, "Something went wrong", "Please try again.")
	}
}

// formStatus returns the status a form page is re-rendered with after err.
func formStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrAccountExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

// formError returns the user-facing text of err, or "" if it is not a form error.
func formError(err error) string {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	if errors.Is(err, service.ErrInvalidCredentials) {
		return "Invalid username or password."
	}
	return ""
}

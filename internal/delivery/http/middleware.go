package httpdelivery

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sessionCookie = "quiz_session"
	authCookie    = "auth_token"
)

// RequestLogger logs every request with its status and duration.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		}
		return http.HandlerFunc(fn)
	}
}

// BrowserSession makes sure every request carries a session id cookie.
// Quiz state is keyed by this id.
func BrowserSession(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(sessionCookie); err == nil {
				if parsed, err := uuid.Parse(c.Value); err == nil {
					id = parsed.String()
				}
			}

			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookie,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(w, r.WithContext(withSessionID(r.Context(), id)))
		}
		return http.HandlerFunc(fn)
	}
}

// Authenticate loads the account named by the auth cookie, if any.
// A bad or stale token is cleared and the request continues anonymously.
func Authenticate(tokens TokenService, accounts AccountService, secure bool, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(authCookie)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := tokens.Verify(c.Value)
			if err != nil {
				clearAuthCookie(w, secure)
				next.ServeHTTP(w, r)
				return
			}

			account, err := accounts.Get(r.Context(), id)
			if err != nil {
				logger.Warn("auth cookie names unknown account", zap.Int64("account_id", id), zap.Error(err))
				clearAuthCookie(w, secure)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(withAccount(r.Context(), account)))
		}
		return http.HandlerFunc(fn)
	}
}

// RequireAccount redirects anonymous visitors to the login page.
func RequireAccount(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		if currentAccount(r.Context()) == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}

func setAuthCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearAuthCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

package httpdelivery

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz/internal/service"
)

type authFormData struct {
	Username string
	Email    string
}

type dashboardData struct {
	Attempts []*entities.Attempt
}

// RegisterForm shows the sign-up form.
func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if currentAccount(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	h.views.render(w, r, http.StatusOK, "register", page{Title: "Register", Data: authFormData{}})
}

// Register creates an account and signs it in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	in := service.RegisterInput{
		Username:        r.PostFormValue("username"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}

	account, err := h.accounts.Register(r.Context(), in)
	if err != nil {
		if msg := formError(err); msg != "" {
			h.views.render(w, r, formStatus(err), "register", page{
				Title: "Register",
				Error: msg,
				Data:  authFormData{Username: in.Username, Email: in.Email},
			})
			return
		}
		h.fail(w, r, err)
		return
	}

	if err := h.signIn(w, account); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// LoginForm shows the sign-in form.
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if currentAccount(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	h.views.render(w, r, http.StatusOK, "login", page{Title: "Sign in", Data: authFormData{}})
}

// Login checks credentials and sets the auth cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	in := service.LoginInput{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}

	account, err := h.accounts.Authenticate(r.Context(), in)
	if err != nil {
		if msg := formError(err); msg != "" {
			h.views.render(w, r, formStatus(err), "login", page{
				Title: "Sign in",
				Error: msg,
				Data:  authFormData{Username: in.Username},
			})
			return
		}
		h.fail(w, r, err)
		return
	}

	if err := h.signIn(w, account); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout drops the auth cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	clearAuthCookie(w, h.opts.CookieSecure)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Dashboard lists the signed-in account's attempts.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	account := currentAccount(r.Context())

	attempts, err := h.accounts.History(r.Context(), account.ID)
	if err != nil {
		h.logger.Error("failed to load attempt history", zap.Int64("account_id", account.ID), zap.Error(err))
		h.views.render(w, r, http.StatusOK, "dashboard", page{
			Title: "Dashboard",
			Error: "Your quiz history could not be loaded.",
			Data:  dashboardData{},
		})
		return
	}

	h.views.render(w, r, http.StatusOK, "dashboard", page{Title: "Dashboard", Data: dashboardData{Attempts: attempts}})
}

// ProfileForm shows the profile editor.
func (h *Handler) ProfileForm(w http.ResponseWriter, r *http.Request) {
	h.views.render(w, r, http.StatusOK, "profile", page{Title: "Profile"})
}

// UpdateProfile stores profile changes.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	account := currentAccount(r.Context())

	in := service.ProfileInput{
		FullName:     r.PostFormValue("full_name"),
		Bio:          r.PostFormValue("bio"),
		Avatar:       r.PostFormValue("avatar"),
		RemoveAvatar: r.PostFormValue("remove_avatar") != "",
	}

	updated, err := h.accounts.UpdateProfile(r.Context(), account.ID, in)
	if err != nil {
		if msg := formError(err); msg != "" {
			h.views.render(w, r, formStatus(err), "profile", page{Title: "Profile", Error: msg})
			return
		}
		h.fail(w, r, err)
		return
	}

	h.views.render(w, r, http.StatusOK, "profile", page{
		Title:   "Profile",
		Account: updated,
		Notice:  "Profile updated successfully.",
	})
}

// Leaderboard shows per-category and global standings.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	board := h.leaderboard.Board(r.Context())
	h.views.render(w, r, http.StatusOK, "leaderboard", page{Title: "Leaderboard", Data: board})
}

func (h *Handler) signIn(w http.ResponseWriter, account *entities.Account) error {
	token, err := h.tokens.Issue(account.ID)
	if err != nil {
		return err
	}
	setAuthCookie(w, token, h.tokens.TTL(), h.opts.CookieSecure)
	return nil
}

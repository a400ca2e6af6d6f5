package httpdelivery

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz/internal/service"
)

type indexData struct {
	Categories   []entities.Category
	Difficulties []entities.Difficulty
	Username     string
}

type questionData struct {
	View        service.QuestionView
	Explanation *entities.AnswerResult // set when the player asked for an explanation
}

func (h *Handler) indexData(r *http.Request) indexData {
	return indexData{
		Categories:   entities.Categories(),
		Difficulties: []entities.Difficulty{entities.DifficultyEasy, entities.DifficultyMedium, entities.DifficultyHard},
		Username:     strings.TrimSpace(r.FormValue("username")),
	}
}

// Index shows the topic picker.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.views.render(w, r, http.StatusOK, "index", page{Title: "Trivia Quiz", Data: h.indexData(r)})
}

// StartQuiz fetches questions and redirects to the first one.
func (h *Handler) StartQuiz(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.views.message(w, r, http.StatusBadRequest, "Invalid input", "The form could not be read.")
		return
	}

	topics := r.PostForm["topics"]
	if len(topics) == 0 {
		if single := r.PostFormValue("quiz_type"); single != "" {
			topics = []string{single}
		}
	}

	in := service.StartQuizInput{
		DisplayName: r.PostFormValue("username"),
		Topics:      topics,
		Difficulty:  r.PostFormValue("difficulty"),
	}
	if account := currentAccount(r.Context()); account != nil {
		in.DisplayName = account.DisplayName()
	}
	if raw := strings.TrimSpace(r.PostFormValue("time_limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			h.views.render(w, r, http.StatusBadRequest, "index", page{
				Title: "Trivia Quiz",
				Error: "Time limit must be a number of seconds.",
				Data:  h.indexData(r),
			})
			return
		}
		in.TimeLimit = limit
	}

	if _, err := h.quiz.Start(r.Context(), sessionID(r.Context()), in); err != nil {
		if msg := formError(err); msg != "" {
			h.views.render(w, r, formStatus(err), "index", page{Title: "Trivia Quiz", Error: msg, Data: h.indexData(r)})
			return
		}
		h.fail(w, r, err)
		return
	}

	http.Redirect(w, r, "/question", http.StatusSeeOther)
}

// ShowQuestion renders the current question.
func (h *Handler) ShowQuestion(w http.ResponseWriter, r *http.Request) {
	view, completed, err := h.quiz.Current(r.Context(), sessionID(r.Context()))
	if h.redirectInactive(w, r, err) {
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if completed {
		http.Redirect(w, r, "/result", http.StatusSeeOther)
		return
	}

	h.views.render(w, r, http.StatusOK, "question", page{Title: "Question", Data: questionData{View: view}})
}

// AnswerQuestion applies an answer. The last answer redirects to the result page.
func (h *Handler) AnswerQuestion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := sessionID(ctx)
	explain := r.PostFormValue("show_explanation") != ""

	res, err := h.quiz.Submit(ctx, sid, r.PostFormValue("answer"), explain)
	if h.redirectInactive(w, r, err) {
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if res.Completed {
		http.Redirect(w, r, "/result", http.StatusSeeOther)
		return
	}
	if !explain {
		http.Redirect(w, r, "/question", http.StatusSeeOther)
		return
	}

	view, completed, err := h.quiz.Current(ctx, sid)
	if h.redirectInactive(w, r, err) {
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if completed {
		http.Redirect(w, r, "/result", http.StatusSeeOther)
		return
	}

	h.views.render(w, r, http.StatusOK, "question", page{
		Title: "Question",
		Data:  questionData{View: view, Explanation: &res},
	})
}

// Result shows the outcome once and clears the quiz.
func (h *Handler) Result(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.quiz.Finish(ctx, sessionID(ctx), currentAccount(ctx))
	switch {
	case errors.Is(err, service.ErrQuizInProgress):
		http.Redirect(w, r, "/question", http.StatusSeeOther)
		return
	case h.redirectInactive(w, r, err):
		return
	case err != nil:
		h.fail(w, r, err)
		return
	}

	h.views.render(w, r, http.StatusOK, "result", page{Title: "Result", Data: result})
}

// redirectInactive sends the player back to the start page when there is no quiz.
func (h *Handler) redirectInactive(w http.ResponseWriter, r *http.Request, err error) bool {
	if errors.Is(err, service.ErrNoActiveQuiz) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return true
	}
	return false
}

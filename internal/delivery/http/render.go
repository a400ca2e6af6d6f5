package httpdelivery

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"math"
	"net/http"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"add":     func(a, b int) int { return a + b },
	"percent": formatPercent,
	"ratio": func(score, total int) string {
		if total <= 0 {
			return "0"
		}
		return formatPercent(float64(score) / float64(total) * 100)
	},
	"progress": func(done, total int) int {
		if total <= 0 {
			return 0
		}
		return done * 100 / total
	},
	"seconds": func(d *time.Duration) int {
		if d == nil {
			return 0
		}
		return int(math.Ceil(d.Seconds()))
	},
	"elapsed": func(d *time.Duration) string {
		if d == nil {
			return ""
		}
		return d.Round(time.Second).String()
	},
	"date": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
	"static": func(ref string) string {
		if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
			return ref
		}
		return "/static/" + strings.TrimPrefix(ref, "/")
	},
	"difficulty": func(d entities.Difficulty) string {
		if d == entities.DifficultyAny {
			return "any"
		}
		return string(d)
	},
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// page is the data every view receives.
type page struct {
	Title   string
	Account *entities.Account
	Error   string
	Notice  string
	Data    any
}

type renderer struct {
	pages  map[string]*template.Template
	logger *zap.Logger
}

func newRenderer(logger *zap.Logger) (*renderer, error) {
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		base := path.Base(name)
		if base == "layout.html" {
			continue
		}

		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", base, err)
		}
		pages[strings.TrimSuffix(base, ".html")] = t
	}

	return &renderer{pages: pages, logger: logger}, nil
}

// render writes a full page. The template runs into a buffer first so a
// failing template never leaves a half-written response.
func (rn *renderer) render(w http.ResponseWriter, r *http.Request, status int, name string, p page) {
	t, ok := rn.pages[name]
	if !ok {
		rn.logger.Error("unknown template", zap.String("template", name))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if p.Account == nil {
		p.Account = currentAccount(r.Context())
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", p); err != nil {
		rn.logger.Error("render template", zap.String("template", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// message renders a plain message page.
func (rn *renderer) message(w http.ResponseWriter, r *http.Request, status int, title, text string) {
	rn.render(w, r, status, "message", page{Title: title, Data: text})
}

// Package web отрисовывает HTML-страницы из встроенных шаблонов.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/PhotoShare/internal/domain"
	"github.com/GoArmGo/PhotoShare/internal/session"
	"github.com/GoArmGo/PhotoShare/internal/usecase"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Имена страниц
const (
	PageFeed     = "feed.html"
	PageLogin    = "login.html"
	PageRegister = "register.html"
	PageProfile  = "profile.html"
	PagePhoto    = "photo.html"
	PageUpload   = "upload.html"
	PageError    = "error.html"
)

var pages = []string{PageFeed, PageLogin, PageRegister, PageProfile, PagePhoto, PageUpload, PageError}

// StaticPrefix - путь, под которым отдаются скрипты страниц
const StaticPrefix = "/static/"

// StaticHandler отдает встроенные скрипты, ожидает полный путь запроса с StaticPrefix
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix(StaticPrefix, http.FileServerFS(sub))
}

// Page - данные, доступные любому шаблону
type Page struct {
	Title    string
	Identity session.Identity
	Flashes  []string
	Error    string

	Photos  []domain.Photo
	Hashtag *domain.Hashtag
	Profile *usecase.Profile
	Detail  *usecase.PhotoDetail
}

// Renderer держит разобранные шаблоны, по одному набору на страницу
type Renderer struct {
	templates map[string]*template.Template
	logger    *slog.Logger
}

func NewRenderer(logger *slog.Logger) (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(pages)), logger: logger}
	for _, name := range pages {
		t, err := template.New(name).ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

// Render отрисовывает страницу целиком в буфер, чтобы ошибка шаблона не оставила половину ответа
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) {
	t, ok := r.templates[name]
	if !ok {
		r.logger.Error("unknown template", "template", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		r.logger.Error("failed to render template", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error("failed to write HTML response", "template", name, "error", err)
	}
}

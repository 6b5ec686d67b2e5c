package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"time"

	"goblog/internal/model"
	"goblog/pkg/pagination"
)

//go:embed templates
var templateFS embed.FS

type templateData struct {
	Title       string
	CurrentUser *model.User
	Flash       *Flash

	Post     *model.Post
	Posts    []model.Post
	Comments []model.Comment
	Page     pagination.Meta
	Query    string
	Tag      string

	Tags       []model.Tag
	Categories []model.Category

	Form        map[string]string
	FieldErrors map[string]string
	FormError   string
}

var templateFuncs = template.FuncMap{
	"formatDate": func(t time.Time) string {
		return t.Format("Jan 2, 2006 at 15:04")
	},
}

func newTemplateCache() (map[string]*template.Template, error) {
	cache := map[string]*template.Template{}

	pages, err := fs.Glob(templateFS, "templates/*.page.html")
	if err != nil {
		return nil, err
	}
	for _, page := range pages {
		name := filepath.Base(page)
		ts, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/base.layout.html", page)
		if err != nil {
			return nil, err
		}
		cache[name] = ts
	}
	return cache, nil
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data *templateData) {
	ts, ok := h.templates[page]
	if !ok {
		h.serverError(w, r, errUnknownTemplate(page))
		return
	}

	if data == nil {
		data = &templateData{}
	}
	if data.Flash == nil {
		data.Flash = popFlash(w, r)
	}
	if data.CurrentUser == nil {
		if user, err := h.currentUser(r); err == nil {
			data.CurrentUser = &user
		}
	}

	var buf bytes.Buffer
	if err := ts.ExecuteTemplate(&buf, "base", data); err != nil {
		h.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

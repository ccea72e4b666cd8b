package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"

	"github.com/rs/zerolog/hlog"

	"medassist/models"
	"medassist/ui"
	"medassist/utils"
)

// LoadTemplates parses every page once, each together with the base layout.
func LoadTemplates() (map[string]*template.Template, error) {
	pages, err := fs.Glob(ui.Files, "html/*.html")
	if err != nil {
		return nil, err
	}

	cache := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		name := path.Base(page)
		if name == "base.html" {
			continue
		}
		tmpl, err := template.ParseFS(ui.Files, "html/base.html", page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		cache[name] = tmpl
	}
	return cache, nil
}

// newPageData fills the fields shared by every page from the request.
func (app *App) newPageData(w http.ResponseWriter, r *http.Request, title string) models.PageData {
	data := models.PageData{
		Title:   title,
		Flashes: utils.PopFlashes(w, r),
		Form:    map[string]string{},
		Errors:  map[string]string{},
	}
	if session := utils.SessionFromContext(r.Context()); session != nil {
		data.IsLoggedIn = true
		data.Username = session.Username
		data.CSRFtoken = session.CSRFToken
	}
	return data
}

// render executes page into a buffer first so a template error never leaves
// a half-written response.
func (app *App) render(w http.ResponseWriter, r *http.Request, status int, page string, data models.PageData) {
	tmpl, ok := app.Templates[page]
	if !ok {
		hlog.FromRequest(r).Error().Str("page", page).Msg("template not found")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("page", page).Msg("error rendering template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// serverError renders the generic error page. The cause is only logged.
func (app *App) serverError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	hlog.FromRequest(r).Error().Err(err).Msg(msg)
	data := app.newPageData(w, r, "Something went wrong")
	data.Error = "Something went wrong on our side. Please try again."
	app.render(w, r, http.StatusInternalServerError, "error.html", data)
}

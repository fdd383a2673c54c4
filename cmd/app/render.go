package main

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/sbelyaev/blogsite/internal/blogservice"
	"github.com/sbelyaev/blogsite/internal/userservice"
)

// Renderer turns a view name and a data context into a response body. The
// template bodies themselves live outside this program; anything satisfying
// this interface can present the site.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data *templateData) error
}

// templateData is the data context handed to every view.
type templateData struct {
	CurrentUser *userservice.User
	Flashes     []string
	Posts       []blogservice.Post
	Post        *blogservice.Post
	Comments    []blogservice.Comment
	FormErrors  map[string]string
	FormValues  map[string]string
	IsEdit      bool
}

type templateRenderer struct {
	t *template.Template
}

func newTemplateRenderer(glob string) (*templateRenderer, error) {
	t, err := template.ParseGlob(glob)
	if err != nil {
		return nil, fmt.Errorf("could not parse templates: %w", err)
	}

	return &templateRenderer{t: t}, nil
}

// Render executes into a buffer first so a template error can still become a
// clean 500 instead of a half-written page.
func (tr *templateRenderer) Render(w http.ResponseWriter, status int, name string, data *templateData) error {
	var buf bytes.Buffer

	if err := tr.t.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)

	return err
}

// newTemplateData seeds the context every view needs: the resolved caller and
// any pending flash messages.
func (app *application) newTemplateData(w http.ResponseWriter, r *http.Request) *templateData {
	return &templateData{
		CurrentUser: app.getUserContext(r),
		Flashes:     app.sessions.Flashes(w, r),
	}
}

func (app *application) render(w http.ResponseWriter, r *http.Request, status int, name string, data *templateData) {
	if err := app.renderer.Render(w, status, name, data); err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

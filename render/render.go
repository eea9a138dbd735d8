// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/selection"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"disabled": func(b *selection.Button) bool {
		return b.State == selection.Disabled
	},
	"selected": func(b *selection.Button) bool {
		return b.State == selection.Selected
	},
	"positionView": func(slug string, p *selection.Position) PositionView {
		return PositionView{Slug: slug, Position: p}
	},
}).ParseFS(templateFS, "templates/*.html"))

type LoginView struct {
	Election models.Election
	Slug     string
	Error    string
}

type PositionView struct {
	Slug     string
	Position *selection.Position
}

// ClickView is the reply to a fragment click: the position plus an
// out-of-band copy of the votes field
type ClickView struct {
	PositionView
	Payload string
}

type BallotView struct {
	Election  models.Election
	Slug      string
	Username  string
	CSRFToken string
	Page      *selection.Page
	Payload   string
}

type Choice struct {
	Position  string
	Candidate string
}

type ConfirmView struct {
	Election models.Election
	Slug     string
	Payload  string
	Choices  []Choice
	Notice   string
}

type SubmittedView struct {
	Election models.Election
	Message  string
}

type ResultsView struct {
	Election    models.Election
	Tabs        *selection.TabSet
	Results     []models.PositionResult
	BallotCount int
}

func execute(w io.Writer, name string, data any) error {
	if rw, ok := w.(http.ResponseWriter); ok {
		rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}

func Login(w io.Writer, v LoginView) error         { return execute(w, "login", v) }
func Ballot(w io.Writer, v BallotView) error       { return execute(w, "ballot", v) }
func Position(w io.Writer, v PositionView) error   { return execute(w, "position", v) }
func Click(w io.Writer, v ClickView) error         { return execute(w, "click", v) }
func Confirm(w io.Writer, v ConfirmView) error     { return execute(w, "confirm", v) }
func Submitted(w io.Writer, v SubmittedView) error { return execute(w, "submitted", v) }
func Results(w io.Writer, v ResultsView) error     { return execute(w, "results", v) }

// Static serves the embedded stylesheet and script
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}

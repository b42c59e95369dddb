// Package views renders the public HTML pages from embedded templates.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	PageHome           = "home.html"
	PageContactBasic   = "contact_basic.html"
	PageContactForm    = "contact_form.html"
	PageContactModel   = "contact_model.html"
	PageContactSuccess = "contact_success.html"
)

var pages = []string{
	PageHome,
	PageContactBasic,
	PageContactForm,
	PageContactModel,
	PageContactSuccess,
}

// GameCard is a game as shown on the homepage, with media keys already
// resolved to URLs.
type GameCard struct {
	Name         string
	Description  string
	Link         string
	Slug         string
	ThumbnailURL string
	AssetURL     string
}

type HomePage struct {
	Games []GameCard
}

// ContactPage carries what a contact form needs to re-render after a
// failed submission. The honeypot value is never echoed back.
type ContactPage struct {
	Action  string
	Name    string
	Email   string
	Message string
	Errors  map[string][]string
}

type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}

	for _, page := range pages {
		t, err := template.ParseFS(templatesFS, "templates/layout.html", "templates/contact_fields.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("views.New: %s: %w", page, err)
		}
		r.pages[page] = t
	}

	return r, nil
}

func Must(r *Renderer, err error) *Renderer {
	if err != nil {
		panic(err)
	}
	return r
}

// Render writes page wrapped in the site layout.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("views.Render: unknown page %q", page)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

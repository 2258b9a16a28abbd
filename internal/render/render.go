// Package render turns page view models into HTML.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"

	"github.com/couchcryptid/asteroid-impact-web/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names, also used as metric labels.
const (
	PageFeed   = "feed"
	PageDetail = "detail"
	PageImpact = "impact"
)

// Renderer executes the page templates. It is safe for concurrent use.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, 3)}
	for _, page := range []string{PageFeed, PageDetail, PageImpact} {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", page, err)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

// Static returns the embedded static assets, rooted at the asset directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err) // the directory is embedded at build time
	}
	return sub
}

// Feed renders the feed page.
func (r *Renderer) Feed(v domain.FeedView) ([]byte, error) {
	return r.execute(PageFeed, v)
}

// Detail renders the selected-asteroid page.
func (r *Renderer) Detail(v domain.DetailView) ([]byte, error) {
	return r.execute(PageDetail, v)
}

// Impact renders the map page.
func (r *Renderer) Impact(v domain.ImpactView) ([]byte, error) {
	return r.execute(PageImpact, v)
}

// execute renders into a fresh buffer so a template error never leaves a
// partial page on the wire.
func (r *Renderer) execute(page string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, fmt.Errorf("render %s: %w", page, err)
	}
	return buf.Bytes(), nil
}

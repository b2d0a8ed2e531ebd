package exporter

import (
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/euforicio/mdpad/internal/renderer"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

type templateRenderer struct {
	tmpl *template.Template
}

func newTemplateRenderer() (*templateRenderer, error) {
	funcs := template.FuncMap{
		"hasMetadata": func(meta renderer.Metadata) bool {
			return !meta.IsZero()
		},
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Local().Format("Jan 2, 2006 3:04 PM")
		},
	}

	base, err := template.New("export").Funcs(funcs).ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, err
	}
	return &templateRenderer{tmpl: base}, nil
}

type standaloneViewData struct {
	Title       string
	Description string
	HTML        template.HTML
	GeneratedAt time.Time
}

// renderStandalone writes a self-contained HTML document: inline stylesheet,
// no external assets, title taken from frontmatter when present.
func (r *templateRenderer) renderStandalone(w io.Writer, doc renderer.Document) error {
	data := standaloneViewData{
		Title:       doc.Metadata.Title,
		Description: doc.Metadata.Description,
		HTML:        template.HTML(doc.HTML), //nolint:gosec // HTML from trusted renderer
		GeneratedAt: time.Now(),
	}
	return r.tmpl.ExecuteTemplate(w, "standalone.gohtml", data)
}

package templates

import (
	"context"
	"html/template"
	"io"
	"io/fs"
)

// Component represents a template component that can be rendered
type Component interface {
	Render(ctx context.Context, w io.Writer) error
}

// TemplateComponent implements Component interface for html/template rendering
type TemplateComponent struct {
	Template *template.Template
	Name     string // optional: execute a named template instead of the root
	Data     any
}

// Render renders the template component to the writer
func (tc *TemplateComponent) Render(ctx context.Context, w io.Writer) error {
	if tc.Name != "" {
		return tc.Template.ExecuteTemplate(w, tc.Name, tc.Data)
	}
	return tc.Template.Execute(w, tc.Data)
}

// ParseFS parses the templates matching patterns from fsys with the given funcs available.
func ParseFS(fsys fs.FS, funcs template.FuncMap, patterns ...string) (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(fsys, patterns...)
}

// Helper function to create template components from string templates
func ComponentFromString(tmplStr string, data any) Component {
	tmpl := template.Must(template.New("inline").Parse(tmplStr))
	return &TemplateComponent{
		Template: tmpl,
		Data:     data,
	}
}

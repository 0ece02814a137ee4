package storefront

import (
	"embed"
	"html/template"
	"io/fs"

	"github.com/cannacraft/storefront/internal/templates"
	"github.com/cannacraft/storefront/site"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets/*
var assetFS embed.FS

var (
	pageTemplate = template.Must(templates.ParseFS(templateFS, nil, "templates/*.html"))
	assets       = mustSub(assetFS, "assets")
)

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

type pageView struct {
	Title      string
	Brand      string
	Standalone bool
	Style      template.CSS
	Script     template.JS
	QRPath     string
	Sections   []sectionView
}

type sectionView struct {
	site.SectionState
	IsHome bool
	Form   *formView
}

type formView struct {
	site.Form
	Fields []fieldView
}

type fieldView struct {
	site.Field
	ElementID  string
	InputType  string
	IsRating   bool
	IsTextarea bool
	Stars      []int
}

// RenderOptions controls how the page is assembled.
type RenderOptions struct {
	// Standalone inlines the stylesheet and script so the page works from a file:// URL.
	Standalone bool

	// QRPath is the image shown on the home section. Ignored when Standalone.
	QRPath string
}

// renderPage builds the page with nav's active section marked.
func renderPage(nav *site.Navigator, opts RenderOptions) (templates.Component, error) {
	view := pageView{
		Title:      site.Title,
		Brand:      site.Brand,
		Standalone: opts.Standalone,
	}
	if opts.Standalone {
		css, err := fs.ReadFile(assets, "style.css")
		if err != nil {
			return nil, err
		}
		js, err := fs.ReadFile(assets, "app.js")
		if err != nil {
			return nil, err
		}
		view.Style = template.CSS(css)
		view.Script = template.JS(js)
	} else {
		view.QRPath = opts.QRPath
	}

	for _, state := range nav.States() {
		sv := sectionView{SectionState: state, IsHome: state.ID == site.Home}
		if form, err := site.FormFor(state.ID); err == nil {
			sv.Form = newFormView(form)
		}
		view.Sections = append(view.Sections, sv)
	}

	return &templates.TemplateComponent{Template: pageTemplate, Name: "page", Data: view}, nil
}

func newFormView(form site.Form) *formView {
	fv := &formView{Form: form}
	for _, field := range form.Fields {
		fv.Fields = append(fv.Fields, fieldView{
			Field:      field,
			ElementID:  form.ElementID(field),
			InputType:  string(field.Type),
			IsRating:   field.Type == site.InputRating,
			IsTextarea: field.Type == site.InputTextarea,
			Stars:      site.Stars(),
		})
	}
	return fv
}

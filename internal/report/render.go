package report

import (
	"context"
	"embed"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cannacraft/storefront/internal/templates"
)

//go:embed templates/*.html
var templateFS embed.FS

var reportTemplate = template.Must(templates.ParseFS(templateFS, nil, "templates/*.html"))

const (
	HTMLFileName = "report.html"
	JSONFileName = "report.json"
)

type reportView struct {
	Run         *Run
	Summary     Summary
	Screenshots []screenshotView
}

type screenshotView struct {
	Name string
	Src  template.URL
}

// HTML renders the run as a single page. Screenshots are inlined as data URIs so the page can be
// moved on its own. One that can't be read is linked relative to dir, where the page is written.
func HTML(run *Run, dir string) templates.Component {
	view := reportView{Run: run, Summary: run.Summary()}
	if run.Preflight != nil {
		for _, path := range run.Preflight.Screenshots {
			view.Screenshots = append(view.Screenshots, screenshotView{
				Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
				Src:  screenshotSrc(path, dir),
			})
		}
	}
	return &templates.TemplateComponent{Template: reportTemplate, Name: "report", Data: view}
}

func screenshotSrc(path, dir string) template.URL {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("unable to inline screenshot", "path", path, "error", err)
		rel := path
		if r, err := filepath.Rel(dir, path); err == nil {
			rel = r
		}
		return template.URL(filepath.ToSlash(rel))
	}

	mime := "image/png"
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".jpg" || ext == ".jpeg" {
		mime = "image/jpeg"
	}
	return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data))
}

// Write stores report.html and report.json in dir.
func Write(ctx context.Context, dir string, run *Run) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating results dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, HTMLFileName))
	if err != nil {
		return err
	}
	if err := HTML(run, dir).Render(ctx, f); err != nil {
		f.Close()
		return fmt.Errorf("rendering html report: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	js, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding json report: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, JSONFileName), js, 0644)
}

package engine

import (
	"html/template"

	"github.com/cannacraft/storefront/internal/templates"
)

var errorTemplate = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.StatusCode}} - Cannacraft</title></head>
<body style="font-family: system-ui, sans-serif; text-align: center; padding: 4rem 1rem;">
  <h1 class="error-status">{{.StatusCode}}</h1>
  <p class="error-message">{{.Message}}</p>
  <a href="/">Back to the home page</a>
</body>
</html>`))

// renderError is the page shown to browsers for an httpError.
func renderError(e *httpError) templates.Component {
	return &templates.TemplateComponent{Template: errorTemplate, Data: e}
}

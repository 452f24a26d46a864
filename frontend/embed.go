package frontend

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the server-rendered pages.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

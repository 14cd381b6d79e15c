// Package templates embeds the dashboard HTML.
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

// Parse returns every page template, keyed by file name.
func Parse() *template.Template {
	return template.Must(template.ParseFS(files, "*.html"))
}

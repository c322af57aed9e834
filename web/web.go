// Package web carries the portal's static assets and page templates.
package web

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed public templates
var content embed.FS

// Public returns the static asset tree rooted at public/.
func Public() fs.FS {
	sub, err := fs.Sub(content, "public")
	if err != nil {
		panic(err)
	}
	return sub
}

// Templates parses every page template.
func Templates() (*template.Template, error) {
	return template.ParseFS(content, "templates/*.html")
}

package web

import (
	"embed"
	"html/template"
)

// TemplatesFS embeds HTML templates for server-side rendering.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds the page script and stylesheet.
//
//go:embed static/*
var StaticFS embed.FS

// Templates parses every embedded template.
func Templates() (*template.Template, error) {
	return template.ParseFS(TemplatesFS, "templates/*.html")
}

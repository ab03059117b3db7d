// Package view plugs html/template into echo's Renderer interface. Every
// template under the configured directory is parsed once at startup; pages
// are rendered by their defined name.
package view

import (
	"fmt"
	"html/template"
	"io"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

// Renderer satisfies echo.Renderer over a parsed template set.
type Renderer struct {
	templates *template.Template
}

// New parses every .html file in dir. Shared partials ("header",
// "footer") and page templates all live in the same set.
func New(dir string) (*Renderer, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"date": func(v interface{ Format(string) string }) string {
			return v.Format("2006-01-02")
		},
		"price": func(v float64) string {
			return fmt.Sprintf("%.2f", v)
		},
	}).ParseGlob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

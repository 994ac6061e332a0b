// Package web embeds the portal's HTML templates.
package web

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Pages lists every page template; each is parsed together with the layout.
var Pages = []string{"index.html", "pricing.html", "login.html", "dashboard.html", "course.html"}

var funcs = template.FuncMap{
	"price": func(cents int64, currency string) string {
		return fmt.Sprintf("%d.%02d %s", cents/100, cents%100, currency)
	},
}

// Templates parses one template set per page to avoid {{define "content"}}
// collisions.
func Templates() (map[string]*template.Template, error) {
	out := make(map[string]*template.Template, len(Pages))
	for _, page := range Pages {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		out[page] = t
	}
	return out, nil
}

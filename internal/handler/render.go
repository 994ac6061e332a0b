package handler

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Renderer executes page templates inside the shared layout.
type Renderer struct {
	templates map[string]*template.Template
	siteURL   string
	logger    *slog.Logger
}

func NewRenderer(tmpl map[string]*template.Template, siteURL string, logger *slog.Logger) *Renderer {
	return &Renderer{templates: tmpl, siteURL: siteURL, logger: logger}
}

// Render fills in the layout's common fields and writes the page.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data["SiteURL"] = rd.siteURL
	data["Path"] = r.URL.Path
	data["Year"] = time.Now().Year()
	if _, exists := data["ActiveNav"]; !exists {
		data["ActiveNav"] = ""
	}

	tmpl, ok := rd.templates[name]
	if !ok {
		rd.logger.Error("template not found", "name", name)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		rd.logger.Error("template render", "name", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// isValidRedirect checks that a redirect path is a safe relative path.
func isValidRedirect(path string) bool {
	return strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "//") && !strings.Contains(path, "://")
}

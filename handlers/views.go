package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"personal-task-manager/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"login.html", "register.html", "dashboard.html", "view.html"}

// Views holds one parsed template set per page, each sharing layout.html.
type Views struct {
	pages map[string]*template.Template
}

func NewViews() (*Views, error) {
	v := &Views{pages: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		v.pages[page] = tmpl
	}
	return v, nil
}

// Render executes page into a buffer first so a template error never produces half a page.
func (v *Views) Render(w http.ResponseWriter, page string, data any) {
	tmpl, ok := v.pages[page]
	if !ok {
		logging.Logger.Errorf("Event ID: TEMPLATE_MISSING, Description: No template named %s", page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		logging.Logger.Errorf("Event ID: TEMPLATE_RENDER_FAILED, Description: Rendering %s failed: %v", page, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

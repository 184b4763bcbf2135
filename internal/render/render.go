// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render handles HTML template rendering with caching.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/agrodirect/fos-web/internal/session"
)

// Renderer handles template rendering with caching.
type Renderer struct {
	templates      map[string]*template.Template
	sessionManager *session.Manager
	isDev          bool
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *session.Manager
	IsDev          bool
}

// Template directories. Each page template renders inside layouts/base.html
// together with all partials.
var pageDirs = []string{"auth", "farmer", "admin", "site"}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:      make(map[string]*template.Template),
		sessionManager: cfg.SessionManager,
		isDev:          cfg.IsDev,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}

	return r, nil
}

// parseTemplates parses all templates from the filesystem.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := r.getTemplateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	baseLayout := "layouts/base.html"

	for _, dir := range pageDirs {
		pages, err := r.getTemplateFiles(templatesFS, dir)
		if err != nil {
			return fmt.Errorf("getting %s templates: %w", dir, err)
		}

		for _, tmplPath := range pages {
			name := filepath.Base(tmplPath)
			name = strings.TrimSuffix(name, ".html")
			name = dir + "/" + name

			// Parse in order: base layout, partials, page template
			files := []string{baseLayout}
			files = append(files, partials...)
			files = append(files, tmplPath)

			tmpl, err := template.New("").Funcs(r.templateFuncs()).ParseFS(templatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}

			r.templates[name] = tmpl
		}
	}

	return nil
}

// getTemplateFiles returns all .html files in a directory.
func (r *Renderer) getTemplateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	var files []string

	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		// Directory might not exist yet, that's ok
		return files, nil
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}

	return files, nil
}

// quantityPrinter formats numbers with thousands separators for quantity
// and metric displays.
var quantityPrinter = message.NewPrinter(language.English)

// templateFuncs returns custom template functions.
func (r *Renderer) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"formatDateTime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 3:04 PM")
		},
		// Quantities always show two decimals: 100.00 kg
		"formatQuantity": func(v float64) string {
			return quantityPrinter.Sprintf("%.2f", v)
		},
		"formatRate": func(v float64) string {
			return quantityPrinter.Sprintf("%v", v)
		},
		"percent": func(v float64) string {
			return quantityPrinter.Sprintf("%.0f%%", v)
		},
		"upper": strings.ToUpper,
		"truncate": func(s string, length int) string {
			if len(s) <= length {
				return s
			}
			return s[:length] + "..."
		},
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"seq": func(start, end int) []int {
			var result []int
			for i := start; i <= end; i++ {
				result = append(result, i)
			}
			return result
		},
	}
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Data        any
	Flash       string
	FlashError  string
	CurrentYear int
}

// Render renders a template with the given data.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	// Add default data
	data.CurrentYear = time.Now().Year()

	// Get flash messages from session
	if r.sessionManager != nil {
		if data.Flash == "" {
			data.Flash = r.sessionManager.PopFlash(req.Context())
		}
		if data.FlashError == "" {
			data.FlashError = r.sessionManager.PopFlashError(req.Context())
		}
	}

	// Render to buffer first to catch errors
	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
	return nil
}

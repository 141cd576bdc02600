// Package template renders the source fragments emitted by buildergen.
package template

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

//go:embed *.tpl
var templates embed.FS

// Renderer is the interface for rendering templates.
type Renderer interface {
	Render(templateName string, data any) ([]byte, error)
}

// Manager holds the parsed fragment templates. It is safe for concurrent use.
type Manager struct {
	tmpl *template.Template
}

// NewManager parses the embedded templates.
func NewManager() *Manager {
	tmpl := template.Must(template.New("buildergen").
		Option("missingkey=error").
		Funcs(sprig.TxtFuncMap()).
		ParseFS(templates, "*.tpl"))
	return &Manager{tmpl: tmpl}
}

// Render executes the named template with the given data.
func (m *Manager) Render(templateName string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := m.tmpl.ExecuteTemplate(&buf, templateName, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", templateName, err)
	}
	return buf.Bytes(), nil
}

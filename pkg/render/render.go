// Package render wraps template rendering behind a small interface.
// The reconciliation engine treats rendering as a black box: it hands
// over source content and a variable context and gets content back.
package render

import (
	"strings"
	"text/template"

	"github.com/dotfold/dotfold/pkg/errors"
)

// Renderer renders template content with a variable context
type Renderer interface {
	Render(name, content string, variables map[string]interface{}) (string, error)
}

// TextRenderer renders using text/template in strict mode: referencing
// an undefined variable is a render failure, not silent empty output.
type TextRenderer struct{}

// New creates a TextRenderer
func New() *TextRenderer {
	return &TextRenderer{}
}

// Render implements Renderer
func (r *TextRenderer) Render(name, content string, variables map[string]interface{}) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(content)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrRender, "parse template %s", name)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, variables); err != nil {
		return "", errors.Wrapf(err, errors.ErrRender, "render template %s", name)
	}
	return buf.String(), nil
}

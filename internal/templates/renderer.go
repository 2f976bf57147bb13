package templates

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/projgen/cli/internal/params"
)

// Renderer executes templates against a fixed parameter set. References to
// parameters that are not in the set are errors.
type Renderer struct {
	data  params.Set
	funcs template.FuncMap
}

// NewRenderer creates a new renderer with the given parameters.
func NewRenderer(data params.Set) *Renderer {
	return &Renderer{data: data, funcs: funcMap()}
}

// RenderFile renders a single template file and returns the content. name is
// used in error messages only.
func (r *Renderer) RenderFile(name string, content []byte) ([]byte, error) {
	tmpl, err := template.New(name).
		Funcs(r.funcs).
		Option("missingkey=error").
		Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]string(r.data)); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	return buf.Bytes(), nil
}

// RenderString renders a template string and returns the result.
func (r *Renderer) RenderString(name, content string) (string, error) {
	result, err := r.RenderFile(name, []byte(content))
	if err != nil {
		return "", err
	}
	return string(result), nil
}

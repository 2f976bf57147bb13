package templates

import (
	"embed"
	"io/fs"
)

//go:embed all:python
var pythonFS embed.FS

// Default returns the built-in Python project template.
func Default() (*Template, error) {
	sub, err := fs.Sub(pythonFS, "python")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

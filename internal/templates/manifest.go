package templates

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"slices"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// ManifestFile is the manifest name at the template root.
const ManifestFile = "template.yaml"

// variableNamePattern matches names usable as {{.name}} in text/template.
var variableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ParseManifest decodes and checks a template manifest. Unknown keys are
// rejected.
func ParseManifest(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s is empty", ManifestFile)
		}
		return nil, fmt.Errorf("parsing %s: %w", ManifestFile, err)
	}

	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ManifestFile, err)
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if m.Name == "" {
		return errors.New("name is required")
	}

	if m.Requires != "" {
		if _, err := semver.NewConstraint(m.Requires); err != nil {
			return fmt.Errorf("requires %q: %w", m.Requires, err)
		}
	}

	seen := make(map[string]bool, len(m.Variables))
	for i, v := range m.Variables {
		if !variableNamePattern.MatchString(v.Name) {
			return fmt.Errorf("variables[%d]: invalid name %q", i, v.Name)
		}
		if seen[v.Name] {
			return fmt.Errorf("variables[%d]: %q declared twice", i, v.Name)
		}
		seen[v.Name] = true

		if v.Default != "" && len(v.Choices) > 0 && !slices.Contains(v.Choices, v.Default) {
			return fmt.Errorf("variable %q: default %q is not one of its choices", v.Name, v.Default)
		}
	}

	for _, glob := range m.CopyWithoutRender {
		if _, err := path.Match(glob, ""); err != nil {
			return fmt.Errorf("copy_without_render %q: %w", glob, err)
		}
	}
	return nil
}

// copyVerbatim reports whether the template file at rel is excluded from
// rendering. Globs match the full slash-separated path or the base name.
func (m *Manifest) copyVerbatim(rel string) bool {
	base := path.Base(rel)
	for _, glob := range m.CopyWithoutRender {
		if ok, _ := path.Match(glob, rel); ok {
			return true
		}
		if ok, _ := path.Match(glob, base); ok {
			return true
		}
	}
	return false
}

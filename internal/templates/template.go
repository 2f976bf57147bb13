package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/Masterminds/semver/v3"

	oerrors "github.com/projgen/cli/internal/errors"
)

// Template is a loaded project template: a manifest plus a single top-level
// directory whose name is itself a template.
type Template struct {
	manifest *Manifest
	fsys     fs.FS
	root     string
}

// Load reads a template from fsys. The manifest must be at the root of fsys
// next to exactly one directory with a templated name, e.g.
// "{{.project_slug}}".
func Load(fsys fs.FS) (*Template, error) {
	data, err := fs.ReadFile(fsys, ManifestFile)
	if err != nil {
		return nil, oerrors.NewRenderError(
			fmt.Sprintf("reading %s: %v", ManifestFile, err),
			"",
			"a template directory needs a template.yaml at its root",
		)
	}

	manifest, err := ParseManifest(data)
	if err != nil {
		return nil, oerrors.NewRenderError(err.Error(), ManifestFile, "")
	}

	root, err := findRoot(fsys)
	if err != nil {
		return nil, err
	}

	return &Template{manifest: manifest, fsys: fsys, root: root}, nil
}

func findRoot(fsys fs.FS) (string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return "", oerrors.NewRenderError(fmt.Sprintf("reading template: %v", err), "", "")
	}

	var roots []string
	for _, e := range entries {
		if e.IsDir() && strings.Contains(e.Name(), "{{") {
			roots = append(roots, e.Name())
		}
	}

	if len(roots) != 1 {
		return "", oerrors.NewRenderError(
			fmt.Sprintf("expected exactly one templated top-level directory, found %d", len(roots)),
			"",
			`name the project directory after a parameter, e.g. "{{.project_slug}}"`,
		)
	}
	return roots[0], nil
}

// Manifest returns the parsed template.yaml.
func (t *Template) Manifest() *Manifest {
	return t.manifest
}

// Name returns the manifest name.
func (t *Template) Name() string {
	return t.manifest.Name
}

// Root returns the unrendered name of the top-level project directory.
func (t *Template) Root() string {
	return t.root
}

// Files lists the unrendered template files below the project directory in
// walk order, as slash-separated paths relative to it.
func (t *Template) Files() ([]string, error) {
	var files []string
	err := fs.WalkDir(t.fsys, t.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		files = append(files, strings.TrimPrefix(p, t.root+"/"))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing template %s: %w", t.Name(), err)
	}
	return files, nil
}

// ErrIncompatible is returned when the running version does not satisfy the
// manifest's requires constraint.
var ErrIncompatible = errors.New("template requires a different projgen version")

// CheckCompatibility verifies that version satisfies the manifest's requires
// constraint. A manifest without requires accepts any version.
func (t *Template) CheckCompatibility(version string) error {
	if t.manifest.Requires == "" {
		return nil
	}

	constraint, err := semver.NewConstraint(t.manifest.Requires)
	if err != nil {
		return fmt.Errorf("requires %q: %w", t.manifest.Requires, err)
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("parsing version %q: %w", version, err)
	}

	if ok, errs := constraint.Validate(v); !ok {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return fmt.Errorf("%w: template %s: %s", ErrIncompatible, t.Name(), strings.Join(msgs, "; "))
	}
	return nil
}

package templates

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	oerrors "github.com/projgen/cli/internal/errors"
	"github.com/projgen/cli/internal/output"
	"github.com/projgen/cli/internal/params"
)

const missingParamHint = "declare the parameter in template.yaml or pass it with --extra-context"

// Render resolves the template's variables, runs the pre-generation hook,
// renders the project into opts.OutputDir and runs the post-generation hook.
// It returns the absolute path of the generated project root.
//
// Nothing is written when resolution or the pre-generation hook fails. When
// rendering fails the partially written project root is removed.
func Render(ctx context.Context, tmpl *Template, opts RenderOptions) (string, error) {
	set, err := tmpl.Resolve(ctx, opts)
	if err != nil {
		return "", err
	}

	if opts.Hooks.PreGenerate != nil {
		if err := opts.Hooks.PreGenerate(set.Clone()); err != nil {
			return "", err
		}
	}

	g := &generator{tmpl: tmpl, set: set, r: NewRenderer(set)}

	root, err := g.projectRoot(opts.OutputDir)
	if err != nil {
		return "", err
	}

	if err := g.generate(ctx, root); err != nil {
		if g.created {
			if rmErr := os.RemoveAll(root); rmErr != nil {
				output.Warn("could not remove partial project", "path", root, "err", rmErr)
			}
		}
		return "", err
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}

	output.Debug("rendered template", "template", tmpl.Name(), "root", abs, "files", g.files)

	if opts.Hooks.PostGenerate != nil {
		if err := opts.Hooks.PostGenerate(abs, set.Clone()); err != nil {
			return abs, err
		}
	}

	return abs, nil
}

// Resolve builds the final parameter set: every manifest variable takes its
// value from opts.Context when present, otherwise from its rendered default,
// and is offered to the Prompter in interactive mode. Context keys the
// manifest does not declare are kept.
func (t *Template) Resolve(ctx context.Context, opts RenderOptions) (params.Set, error) {
	set := opts.Context.Clone()
	r := NewRenderer(set)
	interactive := !opts.NonInteractive && opts.Prompter != nil

	for _, v := range t.manifest.Variables {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		value, ok := opts.Context[v.Name]
		if !ok {
			rendered, err := r.RenderString(v.Name, v.DefaultValue())
			if err != nil {
				return nil, oerrors.NewRenderError(
					fmt.Sprintf("default for %q: %v", v.Name, err),
					ManifestFile,
					missingParamHint,
				)
			}
			value = rendered
		}

		if interactive && v.Prompt != "" {
			answer, err := opts.Prompter.Prompt(v, value)
			if err != nil {
				return nil, fmt.Errorf("prompting for %s: %w", v.Name, err)
			}
			value = answer
		}

		set[v.Name] = value
	}

	return set, nil
}

// generator holds the state of one rendering pass.
type generator struct {
	tmpl    *Template
	set     params.Set
	r       *Renderer
	created bool
	files   int
}

// projectRoot renders the top-level directory name and checks it is free.
func (g *generator) projectRoot(outputDir string) (string, error) {
	name, err := g.r.RenderString(g.tmpl.root, g.tmpl.root)
	if err != nil {
		return "", oerrors.NewRenderError(err.Error(), g.tmpl.root, missingParamHint)
	}
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", oerrors.NewRenderError(
			fmt.Sprintf("project directory name %q is not a single path element", name),
			g.tmpl.root,
			"check the value of the parameter used in the directory name",
		)
	}

	root := filepath.Join(outputDir, name)
	_, err = os.Lstat(root)
	switch {
	case err == nil:
		return "", oerrors.NewRenderError(
			"project directory already exists",
			root,
			"choose another project_slug or remove the existing directory",
		)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return "", oerrors.NewRenderError(err.Error(), root, "")
	}
	return root, nil
}

// generate writes the rendered tree below root.
func (g *generator) generate(ctx context.Context, root string) error {
	if err := os.MkdirAll(filepath.Dir(root), 0o755); err != nil {
		return oerrors.NewRenderError(err.Error(), filepath.Dir(root), "")
	}
	if err := os.Mkdir(root, 0o755); err != nil {
		return oerrors.NewRenderError(err.Error(), root, "")
	}
	g.created = true

	return fs.WalkDir(g.tmpl.fsys, g.tmpl.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return oerrors.NewRenderError(err.Error(), p, "")
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p == g.tmpl.root {
			return nil
		}

		rel := strings.TrimPrefix(p, g.tmpl.root+"/")
		target, skip, err := g.targetPath(rel)
		if err != nil {
			return err
		}
		if skip {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		dest := filepath.Join(root, filepath.FromSlash(target))

		if d.IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return oerrors.NewRenderError(err.Error(), target, "")
			}
			return nil
		}

		return g.writeFile(p, rel, target, dest, d)
	})
}

// targetPath renders every element of rel. An element that renders to the
// empty string drops the entry and, for directories, everything below it.
func (g *generator) targetPath(rel string) (string, bool, error) {
	elems := strings.Split(rel, "/")
	for i, elem := range elems {
		if !strings.Contains(elem, "{{") {
			continue
		}
		rendered, err := g.r.RenderString(rel, elem)
		if err != nil {
			return "", false, oerrors.NewRenderError(err.Error(), rel, missingParamHint)
		}
		rendered = strings.TrimSpace(rendered)
		if rendered == "" {
			return "", true, nil
		}
		if strings.ContainsAny(rendered, `/\`) || rendered == "." || rendered == ".." {
			return "", false, oerrors.NewRenderError(
				fmt.Sprintf("path element renders to %q", rendered),
				rel,
				"path parameters must not contain separators",
			)
		}
		elems[i] = rendered
	}
	return path.Join(elems...), false, nil
}

func (g *generator) writeFile(src, rel, target, dest string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return oerrors.NewRenderError(err.Error(), rel, "")
	}
	// Embedded files are read-only; keep the execute bits and make the
	// output writable by its owner.
	mode := info.Mode().Perm() | 0o644

	content, err := fs.ReadFile(g.tmpl.fsys, src)
	if err != nil {
		return oerrors.NewRenderError(err.Error(), rel, "")
	}

	if !g.tmpl.manifest.copyVerbatim(rel) {
		content, err = g.r.RenderFile(rel, content)
		if err != nil {
			return oerrors.NewRenderError(err.Error(), rel, missingParamHint)
		}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return oerrors.NewRenderError(err.Error(), target, "")
	}
	if err := os.WriteFile(dest, content, mode); err != nil {
		return oerrors.NewRenderError(err.Error(), target, "")
	}
	if err := os.Chmod(dest, mode); err != nil {
		return oerrors.NewRenderError(err.Error(), target, "")
	}

	g.files++
	output.Debug("rendered file", "path", target)
	return nil
}

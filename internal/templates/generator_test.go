package templates

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/projgen/cli/internal/errors"
	"github.com/projgen/cli/internal/hooks"
	"github.com/projgen/cli/internal/output"
	"github.com/projgen/cli/internal/params"
)

// referenceContext is the fully pinned parameter set the reference project
// fixture was generated from.
func referenceContext() params.Set {
	return params.Set{
		"author":                    "pytest",
		"author_email":              "pytest@foo.bar",
		"create_date":               "2020-07-10",
		"license":                   "MIT",
		"package_name":              "reference_proj",
		"project_name":              "Reference Project",
		"project_short_description": "A reference project used for testing my CookieCutter template.",
		"project_slug":              "reference-proj",
		"project_url":               "https://foo.bar",
		"project_host":              "GitHub",
		"create_ci_file":            "n",
	}
}

func defaultTemplate(t *testing.T) *Template {
	t.Helper()
	tmpl, err := Default()
	require.NoError(t, err)
	return tmpl
}

// readTree returns every regular file below root keyed by slash path.
func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	tree := map[string]string{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		tree[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return tree
}

// pruningHooks wires the real checks and steps with output discarded.
func pruningHooks() Hooks {
	r := hooks.NewRunner(&strings.Builder{}, output.NewFormatter(false))
	return Hooks{PreGenerate: r.PreGenerate, PostGenerate: r.PostGenerate}
}

func TestRender_ReferenceProject(t *testing.T) {
	outDir := t.TempDir()

	root, err := Render(context.Background(), defaultTemplate(t), RenderOptions{
		Context:        referenceContext(),
		OutputDir:      outDir,
		NonInteractive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "reference-proj"), root)

	want, err := os.ReadFile(filepath.Join("testdata", "reference-proj", "src", "reference_proj", "__about__.py"))
	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join(root, "src", "reference_proj", "__about__.py"))
	require.NoError(t, err)

	if diff := cmp.Diff(string(want), string(got)); diff != "" {
		t.Errorf("__about__.py mismatch (-want +got):\n%s", diff)
	}

	// Without hooks nothing is pruned and the config stays staged.
	tree := readTree(t, root)
	assert.Contains(t, tree, "pyproject.toml.in")
	assert.Contains(t, tree, ".gitlab-ci.yml")
	assert.Contains(t, tree, ".github/workflows/ci.yml")
	assert.Contains(t, tree, "src/reference_proj/cli.py")
}

func TestRender_Deterministic(t *testing.T) {
	tmpl := defaultTemplate(t)
	render := func() map[string]string {
		root, err := Render(context.Background(), tmpl, RenderOptions{
			Context:        referenceContext(),
			OutputDir:      t.TempDir(),
			NonInteractive: true,
			Hooks:          pruningHooks(),
		})
		require.NoError(t, err)
		return readTree(t, root)
	}

	first, second := render(), render()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("renders differ (-first +second):\n%s", diff)
	}
}

func TestRender_Pruning(t *testing.T) {
	tests := []struct {
		name      string
		overrides params.Set
		present   []string
		absent    []string
	}{
		{
			name:      "no ci file",
			overrides: params.Set{"create_ci_file": "n"},
			absent:    []string{".github/workflows/ci.yml", ".gitlab-ci.yml"},
		},
		{
			name:      "github",
			overrides: params.Set{"create_ci_file": "y", "project_host": "GitHub"},
			present:   []string{".github/workflows/ci.yml"},
			absent:    []string{".gitlab-ci.yml"},
		},
		{
			name:      "gitlab",
			overrides: params.Set{"create_ci_file": "y", "project_host": "GitLab"},
			present:   []string{".gitlab-ci.yml"},
			absent:    []string{".github/workflows/ci.yml"},
		},
		{
			name:      "with cli",
			overrides: params.Set{"has_cli": "y"},
			present:   []string{"src/reference_proj/cli.py"},
		},
		{
			name:      "without cli",
			overrides: params.Set{"has_cli": "n"},
			absent:    []string{"src/reference_proj/cli.py"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Render(context.Background(), defaultTemplate(t), RenderOptions{
				Context:        params.Merge(referenceContext(), tt.overrides),
				OutputDir:      t.TempDir(),
				NonInteractive: true,
				Hooks:          pruningHooks(),
			})
			require.NoError(t, err)

			tree := readTree(t, root)
			for _, p := range tt.present {
				assert.Contains(t, tree, p)
			}
			for _, p := range tt.absent {
				assert.NotContains(t, tree, p)
			}
			assert.Contains(t, tree, "pyproject.toml")
			assert.NotContains(t, tree, "pyproject.toml.in")

			entryPoint := `reference-proj = "reference_proj.cli:main"`
			if tt.overrides.Get("has_cli") == "n" {
				assert.NotContains(t, tree["pyproject.toml"], entryPoint)
				assert.NotContains(t, tree["README.md"], "## Usage")
			} else {
				assert.Contains(t, tree["pyproject.toml"], "[project.scripts]\n"+entryPoint+"\n")
				assert.Contains(t, tree["README.md"], "## Usage")
			}
		})
	}
}

func TestRender_DefaultsResolvedInOrder(t *testing.T) {
	outDir := t.TempDir()

	root, err := Render(context.Background(), defaultTemplate(t), RenderOptions{
		Context:        params.Set{"project_name": "Élan Vital", "create_date": "2021-01-02"},
		OutputDir:      outDir,
		NonInteractive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "elan-vital"), root)

	about, err := os.ReadFile(filepath.Join(root, "src", "elan_vital", "__about__.py"))
	require.NoError(t, err)
	assert.Contains(t, string(about), `__package_name__ = "elan_vital"`)
	assert.Contains(t, string(about), `__license__ = "MIT"`)
	assert.Contains(t, string(about), `__created__ = "2021-01-02"`)
	assert.Contains(t, string(about), `__project_url__ = "https://github.com/your-name/elan-vital"`)
}

func TestRender_ProjectRootExists(t *testing.T) {
	outDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(outDir, "reference-proj"), 0o755))
	sentinel := filepath.Join(outDir, "reference-proj", "keep.txt")
	require.NoError(t, os.WriteFile(sentinel, []byte("mine"), 0o644))

	_, err := Render(context.Background(), defaultTemplate(t), RenderOptions{
		Context:        referenceContext(),
		OutputDir:      outDir,
		NonInteractive: true,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrRender)

	data, err := os.ReadFile(sentinel)
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data))
}

func TestRender_SecondRenderCollides(t *testing.T) {
	outDir := t.TempDir()
	opts := RenderOptions{
		Context:        referenceContext(),
		OutputDir:      outDir,
		NonInteractive: true,
	}

	root, err := Render(context.Background(), defaultTemplate(t), opts)
	require.NoError(t, err)
	first := readTree(t, root)

	_, err = Render(context.Background(), defaultTemplate(t), opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrRender)

	if diff := cmp.Diff(first, readTree(t, root)); diff != "" {
		t.Errorf("existing project was modified (-before +after):\n%s", diff)
	}
}

func TestRender_PreGenerateFailureWritesNothing(t *testing.T) {
	outDir := t.TempDir()
	ctx := referenceContext()
	ctx["package_name"] = "not-valid"

	_, err := Render(context.Background(), defaultTemplate(t), RenderOptions{
		Context:        ctx,
		OutputDir:      outDir,
		NonInteractive: true,
		Hooks:          pruningHooks(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrValidation)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRender_MissingParameterCleansUp(t *testing.T) {
	tmpl, err := Load(fstest.MapFS{
		ManifestFile:                     {Data: []byte("name: demo\nvariables:\n  - name: project_slug\n    default: demo\n")},
		"{{.project_slug}}/a.txt":        {Data: []byte("ok\n")},
		"{{.project_slug}}/z/broken.txt": {Data: []byte("{{.undefined_param}}\n")},
	})
	require.NoError(t, err)

	outDir := t.TempDir()
	postRan := false
	_, err = Render(context.Background(), tmpl, RenderOptions{
		OutputDir:      outDir,
		NonInteractive: true,
		Hooks: Hooks{PostGenerate: func(string, params.Set) error {
			postRan = true
			return nil
		}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrRender)
	assert.Contains(t, err.Error(), "z/broken.txt")
	assert.False(t, postRan)

	_, statErr := os.Stat(filepath.Join(outDir, "demo"))
	assert.True(t, errors.Is(statErr, fs.ErrNotExist))
}

func TestRender_CopyWithoutRenderAndModes(t *testing.T) {
	raw := "{{ not a template }}"
	tmpl, err := Load(fstest.MapFS{
		ManifestFile: {Data: []byte(
			"name: demo\nvariables:\n  - name: project_slug\n    default: demo\n  - name: tool\n    default: run\ncopy_without_render: [\"*.raw\"]\n",
		)},
		"{{.project_slug}}/data.raw":      {Data: []byte(raw)},
		"{{.project_slug}}/bin/{{.tool}}": {Data: []byte("#!/bin/sh\necho {{.project_slug}}\n"), Mode: 0o755},
		"{{.project_slug}}/{{ \"\" }}":    {Data: []byte("dropped")},
	})
	require.NoError(t, err)

	root, err := Render(context.Background(), tmpl, RenderOptions{OutputDir: t.TempDir(), NonInteractive: true})
	require.NoError(t, err)

	tree := readTree(t, root)
	assert.Equal(t, map[string]string{
		"data.raw": raw,
		"bin/run":  "#!/bin/sh\necho demo\n",
	}, tree)

	info, err := os.Stat(filepath.Join(root, "bin", "run"))
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o755), info.Mode().Perm())
}

type fakePrompter struct {
	answers map[string]string
	asked   []string
}

func (p *fakePrompter) Prompt(v Variable, current string) (string, error) {
	p.asked = append(p.asked, v.Name)
	if a, ok := p.answers[v.Name]; ok {
		return a, nil
	}
	return current, nil
}

func TestResolve_Interactive(t *testing.T) {
	p := &fakePrompter{answers: map[string]string{"project_name": "Prompted Name", "license": "Apache-2.0"}}

	set, err := defaultTemplate(t).Resolve(context.Background(), RenderOptions{
		Context:  params.Set{"author": "From Config", "create_date": "2020-07-10"},
		Prompter: p,
	})
	require.NoError(t, err)

	assert.Equal(t, "Prompted Name", set.Get("project_name"))
	assert.Equal(t, "prompted-name", set.Get("project_slug"))
	assert.Equal(t, "prompted_name", set.Get("package_name"))
	assert.Equal(t, "From Config", set.Get("author"))
	assert.Equal(t, "Apache-2.0", set.Get("license"))
	assert.Equal(t, "2020-07-10", set.Get("create_date"))
	assert.NotContains(t, p.asked, "create_date")
	assert.Equal(t, "project_name", p.asked[0])
}

func TestResolve_NonInteractiveIgnoresPrompter(t *testing.T) {
	p := &fakePrompter{}

	set, err := defaultTemplate(t).Resolve(context.Background(), RenderOptions{
		Context:        referenceContext(),
		NonInteractive: true,
		Prompter:       p,
	})
	require.NoError(t, err)
	assert.Empty(t, p.asked)
	assert.Equal(t, "y", set.Get("has_cli"))
	assert.Equal(t, "Reference Project", set.Get("project_name"))
}

func TestResolve_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := defaultTemplate(t).Resolve(ctx, RenderOptions{NonInteractive: true})
	assert.ErrorIs(t, err, context.Canceled)
}

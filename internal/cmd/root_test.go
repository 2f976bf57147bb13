package cmd

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/projgen/cli/internal/errors"
	"github.com/projgen/cli/internal/params"
	"github.com/projgen/cli/internal/version"
)

// referenceContext pins every parameter of the reference project.
const referenceContext = "{'project_name': 'Reference Project', 'project_slug': 'reference-proj', " +
	"'package_name': 'reference_proj', 'author': 'pytest', 'author_email': 'pytest@foo.bar', " +
	"'license': 'MIT', 'project_url': 'https://foo.bar', " +
	"'project_short_description': 'A reference project used for testing my CookieCutter template.', " +
	"'project_host': 'GitHub', 'create_ci_file': 'n', 'create_date': '2020-07-10'}"

// isolate points HOME at an empty directory and clears PROJGEN_* variables
// so the developer's own config cannot leak into a test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{
		"PROJGEN_CONFIG",
		"PROJGEN_TEMPLATE",
		"PROJGEN_COLOR",
		"PROJGEN_LOG_TIMESTAMPS",
		"PROJGEN_VERSION_CHECK_ENABLED",
		"PROJGEN_VERSION_CHECK_API_URL",
		"NO_COLOR",
	} {
		t.Setenv(key, "")
	}
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func entries(t *testing.T, dir string) []string {
	t.Helper()
	des, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, len(des))
	for i, de := range des {
		names[i] = de.Name()
	}
	return names
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "projgen [flags] OUTDIR", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	for _, name := range []string{"extra-context", "template", "no-version-check", "config", "verbose", "timestamps", "color"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag %s", name)
	}
	assert.Equal(t, "v", cmd.Flags().Lookup("verbose").Shorthand)
}

func TestRootCmd_Version(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "projgen "+version.Get().Version)
}

func TestRootCmd_RequiresOutDir(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, "--no-version-check")
	assert.Error(t, err)
}

func TestRootCmd_GeneratesReferenceProject(t *testing.T) {
	isolate(t)
	outDir := t.TempDir()

	stdout, _, err := execute(t, "--no-version-check", "--color", "never", "--extra-context", referenceContext, outDir)
	require.NoError(t, err)

	root := filepath.Join(outDir, "reference-proj")
	want, err := os.ReadFile(filepath.Join("..", "templates", "testdata", "reference-proj", "src", "reference_proj", "__about__.py"))
	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join(root, "src", "reference_proj", "__about__.py"))
	require.NoError(t, err)
	if diff := cmp.Diff(string(want), string(got)); diff != "" {
		t.Errorf("__about__.py mismatch (-want +got):\n%s", diff)
	}

	assert.FileExists(t, filepath.Join(root, "pyproject.toml"))
	assert.NoFileExists(t, filepath.Join(root, "pyproject.toml.in"))
	assert.NoFileExists(t, filepath.Join(root, ".gitlab-ci.yml"))
	assert.NoDirExists(t, filepath.Join(root, ".github"))

	assert.Contains(t, stdout, "Running pre-generate hooks:")
	assert.Contains(t, stdout, "check_package_name")
	assert.Contains(t, stdout, "Created project reference-proj in "+root)
	assert.Contains(t, stdout, "pyproject.toml")
	assert.Contains(t, stdout, "Package metadata")
}

func TestRootCmd_ParameterErrors(t *testing.T) {
	tests := []struct {
		name         string
		extraContext string
		sentinel     error
		wantStderr   string
	}{
		{
			name:         "empty",
			extraContext: "",
			sentinel:     oerrors.ErrParameter,
			wantStderr:   "extra context is empty",
		},
		{
			name:         "not a mapping",
			extraContext: "[1, 2]",
			sentinel:     oerrors.ErrParameter,
			wantStderr:   "extra context must be a mapping",
		},
		{
			name:         "unparseable",
			extraContext: "{'author': ",
			sentinel:     oerrors.ErrParameter,
			wantStderr:   "invalid parameter",
		},
		{
			name:         "invalid package name",
			extraContext: "{'project_name': 'Bad', 'package_name': '1bad'}",
			sentinel:     oerrors.ErrValidation,
			wantStderr:   "'1bad' is not a valid Python package name.",
		},
		{
			name:         "blank project name",
			extraContext: "{'project_name': '', 'project_slug': 'x', 'package_name': 'xx'}",
			sentinel:     oerrors.ErrValidation,
			wantStderr:   "Project name cannot be blank.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			outDir := t.TempDir()

			_, stderr, err := execute(t, "--no-version-check", "--extra-context", tt.extraContext, outDir)
			require.Error(t, err)

			var exitErr *oerrors.ExitError
			require.True(t, errors.As(err, &exitErr))
			assert.Equal(t, oerrors.ExitGeneralError, exitErr.Code)
			assert.True(t, exitErr.Printed)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Contains(t, stderr, tt.wantStderr)

			assert.Empty(t, entries(t, outDir), "nothing may be written on failure")
		})
	}
}

func TestRootCmd_ConfigDefaultContext(t *testing.T) {
	isolate(t)
	outDir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`default_context:
  author: Jane
  author_email: jane@example.com
  has_cli: false
version_check:
  enabled: false
`), 0o644))

	_, _, err := execute(t, "--config", cfgPath, "--extra-context", "{'project_name': 'Config Demo', 'author': 'Override'}", outDir)
	require.NoError(t, err)

	root := filepath.Join(outDir, "config-demo")
	about, err := os.ReadFile(filepath.Join(root, "src", "config_demo", "__about__.py"))
	require.NoError(t, err)
	assert.Contains(t, string(about), `__author__ = "Override"`)
	assert.Contains(t, string(about), `__author_email__ = "jane@example.com"`)
	assert.NoFileExists(t, filepath.Join(root, "src", "config_demo", "cli.py"))
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	isolate(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("color: sometimes\n"), 0o644))

	_, stderr, err := execute(t, "--config", cfgPath, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, stderr, "invalid configuration")
}

func TestRootCmd_InvalidColor(t *testing.T) {
	isolate(t)

	_, stderr, err := execute(t, "--no-version-check", "--color", "purple", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, stderr, `invalid color mode "purple"`)
}

func TestRootCmd_VersionCheck(t *testing.T) {
	const (
		local  = "1111111111111111111111111111111111111111"
		remote = "28d8d1b4e5134676ebe94e9c014a497221370e8b"
	)

	commitPath := "/repos/projgen/cli/commits/main"
	comparePath := "/repos/projgen/cli/compare/" + local + "..." + remote

	tests := []struct {
		name       string
		routes     map[string]string
		wantStderr string
	}{
		{
			name: "behind",
			routes: map[string]string{
				commitPath:  `{"sha": "` + remote + `", "commit": {"author": {"date": "2021-07-30T20:57:11Z"}}}`,
				comparePath: `{"total_commits": 3}`,
			},
			wantStderr: "projgen template is 3 commits behind projgen/cli@main (local 1111111, remote 2021-07-30 20:57:11+00:00)",
		},
		{
			name:       "api error is advisory",
			routes:     map[string]string{},
			wantStderr: "version check failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, ok := tt.routes[r.URL.Path]
				if !ok {
					http.NotFound(w, r)
					return
				}
				_, _ = w.Write([]byte(body))
			}))
			t.Cleanup(srv.Close)
			t.Setenv("PROJGEN_VERSION_CHECK_API_URL", srv.URL)

			saved := version.GitCommit
			version.GitCommit = local
			t.Cleanup(func() { version.GitCommit = saved })

			outDir := t.TempDir()
			_, stderr, err := execute(t, "--timestamps=false", "--extra-context", referenceContext, outDir)
			require.NoError(t, err, "advisory failures never fail the command")
			assert.Contains(t, stderr, tt.wantStderr)
			assert.DirExists(t, filepath.Join(outDir, "reference-proj"))
		})
	}
}

func TestDescribeFile(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"pyproject.toml", "Project metadata and build config"},
		{".github/workflows/ci.yml", "GitHub Actions workflow"},
		{"src/acme/__about__.py", "Package metadata"},
		{"src/acme/cli.py", "Command-line entry point"},
		{"tests/test_about.py", "Test"},
		{"src/acme/__init__.py", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, describeFile(tt.path))
		})
	}
}

func TestParameterRows(t *testing.T) {
	layers := []parameterLayer{
		{source: "default", set: params.Set{"create_date": "2020-07-10"}},
		{source: "config", set: params.Set{"author": "Jane", "create_date": "2021-01-01"}},
		{source: "extra-context", set: params.Set{"author": "pytest"}},
	}
	merged := params.Set{}
	for _, l := range layers {
		merged = params.Merge(merged, l.set)
	}

	assert.Equal(t, [][]string{
		{"author", "pytest", "extra-context"},
		{"create_date", "2021-01-01", "config"},
	}, parameterRows(merged, layers))
}

func TestRootCmd_VerbosePrintsParameterSources(t *testing.T) {
	isolate(t)

	_, stderr, err := execute(t, "-v", "--no-version-check", "--extra-context", referenceContext, t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, stderr, "PARAMETER")
	assert.Contains(t, stderr, "extra-context")
}

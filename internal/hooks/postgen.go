package hooks

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"

	oerrors "github.com/projgen/cli/internal/errors"
	"github.com/projgen/cli/internal/output"
	"github.com/projgen/cli/internal/params"
)

// Staged config names. The template ships pyproject.toml under a suffix so
// tooling run against the template repository does not pick it up.
const (
	StagedConfigName = "pyproject.toml.in"
	ConfigName       = "pyproject.toml"
)

// ciArtifacts maps a CI host to the path, relative to the project root, that
// holds its configuration.
var ciArtifacts = map[string]string{
	"GitHub": ".github",
	"GitLab": ".gitlab-ci.yml",
}

// CIArtifacts returns a copy of the host-to-artifact map.
func CIArtifacts() map[string]string {
	return maps.Clone(ciArtifacts)
}

// CIHosts returns the supported CI hosts in sorted order.
func CIHosts() []string {
	return slices.Sorted(maps.Keys(ciArtifacts))
}

// CLIModulePath returns the optional CLI module path for a package.
func CLIModulePath(packageName string) string {
	return path.Join("src", packageName, "cli.py")
}

// Steps returns the post-generation steps in execution order.
func Steps() []Step {
	return []Step{
		{Name: "remove_ci_files", Run: removeCIFiles},
		{Name: "remove_cli_file", Run: removeCLIFile},
		{Name: "rename_staged_config", Run: renameStagedConfig},
	}
}

// PostGenerate runs every step against the project at root. A failing step
// does not stop later ones; the joined error wraps ErrConsistency.
func (r *Runner) PostGenerate(root string, set params.Set) error {
	names := make([]string, len(r.steps))
	tasks := make([]func() error, len(r.steps))
	for i, s := range r.steps {
		names[i] = s.Name
		tasks[i] = func() error { return s.Run(root, set) }
	}

	failed := r.run("Running post-generate hooks:", r.f.Done(), names, tasks)
	if len(failed) == 0 {
		return nil
	}
	return joinFailures(failed)
}

func removeCIFiles(root string, set params.Set) error {
	remove := CIArtifacts()
	if set.IsYes(params.KeyCreateCIFile) {
		delete(remove, set.Get(params.KeyProjectHost))
	}

	var errs []error
	for _, host := range slices.Sorted(maps.Keys(remove)) {
		if err := removePath(root, remove[host]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func removeCLIFile(root string, set params.Set) error {
	if set.Get(params.KeyHasCLI) != params.No {
		return nil
	}
	return removePath(root, CLIModulePath(set.Get(params.KeyPackageName)))
}

func renameStagedConfig(root string, _ params.Set) error {
	from := filepath.Join(root, StagedConfigName)
	to := filepath.Join(root, ConfigName)
	if err := os.Rename(from, to); err != nil {
		return oerrors.Wrapf(oerrors.ErrConsistency, err, "renaming %s", StagedConfigName)
	}
	output.Debug("renamed staged config", "from", from, "to", to)
	return nil
}

// removePath deletes the regular file or directory tree at rel under root.
// Anything else, including a path that does not exist, is a consistency
// error.
func removePath(root, rel string) error {
	target := filepath.Join(root, filepath.FromSlash(rel))

	info, err := os.Lstat(target)
	switch {
	case err != nil:
		return oerrors.Wrapf(oerrors.ErrConsistency, err, "%s is not a file nor a directory", rel)
	case info.Mode().IsRegular():
		err = os.Remove(target)
	case info.IsDir():
		err = os.RemoveAll(target)
	default:
		return oerrors.Wrap(oerrors.ErrConsistency, fmt.Sprintf("%s is not a file nor a directory (%s)", rel, info.Mode().Type()))
	}
	if err != nil {
		return oerrors.Wrapf(oerrors.ErrConsistency, err, "removing %s", rel)
	}

	output.Debug("removed", "path", rel)
	return nil
}

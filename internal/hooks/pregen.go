package hooks

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lithammer/fuzzysearch/fuzzy"

	oerrors "github.com/projgen/cli/internal/errors"
	"github.com/projgen/cli/internal/params"
)

// packageNamePattern is what the generated project accepts as an importable
// Python package name.
var packageNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]+$`)

var validate = validator.New()

// Checks returns the pre-generation checks in execution order.
func Checks() []Check {
	return []Check{
		{Name: "check_project_name", Run: checkProjectName},
		{Name: "check_package_name", Run: checkPackageName},
		{Name: "check_project_host", Run: checkProjectHost},
		{Name: "check_yes_no_flags", Run: checkYesNoFlags},
		{Name: "check_create_date", Run: checkCreateDate},
	}
}

// PreGenerate runs every check against set. All checks run even when an
// earlier one fails; the returned error wraps ErrValidation and names every
// failed check.
func (r *Runner) PreGenerate(set params.Set) error {
	names := make([]string, len(r.checks))
	tasks := make([]func() error, len(r.checks))
	for i, c := range r.checks {
		names[i] = c.Name
		tasks[i] = func() error { return c.Run(set) }
	}

	failed := r.run("Running pre-generate hooks:", r.f.Passed(), names, tasks)
	if len(failed) == 0 {
		return nil
	}

	lines := make([]string, len(failed))
	for i, f := range failed {
		lines[i] = fmt.Sprintf("%s: %s", f.name, f.err)
	}
	return &oerrors.DetailError{
		Type:    "validation failed",
		Message: strings.Join(lines, "\n  "),
		Hint:    "fix the values above and run again; nothing was written",
		Cause:   errors.Join(oerrors.ErrValidation, joinFailures(failed)),
	}
}

func checkProjectName(set params.Set) error {
	if set.Get(params.KeyProjectName) == "" {
		return errors.New("Project name cannot be blank.")
	}
	return nil
}

func checkPackageName(set params.Set) error {
	name := set.Get(params.KeyPackageName)
	if !packageNamePattern.MatchString(name) {
		return fmt.Errorf("'%s' is not a valid Python package name.", name)
	}
	return nil
}

func checkProjectHost(set params.Set) error {
	if !set.IsYes(params.KeyCreateCIFile) {
		return nil
	}

	host := set.Get(params.KeyProjectHost)
	hosts := CIHosts()
	if err := validate.Var(host, "required,oneof="+strings.Join(hosts, " ")); err == nil {
		return nil
	}

	msg := fmt.Sprintf("'%s' is not a supported CI host (%s).", host, strings.Join(hosts, ", "))
	if s := suggestHost(host, hosts); s != "" {
		msg += fmt.Sprintf(" Did you mean '%s'?", s)
	}
	return errors.New(msg)
}

// suggestHost returns the known host closest to host, or "" when none is
// close enough to be a plausible typo.
func suggestHost(host string, hosts []string) string {
	if host == "" {
		return ""
	}

	ranks := fuzzy.RankFindNormalizedFold(host, hosts)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", 3
	for _, h := range hosts {
		d := fuzzy.LevenshteinDistance(strings.ToLower(host), strings.ToLower(h))
		if d < bestDist {
			best, bestDist = h, d
		}
	}
	return best
}

func checkYesNoFlags(set params.Set) error {
	var bad []string
	for _, key := range []string{params.KeyCreateCIFile, params.KeyHasCLI} {
		if !set.Has(key) {
			continue
		}
		if err := validate.Var(set.Get(key), "oneof=y n"); err != nil {
			bad = append(bad, fmt.Sprintf("%s='%s'", key, set.Get(key)))
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("%s must be 'y' or 'n'.", strings.Join(bad, ", "))
	}
	return nil
}

func checkCreateDate(set params.Set) error {
	if !set.Has(params.KeyCreateDate) {
		return nil
	}
	date := set.Get(params.KeyCreateDate)
	if err := validate.Var(date, "datetime="+params.DateLayout); err != nil {
		return fmt.Errorf("'%s' is not a YYYY-MM-DD date.", date)
	}
	return nil
}

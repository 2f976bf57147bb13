// Package hooks implements the checks run before a project is rendered and
// the pruning steps run after it.
package hooks

import (
	"errors"
	"fmt"
	"io"

	"github.com/projgen/cli/internal/output"
	"github.com/projgen/cli/internal/params"
)

// Check is a named pre-generation check. Run returns nil when the parameters
// pass; the error message is printed as the reason otherwise.
type Check struct {
	Name string
	Run  func(set params.Set) error
}

// Step is a named post-generation step operating on the rendered project root.
type Step struct {
	Name string
	Run  func(root string, set params.Set) error
}

// Runner executes checks and steps, printing one status line per item.
type Runner struct {
	w      io.Writer
	f      *output.Formatter
	checks []Check
	steps  []Step
}

// NewRunner returns a Runner with the built-in checks and steps that reports
// to w using f.
func NewRunner(w io.Writer, f *output.Formatter) *Runner {
	return &Runner{
		w:      w,
		f:      f,
		checks: Checks(),
		steps:  Steps(),
	}
}

// WithChecks replaces the checks run by PreGenerate.
func (r *Runner) WithChecks(checks ...Check) *Runner {
	r.checks = checks
	return r
}

// WithSteps replaces the steps run by PostGenerate.
func (r *Runner) WithSteps(steps ...Step) *Runner {
	r.steps = steps
	return r
}

// failure pairs an item name with its error.
type failure struct {
	name string
	err  error
}

// run executes every task in order, never stopping early, and returns the
// failures in the same order.
func (r *Runner) run(title, okLabel string, names []string, tasks []func() error) []failure {
	fmt.Fprintln(r.w, title)

	var failed []failure
	for i, task := range tasks {
		name := names[i]
		fmt.Fprint(r.w, r.f.StepName(name))

		err := task()
		if err != nil {
			fmt.Fprintln(r.w, r.f.Failed())
			fmt.Fprintf(r.w, "  %s\n", err)
			output.StepLogger(name).Debug("failed", "err", err)
			failed = append(failed, failure{name: name, err: err})
			continue
		}

		fmt.Fprintln(r.w, okLabel)
		output.StepLogger(name).Debug("ok")
	}
	return failed
}

func joinFailures(failed []failure) error {
	errs := make([]error, 0, len(failed))
	for _, f := range failed {
		errs = append(errs, fmt.Errorf("%s: %w", f.name, f.err))
	}
	return errors.Join(errs...)
}

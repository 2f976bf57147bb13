package cmd

import (
	"context"
	"errors"

	"github.com/projgen/cli/internal/output"
	"github.com/projgen/cli/internal/versioncheck"
)

// checkVersion warns when the template is behind its upstream branch. It
// never fails the command.
func (a *app) checkVersion(ctx context.Context) {
	vc := a.cfg.VersionCheck
	client := versioncheck.NewClient(vc.APIURL, vc.Repository, vc.Branch, nil)

	var result *versioncheck.Result
	err := output.RunWithSpinner(ctx, func(ctx context.Context) error {
		var err error
		result, err = versioncheck.Check(ctx, client, a.templateDir)
		return err
	},
		output.WithTitle("Checking for template updates..."),
		output.WithTimeout(versioncheck.DefaultTimeout),
	)

	switch {
	case err == nil:
	case errors.Is(err, versioncheck.ErrNoLocalCommit):
		output.Debug("skipping version check", "reason", err)
		return
	case versioncheck.IsNetworkError(err) && !a.flags.Verbose:
		output.Debug("version check failed", "error", err)
		return
	default:
		output.Warn("version check failed", "error", err)
		return
	}

	if result.UpToDate() {
		output.Debug("template is up to date", "repository", result.Repository, "branch", result.Branch)
		return
	}
	output.Warn(result.Message())
}

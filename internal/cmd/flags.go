// Package cmd provides the projgen command implementation.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/projgen/cli/internal/output"
)

// rootFlags holds every flag of the root command. A fresh value is bound per
// NewRootCmd call so commands built in tests do not share state.
type rootFlags struct {
	ExtraContext   string
	Template       string
	NoVersionCheck bool
	Config         string
	Verbose        bool
	Timestamps     bool
	Color          string
}

// AddTo registers the flags on the given cobra command.
func (f *rootFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ExtraContext, "extra-context", "",
		"Parameter overrides as a YAML or Python dict literal, e.g. \"{'author': 'O\\'Brien', has_cli: n}\" (disables prompts)")
	cmd.Flags().StringVar(&f.Template, "template", "",
		"Template directory to render instead of the built-in one (env: PROJGEN_TEMPLATE)")
	cmd.Flags().BoolVar(&f.NoVersionCheck, "no-version-check", false,
		"Skip the advisory check against the upstream template repository")
	cmd.Flags().StringVar(&f.Config, "config", "",
		"Path to config file (env: PROJGEN_CONFIG)")
	cmd.Flags().BoolVarP(&f.Verbose, "verbose", "v", false,
		"Enable verbose output")
	cmd.Flags().BoolVar(&f.Timestamps, "timestamps", true,
		"Show timestamps in log output")
	cmd.Flags().StringVar(&f.Color, "color", "",
		fmt.Sprintf("When to color output: %s (env: PROJGEN_COLOR)", strings.Join(output.ValidColorModes(), ", ")))
}

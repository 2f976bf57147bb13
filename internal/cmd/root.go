package cmd

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/projgen/cli/internal/config"
	oerrors "github.com/projgen/cli/internal/errors"
	"github.com/projgen/cli/internal/hooks"
	"github.com/projgen/cli/internal/output"
	"github.com/projgen/cli/internal/params"
	"github.com/projgen/cli/internal/templates"
	"github.com/projgen/cli/internal/version"
)

// app carries the state of one invocation from flag parsing to the final
// file tree.
type app struct {
	flags rootFlags

	// Populated by initialize.
	hasOverrides bool
	cfg          *config.Config
	formatter    *output.Formatter
	templateDir  string
}

// NewRootCmd creates the root command for the projgen CLI.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "projgen [flags] OUTDIR",
		Short: "Generate a Python project from a template",
		Long: `projgen renders a project template into OUTDIR.

Parameters come from the template defaults, the default_context section of
~/.projgen/config.yaml and --extra-context, in increasing precedence. On a
terminal every prompted parameter is offered for editing unless
--extra-context is given.

Examples:
  # Answer the prompts
  projgen .

  # Fully scripted
  projgen --extra-context "{project_name: Acme Tools, create_ci_file: y, project_host: GitLab}" ./src

  # Use a local template checkout
  projgen --template ~/templates/python ./src`,
		Version:       version.Get().String(),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.initialize(cmd); err != nil {
				return exitError(cmd.ErrOrStderr(), "initializing", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, args[0])
		},
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	a.flags.AddTo(rootCmd)

	return rootCmd
}

// initialize loads configuration and sets up logging and color.
func (a *app) initialize(cmd *cobra.Command) error {
	configPath, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{
		FlagValue: a.flags.Config,
	})
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}

	cfg, err := config.NewLoader().Load(configPath.Value)
	if err != nil {
		return &oerrors.DetailError{
			Type:     "invalid configuration",
			Message:  err.Error(),
			Location: configPath.Value,
			Hint:     "fix the config file or point --config at another one",
			Cause:    err,
		}
	}
	a.cfg = cfg
	a.hasOverrides = cmd.Flags().Changed("extra-context")

	// Resolve timestamps: flag (if explicitly set) > config > default (nil = true)
	logCfg := output.LogConfig{
		Verbose: a.flags.Verbose,
		Writer:  cmd.ErrOrStderr(),
	}
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(a.flags.Timestamps)
	} else if cfg.Log.Timestamps != nil {
		logCfg.Timestamps = cfg.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	color := config.Resolve(config.ResolveOptions{
		Key:          "color",
		FlagValue:    a.flags.Color,
		EnvVar:       "PROJGEN_COLOR",
		ConfigValue:  cfg.Color,
		DefaultValue: string(output.ColorAuto),
	})
	mode, err := output.ParseColorMode(color.Value)
	if err != nil {
		return &oerrors.DetailError{
			Type:    "invalid flag",
			Message: err.Error(),
			Hint:    "use --color auto, always or never",
			Cause:   err,
		}
	}
	a.formatter = output.NewFormatter(output.ColorEnabled(mode, output.IsTTY()))

	tmpl := config.Resolve(config.ResolveOptions{
		Key:         "template",
		FlagValue:   a.flags.Template,
		EnvVar:      "PROJGEN_TEMPLATE",
		ConfigValue: cfg.Template,
	})
	if tmpl.Value != "" {
		a.templateDir, err = config.ExpandPath(tmpl.Value)
		if err != nil {
			return fmt.Errorf("expanding template path: %w", err)
		}
	}

	if a.flags.Verbose {
		info := version.Get()
		exists, _ := config.ConfigFileExists(configPath.Value)
		output.Debug("initializing CLI",
			"version", info.Version,
			"commit", info.GitCommit,
			"config", configPath.Value,
			"config_exists", exists,
			"color", mode,
			"template", a.templateDir,
		)
		config.LogResolvedValues(configPath, color, tmpl)
	}

	return nil
}

// run generates the project into outputDir.
func (a *app) run(cmd *cobra.Command, outputDir string) error {
	ctx := cmd.Context()
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	if a.cfg.VersionCheck.Enabled && !a.flags.NoVersionCheck {
		a.checkVersion(ctx)
	}

	tmpl, err := a.loadTemplate()
	if err != nil {
		return exitError(stderr, "loading template", err)
	}

	set, err := a.parameters(stderr)
	if err != nil {
		return exitError(stderr, "reading parameters", err)
	}

	runner := hooks.NewRunner(stdout, a.formatter)
	root, err := templates.Render(ctx, tmpl, templates.RenderOptions{
		Context:        set,
		OutputDir:      outputDir,
		NonInteractive: a.hasOverrides || !output.IsInteractive(),
		Prompter:       templates.HuhPrompter{Accessible: os.Getenv("ACCESSIBLE") != ""},
		Hooks: templates.Hooks{
			PreGenerate:  runner.PreGenerate,
			PostGenerate: runner.PostGenerate,
		},
	})
	if err != nil {
		return exitError(stderr, "generating project", err)
	}

	if err := a.printResult(stdout, root); err != nil {
		return exitError(stderr, "listing project", err)
	}
	return nil
}

// loadTemplate returns the template directory's template, or the built-in
// one, after checking it accepts this projgen version.
func (a *app) loadTemplate() (*templates.Template, error) {
	var (
		tmpl *templates.Template
		err  error
	)
	if a.templateDir == "" {
		tmpl, err = templates.Default()
	} else {
		tmpl, err = templates.Load(os.DirFS(a.templateDir))
	}
	if err != nil {
		return nil, err
	}

	if a.flags.Verbose {
		files, err := tmpl.Files()
		if err != nil {
			return nil, err
		}
		output.Debug("template loaded", "name", tmpl.Name(), "root", tmpl.Root(), "files", len(files))
	}

	info := version.Get()
	if info.IsDev() {
		output.Debug("skipping template compatibility check on development build", "version", info.Version)
		return tmpl, nil
	}
	if err := tmpl.CheckCompatibility(info.Semver()); err != nil {
		return nil, &oerrors.DetailError{
			Type:     "incompatible template",
			Message:  err.Error(),
			Location: a.templateDir,
			Hint:     fmt.Sprintf("upgrade projgen or use a template that supports %s", info.Version),
			Cause:    oerrors.Wrapf(oerrors.ErrRender, err, "template %s", tmpl.Name()),
		}
	}
	return tmpl, nil
}

// parameters merges built-in defaults, the config default_context and
// --extra-context, later layers winning. With --verbose the origin of every
// value is printed to w.
func (a *app) parameters(w io.Writer) (params.Set, error) {
	fromConfig, err := a.cfg.Parameters()
	if err != nil {
		return nil, oerrors.NewParameterError(err.Error(),
			"default_context values must be strings, numbers or booleans")
	}

	overrides := params.Set{}
	if a.hasOverrides {
		overrides, err = params.ParseOverrides(a.flags.ExtraContext)
		if err != nil {
			return nil, err
		}
	}

	layers := []parameterLayer{
		{source: "default", set: params.Defaults(time.Now())},
		{source: "config", set: fromConfig},
		{source: "extra-context", set: overrides},
	}
	sets := make([]params.Set, len(layers))
	for i, l := range layers {
		sets[i] = l.set
	}
	set := params.Merge(sets...)

	if a.flags.Verbose {
		fmt.Fprintln(w, a.formatter.Table([]string{"PARAMETER", "VALUE", "SOURCE"}, parameterRows(set, layers)))
	}
	return set, nil
}

// parameterLayer is one input to the parameter merge.
type parameterLayer struct {
	source string
	set    params.Set
}

// parameterRows lists every key of set with the last layer that supplied it.
// Keys not listed here are resolved from template defaults later.
func parameterRows(set params.Set, layers []parameterLayer) [][]string {
	rows := make([][]string, 0, len(set))
	for _, key := range set.Keys() {
		source := ""
		for _, l := range layers {
			if l.set.Has(key) {
				source = l.source
			}
		}
		rows = append(rows, []string{key, set.Get(key), source})
	}
	return rows
}

// printResult lists the generated project below root.
func (a *app) printResult(w io.Writer, root string) error {
	files := map[string]string{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		files[rel] = describeFile(rel)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking %s: %w", root, err)
	}

	name := filepath.Base(root)
	fmt.Fprintln(w, a.formatter.Checkmark(fmt.Sprintf("Created project %s in %s", a.formatter.Noun(name), root)))
	fmt.Fprintln(w)
	fmt.Fprint(w, a.formatter.FileTree(name, files))
	return nil
}

// describeFile returns a short description for a generated file.
func describeFile(rel string) string {
	descriptions := map[string]string{
		hooks.ConfigName:           "Project metadata and build config",
		"README.md":                "Project overview",
		".gitignore":               "Ignored files",
		".gitlab-ci.yml":           "GitLab CI pipeline",
		".github/workflows/ci.yml": "GitHub Actions workflow",
	}
	if desc, ok := descriptions[rel]; ok {
		return desc
	}

	switch filepath.Base(rel) {
	case "__about__.py":
		return "Package metadata"
	case "cli.py":
		return "Command-line entry point"
	}
	if filepath.Dir(rel) == "tests" {
		return "Test"
	}
	return ""
}

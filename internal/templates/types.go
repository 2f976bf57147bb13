// Package templates loads project templates and renders them into a new
// project directory.
package templates

import (
	"github.com/projgen/cli/internal/params"
)

// Variable is one parameter declared by a template manifest.
type Variable struct {
	// Name is the parameter key referenced from templates as {{.name}}.
	Name string `yaml:"name"`

	// Prompt is the question shown in interactive mode. Variables without a
	// prompt are never asked for.
	Prompt string `yaml:"prompt,omitempty"`

	// Default is itself a template, rendered against the values resolved
	// before this variable.
	Default string `yaml:"default,omitempty"`

	// Choices restricts the value to a fixed list. The first choice is the
	// default when Default is empty.
	Choices []string `yaml:"choices,omitempty"`
}

// DefaultValue returns the unrendered default for v.
func (v Variable) DefaultValue() string {
	if v.Default == "" && len(v.Choices) > 0 {
		return v.Choices[0]
	}
	return v.Default
}

// Manifest is the template.yaml file at the root of a template.
type Manifest struct {
	// Name identifies the template in log output.
	Name string `yaml:"name"`

	// Description explains what the template generates.
	Description string `yaml:"description,omitempty"`

	// Requires is a semver constraint on the projgen version.
	Requires string `yaml:"requires,omitempty"`

	// Variables are resolved in order.
	Variables []Variable `yaml:"variables"`

	// CopyWithoutRender lists path.Match globs for files copied verbatim.
	CopyWithoutRender []string `yaml:"copy_without_render,omitempty"`
}

// Hooks are called around rendering. Either may be nil.
type Hooks struct {
	// PreGenerate validates the resolved parameters before anything is
	// written.
	PreGenerate func(set params.Set) error

	// PostGenerate prunes the rendered project at root.
	PostGenerate func(root string, set params.Set) error
}

// Prompter asks the user for a variable's value.
type Prompter interface {
	// Prompt returns the value for v, offering current as the default.
	Prompt(v Variable, current string) (string, error)
}

// RenderOptions configures a Render call.
type RenderOptions struct {
	// Context holds values that take the place of manifest defaults.
	Context params.Set

	// OutputDir is the directory the project root is created in.
	OutputDir string

	// NonInteractive disables prompting.
	NonInteractive bool

	// Prompter is used when NonInteractive is false.
	Prompter Prompter

	// Hooks run before and after rendering.
	Hooks Hooks
}

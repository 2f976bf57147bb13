// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/projgen/cli/internal/params"
)

// Defaults for the advisory version check.
const (
	DefaultRepository = "projgen/cli"
	DefaultBranch     = "main"
	DefaultAPIURL     = "https://api.github.com"
)

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// nil means on. Override with --timestamps.
	Timestamps *bool `mapstructure:"timestamps"`
}

// VersionCheckConfig controls the advisory check against the upstream
// template repository.
type VersionCheckConfig struct {
	// Enabled turns the check on. Env: PROJGEN_VERSION_CHECK_ENABLED
	Enabled bool `mapstructure:"enabled"`

	// Repository is the GitHub owner/name the template is published under.
	Repository string `mapstructure:"repository" validate:"required,contains=/"`

	// Branch is compared against the local commit.
	Branch string `mapstructure:"branch" validate:"required"`

	// APIURL is the GitHub REST API base.
	APIURL string `mapstructure:"api_url" validate:"required,url"`
}

// Config represents the projgen configuration.
// Loaded from ~/.projgen/config.yaml and PROJGEN_* environment variables.
type Config struct {
	// DefaultContext holds parameter values applied below --extra-context.
	DefaultContext map[string]any `mapstructure:"default_context"`

	// Template is a template directory used instead of the built-in one.
	// Env: PROJGEN_TEMPLATE
	Template string `mapstructure:"template"`

	// Color is one of auto, always, never. Env: PROJGEN_COLOR
	Color string `mapstructure:"color" validate:"omitempty,oneof=auto always never"`

	// Log contains logging-related settings.
	Log LogConfig `mapstructure:"log"`

	// VersionCheck contains the advisory check settings.
	VersionCheck VersionCheckConfig `mapstructure:"version_check"`
}

// DefaultConfig returns a Config with all default values populated.
func DefaultConfig() *Config {
	return &Config{
		Color: "auto",
		VersionCheck: VersionCheckConfig{
			Enabled:    true,
			Repository: DefaultRepository,
			Branch:     DefaultBranch,
			APIURL:     DefaultAPIURL,
		},
	}
}

// Parameters returns the default_context section as a parameter set.
func (c *Config) Parameters() (params.Set, error) {
	if len(c.DefaultContext) == 0 {
		return params.Set{}, nil
	}
	set, err := params.FromMap(c.DefaultContext)
	if err != nil {
		return nil, fmt.Errorf("default_context: %w", err)
	}
	return set, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field values that the YAML decoder cannot.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return newValidationErrors(verrs)
	}
	return err
}

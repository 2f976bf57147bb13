package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one invalid configuration value.
type FieldError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of configuration field errors.
type ValidationErrors []FieldError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		fmt.Fprintf(&sb, "  %s: %s\n", err.Field, err.Message)
	}
	return sb.String()
}

func newValidationErrors(verrs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   configKey(fe.Namespace()),
			Message: describe(fe),
		})
	}
	return out
}

// configKey turns a validator namespace like Config.VersionCheck.APIURL
// into the YAML key path the user wrote.
func configKey(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = fieldKeys[p]
		if parts[i] == "" {
			parts[i] = strings.ToLower(p)
		}
	}
	return strings.Join(parts, ".")
}

var fieldKeys = map[string]string{
	"DefaultContext": "default_context",
	"VersionCheck":   "version_check",
	"APIURL":         "api_url",
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must be set"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "url":
		return fmt.Sprintf("%q is not a URL", fe.Value())
	case "contains":
		return fmt.Sprintf("%q must contain %q", fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}

package templates

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// ErrCancelled is returned when the user aborts an interactive prompt.
var ErrCancelled = errors.New("cancelled by user")

// HuhPrompter asks for each variable with a single-field huh form: a select
// for variables with choices, a text input otherwise.
type HuhPrompter struct {
	// Accessible switches huh to plain line-based prompts.
	Accessible bool
}

// Prompt implements Prompter.
func (p HuhPrompter) Prompt(v Variable, current string) (string, error) {
	value := current

	var field huh.Field
	if len(v.Choices) > 0 {
		opts := make([]huh.Option[string], len(v.Choices))
		for i, c := range v.Choices {
			opts[i] = huh.NewOption(c, c)
		}
		field = huh.NewSelect[string]().
			Title(v.Prompt).
			Options(opts...).
			Value(&value)
	} else {
		field = huh.NewInput().
			Title(v.Prompt).
			Placeholder(current).
			Value(&value)
	}

	form := huh.NewForm(huh.NewGroup(field)).WithAccessible(p.Accessible)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("prompt %s: %w", v.Name, err)
	}

	if strings.TrimSpace(value) == "" {
		return current, nil
	}
	return value, nil
}

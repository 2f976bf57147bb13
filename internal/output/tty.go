package output

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// ColorMode selects when styled output is emitted.
type ColorMode string

const (
	// ColorAuto emits color only when stdout is a terminal and NO_COLOR is unset.
	ColorAuto ColorMode = "auto"

	// ColorAlways always emits color.
	ColorAlways ColorMode = "always"

	// ColorNever never emits color.
	ColorNever ColorMode = "never"
)

// ValidColorModes returns the accepted --color values.
func ValidColorModes() []string {
	return []string{string(ColorAuto), string(ColorAlways), string(ColorNever)}
}

// ParseColorMode parses a --color value. The empty string means auto.
func ParseColorMode(s string) (ColorMode, error) {
	switch ColorMode(strings.ToLower(s)) {
	case "", ColorAuto:
		return ColorAuto, nil
	case ColorAlways:
		return ColorAlways, nil
	case ColorNever:
		return ColorNever, nil
	default:
		return "", fmt.Errorf("invalid color mode %q: must be one of %s", s, strings.Join(ValidColorModes(), ", "))
	}
}

// ColorEnabled resolves a mode against the terminal state.
func ColorEnabled(mode ColorMode, tty bool) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		return tty
	}
}

// IsTTY reports whether stdout is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// IsInteractive reports whether stdin is a terminal, i.e. prompts can be shown.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

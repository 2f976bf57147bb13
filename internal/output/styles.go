package output

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color palette. Never use inline lipgloss.Color literals elsewhere.
var (
	// ColorWhite is the badge foreground.
	ColorWhite = lipgloss.Color("15")

	// ColorGreen is the background of the Passed/Done badge.
	ColorGreen = lipgloss.Color("2")

	// ColorRed is the background of the Failed badge.
	ColorRed = lipgloss.Color("1")

	// ColorCyan is used for identifiable nouns: paths, parameter names.
	ColorCyan = lipgloss.Color("14")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")
)

// Badge labels printed after each hook step.
const (
	LabelPassed = "Passed"
	LabelFailed = "Failed"
	LabelDone   = "Done"
)

// stepNameWidth is the width hook step names are padded to with dots.
const stepNameWidth = 50

// Formatter renders styled strings. Whether color is emitted is decided once,
// when the Formatter is built, and never changes afterwards.
type Formatter struct {
	color    bool
	renderer *lipgloss.Renderer

	pass  lipgloss.Style
	fail  lipgloss.Style
	noun  lipgloss.Style
	bold  lipgloss.Style
	muted lipgloss.Style
	check lipgloss.Style
}

// NewFormatter returns a Formatter that emits ANSI styling only when color is true.
func NewFormatter(color bool) *Formatter {
	r := lipgloss.NewRenderer(io.Discard)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Formatter{
		color:    color,
		renderer: r,
		pass:     r.NewStyle().Foreground(ColorWhite).Background(ColorGreen),
		fail:     r.NewStyle().Foreground(ColorWhite).Background(ColorRed),
		noun:     r.NewStyle().Foreground(ColorCyan),
		bold:     r.NewStyle().Bold(true),
		muted:    r.NewStyle().Faint(true),
		check:    r.NewStyle().Foreground(ColorGreenCheck),
	}
}

// Color reports whether the formatter emits ANSI styling.
func (f *Formatter) Color() bool {
	return f.color
}

// Passed renders the success badge.
func (f *Formatter) Passed() string {
	return f.pass.Render(LabelPassed)
}

// Done renders the badge printed after a post-generation step.
func (f *Formatter) Done() string {
	return f.pass.Render(LabelDone)
}

// Failed renders the failure badge.
func (f *Formatter) Failed() string {
	return f.fail.Render(LabelFailed)
}

// StepName left-aligns name and pads it with dots to a fixed width.
func (f *Formatter) StepName(name string) string {
	if len(name) >= stepNameWidth {
		return name
	}
	return name + strings.Repeat(".", stepNameWidth-len(name))
}

// Noun styles an identifiable noun such as a path.
func (f *Formatter) Noun(s string) string {
	return f.noun.Render(s)
}

// Bold renders s in bold.
func (f *Formatter) Bold(s string) string {
	return f.bold.Render(s)
}

// Muted renders s faint.
func (f *Formatter) Muted(s string) string {
	return f.muted.Render(s)
}

// Checkmark renders a green checkmark followed by msg.
func (f *Formatter) Checkmark(msg string) string {
	return f.check.Render("✔") + " " + msg
}

// Package pretty renders documents and run summaries for the terminal with Lipgloss.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// DefaultWidth is used when the terminal width cannot be determined.
const DefaultWidth = 100

// Styles contains the renderers for CLI output.
type Styles struct {
	color bool

	// Outcomes
	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
	Failure lipgloss.Style

	// Summaries
	FilePath     lipgloss.Style
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style

	// Document preview
	Heading   lipgloss.Style
	Quote     lipgloss.Style
	Code      lipgloss.Style
	Bullet    lipgloss.Style
	Rule      lipgloss.Style
	Embed     lipgloss.Style
	Link      lipgloss.Style
	BlockInfo lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates Styles; with colour disabled every style renders text
// unchanged.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

// ColorEnabled reports whether the styles emit ANSI sequences.
func (s *Styles) ColorEnabled() bool {
	return s.color
}

func newColorStyles() *Styles {
	return &Styles{
		color: true,

		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Failure: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),

		FilePath:     lipgloss.NewStyle().Bold(true),
		SummaryTitle: lipgloss.NewStyle().Bold(true),
		SummaryValue: lipgloss.NewStyle(),

		Heading:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Quote:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		Code:      lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Bullet:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Rule:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Embed:     lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		Link:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Underline(true),
		BlockInfo: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),

		Dim:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Error:        plain,
		Warning:      plain,
		Success:      plain,
		Failure:      plain,
		FilePath:     plain,
		SummaryTitle: plain,
		SummaryValue: plain,
		Heading:      plain,
		Quote:        plain,
		Code:         plain,
		Bullet:       plain,
		Rule:         plain,
		Embed:        plain,
		Link:         plain,
		BlockInfo:    plain,
		Dim:          plain,
		Bold:         plain,
	}
}

// IsColorEnabled resolves a colour mode ("auto", "always", "never") for
// writer. Auto enables colour only on a terminal with NO_COLOR unset.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}

// TerminalWidth returns the width of writer's terminal, or DefaultWidth.
func TerminalWidth(writer io.Writer) int {
	if f, ok := writer.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return DefaultWidth
}

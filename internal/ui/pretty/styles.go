// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

const defaultTermWidth = 100

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// Block kinds
	Heading    lipgloss.Style
	Paragraph  lipgloss.Style
	CodeBlock  lipgloss.Style
	Blockquote lipgloss.Style
	Component  lipgloss.Style

	// Block chrome
	BlockID   lipgloss.Style
	BlockType lipgloss.Style
	Language  lipgloss.Style
	Divider   lipgloss.Style

	// Snapshot components
	ActiveMarker lipgloss.Style
	TagStack     lipgloss.Style
	Cursor       lipgloss.Style

	// Misc
	Success lipgloss.Style
	Failure lipgloss.Style
	Dim     lipgloss.Style
	Bold    lipgloss.Style
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

// newColorStyles creates styles with ANSI 256 colors.
func newColorStyles() *Styles {
	return &Styles{
		Heading:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		Paragraph:  lipgloss.NewStyle(),
		CodeBlock:  lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Blockquote: lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		Component:  lipgloss.NewStyle().Foreground(lipgloss.Color("13")),

		BlockID:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		BlockType: lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Language:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Divider:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),

		ActiveMarker: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		TagStack:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Cursor:       lipgloss.NewStyle().Foreground(lipgloss.Color("8")),

		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Failure: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold:    lipgloss.NewStyle().Bold(true),
	}
}

// newNoColorStyles creates styles with no color formatting.
func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Heading:      plain,
		Paragraph:    plain,
		CodeBlock:    plain,
		Blockquote:   plain,
		Component:    plain,
		BlockID:      plain,
		BlockType:    plain,
		Language:     plain,
		Divider:      plain,
		ActiveMarker: plain,
		TagStack:     plain,
		Cursor:       plain,
		Success:      plain,
		Failure:      plain,
		Dim:          plain,
		Bold:         plain,
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		// Check NO_COLOR environment variable (https://no-color.org/)
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}

// TerminalWidth returns the width of the terminal attached to writer, or
// defaultTermWidth when the writer is not a terminal.
func TerminalWidth(writer io.Writer) int {
	if f, ok := writer.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return defaultTermWidth
}

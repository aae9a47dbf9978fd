package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme is a lipgloss-backed StyleProvider.
type Theme struct {
	styles    map[SemanticType]lipgloss.Style
	available bool
}

// NewTheme builds the unilang color theme for the given color profile.
// The theme is unavailable on an ASCII profile, so printers fall back to plain text.
func NewTheme(profile termenv.Profile) *Theme {
	renderer := lipgloss.NewRenderer(io.Discard)
	renderer.SetColorProfile(profile)

	return &Theme{
		available: profile != termenv.Ascii,
		styles: map[SemanticType]lipgloss.Style{
			SemanticPlain:    renderer.NewStyle(),
			SemanticInfo:     renderer.NewStyle().Foreground(lipgloss.Color("12")),
			SemanticSuccess:  renderer.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
			SemanticWarning:  renderer.NewStyle().Foreground(lipgloss.Color("11")),
			SemanticError:    renderer.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			SemanticCommand:  renderer.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
			SemanticArgument: renderer.NewStyle().Foreground(lipgloss.Color("13")),
			SemanticValue:    renderer.NewStyle().Foreground(lipgloss.Color("15")),
			SemanticKind:     renderer.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
			SemanticCode:     renderer.NewStyle().Foreground(lipgloss.Color("9")),
			SemanticHint:     renderer.NewStyle().Foreground(lipgloss.Color("11")).Italic(true),
		},
	}
}

// DetectTheme builds a theme for the color profile of standard output.
// NO_COLOR and a non-terminal stdout both yield an unavailable theme.
func DetectTheme() *Theme {
	return NewTheme(termenv.NewOutput(os.Stdout).EnvColorProfile())
}

// GetStyle implements StyleProvider.
func (t *Theme) GetStyle(semantic string) TextStyle {
	if style, ok := t.styles[SemanticType(semantic)]; ok {
		return lipglossStyle{style}
	}
	return lipglossStyle{t.styles[SemanticPlain]}
}

// lipglossStyle adapts a lipgloss.Style to TextStyle.
type lipglossStyle struct {
	style lipgloss.Style
}

func (l lipglossStyle) Render(text string) string {
	return l.style.Render(text)
}

// IsAvailable implements StyleProvider.
func (t *Theme) IsAvailable() bool {
	return t.available
}

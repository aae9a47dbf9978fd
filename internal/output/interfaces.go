// Package output provides the console output system for unilang.
// Printers render plain text by default and apply lipgloss styles when a
// StyleProvider is available and the terminal supports color.
package output

// StyleProvider supplies styles for semantic output categories.
// The output package depends only on this interface, not on a concrete theme.
type StyleProvider interface {
	// GetStyle returns a TextStyle for the given semantic type.
	GetStyle(semantic string) TextStyle

	// IsAvailable returns true if the provider can style text.
	// Printers fall back to plain text otherwise.
	IsAvailable() bool
}

// TextStyle renders text with styling.
type TextStyle interface {
	Render(text string) string
}

// Mode defines the output modes a printer can operate in.
type Mode int

const (
	// ModeAuto styles output when a StyleProvider is available.
	ModeAuto Mode = iota

	// ModeStyled forces styled output.
	ModeStyled

	// ModePlain forces plain text output.
	ModePlain

	// ModeJSON outputs one JSON object per line for machine consumption.
	ModeJSON
)

// SemanticType defines the semantic meaning of output for consistent styling.
type SemanticType string

const (
	// SemanticPlain represents plain text without any semantic meaning.
	SemanticPlain SemanticType = "plain"
	// SemanticInfo represents informational text.
	SemanticInfo SemanticType = "info"
	// SemanticSuccess represents a successful analysis.
	SemanticSuccess SemanticType = "success"
	// SemanticWarning represents warning text.
	SemanticWarning SemanticType = "warning"
	// SemanticError represents error text.
	SemanticError SemanticType = "error"

	// SemanticCommand represents a command path.
	SemanticCommand SemanticType = "command"
	// SemanticArgument represents an argument name.
	SemanticArgument SemanticType = "argument"
	// SemanticValue represents a bound argument value.
	SemanticValue SemanticType = "value"
	// SemanticKind represents a kind annotation.
	SemanticKind SemanticType = "kind"
	// SemanticCode represents an error code.
	SemanticCode SemanticType = "code"
	// SemanticHint represents a suggestion or hint.
	SemanticHint SemanticType = "hint"
)

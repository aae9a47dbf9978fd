// Package semantic turns raw instructions into verified commands.
//
// An Analyzer resolves the command path, binds raw values to the declared
// arguments, coerces them to their kinds and validates them. Problems found in
// any stage are collected, so one call reports everything wrong with an
// instruction.
package semantic

// State is a stage of the analysis state machine.
type State int

const (
	// StateResolvingCommand - Looking up the command path in the catalog
	StateResolvingCommand State = iota
	// StateBinding - Matching named and positional values to declared arguments
	StateBinding
	// StateCoercing - Converting bound raw values to typed values
	StateCoercing
	// StateValidating - Evaluating validation rules against coerced values
	StateValidating
	// StateDone - Analysis finished with a verified command
	StateDone
	// StateFailed - Analysis finished with one or more errors
	StateFailed
)

// String returns a human-readable representation of the analysis state.
func (s State) String() string {
	switch s {
	case StateResolvingCommand:
		return "ResolvingCommand"
	case StateBinding:
		return "Binding"
	case StateCoercing:
		return "Coercing"
	case StateValidating:
		return "Validating"
	case StateDone:
		return "Done"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// IsTerminal reports whether the state ends the analysis.
func (s State) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}

// Suggester is implemented by catalogs that can propose a close command name
// when a lookup fails.
type Suggester interface {
	Suggest(name string) (string, bool)
}

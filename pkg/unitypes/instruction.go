package unitypes

import "strings"

// NamedArgument is one name::value occurrence in an instruction.
type NamedArgument struct {
	Name  string
	Value string
}

// RawInstruction is an already tokenized command invocation.
// It is read-only input to the semantic engine.
type RawInstruction struct {
	// Path holds the command path segments, e.g. ["math", "add"].
	Path []string
	// Named holds named values in encounter order. A name may repeat.
	Named []NamedArgument
	// Positional holds unnamed values in order.
	Positional []string
}

// NamedValues returns every value supplied under name, in encounter order.
func (r RawInstruction) NamedValues(name string) []string {
	var values []string
	for _, n := range r.Named {
		if n.Name == name {
			values = append(values, n.Value)
		}
	}
	return values
}

// String renders the instruction in command-line form for logs.
func (r RawInstruction) String() string {
	var b strings.Builder
	b.WriteString(".")
	b.WriteString(strings.TrimPrefix(strings.Join(r.Path, "."), "."))
	for _, p := range r.Positional {
		b.WriteString(" ")
		b.WriteString(p)
	}
	for _, n := range r.Named {
		b.WriteString(" ")
		b.WriteString(n.Name)
		b.WriteString("::")
		b.WriteString(n.Value)
	}
	return b.String()
}

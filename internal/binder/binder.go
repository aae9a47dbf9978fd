// Package binder matches the raw values of an instruction to the arguments a
// command declares. It decides which raw strings belong to which argument but
// performs no type coercion.
package binder

import (
	"fmt"
	"strings"

	"unilang/internal/logger"
	"unilang/internal/suggest"
	"unilang/pkg/unitypes"
)

// Source records where a bound raw value came from.
type Source int

const (
	// SourceNamed means the value was supplied as name::value.
	SourceNamed Source = iota
	// SourcePositional means the value was supplied without a name.
	SourcePositional
	// SourceDefault means the declared default was applied.
	SourceDefault
)

// String returns a human-readable name for the source.
func (s Source) String() string {
	switch s {
	case SourceNamed:
		return "named"
	case SourcePositional:
		return "positional"
	case SourceDefault:
		return "default"
	default:
		return "unknown"
	}
}

// Binding is the raw input assigned to one argument.
type Binding struct {
	Argument *unitypes.ArgumentDefinition
	// Raw holds at least one raw value. Only Multiple arguments hold more than one.
	Raw    []string
	Source Source
}

// Bindings holds the bound arguments of one instruction in definition order.
type Bindings struct {
	items []*Binding
	index map[string]*Binding
}

func newBindings() *Bindings {
	return &Bindings{index: make(map[string]*Binding)}
}

func (b *Bindings) set(binding *Binding) {
	if existing, ok := b.index[binding.Argument.Name]; ok {
		*existing = *binding
		return
	}
	b.items = append(b.items, binding)
	b.index[binding.Argument.Name] = binding
}

// Get returns the binding of the argument with the given primary name.
func (b *Bindings) Get(name string) (*Binding, bool) {
	binding, ok := b.index[name]
	return binding, ok
}

// All returns every binding in the order it was first made.
func (b *Bindings) All() []*Binding {
	return b.items
}

// Len returns the number of bound arguments.
func (b *Bindings) Len() int {
	return len(b.items)
}

// argState tracks the outcome for one declared argument while binding.
type argState struct {
	arg      *unitypes.ArgumentDefinition
	binding  *Binding
	repeated []string
}

// Bind assigns the raw values of instr to the arguments of def.
//
// For each argument, in declaration order, it takes named values (primary name
// or alias), then the next positional value unless the argument is named-only,
// then the declared default. Positional values left over afterwards go to the
// default positional argument when there is one. All problems are returned;
// binding never stops at the first one.
func Bind(def *unitypes.CommandDefinition, instr unitypes.RawInstruction) (*Bindings, []*unitypes.SemanticError) {
	matched := make([]bool, len(instr.Named))
	states := make([]*argState, len(def.Arguments))
	pos := 0

	for i, arg := range def.Arguments {
		st := &argState{arg: arg}
		states[i] = st

		var named []string
		for j, n := range instr.Named {
			if arg.Matches(n.Name) {
				named = append(named, n.Value)
				matched[j] = true
			}
		}

		switch {
		case len(named) > 1 && !arg.Multiple:
			st.repeated = named
		case len(named) > 0:
			st.binding = &Binding{Argument: arg, Raw: named, Source: SourceNamed}
		case !arg.NamedOnly && pos < len(instr.Positional):
			take := 1
			if arg.Multiple {
				take = len(instr.Positional) - pos
			}
			st.binding = &Binding{
				Argument: arg,
				Raw:      append([]string(nil), instr.Positional[pos:pos+take]...),
				Source:   SourcePositional,
			}
			pos += take
		case arg.HasDefault():
			st.binding = &Binding{Argument: arg, Raw: []string{*arg.Default}, Source: SourceDefault}
		}
	}

	leftover := instr.Positional[pos:]
	leftover = absorb(states, leftover)

	var errs []*unitypes.SemanticError
	bindings := newBindings()
	for _, st := range states {
		switch {
		case st.repeated != nil:
			errs = append(errs, repeatedError(def, st.arg, st.repeated))
		case st.binding != nil:
			bindings.set(st.binding)
		case !st.arg.Optional:
			errs = append(errs, missingError(def, st.arg))
		}
	}

	if len(leftover) > 0 {
		errs = append(errs, &unitypes.SemanticError{
			Code:    unitypes.CodeTooManyArguments,
			Command: def.Name,
			Values:  append([]string(nil), leftover...),
			Message: fmt.Sprintf("too many positional arguments for '%s': %d unexpected value(s) %s",
				def.Name, len(leftover), quoteAll(leftover)),
		})
	}

	for j, n := range instr.Named {
		if !matched[j] {
			errs = append(errs, unknownError(def, n))
		}
	}

	return bindings, errs
}

// absorb hands leftover positional values to the default positional argument
// and returns what is still unconsumed.
func absorb(states []*argState, leftover []string) []string {
	if len(leftover) == 0 {
		return leftover
	}
	var target *argState
	for _, st := range states {
		if st.arg.DefaultPositional {
			target = st
			break
		}
	}
	if target == nil || target.repeated != nil {
		return leftover
	}

	b := target.binding
	unboundOrDefault := b == nil || b.Source == SourceDefault

	if target.arg.Multiple {
		if unboundOrDefault {
			target.binding = &Binding{Argument: target.arg, Raw: append([]string(nil), leftover...), Source: SourcePositional}
		} else {
			b.Raw = append(b.Raw, leftover...)
		}
		return nil
	}

	if unboundOrDefault {
		target.binding = &Binding{Argument: target.arg, Raw: []string{leftover[0]}, Source: SourcePositional}
		return leftover[1:]
	}
	return leftover
}

func repeatedError(def *unitypes.CommandDefinition, arg *unitypes.ArgumentDefinition, values []string) *unitypes.SemanticError {
	shown := quoteAll(values)
	kept := append([]string(nil), values...)
	if arg.Sensitive {
		shown = logger.RedactedValue
		kept = nil
	}
	return &unitypes.SemanticError{
		Code:     unitypes.CodeTooManyArguments,
		Command:  def.Name,
		Argument: arg.Name,
		Values:   kept,
		Redacted: arg.Sensitive,
		Message: fmt.Sprintf("argument '%s' accepts a single value but was given %d: %s",
			arg.Name, len(values), shown),
	}
}

func missingError(def *unitypes.CommandDefinition, arg *unitypes.ArgumentDefinition) *unitypes.SemanticError {
	if arg.Interactive {
		return &unitypes.SemanticError{
			Code:     unitypes.CodeInteractiveArgumentRequired,
			Command:  def.Name,
			Argument: arg.Name,
			Message:  fmt.Sprintf("argument '%s' of '%s' requires interactive input", arg.Name, def.Name),
		}
	}
	msg := fmt.Sprintf("missing required argument '%s' for '%s'", arg.Name, def.Name)
	if arg.Hint != "" {
		msg += " (" + arg.Hint + ")"
	}
	return &unitypes.SemanticError{
		Code:     unitypes.CodeMissingArgument,
		Command:  def.Name,
		Argument: arg.Name,
		Message:  msg,
	}
}

func unknownError(def *unitypes.CommandDefinition, n unitypes.NamedArgument) *unitypes.SemanticError {
	var names []string
	for _, arg := range def.Arguments {
		names = append(names, arg.Names()...)
	}
	err := &unitypes.SemanticError{
		Code:     unitypes.CodeUnknownArgument,
		Command:  def.Name,
		Argument: n.Name,
		Values:   []string{n.Value},
		Message:  fmt.Sprintf("unknown argument '%s' for '%s'", n.Name, def.Name),
	}
	if s, ok := suggest.Closest(n.Name, names); ok {
		err.Suggestion = s
		err.Message += fmt.Sprintf(". Did you mean '%s'?", s)
	}
	return err
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, ", ")
}

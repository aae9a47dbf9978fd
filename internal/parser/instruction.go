// Package parser turns command lines into raw instructions.
//
// A line holds a dotted command path followed by positional values and
// name::value pairs. Values containing spaces are wrapped in single or double
// quotes. Several instructions may share one line when separated by ";;".
//
//	.files.copy "my file.txt" dest::/tmp ;; .math.add 1 2
package parser

import (
	"errors"
	"fmt"
	"strings"

	"unilang/pkg/unitypes"
)

// Separator splits the instructions of a program.
const Separator = ";;"

// NamedMarker separates an argument name from its value.
const NamedMarker = "::"

var (
	// ErrEmptyInstruction is returned for a blank line or an empty ";;" slot.
	ErrEmptyInstruction = errors.New("empty instruction")
	// ErrUnterminatedQuote is returned when a quoted value is not closed.
	ErrUnterminatedQuote = errors.New("unterminated quote")
	// ErrMissingPath is returned when an instruction starts with a value instead of a command path.
	ErrMissingPath = errors.New("instruction must start with a command path")
	// ErrEmptyArgumentName is returned for a "::value" token.
	ErrEmptyArgumentName = errors.New("argument name cannot be empty")
	// ErrMultipleInstructions is returned by ParseInstruction when the line holds a program.
	ErrMultipleInstructions = errors.New("expected a single instruction")
)

// token is one word of an instruction.
type token struct {
	text   string
	name   string
	named  bool
	quoted bool
}

// ParseProgram splits input on ";;" and parses every instruction.
func ParseProgram(input string) ([]unitypes.RawInstruction, error) {
	groups, err := tokenize(input)
	if err != nil {
		return nil, err
	}

	instructions := make([]unitypes.RawInstruction, 0, len(groups))
	for i, tokens := range groups {
		instr, err := build(tokens)
		if err != nil {
			if len(groups) > 1 {
				return nil, fmt.Errorf("instruction %d: %w", i+1, err)
			}
			return nil, err
		}
		instructions = append(instructions, instr)
	}
	return instructions, nil
}

// ParseInstruction parses a line holding exactly one instruction.
func ParseInstruction(input string) (unitypes.RawInstruction, error) {
	instructions, err := ParseProgram(input)
	if err != nil {
		return unitypes.RawInstruction{}, err
	}
	if len(instructions) != 1 {
		return unitypes.RawInstruction{}, fmt.Errorf("%w, got %d", ErrMultipleInstructions, len(instructions))
	}
	return instructions[0], nil
}

// SplitPath splits a dotted command path into its segments.
// The leading dot is optional: ".math.add" and "math.add" give the same segments.
func SplitPath(path string) []string {
	return strings.Split(strings.TrimPrefix(path, "."), ".")
}

func build(tokens []token) (unitypes.RawInstruction, error) {
	if len(tokens) == 0 {
		return unitypes.RawInstruction{}, ErrEmptyInstruction
	}
	head := tokens[0]
	if head.named || head.quoted {
		return unitypes.RawInstruction{}, fmt.Errorf("%w, got %q", ErrMissingPath, head.text)
	}

	instr := unitypes.RawInstruction{Path: SplitPath(head.text)}
	for _, tok := range tokens[1:] {
		if !tok.named {
			instr.Positional = append(instr.Positional, tok.text)
			continue
		}
		if tok.name == "" {
			return unitypes.RawInstruction{}, fmt.Errorf("%w: %q", ErrEmptyArgumentName, NamedMarker+tok.text)
		}
		instr.Named = append(instr.Named, unitypes.NamedArgument{Name: tok.name, Value: tok.text})
	}
	return instr, nil
}

// tokenize splits input into words grouped per instruction. Quotes group
// characters and are removed; inside double quotes a backslash escapes the
// next character. A "::" outside quotes marks the text before it as a name.
func tokenize(input string) ([][]token, error) {
	var (
		groups  [][]token
		current []token
		word    strings.Builder
		tok     token
		started bool
	)

	flushWord := func() {
		if started {
			tok.text = word.String()
			current = append(current, tok)
		}
		word.Reset()
		tok = token{}
		started = false
	}
	flushGroup := func() {
		flushWord()
		groups = append(groups, current)
		current = nil
	}

	for i := 0; i < len(input); i++ {
		c := input[i]
		switch {
		case c == '"' || c == '\'':
			end, err := readQuoted(input, i, &word)
			if err != nil {
				return nil, err
			}
			started = true
			tok.quoted = true
			i = end
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			flushWord()
		case strings.HasPrefix(input[i:], Separator):
			flushGroup()
			i += len(Separator) - 1
		case !tok.named && !tok.quoted && strings.HasPrefix(input[i:], NamedMarker):
			tok.named = true
			tok.name = word.String()
			word.Reset()
			started = true
			i += len(NamedMarker) - 1
		default:
			word.WriteByte(c)
			started = true
		}
	}
	flushWord()
	if len(current) > 0 || len(groups) > 0 {
		groups = append(groups, current)
	}
	if len(groups) == 0 {
		return nil, ErrEmptyInstruction
	}
	return groups, nil
}

// readQuoted copies the quoted text opening at start into word and returns
// the index of the closing quote.
func readQuoted(input string, start int, word *strings.Builder) (int, error) {
	quote := input[start]
	for i := start + 1; i < len(input); i++ {
		c := input[i]
		if quote == '"' && c == '\\' && i+1 < len(input) {
			i++
			word.WriteByte(input[i])
			continue
		}
		if c == quote {
			return i, nil
		}
		word.WriteByte(c)
	}
	return 0, fmt.Errorf("%w: %c opened at offset %d", ErrUnterminatedQuote, quote, start)
}

package unitypes

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies a semantic error.
type ErrorCode int

const (
	// CodeCommandNotFound means the command path matched no catalog entry.
	CodeCommandNotFound ErrorCode = iota
	// CodeMissingArgument means a required argument received no value.
	CodeMissingArgument
	// CodeInteractiveArgumentRequired means a required interactive argument must be prompted for.
	CodeInteractiveArgumentRequired
	// CodeUnknownArgument means a named value matched no argument or alias.
	CodeUnknownArgument
	// CodeTooManyArguments means excess positional values or a repeated single-valued name.
	CodeTooManyArguments
	// CodeTypeConversion means a raw value could not be coerced to its kind.
	CodeTypeConversion
	// CodeValidationRuleFailed means a coerced value violated a validation rule.
	CodeValidationRuleFailed
)

// String returns the stable identifier of the code.
func (c ErrorCode) String() string {
	switch c {
	case CodeCommandNotFound:
		return "UNILANG_COMMAND_NOT_FOUND"
	case CodeMissingArgument:
		return "UNILANG_ARGUMENT_MISSING"
	case CodeInteractiveArgumentRequired:
		return "UNILANG_ARGUMENT_INTERACTIVE_REQUIRED"
	case CodeUnknownArgument:
		return "UNILANG_UNKNOWN_PARAMETER"
	case CodeTooManyArguments:
		return "UNILANG_TOO_MANY_ARGUMENTS"
	case CodeTypeConversion:
		return "UNILANG_TYPE_MISMATCH"
	case CodeValidationRuleFailed:
		return "UNILANG_VALIDATION_RULE_FAILED"
	default:
		return "UNILANG_UNKNOWN_ERROR"
	}
}

// Sentinel errors, one per code, for errors.Is matching.
var (
	ErrCommandNotFound             = errors.New("command not found")
	ErrMissingArgument             = errors.New("missing argument")
	ErrInteractiveArgumentRequired = errors.New("interactive argument required")
	ErrUnknownArgument             = errors.New("unknown argument")
	ErrTooManyArguments            = errors.New("too many arguments")
	ErrTypeConversion              = errors.New("type conversion failed")
	ErrValidationRuleFailed        = errors.New("validation rule failed")
)

var sentinels = map[ErrorCode]error{
	CodeCommandNotFound:             ErrCommandNotFound,
	CodeMissingArgument:             ErrMissingArgument,
	CodeInteractiveArgumentRequired: ErrInteractiveArgumentRequired,
	CodeUnknownArgument:             ErrUnknownArgument,
	CodeTooManyArguments:            ErrTooManyArguments,
	CodeTypeConversion:              ErrTypeConversion,
	CodeValidationRuleFailed:        ErrValidationRuleFailed,
}

// TypeError is a coercion failure.
type TypeError struct {
	// Literal is the raw text that failed to coerce.
	Literal string
	// Expected is the kind the literal was coerced to.
	Expected Kind
	// Reason is a human-readable explanation, often the underlying parser's message.
	Reason string
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("cannot convert '%s' to %s: %s", e.Literal, e.Expected, e.Reason)
}

// Unwrap returns ErrTypeConversion.
func (e *TypeError) Unwrap() error {
	return ErrTypeConversion
}

// ValidationError is a single rule violation.
type ValidationError struct {
	Rule ValidationRule
	// Value is a rendering of the offending value.
	Value string
	// Reason explains the violation.
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("rule %s failed: %s", e.Rule, e.Reason)
}

// Unwrap returns ErrValidationRuleFailed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationRuleFailed
}

// SemanticError is one problem found while analysing an instruction.
type SemanticError struct {
	Code ErrorCode
	// Command is the canonical path being analysed.
	Command string
	// Argument is the argument the error concerns, when there is one.
	Argument string
	// Values holds the offending raw values (unknown names, excess positionals).
	Values []string
	// Suggestion is a close match for a misspelled name.
	Suggestion string
	// Type is set for CodeTypeConversion.
	Type *TypeError
	// Violation is set for CodeValidationRuleFailed.
	Violation *ValidationError
	// Redacted hides raw values in the message for sensitive arguments.
	Redacted bool
	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *SemanticError) Error() string {
	return e.Code.String() + ": " + e.Message
}

// Unwrap returns the sentinel error for the code.
func (e *SemanticError) Unwrap() error {
	return sentinels[e.Code]
}

// Is matches another *SemanticError by code.
func (e *SemanticError) Is(target error) bool {
	var other *SemanticError
	if errors.As(target, &other) {
		return other.Code == e.Code
	}
	return false
}

// ErrorList is the complete, ordered list of problems found in one analysis.
type ErrorList []*SemanticError

// Error joins every message, one per line.
func (l ErrorList) Error() string {
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}

// Codes returns the code of every error, in order.
func (l ErrorList) Codes() []ErrorCode {
	codes := make([]ErrorCode, len(l))
	for i, e := range l {
		codes[i] = e.Code
	}
	return codes
}

// ByCode returns the errors carrying code.
func (l ErrorList) ByCode(code ErrorCode) ErrorList {
	var out ErrorList
	for _, e := range l {
		if e.Code == code {
			out = append(out, e)
		}
	}
	return out
}

// AsErrorList extracts the error list from err, if it carries one.
func AsErrorList(err error) (ErrorList, bool) {
	var list ErrorList
	if errors.As(err, &list) {
		return list, true
	}
	return nil, false
}

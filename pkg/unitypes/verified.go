package unitypes

import (
	"fmt"
	"sort"
)

// VerifiedCommand is a fully bound, coerced and validated command ready for execution.
// It must not be modified once returned by the analyzer.
type VerifiedCommand struct {
	// Definition is shared with the catalog.
	Definition *CommandDefinition
	// Name is the interned path the instruction resolved through.
	Name *InternedName
	// Arguments holds the final value of every bound or defaulted argument.
	Arguments map[string]Value
}

// Has reports whether a value is present for the argument.
func (v *VerifiedCommand) Has(name string) bool {
	_, ok := v.Arguments[name]
	return ok
}

// Value returns the raw Value of an argument.
func (v *VerifiedCommand) Value(name string) (Value, bool) {
	val, ok := v.Arguments[name]
	return val, ok
}

// ArgumentNames returns the names of all present arguments, sorted.
func (v *VerifiedCommand) ArgumentNames() []string {
	names := make([]string, 0, len(v.Arguments))
	for name := range v.Arguments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetString returns a string-like argument (String, Enum, Path, JsonString).
func (v *VerifiedCommand) GetString(name string) (string, bool) {
	switch val := v.Arguments[name].(type) {
	case StringValue:
		return string(val), true
	case EnumValue:
		return string(val), true
	case PathValue:
		return string(val), true
	case JSONStringValue:
		return string(val), true
	default:
		return "", false
	}
}

// GetInteger returns an Integer argument.
func (v *VerifiedCommand) GetInteger(name string) (int64, bool) {
	val, ok := v.Arguments[name].(IntegerValue)
	return int64(val), ok
}

// GetFloat returns a Float argument. Integer values are widened.
func (v *VerifiedCommand) GetFloat(name string) (float64, bool) {
	switch val := v.Arguments[name].(type) {
	case FloatValue:
		return float64(val), true
	case IntegerValue:
		return float64(val), true
	default:
		return 0, false
	}
}

// GetBoolean returns a Boolean argument.
func (v *VerifiedCommand) GetBoolean(name string) (bool, bool) {
	val, ok := v.Arguments[name].(BooleanValue)
	return bool(val), ok
}

// GetPath returns a Path argument.
func (v *VerifiedCommand) GetPath(name string) (string, bool) {
	val, ok := v.Arguments[name].(PathValue)
	return string(val), ok
}

// GetList returns a List argument.
func (v *VerifiedCommand) GetList(name string) (ListValue, bool) {
	val, ok := v.Arguments[name].(ListValue)
	return val, ok
}

// RequireString is GetString with an error when absent or of another type.
func (v *VerifiedCommand) RequireString(name string) (string, error) {
	if s, ok := v.GetString(name); ok {
		return s, nil
	}
	return "", v.accessError(name, "string")
}

// RequireInteger is GetInteger with an error when absent or of another type.
func (v *VerifiedCommand) RequireInteger(name string) (int64, error) {
	if i, ok := v.GetInteger(name); ok {
		return i, nil
	}
	return 0, v.accessError(name, "integer")
}

// RequireFloat is GetFloat with an error when absent or of another type.
func (v *VerifiedCommand) RequireFloat(name string) (float64, error) {
	if f, ok := v.GetFloat(name); ok {
		return f, nil
	}
	return 0, v.accessError(name, "float")
}

// RequireBoolean is GetBoolean with an error when absent or of another type.
func (v *VerifiedCommand) RequireBoolean(name string) (bool, error) {
	if b, ok := v.GetBoolean(name); ok {
		return b, nil
	}
	return false, v.accessError(name, "boolean")
}

// RequireList is GetList with an error when absent or of another type.
func (v *VerifiedCommand) RequireList(name string) (ListValue, error) {
	if l, ok := v.GetList(name); ok {
		return l, nil
	}
	return nil, v.accessError(name, "list")
}

func (v *VerifiedCommand) accessError(name, want string) error {
	if _, ok := v.Arguments[name]; !ok {
		return fmt.Errorf("argument '%s' is not present", name)
	}
	return fmt.Errorf("argument '%s' is not a %s value", name, want)
}

package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"unilang/internal/coercion"
	"unilang/pkg/unitypes"
)

// ErrInvalidDefinition is wrapped by every registration validation failure.
var ErrInvalidDefinition = errors.New("invalid command definition")

// ValidateDefinition checks a definition for internal consistency.
// Failures here are authoring mistakes, not user input errors.
func ValidateDefinition(def *unitypes.CommandDefinition) error {
	if err := validatePath(def.Name); err != nil {
		return invalid(def.Name, "%v", err)
	}
	for _, alias := range def.Aliases {
		if err := validatePath(alias); err != nil {
			return invalid(def.Name, "alias %v", err)
		}
		if alias == def.Name {
			return invalid(def.Name, "alias %s repeats the command name", alias)
		}
	}
	if !def.Status.IsValid() {
		return invalid(def.Name, "unknown status %q", def.Status)
	}
	if def.Version != "" {
		if _, err := semver.NewVersion(def.Version); err != nil {
			return invalid(def.Name, "version %q is not a semantic version: %v", def.Version, err)
		}
	}

	seen := make(map[string]string)
	defaultPositional := ""
	for i, arg := range def.Arguments {
		if arg == nil {
			return invalid(def.Name, "argument %d is nil", i)
		}
		if err := validateArgument(arg); err != nil {
			return invalid(def.Name, "argument '%s': %v", arg.Name, err)
		}
		for _, name := range arg.Names() {
			if owner, dup := seen[name]; dup {
				return invalid(def.Name, "name '%s' of argument '%s' is already used by argument '%s'", name, arg.Name, owner)
			}
			seen[name] = arg.Name
		}
		if arg.DefaultPositional {
			if defaultPositional != "" {
				return invalid(def.Name, "arguments '%s' and '%s' are both default positional", defaultPositional, arg.Name)
			}
			defaultPositional = arg.Name
		}
	}
	return nil
}

func validateArgument(arg *unitypes.ArgumentDefinition) error {
	if arg.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if strings.ContainsAny(arg.Name, " \t:") {
		return fmt.Errorf("name must not contain whitespace or ':'")
	}
	if err := arg.Kind.Validate(); err != nil {
		return fmt.Errorf("kind %s: %w", arg.Kind, err)
	}
	if arg.Default != nil {
		if !arg.Optional {
			return fmt.Errorf("only optional arguments may declare a default")
		}
		if _, typeErr := coercion.Coerce(*arg.Default, arg.Kind); typeErr != nil {
			return fmt.Errorf("default %w", typeErr)
		}
	}
	if arg.DefaultPositional && arg.NamedOnly {
		return fmt.Errorf("a named-only argument cannot be the default positional target")
	}
	for _, rule := range arg.Rules {
		if rule.Type == unitypes.RulePattern {
			if _, err := coercion.Coerce(rule.Pattern, unitypes.Simple(unitypes.KindPattern)); err != nil {
				return fmt.Errorf("rule %s: %w", rule, err)
			}
		}
	}
	return nil
}

// validatePath checks a dotted command path such as ".math.add".
func validatePath(path string) error {
	if !strings.HasPrefix(path, ".") {
		return fmt.Errorf("path %q must start with '.'", path)
	}
	if path == "." {
		return fmt.Errorf("path %q has no segments", path)
	}
	for _, segment := range strings.Split(path[1:], ".") {
		if segment == "" {
			return fmt.Errorf("path %q has an empty segment", path)
		}
		if strings.ContainsAny(segment, " \t:") {
			return fmt.Errorf("path %q contains whitespace or ':'", path)
		}
	}
	return nil
}

func invalid(command string, format string, args ...interface{}) error {
	return fmt.Errorf("%w %s: %s", ErrInvalidDefinition, command, fmt.Sprintf(format, args...))
}

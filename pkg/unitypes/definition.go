package unitypes

import (
	"fmt"
	"strings"
)

// CommandStatus is the lifecycle stage of a command.
type CommandStatus string

const (
	// StatusActive is a stable command.
	StatusActive CommandStatus = "active"
	// StatusDeprecated is a command scheduled for removal.
	StatusDeprecated CommandStatus = "deprecated"
	// StatusExperimental is a command whose interface may change.
	StatusExperimental CommandStatus = "experimental"
	// StatusInternal is a command not meant for end users.
	StatusInternal CommandStatus = "internal"
)

// IsValid reports whether the status is one of the defined values.
// The zero value is valid and treated as active.
func (s CommandStatus) IsValid() bool {
	switch s {
	case "", StatusActive, StatusDeprecated, StatusExperimental, StatusInternal:
		return true
	default:
		return false
	}
}

// ArgumentDefinition declares one argument of a command.
// Definitions are created at registration time and never mutated afterwards.
type ArgumentDefinition struct {
	Name        string `yaml:"name" json:"name"`
	Kind        Kind   `yaml:"kind" json:"kind"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Hint        string `yaml:"hint,omitempty" json:"hint,omitempty"`
	// Optional arguments may be omitted; only they may carry a Default.
	Optional bool `yaml:"optional,omitempty" json:"optional,omitempty"`
	// Multiple arguments accept repeated values and produce a List.
	Multiple bool `yaml:"multiple,omitempty" json:"multiple,omitempty"`
	// Default is the raw value used when the argument is absent.
	Default *string `yaml:"default,omitempty" json:"default,omitempty"`
	// Aliases are additional case-sensitive names for the argument.
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	// Rules are evaluated against the coerced value.
	Rules []ValidationRule `yaml:"validation_rules,omitempty" json:"validation_rules,omitempty"`
	// DefaultPositional marks the argument that absorbs trailing positional values.
	DefaultPositional bool `yaml:"default_positional,omitempty" json:"default_positional,omitempty"`
	// NamedOnly arguments never take positional values.
	NamedOnly bool `yaml:"named_only,omitempty" json:"named_only,omitempty"`
	// Sensitive values are redacted from logs and rendered output.
	Sensitive bool `yaml:"sensitive,omitempty" json:"sensitive,omitempty"`
	// Interactive arguments must be supplied by prompting the user.
	Interactive bool `yaml:"interactive,omitempty" json:"interactive,omitempty"`
}

// Matches reports whether name is the argument's primary name or one of its aliases.
func (a *ArgumentDefinition) Matches(name string) bool {
	if a.Name == name {
		return true
	}
	for _, alias := range a.Aliases {
		if alias == name {
			return true
		}
	}
	return false
}

// Names returns the primary name followed by the aliases.
func (a *ArgumentDefinition) Names() []string {
	return append([]string{a.Name}, a.Aliases...)
}

// HasDefault reports whether a default raw value is declared.
func (a *ArgumentDefinition) HasDefault() bool {
	return a.Default != nil
}

// CommandDefinition declares a command. It is owned by the catalog and
// shared read-only with every analysis that resolves to it.
type CommandDefinition struct {
	// Name is the canonical dotted path, for example ".math.add".
	Name        string                `yaml:"name" json:"name"`
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Hint        string                `yaml:"hint,omitempty" json:"hint,omitempty"`
	Arguments   []*ArgumentDefinition `yaml:"arguments,omitempty" json:"arguments,omitempty"`
	// Aliases are additional dotted paths that resolve to this command.
	Aliases            []string      `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Status             CommandStatus `yaml:"status,omitempty" json:"status,omitempty"`
	Version            string        `yaml:"version,omitempty" json:"version,omitempty"`
	DeprecationMessage string        `yaml:"deprecation_message,omitempty" json:"deprecation_message,omitempty"`
	Tags               []string      `yaml:"tags,omitempty" json:"tags,omitempty"`
	Examples           []string      `yaml:"examples,omitempty" json:"examples,omitempty"`
}

// Argument returns the argument declared under name or one of its aliases.
func (c *CommandDefinition) Argument(name string) (*ArgumentDefinition, bool) {
	for _, arg := range c.Arguments {
		if arg.Matches(name) {
			return arg, true
		}
	}
	return nil, false
}

// DefaultPositionalArgument returns the argument flagged as default positional target, if any.
func (c *CommandDefinition) DefaultPositionalArgument() *ArgumentDefinition {
	for _, arg := range c.Arguments {
		if arg.DefaultPositional {
			return arg
		}
	}
	return nil
}

// IsDeprecated reports whether the command is deprecated.
func (c *CommandDefinition) IsDeprecated() bool {
	return c.Status == StatusDeprecated
}

// Namespace returns every path segment except the last, dotted, e.g. ".math" for ".math.add".
func (c *CommandDefinition) Namespace() string {
	i := strings.LastIndexByte(c.Name, '.')
	if i <= 0 {
		return ""
	}
	return c.Name[:i]
}

// InternedName is a deduplicated canonical command path. Instances are owned by
// an interner and shared by pointer; equal paths resolve to the same pointer
// for as long as the interner keeps them cached.
type InternedName struct {
	value string
}

// NewInternedName allocates a name. Callers normally obtain names from an interner.
func NewInternedName(value string) *InternedName {
	return &InternedName{value: value}
}

// String returns the canonical path.
func (n *InternedName) String() string {
	if n == nil {
		return ""
	}
	return n.value
}

// Catalog is the read-only command lookup consumed by the analyzer.
// Implementations must be safe for concurrent use.
type Catalog interface {
	// Lookup returns the command registered under the name or one of its alias paths.
	Lookup(name *InternedName) (*CommandDefinition, bool)
}

// CatalogFunc adapts a function to the Catalog interface.
type CatalogFunc func(name *InternedName) (*CommandDefinition, bool)

// Lookup calls f(name).
func (f CatalogFunc) Lookup(name *InternedName) (*CommandDefinition, bool) {
	return f(name)
}

// StringPtr returns a pointer to s. It is handy for declaring defaults.
func StringPtr(s string) *string {
	return &s
}

// String summarises the argument for logs and listings.
func (a *ArgumentDefinition) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", a.Name, a.Kind)
	if a.Optional {
		b.WriteString(" (optional)")
	}
	if a.Multiple {
		b.WriteString(" (multiple)")
	}
	return b.String()
}

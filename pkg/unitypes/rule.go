package unitypes

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// RuleType identifies a validation rule.
type RuleType int

const (
	// RuleMin is an inclusive numeric lower bound.
	RuleMin RuleType = iota
	// RuleMax is an inclusive numeric upper bound.
	RuleMax
	// RuleMinLength is a lower bound on character count.
	RuleMinLength
	// RuleMaxLength is an upper bound on character count.
	RuleMaxLength
	// RuleMinItems is a lower bound on list length.
	RuleMinItems
	// RuleMaxItems is an upper bound on list length.
	RuleMaxItems
	// RulePattern requires a regular expression match anywhere in a string.
	RulePattern
)

var ruleNames = map[RuleType]string{
	RuleMin:       "min",
	RuleMax:       "max",
	RuleMinLength: "minlength",
	RuleMaxLength: "maxlength",
	RuleMinItems:  "minitems",
	RuleMaxItems:  "maxitems",
	RulePattern:   "pattern",
}

// String returns the rule name used in catalog files.
func (t RuleType) String() string {
	if name, ok := ruleNames[t]; ok {
		return name
	}
	return "unknown"
}

// ValidationRule is a declarative predicate over a coerced value.
// Bound is used by Min and Max, Length by the length and item rules,
// Pattern by the pattern rule.
type ValidationRule struct {
	Type    RuleType
	Bound   float64
	Length  int
	Pattern string
}

// Min returns an inclusive numeric lower bound rule.
func Min(bound float64) ValidationRule { return ValidationRule{Type: RuleMin, Bound: bound} }

// Max returns an inclusive numeric upper bound rule.
func Max(bound float64) ValidationRule { return ValidationRule{Type: RuleMax, Bound: bound} }

// MinLength returns a minimum character count rule.
func MinLength(n int) ValidationRule { return ValidationRule{Type: RuleMinLength, Length: n} }

// MaxLength returns a maximum character count rule.
func MaxLength(n int) ValidationRule { return ValidationRule{Type: RuleMaxLength, Length: n} }

// MinItems returns a minimum list length rule.
func MinItems(n int) ValidationRule { return ValidationRule{Type: RuleMinItems, Length: n} }

// MaxItems returns a maximum list length rule.
func MaxItems(n int) ValidationRule { return ValidationRule{Type: RuleMaxItems, Length: n} }

// Pattern returns a regular expression rule.
func Pattern(expr string) ValidationRule { return ValidationRule{Type: RulePattern, Pattern: expr} }

// String renders the rule as "name:argument".
func (r ValidationRule) String() string {
	switch r.Type {
	case RuleMin, RuleMax:
		return r.Type.String() + ":" + strconv.FormatFloat(r.Bound, 'g', -1, 64)
	case RulePattern:
		return r.Type.String() + ":" + r.Pattern
	default:
		return r.Type.String() + ":" + strconv.Itoa(r.Length)
	}
}

// ParseValidationRule parses the textual form of a rule, for example
// "min:10", "maxlength:32", "minitems:1" or "pattern:^[a-z]+$".
// Names are case-insensitive and may use underscores ("min_length:1").
func ParseValidationRule(text string) (ValidationRule, error) {
	s := strings.TrimSpace(text)
	name, arg, ok := strings.Cut(s, ":")
	if !ok {
		return ValidationRule{}, fmt.Errorf("unknown validation rule: %q", text)
	}
	name = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "")

	switch name {
	case "min", "max":
		bound, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
		if err != nil {
			return ValidationRule{}, fmt.Errorf("invalid %s value %q: %w", name, arg, err)
		}
		if name == "min" {
			return Min(bound), nil
		}
		return Max(bound), nil
	case "minlength", "maxlength", "minitems", "maxitems":
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			return ValidationRule{}, fmt.Errorf("invalid %s value %q: %w", name, arg, err)
		}
		if n < 0 {
			return ValidationRule{}, fmt.Errorf("invalid %s value %d: must not be negative", name, n)
		}
		switch name {
		case "minlength":
			return MinLength(n), nil
		case "maxlength":
			return MaxLength(n), nil
		case "minitems":
			return MinItems(n), nil
		default:
			return MaxItems(n), nil
		}
	case "pattern":
		// The pattern keeps its own whitespace.
		return Pattern(arg), nil
	default:
		return ValidationRule{}, fmt.Errorf("unknown validation rule: %q", text)
	}
}

// UnmarshalYAML lets catalogs declare rules in their textual form.
func (r *ValidationRule) UnmarshalYAML(node *yaml.Node) error {
	var text string
	if err := node.Decode(&text); err != nil {
		return fmt.Errorf("validation rule must be a string: %w", err)
	}
	parsed, err := ParseValidationRule(text)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalYAML writes the rule in its textual form.
func (r ValidationRule) MarshalYAML() (interface{}, error) {
	return r.String(), nil
}

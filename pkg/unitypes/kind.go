// Package unitypes defines the core data model shared by the unilang semantic engine.
// It contains argument kinds, coerced values, command and argument definitions,
// validation rules, raw instructions, verified commands and the error taxonomy.
package unitypes

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// KindTag identifies the declared type of an argument.
type KindTag int

const (
	// KindString is free text with no constraint.
	KindString KindTag = iota
	// KindInteger is a signed 64-bit integer.
	KindInteger
	// KindFloat is a 64-bit floating point number.
	KindFloat
	// KindBoolean accepts true/1/yes and false/0/no.
	KindBoolean
	// KindEnum is one of a fixed, case-sensitive set of choices.
	KindEnum
	// KindPath is a non-empty filesystem path, taken verbatim.
	KindPath
	// KindURL is an absolute URL.
	KindURL
	// KindDateTime is an RFC 3339 timestamp.
	KindDateTime
	// KindPattern is a regular expression.
	KindPattern
	// KindList is a delimited sequence of items of one kind.
	KindList
	// KindMap is a delimited set of key/value pairs.
	KindMap
	// KindJSONString is JSON text kept verbatim.
	KindJSONString
	// KindObject is JSON text parsed into a tree.
	KindObject
)

// Default delimiters used when a composite kind does not declare its own.
const (
	DefaultListDelimiter = ","
	DefaultPairDelimiter = ","
	DefaultKVDelimiter   = "="
)

// String returns the textual name of the tag as used in catalog files.
func (t KindTag) String() string {
	switch t {
	case KindString:
		return "String"
	case KindInteger:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindBoolean:
		return "Boolean"
	case KindEnum:
		return "Enum"
	case KindPath:
		return "Path"
	case KindURL:
		return "Url"
	case KindDateTime:
		return "DateTime"
	case KindPattern:
		return "Pattern"
	case KindList:
		return "List"
	case KindMap:
		return "Map"
	case KindJSONString:
		return "JsonString"
	case KindObject:
		return "Object"
	default:
		return "Unknown"
	}
}

// Kind is the immutable declared type of an argument.
// Only the fields relevant to Tag are meaningful.
type Kind struct {
	Tag KindTag
	// Choices holds the allowed values of an Enum.
	Choices []string
	// Item is the element kind of a List.
	Item *Kind
	// Key and Elem are the key and value kinds of a Map.
	Key  *Kind
	Elem *Kind
	// Delimiter separates List items.
	Delimiter string
	// PairDelimiter separates Map entries, KVDelimiter splits an entry.
	PairDelimiter string
	KVDelimiter   string
}

// Simple returns a non-composite kind for the given tag.
func Simple(tag KindTag) Kind {
	return Kind{Tag: tag}
}

// EnumOf returns an Enum kind over the given choices.
func EnumOf(choices ...string) Kind {
	return Kind{Tag: KindEnum, Choices: append([]string(nil), choices...)}
}

// ListOf returns a List kind. An empty delimiter selects the default.
func ListOf(item Kind, delimiter string) Kind {
	return Kind{Tag: KindList, Item: &item, Delimiter: delimiter}
}

// MapOf returns a Map kind. Empty delimiters select the defaults.
func MapOf(key, elem Kind, pairDelimiter, kvDelimiter string) Kind {
	return Kind{Tag: KindMap, Key: &key, Elem: &elem, PairDelimiter: pairDelimiter, KVDelimiter: kvDelimiter}
}

// ListDelimiter returns the effective List delimiter.
func (k Kind) ListDelimiter() string {
	if k.Delimiter == "" {
		return DefaultListDelimiter
	}
	return k.Delimiter
}

// MapPairDelimiter returns the effective delimiter between Map entries.
func (k Kind) MapPairDelimiter() string {
	if k.PairDelimiter == "" {
		return DefaultPairDelimiter
	}
	return k.PairDelimiter
}

// MapKVDelimiter returns the effective delimiter between a Map key and its value.
func (k Kind) MapKVDelimiter() string {
	if k.KVDelimiter == "" {
		return DefaultKVDelimiter
	}
	return k.KVDelimiter
}

// Validate checks that the kind is internally consistent: enums have choices,
// composites have their element kinds, and nested kinds are valid in turn.
func (k Kind) Validate() error {
	switch k.Tag {
	case KindString, KindInteger, KindFloat, KindBoolean, KindPath,
		KindURL, KindDateTime, KindPattern, KindJSONString, KindObject:
		return nil
	case KindEnum:
		if len(k.Choices) == 0 {
			return fmt.Errorf("enum kind has no choices")
		}
		return nil
	case KindList:
		if k.Item == nil {
			return fmt.Errorf("list kind has no item kind")
		}
		if err := k.Item.Validate(); err != nil {
			return fmt.Errorf("list item: %w", err)
		}
		return nil
	case KindMap:
		if k.Key == nil || k.Elem == nil {
			return fmt.Errorf("map kind requires key and value kinds")
		}
		if k.MapPairDelimiter() == k.MapKVDelimiter() {
			return fmt.Errorf("map pair and key/value delimiters must differ")
		}
		if err := k.Key.Validate(); err != nil {
			return fmt.Errorf("map key: %w", err)
		}
		if err := k.Elem.Validate(); err != nil {
			return fmt.Errorf("map value: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown kind tag %d", int(k.Tag))
	}
}

// String renders the kind in the textual form accepted by ParseKind.
func (k Kind) String() string {
	switch k.Tag {
	case KindEnum:
		return "Enum(" + strings.Join(k.Choices, ",") + ")"
	case KindList:
		item := "String"
		if k.Item != nil {
			item = k.Item.String()
		}
		if k.Delimiter != "" {
			return "List(" + item + "," + formatDelimiter(k.Delimiter) + ")"
		}
		return "List(" + item + ")"
	case KindMap:
		key, elem := "String", "String"
		if k.Key != nil {
			key = k.Key.String()
		}
		if k.Elem != nil {
			elem = k.Elem.String()
		}
		parts := []string{key, elem}
		if k.PairDelimiter != "" || k.KVDelimiter != "" {
			parts = append(parts, formatDelimiter(k.PairDelimiter))
		}
		if k.KVDelimiter != "" {
			parts = append(parts, formatDelimiter(k.KVDelimiter))
		}
		return "Map(" + strings.Join(parts, ",") + ")"
	default:
		return k.Tag.String()
	}
}

// Equal reports whether two kinds describe the same type.
func (k Kind) Equal(other Kind) bool {
	return k.String() == other.String()
}

// UnmarshalYAML lets catalogs declare kinds in their textual form.
func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	var text string
	if err := node.Decode(&text); err != nil {
		return fmt.Errorf("kind must be a string: %w", err)
	}
	parsed, err := ParseKind(text)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalYAML writes the kind in its textual form.
func (k Kind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

var simpleKinds = map[string]KindTag{
	"String":     KindString,
	"Integer":    KindInteger,
	"Float":      KindFloat,
	"Boolean":    KindBoolean,
	"Path":       KindPath,
	"Url":        KindURL,
	"DateTime":   KindDateTime,
	"Pattern":    KindPattern,
	"JsonString": KindJSONString,
	"Object":     KindObject,
}

// ParseKind parses the textual form of a kind, for example
// "Integer", "Enum(red,green)", "List(Integer,;)" or "Map(String,Integer,;,:)".
// Delimiters are taken verbatim; a delimiter holding a comma, a parenthesis
// or whitespace is written as a Go quoted string, as in List(String,",").
func ParseKind(text string) (Kind, error) {
	s := strings.TrimSpace(text)
	if tag, ok := simpleKinds[s]; ok {
		return Simple(tag), nil
	}

	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return Kind{}, fmt.Errorf("unknown kind: %q", text)
	}
	head := s[:open]
	args := splitKindArgs(s[open+1 : len(s)-1])

	switch head {
	case "Enum":
		var choices []string
		for _, a := range args {
			if c := strings.TrimSpace(a); c != "" {
				choices = append(choices, c)
			}
		}
		if len(choices) == 0 {
			return Kind{}, fmt.Errorf("enum kind %q has no choices", text)
		}
		return EnumOf(choices...), nil
	case "List":
		if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
			return Kind{}, fmt.Errorf("list kind %q requires an item kind", text)
		}
		item, err := ParseKind(args[0])
		if err != nil {
			return Kind{}, fmt.Errorf("list item: %w", err)
		}
		delim, err := delimiterArg(args, 1)
		if err != nil {
			return Kind{}, fmt.Errorf("list kind %q: %w", text, err)
		}
		return ListOf(item, delim), nil
	case "Map":
		if len(args) < 2 {
			return Kind{}, fmt.Errorf("map kind %q requires key and value kinds", text)
		}
		key, err := ParseKind(args[0])
		if err != nil {
			return Kind{}, fmt.Errorf("map key: %w", err)
		}
		elem, err := ParseKind(args[1])
		if err != nil {
			return Kind{}, fmt.Errorf("map value: %w", err)
		}
		pair, err := delimiterArg(args, 2)
		if err != nil {
			return Kind{}, fmt.Errorf("map kind %q: %w", text, err)
		}
		kv, err := delimiterArg(args, 3)
		if err != nil {
			return Kind{}, fmt.Errorf("map kind %q: %w", text, err)
		}
		return MapOf(key, elem, pair, kv), nil
	default:
		return Kind{}, fmt.Errorf("unknown kind: %q", text)
	}
}

func delimiterArg(args []string, i int) (string, error) {
	if i >= len(args) {
		return "", nil
	}
	arg := args[i]
	if quoted := strings.TrimSpace(arg); strings.HasPrefix(quoted, `"`) {
		delim, err := strconv.Unquote(quoted)
		if err != nil {
			return "", fmt.Errorf("invalid quoted delimiter %s", quoted)
		}
		return delim, nil
	}
	return arg, nil
}

// formatDelimiter quotes delimiters that would not survive splitKindArgs.
func formatDelimiter(delim string) string {
	if strings.ContainsAny(delim, `,()"`) || strings.IndexFunc(delim, unicode.IsSpace) >= 0 {
		return strconv.Quote(delim)
	}
	return delim
}

// splitKindArgs splits on commas that are neither nested inside parentheses
// nor inside a double-quoted delimiter.
func splitKindArgs(s string) []string {
	var parts []string
	depth := 0
	start := 0
	quoted := false
	for i := 0; i < len(s); i++ {
		if quoted {
			switch s[i] {
			case '\\':
				i++
			case '"':
				quoted = false
			}
			continue
		}
		switch s[i] {
		case '"':
			quoted = true
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if start <= len(s) && s != "" {
		parts = append(parts, s[start:])
	}
	return parts
}

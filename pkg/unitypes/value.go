package unitypes

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Value is a coerced argument value. Its concrete type always matches the
// Kind that produced it; composite values hold values that satisfy the same rule.
type Value interface {
	// Tag returns the kind tag this value was produced for.
	Tag() KindTag
	// String returns a human-readable rendering.
	String() string

	isValue()
}

type (
	// StringValue is the value of a String argument.
	StringValue string
	// IntegerValue is the value of an Integer argument.
	IntegerValue int64
	// FloatValue is the value of a Float argument.
	FloatValue float64
	// BooleanValue is the value of a Boolean argument.
	BooleanValue bool
	// EnumValue is the chosen member of an Enum argument.
	EnumValue string
	// PathValue is the value of a Path argument.
	PathValue string
	// JSONStringValue is syntactically valid JSON kept as written.
	JSONStringValue string

	// URLValue is a parsed absolute URL.
	URLValue struct {
		URL *url.URL
	}

	// DateTimeValue is a parsed timestamp including its offset.
	DateTimeValue struct {
		Time time.Time
	}

	// PatternValue is a compiled regular expression.
	PatternValue struct {
		Regexp *regexp.Regexp
	}

	// ListValue is an ordered sequence of values.
	ListValue []Value

	// MapValue maps string keys to values. Order is irrelevant.
	MapValue map[string]Value

	// ObjectValue is a parsed JSON tree (maps, slices, float64, string, bool, nil).
	ObjectValue struct {
		Data interface{}
	}
)

func (StringValue) isValue()     {}
func (IntegerValue) isValue()    {}
func (FloatValue) isValue()      {}
func (BooleanValue) isValue()    {}
func (EnumValue) isValue()       {}
func (PathValue) isValue()       {}
func (JSONStringValue) isValue() {}
func (URLValue) isValue()        {}
func (DateTimeValue) isValue()   {}
func (PatternValue) isValue()    {}
func (ListValue) isValue()       {}
func (MapValue) isValue()        {}
func (ObjectValue) isValue()     {}

// Tag implementations.

func (StringValue) Tag() KindTag     { return KindString }
func (IntegerValue) Tag() KindTag    { return KindInteger }
func (FloatValue) Tag() KindTag      { return KindFloat }
func (BooleanValue) Tag() KindTag    { return KindBoolean }
func (EnumValue) Tag() KindTag       { return KindEnum }
func (PathValue) Tag() KindTag       { return KindPath }
func (JSONStringValue) Tag() KindTag { return KindJSONString }
func (URLValue) Tag() KindTag        { return KindURL }
func (DateTimeValue) Tag() KindTag   { return KindDateTime }
func (PatternValue) Tag() KindTag    { return KindPattern }
func (ListValue) Tag() KindTag       { return KindList }
func (MapValue) Tag() KindTag        { return KindMap }
func (ObjectValue) Tag() KindTag     { return KindObject }

func (v StringValue) String() string     { return string(v) }
func (v IntegerValue) String() string    { return strconv.FormatInt(int64(v), 10) }
func (v FloatValue) String() string      { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
func (v BooleanValue) String() string    { return strconv.FormatBool(bool(v)) }
func (v EnumValue) String() string       { return string(v) }
func (v PathValue) String() string       { return string(v) }
func (v JSONStringValue) String() string { return string(v) }

func (v URLValue) String() string {
	if v.URL == nil {
		return ""
	}
	return v.URL.String()
}

func (v DateTimeValue) String() string {
	return v.Time.Format(time.RFC3339Nano)
}

func (v PatternValue) String() string {
	if v.Regexp == nil {
		return ""
	}
	return v.Regexp.String()
}

func (v ListValue) String() string {
	items := make([]string, len(v))
	for i, item := range v {
		items[i] = item.String()
	}
	return "[" + strings.Join(items, ", ") + "]"
}

func (v MapValue) String() string {
	keys := v.Keys()
	items := make([]string, len(keys))
	for i, k := range keys {
		items[i] = k + ": " + v[k].String()
	}
	return "{" + strings.Join(items, ", ") + "}"
}

// Keys returns the map keys in sorted order.
func (v MapValue) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (v ObjectValue) String() string {
	return fmt.Sprintf("%v", v.Data)
}

// Equal reports whether two values have the same variant and content.
// Patterns compare by source text, timestamps by instant.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Tag() != b.Tag() {
		return false
	}
	switch av := a.(type) {
	case URLValue:
		return av.String() == b.(URLValue).String()
	case DateTimeValue:
		return av.Time.Equal(b.(DateTimeValue).Time)
	case PatternValue:
		return av.String() == b.(PatternValue).String()
	case ListValue:
		bv := b.(ListValue)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case MapValue:
		bv := b.(MapValue)
		if len(av) != len(bv) {
			return false
		}
		for k, item := range av {
			other, ok := bv[k]
			if !ok || !Equal(item, other) {
				return false
			}
		}
		return true
	case ObjectValue:
		return reflect.DeepEqual(av.Data, b.(ObjectValue).Data)
	default:
		return a == b
	}
}

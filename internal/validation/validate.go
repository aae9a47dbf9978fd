// Package validation evaluates declarative validation rules against coerced values.
//
// Every rule is evaluated independently and all violations are reported.
// A rule that does not apply to the value's variant (for example Min on a
// String) is treated as satisfied.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"sync"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"

	"unilang/pkg/unitypes"
)

// DefaultPatternCacheSize is the number of compiled patterns kept by the default Validator.
const DefaultPatternCacheSize = 256

// compiled is a cached compilation result; invalid patterns are cached too.
type compiled struct {
	re  *regexp.Regexp
	err error
}

// Validator evaluates rules and memoises compiled Pattern rules.
// It is safe for concurrent use.
type Validator struct {
	patterns *lru.Cache[string, compiled]
}

// New creates a Validator whose pattern cache holds up to cacheSize entries.
func New(cacheSize int) (*Validator, error) {
	if cacheSize <= 0 {
		return nil, fmt.Errorf("pattern cache size must be positive, got %d", cacheSize)
	}
	cache, err := lru.New[string, compiled](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create pattern cache: %w", err)
	}
	return &Validator{patterns: cache}, nil
}

var (
	defaultMu        sync.RWMutex
	defaultValidator = mustNew(DefaultPatternCacheSize)
)

func mustNew(size int) *Validator {
	v, err := New(size)
	if err != nil {
		panic(err)
	}
	return v
}

// Default returns the process-wide Validator.
func Default() *Validator {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultValidator
}

// SetDefault replaces the process-wide Validator.
func SetDefault(v *Validator) {
	if v == nil {
		return
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultValidator = v
}

// Validate evaluates rules against value with the process-wide Validator.
func Validate(value unitypes.Value, rules []unitypes.ValidationRule) []*unitypes.ValidationError {
	return Default().Validate(value, rules)
}

// Validate evaluates every rule against value and returns one error per violated rule,
// in rule order. A nil result means the value satisfies all rules.
func (v *Validator) Validate(value unitypes.Value, rules []unitypes.ValidationRule) []*unitypes.ValidationError {
	var violations []*unitypes.ValidationError
	for _, rule := range rules {
		if reason, ok := v.check(value, rule); !ok {
			violations = append(violations, &unitypes.ValidationError{
				Rule:   rule,
				Value:  render(value),
				Reason: reason,
			})
		}
	}
	return violations
}

// ValidateItems evaluates the element rules (Min, Max, MinLength, MaxLength
// and Pattern) against every element of list, in rule then element order.
// MinItems and MaxItems are skipped; Validate applies them to the list itself.
func (v *Validator) ValidateItems(list unitypes.ListValue, rules []unitypes.ValidationRule) []*unitypes.ValidationError {
	var violations []*unitypes.ValidationError
	for _, rule := range rules {
		if rule.Type == unitypes.RuleMinItems || rule.Type == unitypes.RuleMaxItems {
			continue
		}
		for i, item := range list {
			if reason, ok := v.check(item, rule); !ok {
				violations = append(violations, &unitypes.ValidationError{
					Rule:   rule,
					Value:  render(item),
					Reason: fmt.Sprintf("item %d: %s", i+1, reason),
				})
			}
		}
	}
	return violations
}

// CachedPatterns returns the number of compiled patterns currently cached.
func (v *Validator) CachedPatterns() int {
	return v.patterns.Len()
}

// check returns false and a reason when value violates rule.
func (v *Validator) check(value unitypes.Value, rule unitypes.ValidationRule) (string, bool) {
	switch rule.Type {
	case unitypes.RuleMin:
		n, ok := numeric(value)
		if !ok || n >= rule.Bound {
			return "", true
		}
		return fmt.Sprintf("value %s is less than minimum %s", render(value), formatBound(rule.Bound)), false
	case unitypes.RuleMax:
		n, ok := numeric(value)
		if !ok || n <= rule.Bound {
			return "", true
		}
		return fmt.Sprintf("value %s is greater than maximum %s", render(value), formatBound(rule.Bound)), false
	case unitypes.RuleMinLength:
		n, ok := charCount(value)
		if !ok || n >= rule.Length {
			return "", true
		}
		return fmt.Sprintf("length %d is shorter than minimum length %d", n, rule.Length), false
	case unitypes.RuleMaxLength:
		n, ok := charCount(value)
		if !ok || n <= rule.Length {
			return "", true
		}
		return fmt.Sprintf("length %d is longer than maximum length %d", n, rule.Length), false
	case unitypes.RuleMinItems:
		list, ok := value.(unitypes.ListValue)
		if !ok || len(list) >= rule.Length {
			return "", true
		}
		return fmt.Sprintf("%d items is fewer than minimum %d", len(list), rule.Length), false
	case unitypes.RuleMaxItems:
		list, ok := value.(unitypes.ListValue)
		if !ok || len(list) <= rule.Length {
			return "", true
		}
		return fmt.Sprintf("%d items is more than maximum %d", len(list), rule.Length), false
	case unitypes.RulePattern:
		s, ok := value.(unitypes.StringValue)
		if !ok {
			return "", true
		}
		re, err := v.compile(rule.Pattern)
		if err != nil {
			return fmt.Sprintf("invalid pattern %q: %v", rule.Pattern, err), false
		}
		if re.MatchString(string(s)) {
			return "", true
		}
		return fmt.Sprintf("value does not match pattern %q", rule.Pattern), false
	default:
		return "", true
	}
}

func (v *Validator) compile(pattern string) (*regexp.Regexp, error) {
	if c, ok := v.patterns.Get(pattern); ok {
		return c.re, c.err
	}
	re, err := regexp.Compile(pattern)
	v.patterns.Add(pattern, compiled{re: re, err: err})
	return re, err
}

func numeric(value unitypes.Value) (float64, bool) {
	switch n := value.(type) {
	case unitypes.IntegerValue:
		return float64(n), true
	case unitypes.FloatValue:
		return float64(n), true
	default:
		return 0, false
	}
}

// charCount measures String and Path values in characters, not bytes.
func charCount(value unitypes.Value) (int, bool) {
	switch s := value.(type) {
	case unitypes.StringValue:
		return utf8.RuneCountInString(string(s)), true
	case unitypes.PathValue:
		return utf8.RuneCountInString(string(s)), true
	default:
		return 0, false
	}
}

func formatBound(b float64) string {
	return strconv.FormatFloat(b, 'g', -1, 64)
}

func render(value unitypes.Value) string {
	if value == nil {
		return ""
	}
	return value.String()
}

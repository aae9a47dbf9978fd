package coercion

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unilang/pkg/unitypes"
)

var (
	intKind    = unitypes.Simple(unitypes.KindInteger)
	stringKind = unitypes.Simple(unitypes.KindString)
)

func TestCoerce_Scalars(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		kind     unitypes.Kind
		expected unitypes.Value
	}{
		{"string identity", "hello world", stringKind, unitypes.StringValue("hello world")},
		{"empty string", "", stringKind, unitypes.StringValue("")},
		{"integer", "42", intKind, unitypes.IntegerValue(42)},
		{"negative integer", "-7", intKind, unitypes.IntegerValue(-7)},
		{"float", "3.5", unitypes.Simple(unitypes.KindFloat), unitypes.FloatValue(3.5)},
		{"float from integer literal", "2", unitypes.Simple(unitypes.KindFloat), unitypes.FloatValue(2)},
		{"enum", "green", unitypes.EnumOf("red", "green"), unitypes.EnumValue("green")},
		{"path", "./some/file.txt", unitypes.Simple(unitypes.KindPath), unitypes.PathValue("./some/file.txt")},
		{"json string", `{"a": [1, 2]}`, unitypes.Simple(unitypes.KindJSONString), unitypes.JSONStringValue(`{"a": [1, 2]}`)},
		{
			"object",
			`{"name": "x", "n": 1}`,
			unitypes.Simple(unitypes.KindObject),
			unitypes.ObjectValue{Data: map[string]interface{}{"name": "x", "n": 1.0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(tt.raw, tt.kind)
			require.Nil(t, err)
			assert.True(t, unitypes.Equal(tt.expected, got), "expected %v, got %v", tt.expected, got)
		})
	}
}

func TestCoerce_IntegerErrors(t *testing.T) {
	_, err := Coerce("abc", intKind)
	require.NotNil(t, err)
	assert.Equal(t, "abc", err.Literal)
	assert.Equal(t, unitypes.KindInteger, err.Expected.Tag)
	assert.Contains(t, err.Error(), "'abc'")
	assert.Contains(t, err.Error(), "Integer")
	assert.True(t, errors.Is(err, unitypes.ErrTypeConversion))

	_, err = Coerce("9223372036854775808", intKind)
	require.NotNil(t, err)
	assert.Equal(t, "value out of range", err.Reason)

	_, err = Coerce("1.5", intKind)
	assert.NotNil(t, err)
}

func TestCoerce_Boolean(t *testing.T) {
	kind := unitypes.Simple(unitypes.KindBoolean)

	for _, raw := range []string{"true", "1", "yes", "YES", "True"} {
		got, err := Coerce(raw, kind)
		require.Nil(t, err, raw)
		assert.Equal(t, unitypes.BooleanValue(true), got, raw)
	}
	for _, raw := range []string{"false", "0", "no", "NO"} {
		got, err := Coerce(raw, kind)
		require.Nil(t, err, raw)
		assert.Equal(t, unitypes.BooleanValue(false), got, raw)
	}

	_, err := Coerce("Maybe", kind)
	require.NotNil(t, err)
	assert.Equal(t, "Invalid boolean value", err.Reason)
	assert.Equal(t, "Maybe", err.Literal)
}

func TestCoerce_EnumIsCaseSensitive(t *testing.T) {
	_, err := Coerce("Red", unitypes.EnumOf("red", "green"))
	require.NotNil(t, err)
	assert.Contains(t, err.Reason, "red, green")
}

func TestCoerce_EmptyPath(t *testing.T) {
	_, err := Coerce("", unitypes.Simple(unitypes.KindPath))
	require.NotNil(t, err)
	assert.Equal(t, "Path cannot be empty", err.Reason)
}

func TestCoerce_URL(t *testing.T) {
	kind := unitypes.Simple(unitypes.KindURL)

	got, err := Coerce("https://example.com/a?b=c", kind)
	require.Nil(t, err)
	u := got.(unitypes.URLValue)
	assert.Equal(t, "example.com", u.URL.Host)

	_, err = Coerce("mailto:someone@example.com", kind)
	assert.Nil(t, err)

	_, err = Coerce("/relative/path", kind)
	require.NotNil(t, err)
	assert.Equal(t, "relative URL without a base", err.Reason)

	_, err = Coerce("http://[::1", kind)
	assert.NotNil(t, err)
}

func TestCoerce_DateTime(t *testing.T) {
	kind := unitypes.Simple(unitypes.KindDateTime)

	got, err := Coerce("2024-05-01T10:30:00Z", kind)
	require.Nil(t, err)
	assert.Equal(t, 2024, got.(unitypes.DateTimeValue).Time.Year())

	_, err = Coerce("2024-05-01T10:30:00.123+02:00", kind)
	assert.Nil(t, err)

	_, err = Coerce("yesterday", kind)
	assert.NotNil(t, err)
}

func TestCoerce_Pattern(t *testing.T) {
	kind := unitypes.Simple(unitypes.KindPattern)

	got, err := Coerce(`^\d+$`, kind)
	require.Nil(t, err)
	assert.True(t, got.(unitypes.PatternValue).Regexp.MatchString("123"))

	_, err = Coerce("(unclosed", kind)
	require.NotNil(t, err)
	assert.Contains(t, err.Reason, "missing closing )")
}

func TestCoerce_JSONErrors(t *testing.T) {
	_, err := Coerce("{not json", unitypes.Simple(unitypes.KindJSONString))
	assert.NotNil(t, err)
	_, err = Coerce("", unitypes.Simple(unitypes.KindObject))
	assert.NotNil(t, err)
}

func TestCoerce_List(t *testing.T) {
	kind := unitypes.ListOf(intKind, ",")

	got, err := Coerce("1,2,3", kind)
	require.Nil(t, err)
	assert.Equal(t, unitypes.ListValue{unitypes.IntegerValue(1), unitypes.IntegerValue(2), unitypes.IntegerValue(3)}, got)

	got, err = Coerce("", kind)
	require.Nil(t, err)
	assert.Equal(t, unitypes.ListValue{}, got)

	_, err = Coerce("1,x,3", kind)
	require.NotNil(t, err)
	assert.Equal(t, "x", err.Literal)

	got, err = Coerce("a;b", unitypes.ListOf(stringKind, ";"))
	require.Nil(t, err)
	assert.Len(t, got, 2)
}

func TestCoerce_Map(t *testing.T) {
	kind := unitypes.MapOf(stringKind, intKind, ",", "=")

	got, err := Coerce("a=1,b=2", kind)
	require.Nil(t, err)
	assert.Equal(t, unitypes.MapValue{"a": unitypes.IntegerValue(1), "b": unitypes.IntegerValue(2)}, got)

	got, err = Coerce("", kind)
	require.Nil(t, err)
	assert.Equal(t, unitypes.MapValue{}, got)

	_, err = Coerce("a=1,bad,c=3", kind)
	require.NotNil(t, err)
	assert.Contains(t, err.Reason, "Invalid map entry")
	assert.Contains(t, err.Reason, "'bad'")

	_, err = Coerce("a=1=2", kind)
	assert.NotNil(t, err)

	_, err = Coerce("a=x", kind)
	require.NotNil(t, err)
	assert.Equal(t, "x", err.Literal)

	got, err = Coerce("01:x", unitypes.MapOf(intKind, stringKind, ";", ":"))
	require.Nil(t, err)
	assert.Equal(t, unitypes.MapValue{"1": unitypes.StringValue("x")}, got)
}

func TestCoerce_NeverPanics(t *testing.T) {
	kinds := []unitypes.Kind{
		{Tag: unitypes.KindList},
		{Tag: unitypes.KindMap},
		{Tag: unitypes.KindEnum},
		{Tag: unitypes.KindTag(42)},
	}
	for _, kind := range kinds {
		assert.NotPanics(t, func() {
			_, _ = Coerce("a=b,c", kind)
			_, _ = Coerce("", kind)
		})
	}
}

func TestDisplay_RoundTrip(t *testing.T) {
	tests := []struct {
		raw  string
		kind unitypes.Kind
	}{
		{"some text", stringKind},
		{"-12", intKind},
		{"0.1", unitypes.Simple(unitypes.KindFloat)},
		{"1e+21", unitypes.Simple(unitypes.KindFloat)},
		{"YES", unitypes.Simple(unitypes.KindBoolean)},
		{"b", unitypes.EnumOf("a", "b")},
		{"https://example.com/x?y=1", unitypes.Simple(unitypes.KindURL)},
		{"4;5;6", unitypes.ListOf(intKind, ";")},
		{"x=true,y=no", unitypes.MapOf(stringKind, unitypes.Simple(unitypes.KindBoolean), "", "")},
		{`[1, {"k": "v"}]`, unitypes.Simple(unitypes.KindJSONString)},
		{`{"list": [1, 2], "ok": true, "none": null}`, unitypes.Simple(unitypes.KindObject)},
		{"a|b,c|d", unitypes.ListOf(unitypes.ListOf(stringKind, "|"), ",")},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			first, err := Coerce(tt.raw, tt.kind)
			require.Nil(t, err)

			second, err := Coerce(Display(first, tt.kind), tt.kind)
			require.Nil(t, err)
			assert.True(t, unitypes.Equal(first, second), "%v != %v", first, second)
		})
	}
}

func TestCoerceAll(t *testing.T) {
	got, err := CoerceAll([]string{"1", "2"}, intKind)
	require.Nil(t, err)
	assert.Equal(t, unitypes.ListValue{unitypes.IntegerValue(1), unitypes.IntegerValue(2)}, got)

	_, err = CoerceAll([]string{"1", "two"}, intKind)
	require.NotNil(t, err)
	assert.Equal(t, "two", err.Literal)
}

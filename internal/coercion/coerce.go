// Package coercion converts raw textual argument values into typed values
// according to their declared Kind, and renders typed values back to text.
package coercion

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"unilang/pkg/unitypes"
)

// Coerce converts raw into a Value of the given kind.
// It never panics; every failure is returned as a *unitypes.TypeError.
func Coerce(raw string, kind unitypes.Kind) (unitypes.Value, *unitypes.TypeError) {
	switch kind.Tag {
	case unitypes.KindString:
		return unitypes.StringValue(raw), nil
	case unitypes.KindInteger:
		return coerceInteger(raw, kind)
	case unitypes.KindFloat:
		return coerceFloat(raw, kind)
	case unitypes.KindBoolean:
		return coerceBoolean(raw, kind)
	case unitypes.KindEnum:
		return coerceEnum(raw, kind)
	case unitypes.KindPath:
		if raw == "" {
			return nil, typeError(raw, kind, "Path cannot be empty")
		}
		return unitypes.PathValue(raw), nil
	case unitypes.KindURL:
		return coerceURL(raw, kind)
	case unitypes.KindDateTime:
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, typeError(raw, kind, err.Error())
		}
		return unitypes.DateTimeValue{Time: t}, nil
	case unitypes.KindPattern:
		re, err := regexp.Compile(raw)
		if err != nil {
			return nil, typeError(raw, kind, err.Error())
		}
		return unitypes.PatternValue{Regexp: re}, nil
	case unitypes.KindList:
		return coerceList(raw, kind)
	case unitypes.KindMap:
		return coerceMap(raw, kind)
	case unitypes.KindJSONString:
		var probe interface{}
		if err := json.Unmarshal([]byte(raw), &probe); err != nil {
			return nil, typeError(raw, kind, err.Error())
		}
		return unitypes.JSONStringValue(raw), nil
	case unitypes.KindObject:
		var tree interface{}
		if err := json.Unmarshal([]byte(raw), &tree); err != nil {
			return nil, typeError(raw, kind, err.Error())
		}
		return unitypes.ObjectValue{Data: tree}, nil
	default:
		return nil, typeError(raw, kind, fmt.Sprintf("unsupported kind tag %d", int(kind.Tag)))
	}
}

// CoerceAll coerces each raw value with kind and collects the results into a List.
// It stops at the first failing element.
func CoerceAll(raws []string, kind unitypes.Kind) (unitypes.ListValue, *unitypes.TypeError) {
	out := make(unitypes.ListValue, 0, len(raws))
	for _, raw := range raws {
		v, err := Coerce(raw, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func typeError(raw string, kind unitypes.Kind, reason string) *unitypes.TypeError {
	return &unitypes.TypeError{Literal: raw, Expected: kind, Reason: reason}
}

// numError unwraps strconv errors so the reason reads "invalid syntax"
// rather than repeating the literal.
func numError(err error) string {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err.Error()
	}
	return err.Error()
}

func coerceInteger(raw string, kind unitypes.Kind) (unitypes.Value, *unitypes.TypeError) {
	i, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, typeError(raw, kind, numError(err))
	}
	return unitypes.IntegerValue(i), nil
}

func coerceFloat(raw string, kind unitypes.Kind) (unitypes.Value, *unitypes.TypeError) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, typeError(raw, kind, numError(err))
	}
	return unitypes.FloatValue(f), nil
}

func coerceBoolean(raw string, kind unitypes.Kind) (unitypes.Value, *unitypes.TypeError) {
	switch strings.ToLower(raw) {
	case "true", "1", "yes":
		return unitypes.BooleanValue(true), nil
	case "false", "0", "no":
		return unitypes.BooleanValue(false), nil
	default:
		return nil, typeError(raw, kind, "Invalid boolean value")
	}
}

func coerceEnum(raw string, kind unitypes.Kind) (unitypes.Value, *unitypes.TypeError) {
	for _, choice := range kind.Choices {
		if raw == choice {
			return unitypes.EnumValue(raw), nil
		}
	}
	return nil, typeError(raw, kind, fmt.Sprintf("value must be one of [%s]", strings.Join(kind.Choices, ", ")))
}

func coerceURL(raw string, kind unitypes.Kind) (unitypes.Value, *unitypes.TypeError) {
	u, err := url.Parse(raw)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			return nil, typeError(raw, kind, ue.Err.Error())
		}
		return nil, typeError(raw, kind, err.Error())
	}
	if !u.IsAbs() {
		return nil, typeError(raw, kind, "relative URL without a base")
	}
	if u.Opaque == "" && u.Host == "" && !strings.HasPrefix(u.Path, "/") {
		return nil, typeError(raw, kind, "empty host")
	}
	return unitypes.URLValue{URL: u}, nil
}

func coerceList(raw string, kind unitypes.Kind) (unitypes.Value, *unitypes.TypeError) {
	if raw == "" {
		return unitypes.ListValue{}, nil
	}
	item := itemKind(kind.Item)
	return CoerceAll(strings.Split(raw, kind.ListDelimiter()), item)
}

func coerceMap(raw string, kind unitypes.Kind) (unitypes.Value, *unitypes.TypeError) {
	out := unitypes.MapValue{}
	if raw == "" {
		return out, nil
	}
	keyKind, elemKind := itemKind(kind.Key), itemKind(kind.Elem)
	kv := kind.MapKVDelimiter()

	for _, entry := range strings.Split(raw, kind.MapPairDelimiter()) {
		parts := strings.Split(entry, kv)
		if len(parts) != 2 {
			return nil, typeError(raw, kind,
				fmt.Sprintf("Invalid map entry: '%s'. Expected 'key%svalue'", entry, kv))
		}
		key, err := Coerce(parts[0], keyKind)
		if err != nil {
			return nil, err
		}
		val, err := Coerce(parts[1], elemKind)
		if err != nil {
			return nil, err
		}
		out[Display(key, keyKind)] = val
	}
	return out, nil
}

// itemKind treats a missing element kind as String.
func itemKind(k *unitypes.Kind) unitypes.Kind {
	if k == nil {
		return unitypes.Simple(unitypes.KindString)
	}
	return *k
}

// Display renders v as raw text that Coerce accepts for kind.
// For every kind except Path, Pattern and DateTime, Coerce(Display(v, kind), kind)
// yields a value equal to v, provided list items and map entries do not
// themselves contain the kind's delimiters.
func Display(v unitypes.Value, kind unitypes.Kind) string {
	switch val := v.(type) {
	case nil:
		return ""
	case unitypes.ListValue:
		item := itemKind(kind.Item)
		parts := make([]string, len(val))
		for i, elem := range val {
			parts[i] = Display(elem, item)
		}
		return strings.Join(parts, kind.ListDelimiter())
	case unitypes.MapValue:
		elem := itemKind(kind.Elem)
		keys := val.Keys()
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + kind.MapKVDelimiter() + Display(val[k], elem)
		}
		return strings.Join(parts, kind.MapPairDelimiter())
	case unitypes.ObjectValue:
		data, err := json.Marshal(val.Data)
		if err != nil {
			return fmt.Sprintf("%v", val.Data)
		}
		return string(data)
	case unitypes.DateTimeValue:
		return val.Time.Format(time.RFC3339Nano)
	default:
		return v.String()
	}
}

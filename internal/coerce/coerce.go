// Package coerce extracts scalar values from loosely typed response maps.
//
// SuperFaktura returns the same field with different JSON types depending
// on the environment and endpoint version ("1" vs 1 vs true, "12.50" vs
// 12.5). Every helper here is total: a missing or malformed value yields
// the supplied default, never an error. Maps are expected to come from a
// decoder with UseNumber enabled, so integers arrive as json.Number; native
// Go integer types are accepted as well. A float64 is never treated as an
// integer.
package coerce

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// numericPattern accepts decimal numbers with optional sign, fraction,
// exponent and surrounding whitespace. Hex, Inf and NaN are rejected.
var numericPattern = regexp.MustCompile(`^\s*[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?\s*$`)

// Int returns m[key] as an int when it is an integer, or a string made of
// decimal digits only. Anything else yields def.
func Int(m map[string]any, key string, def int) int {
	raw, ok := m[key]
	if !ok {
		return def
	}

	if v, ok := asInteger(raw); ok {
		return int(v)
	}

	s, ok := raw.(string)
	if !ok || !isDigits(s) {
		return def
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return def
	}

	return int(v)
}

// Float returns m[key] as a float64 when it is a float, an integer or a
// numeric string. The second result reports whether a value was found.
func Float(m map[string]any, key string) (float64, bool) {
	raw, ok := m[key]
	if !ok {
		return 0, false
	}

	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case json.Number:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return 0, false
		}

		return f, true
	case string:
		if !numericPattern.MatchString(v) {
			return 0, false
		}

		f, err := cast.ToFloat64E(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}

		return f, true
	}

	if v, ok := asInteger(raw); ok {
		return float64(v), true
	}

	return 0, false
}

// FloatOr is Float with a fallback value.
func FloatOr(m map[string]any, key string, def float64) float64 {
	if v, ok := Float(m, key); ok {
		return v
	}

	return def
}

// OptionalFloat is Float returning nil when no value was found.
func OptionalFloat(m map[string]any, key string) *float64 {
	if v, ok := Float(m, key); ok {
		return &v
	}

	return nil
}

// Bool returns m[key] interpreted as a boolean.
//
// Native booleans are returned as is. Integer 1 is true and any other
// integer false. The string "1" and any casing of "true" are true, any
// other string false. Values of other types yield def.
func Bool(m map[string]any, key string, def bool) bool {
	raw, ok := m[key]
	if !ok {
		return def
	}

	switch v := raw.(type) {
	case bool:
		return v
	case string:
		return v == "1" || strings.EqualFold(v, "true")
	}

	if v, ok := asInteger(raw); ok {
		return v == 1
	}

	return def
}

// String returns m[key] only when it already is a string. Numbers are not
// stringified.
func String(m map[string]any, key string) *string {
	if v, ok := m[key].(string); ok {
		return &v
	}

	return nil
}

// StringOr is String with a fallback value.
func StringOr(m map[string]any, key, def string) string {
	if v := String(m, key); v != nil {
		return *v
	}

	return def
}

// StringOrInt returns m[key] when it is a string, or its decimal form when
// it is an integer. Floats and other types yield nil.
func StringOrInt(m map[string]any, key string) *string {
	raw, ok := m[key]
	if !ok {
		return nil
	}

	if s, ok := raw.(string); ok {
		return &s
	}

	v, ok := asInteger(raw)
	if !ok {
		return nil
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		return nil
	}

	return &s
}

// Map returns m[key] when it is a nested map.
func Map(m map[string]any, key string) (map[string]any, bool) {
	v, ok := m[key].(map[string]any)

	return v, ok
}

// Unwrap returns the map nested under key, or m itself when there is none.
func Unwrap(m map[string]any, key string) map[string]any {
	if inner, ok := Map(m, key); ok {
		return inner
	}

	return m
}

// Slice returns m[key] when it is a JSON array.
func Slice(m map[string]any, key string) ([]any, bool) {
	v, ok := m[key].([]any)

	return v, ok
}

// IsZeroFlag reports whether v is the integer 0 or the string "0", which is
// how the API signals success in its "error" field.
func IsZeroFlag(v any) bool {
	if s, ok := v.(string); ok {
		return s == "0"
	}

	n, ok := asInteger(v)

	return ok && n == 0
}

func asInteger(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}

		return n, true
	}

	return 0, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

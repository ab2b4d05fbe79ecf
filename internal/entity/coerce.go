package entity

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ToNumber interprets the loosely typed numeric values clients send (JSON
// numbers, numeric strings) as a float64. ok is false when the value cannot
// be read as a number.
func ToNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// CoerceNumber is ToNumber with a zero fallback for unusable input.
func CoerceNumber(v any) float64 {
	f, ok := ToNumber(v)
	if !ok {
		return 0
	}
	return f
}

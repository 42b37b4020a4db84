// internal/gapanalysis/format.go
package gapanalysis

import (
	"fmt"
	"math"
	"strings"
)

func lowerName(name string) string {
	if name == "" {
		return "requirement"
	}
	return strings.ToLower(name)
}

// formatValue renders a user or required value for a gap description.
// Whole floats print without a trailing ".0" and nil prints as "not provided".
func formatValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "not provided"
	case float64:
		if t == math.Trunc(t) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

func rangeBounds(v interface{}) (string, string) {
	if m, ok := v.(map[string]interface{}); ok {
		return formatValue(m["min"]), formatValue(m["max"])
	}
	return "?", "?"
}

// internal/common/validation/parse.go
package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SafeFloat parses value as a float. Empty input yields def with no message;
// unparsable or non-finite input yields def and a message naming the value.
func SafeFloat(value string, def float64) (float64, string) {
	txt := strings.TrimSpace(value)
	if txt == "" {
		return def, ""
	}
	f, err := strconv.ParseFloat(txt, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def, fmt.Sprintf("invalid float: %q", value)
	}
	return f, ""
}

// SafeInt parses value as a base 10 integer with the same rules as SafeFloat.
func SafeInt(value string, def int) (int, string) {
	txt := strings.TrimSpace(value)
	if txt == "" {
		return def, ""
	}
	n, err := strconv.Atoi(txt)
	if err != nil {
		return def, fmt.Sprintf("invalid int: %q", value)
	}
	return n, ""
}

// IsYes reports whether a form answer is an affirmative "Yes".
func IsYes(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "yes")
}

// IsTruthy reports whether a form flag is set. It accepts "yes", "true",
// "on" and "1" in any case.
func IsTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "true", "on", "1":
		return true
	}
	return false
}

package costdoc

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Normalize converts a loosely-typed JSON scalar into a float64.
//
// nil, "", "-" and "null" read as zero. Strings are stripped of everything
// except digits, '.', '-', 'e' and 'E' before parsing, so "$1,234.56" reads as
// 1234.56. Anything that still fails to parse, or parses to a non-finite
// value, reads as zero.
func Normalize(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		return parseNumeric(string(n))
	case string:
		return parseNumeric(n)
	}
	return 0
}

func parseNumeric(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "", "-", "null":
		return 0
	}

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-', r == 'e', r == 'E':
			return r
		}
		return -1
	}, s)
	if cleaned == "" {
		return 0
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

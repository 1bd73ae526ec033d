// Package format renders numeric values for the admin's display columns.
package format

import (
	"math"
	"strconv"
	"strings"
)

// Group renders v as a whole number with a comma between every three digits,
// counting from the right: 1234567 -> "1,234,567". The fractional part is
// truncated toward zero, not rounded.
func Group(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "NaN"
	}

	s := strconv.FormatInt(int64(v), 10)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	s = group(s)
	if neg {
		return "-" + s
	}
	return s
}

// GroupString is Group for string-encoded numbers. Input that does not parse
// as a number yields "NaN"; callers only pass numeric fields, so the value is
// never rendered in practice.
func GroupString(s string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return "NaN"
	}
	return Group(v)
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

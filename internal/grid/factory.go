package grid

import (
	"strconv"
	"strings"
)

// NewCell classifies token and returns the matching cell. The checks run in
// a fixed order and the first match wins: integer, double, formula, quoted
// text, plain text. Formula cells are bound to owner. NewCell never fails.
func NewCell(token string, owner Handle) Cell {
	if isInteger(token) {
		if v, err := strconv.ParseInt(token, 10, 64); err == nil {
			return IntegerCell(v)
		}
		// Too large for int64; keep the value as a decimal.
		if v, err := strconv.ParseFloat(token, 64); err == nil {
			return DoubleCell(v)
		}
	}
	if isDouble(token) {
		if v, err := strconv.ParseFloat(token, 64); err == nil {
			return DoubleCell(v)
		}
	}
	if strings.HasPrefix(token, "=") {
		return FormulaCell(token, owner)
	}
	if len(token) >= 2 && strings.HasPrefix(token, `"`) && strings.HasSuffix(token, `"`) {
		return TextCell(Unquote(token[1 : len(token)-1]))
	}
	return TextCell(token)
}

// Unquote resolves backslash escapes in a single left-to-right pass: a
// backslash makes the following character literal. A trailing lone
// backslash is kept.
func Unquote(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// isInteger matches an optional '-' followed by one or more digits.
func isInteger(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isDouble matches an optional '-', then digits with exactly one '.', and
// at least one digit overall.
func isDouble(s string) bool {
	s = strings.TrimPrefix(s, "-")
	digits, points := 0, 0
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			digits++
		case s[i] == '.':
			points++
		default:
			return false
		}
	}
	return points == 1 && digits > 0
}

package grid

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Cell.
type Kind int

// Cell variants. The zero Kind is KindText so that a zero Cell is an empty
// text cell.
const (
	KindText Kind = iota
	KindInteger
	KindDouble
	KindFormula
)

// ErrorText is what a formula displays when evaluation fails.
const ErrorText = "ERROR"

// String returns a lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindDouble:
		return "double"
	case KindFormula:
		return "formula"
	default:
		return "unknown"
	}
}

// Cell is one typed value at one table coordinate. The zero value is an
// empty text cell.
type Cell struct {
	kind  Kind
	i     int64
	f     float64
	s     string // text value, or formula expression without the leading '='
	owner Handle
}

// IntegerCell returns an integer cell.
func IntegerCell(v int64) Cell {
	return Cell{kind: KindInteger, i: v}
}

// DoubleCell returns a decimal cell.
func DoubleCell(v float64) Cell {
	return Cell{kind: KindDouble, f: v}
}

// TextCell returns a text cell holding s verbatim.
func TextCell(s string) Cell {
	return Cell{kind: KindText, s: s}
}

// FormulaCell returns a formula cell bound to the table behind owner.
// A leading '=' on expr is stripped.
func FormulaCell(expr string, owner Handle) Cell {
	return Cell{kind: KindFormula, s: strings.TrimPrefix(expr, "="), owner: owner}
}

// Kind reports the variant of c.
func (c Cell) Kind() Kind { return c.kind }

// Int returns the integer value; zero for other kinds.
func (c Cell) Int() int64 { return c.i }

// Float returns the stored decimal value; zero for other kinds.
func (c Cell) Float() float64 { return c.f }

// Text returns the text value; empty for other kinds.
func (c Cell) Text() string {
	if c.kind != KindText {
		return ""
	}
	return c.s
}

// Expression returns the formula expression without the leading '='.
func (c Cell) Expression() string {
	if c.kind != KindFormula {
		return ""
	}
	return c.s
}

// Owner returns the handle of the table a formula cell is bound to.
func (c Cell) Owner() Handle { return c.owner }

// Display renders the cell for viewing and saving. It never fails.
func (c Cell) Display() string {
	switch c.kind {
	case KindInteger:
		return strconv.FormatInt(c.i, 10)
	case KindDouble:
		return formatDouble(c.f)
	case KindFormula:
		return formatResult(c.Numeric())
	default:
		return c.s
	}
}

// Numeric coerces the cell to a number. Text that does not parse is 0.
// A formula that cannot be evaluated returns NaN.
func (c Cell) Numeric() float64 {
	return c.numeric(nil)
}

func (c Cell) numeric(chain []visit) float64 {
	switch c.kind {
	case KindInteger:
		return float64(c.i)
	case KindDouble:
		return c.f
	case KindFormula:
		return evaluate(c.s, c.owner, chain)
	default:
		return parseNumber(c.s)
	}
}

// IsEmpty reports whether the cell displays as the empty string.
func (c Cell) IsEmpty() bool {
	return c.Display() == ""
}

// Raw returns text that NewCell classifies back into an equivalent cell.
// Formulas keep their expression; text that would otherwise be read as a
// number, formula, or quoted string is quoted and escaped.
func (c Cell) Raw() string {
	switch c.kind {
	case KindInteger, KindDouble:
		return c.Display()
	case KindFormula:
		return "=" + c.s
	default:
		if back := NewCell(c.s, Handle{}); back.kind == KindText && back.s == c.s {
			return c.s
		}
		return Quote(c.s)
	}
}

// Quote wraps s in double quotes, escaping backslashes and quotes.
func Quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// formatDouble renders a decimal so that it always carries a fractional
// part, e.g. 2 renders as "2.0".
func formatDouble(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if math.IsNaN(v) || math.IsInf(v, 0) || strings.Contains(s, ".") {
		return s
	}
	return s + ".0"
}

// formatResult renders a formula result: ERROR for NaN or infinity, whole
// numbers without a decimal point, anything else in shortest form.
func formatResult(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrorText
	}
	if v == math.Trunc(v) && math.Abs(v) < math.MaxInt64 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// parseNumber parses s as a float. Anything unparsable, NaN, or out of
// range is 0.
func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

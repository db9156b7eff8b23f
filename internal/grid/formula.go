package grid

import (
	"errors"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// maxDepth bounds nested formula evaluation.
const maxDepth = 64

// operators are tried in this order; the first operator that occurs past
// index 0 splits the expression, wherever the others appear.
var operators = []byte{'+', '-', '*', '/'}

var refPattern = regexp.MustCompile(`^R([0-9]+)C([0-9]+)$`)

var (
	errEmptyOperand = errors.New("empty operand")
	errBadReference = errors.New("malformed cell reference")
	errDetached     = errors.New("table no longer available")
	errTooDeep      = errors.New("formula nesting too deep")
	errCycle        = errors.New("formula references itself")
)

// visit is one reference being resolved further up the evaluation chain.
// A formula that reaches a reference already on the chain is an error, so a
// cycle ends in the error sentinel instead of recursing.
type visit struct {
	owner Handle
	ref   Ref
}

// Ref is a 1-based cell coordinate named in a formula as R<row>C<col>.
type Ref struct {
	Row int
	Col int
}

// String renders the reference in R<row>C<col> form.
func (r Ref) String() string {
	return "R" + strconv.Itoa(r.Row) + "C" + strconv.Itoa(r.Col)
}

// ParseRef parses an R<row>C<col> token. It reports false when token does
// not have that shape and an error when the shape matches but the numbers
// are zero or out of range.
func ParseRef(token string) (Ref, bool, error) {
	m := refPattern.FindStringSubmatch(token)
	if m == nil {
		return Ref{}, false, nil
	}
	row, err := strconv.Atoi(m[1])
	if err != nil || row < 1 {
		return Ref{}, true, errBadReference
	}
	col, err := strconv.Atoi(m[2])
	if err != nil || col < 1 {
		return Ref{}, true, errBadReference
	}
	return Ref{Row: row, Col: col}, true, nil
}

// Evaluate computes expr against the table behind owner, returning NaN
// when the expression cannot be evaluated. The result is never cached.
func Evaluate(expr string, owner Handle) float64 {
	return evaluate(expr, owner, nil)
}

func evaluate(expr string, owner Handle, chain []visit) (result float64) {
	defer func() {
		if recover() != nil {
			result = math.NaN()
		}
	}()
	v, err := evalExpr(expr, owner, chain)
	if err != nil {
		return math.NaN()
	}
	return v
}

func evalExpr(expr string, owner Handle, chain []visit) (float64, error) {
	if len(chain) > maxDepth {
		return 0, errTooDeep
	}
	expr = strings.TrimSpace(expr)
	expr = strings.TrimSpace(strings.TrimPrefix(expr, "="))

	idx := findOperator(expr)
	if idx < 0 {
		return resolveOperand(expr, owner, chain)
	}

	left, err := resolveOperand(strings.TrimSpace(expr[:idx]), owner, chain)
	if err != nil {
		return 0, err
	}
	right, err := resolveOperand(strings.TrimSpace(expr[idx+1:]), owner, chain)
	if err != nil {
		return 0, err
	}

	switch expr[idx] {
	case '+':
		return left + right, nil
	case '-':
		return left - right, nil
	case '*':
		return left * right, nil
	default:
		if right == 0 {
			return math.NaN(), nil
		}
		return left / right, nil
	}
}

// findOperator returns the index of the binary operator in expr, or -1.
// An operator at index 0 is a sign, not a binary operator.
func findOperator(expr string) int {
	for _, op := range operators {
		if i := strings.IndexByte(expr[min(1, len(expr)):], op); i >= 0 {
			return i + 1
		}
	}
	return -1
}

// resolveOperand turns one operand into a number: a cell reference, a
// numeric literal, or anything else as 0.
func resolveOperand(token string, owner Handle, chain []visit) (float64, error) {
	if token == "" {
		return 0, errEmptyOperand
	}
	ref, isRef, err := ParseRef(token)
	if err != nil {
		return 0, err
	}
	if !isRef {
		return parseNumber(token), nil
	}

	t, ok := owner.Resolve()
	if !ok {
		return 0, errDetached
	}
	cell, ok := t.Cell(ref.Row, ref.Col)
	if !ok {
		return 0, nil
	}
	switch cell.Kind() {
	case KindText:
		return parseNumber(cell.Display()), nil
	case KindFormula:
		here := visit{owner: owner, ref: ref}
		if slices.Contains(chain, here) {
			return 0, errCycle
		}
		return cell.numeric(append(chain[:len(chain):len(chain)], here)), nil
	default:
		return cell.Numeric(), nil
	}
}

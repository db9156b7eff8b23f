package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestTable builds a table from rows of raw tokens and releases it when
// the test ends.
func newTestTable(t *testing.T, rows ...[]string) *Table {
	t.Helper()
	tbl := NewTable()
	for _, r := range rows {
		tbl.AppendRow(r)
	}
	t.Cleanup(tbl.Release)
	return tbl
}

func TestFormula_AddReferences(t *testing.T) {
	tbl := newTestTable(t,
		[]string{"3"},
		[]string{"", "4"},
	)

	cell := NewCell("=R1C1 + R2C2", tbl.Handle())
	assert.Equal(t, 7.0, cell.Numeric())
	assert.Equal(t, "7", cell.Display())
}

func TestFormula_DivideByZero(t *testing.T) {
	for _, tok := range []string{"5", "2.5", "-1", "0"} {
		tbl := newTestTable(t, []string{tok})
		cell := NewCell("=R1C1 / 0", tbl.Handle())
		assert.True(t, math.IsNaN(cell.Numeric()), tok)
		assert.Equal(t, ErrorText, cell.Display(), tok)
	}
}

func TestFormula_Evaluate(t *testing.T) {
	tbl := newTestTable(t,
		[]string{"10", "2.5", "abc", "7"},
		[]string{`"12"`, "", "=R1C1 * 2"},
	)

	tests := []struct {
		name string
		expr string
		want float64
	}{
		{name: "literal", expr: "=5", want: 5},
		{name: "literal without equals", expr: "5", want: 5},
		{name: "negative literal", expr: "=-3", want: -3},
		{name: "addition", expr: "=1 + 2", want: 3},
		{name: "no spaces", expr: "=6*7", want: 42},
		{name: "subtraction", expr: "=R1C1 - R1C2", want: 7.5},
		{name: "leading sign is not an operator", expr: "=-3 * 2", want: -6},
		{name: "negative right operand", expr: "=4 - -1", want: 5},
		{name: "division", expr: "=R1C1 / 4", want: 2.5},
		{name: "text cell reference coerces to zero", expr: "=R1C3 + 1", want: 1},
		{name: "numeric text cell reference parses", expr: "=R2C1 + 1", want: 13},
		{name: "missing cell is zero", expr: "=R9C9 + 1", want: 1},
		{name: "empty backfilled cell is zero", expr: "=R2C2 + 1", want: 1},
		{name: "nested formula", expr: "=R2C3 + 1", want: 21},
		{name: "text operand is zero", expr: "=foo + 2", want: 2},
		{name: "lowercase reference is text", expr: "=r1c1 + 2", want: 2},
		{name: "single reference", expr: "=R1C4", want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.expr, tbl.Handle())
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestFormula_OperatorPriorityTieBreak(t *testing.T) {
	tbl := newTestTable(t)

	// '+' is found before '*' even though '*' appears first, so the
	// expression splits into "2 * 3" and "4"; "2 * 3" is not a number.
	assert.Equal(t, 4.0, Evaluate("=2 * 3 + 4", tbl.Handle()))

	// '-' wins over '/': "8 / 2" is not a number, so the result is 0 - 1.
	assert.Equal(t, -1.0, Evaluate("=8 / 2 - 1", tbl.Handle()))
}

func TestFormula_Errors(t *testing.T) {
	tbl := newTestTable(t, []string{"1"})

	tests := []struct {
		name string
		expr string
	}{
		{name: "empty expression", expr: "="},
		{name: "missing right operand", expr: "=1 +"},
		{name: "zero row reference", expr: "=R0C1 + 1"},
		{name: "zero column reference", expr: "=R1C0"},
		{name: "overflowing reference", expr: "=R99999999999999999999C1"},
		{name: "division by zero literal", expr: "=1 / 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := NewCell(tt.expr, tbl.Handle())
			assert.True(t, math.IsNaN(cell.Numeric()))
			assert.Equal(t, ErrorText, cell.Display())
		})
	}
}

func TestFormula_SelfReferenceIsError(t *testing.T) {
	tbl := NewTable()
	defer tbl.Release()

	require.NoError(t, tbl.Edit(1, 1, "=R1C1 + 1"))
	cell, ok := tbl.Cell(1, 1)
	require.True(t, ok)
	assert.Equal(t, ErrorText, cell.Display())
}

func TestFormula_DoubleSelfReferenceTerminates(t *testing.T) {
	tbl := NewTable()
	defer tbl.Release()

	require.NoError(t, tbl.Edit(1, 1, "=R1C1 + R1C1"))
	cell, _ := tbl.Cell(1, 1)
	assert.Equal(t, ErrorText, cell.Display())
}

func TestFormula_SharedReferenceIsNotACycle(t *testing.T) {
	tbl := NewTable()
	defer tbl.Release()

	require.NoError(t, tbl.Edit(1, 1, "=2 * 3"))
	require.NoError(t, tbl.Edit(1, 2, "=R1C1 + R1C1"))
	cell, _ := tbl.Cell(1, 2)
	assert.Equal(t, "12", cell.Display())
}

func TestFormula_MutualReferenceIsError(t *testing.T) {
	tbl := NewTable()
	defer tbl.Release()

	require.NoError(t, tbl.Edit(1, 1, "=R1C2"))
	require.NoError(t, tbl.Edit(1, 2, "=R1C1"))
	cell, _ := tbl.Cell(1, 1)
	assert.Equal(t, ErrorText, cell.Display())
}

func TestFormula_RecomputedOnEveryCall(t *testing.T) {
	tbl := NewTable()
	defer tbl.Release()

	require.NoError(t, tbl.Edit(1, 1, "2"))
	require.NoError(t, tbl.Edit(1, 2, "=R1C1 * 10"))
	cell, _ := tbl.Cell(1, 2)
	assert.Equal(t, "20", cell.Display())

	require.NoError(t, tbl.Edit(1, 1, "0.5"))
	assert.Equal(t, "5", cell.Display())

	require.NoError(t, tbl.Edit(1, 1, "0.25"))
	assert.Equal(t, "2.5", cell.Display())
}

func TestFormula_ReleasedTableIsError(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.Edit(1, 1, "3"))
	require.NoError(t, tbl.Edit(1, 2, "=R1C1 + 1"))
	cell, _ := tbl.Cell(1, 2)
	assert.Equal(t, "4", cell.Display())

	tbl.Release()
	assert.Equal(t, ErrorText, cell.Display())
}

func TestFormula_ClearedTableIsError(t *testing.T) {
	tbl := NewTable()
	defer tbl.Release()

	require.NoError(t, tbl.Edit(1, 1, "=2 + 2"))
	cell, _ := tbl.Cell(1, 1)
	assert.Equal(t, "4", cell.Display())

	tbl.Clear()
	// A literal-only formula does not touch the table.
	assert.Equal(t, "4", cell.Display())

	ref := NewCell("=R1C1", cell.Owner())
	assert.Equal(t, ErrorText, ref.Display())
}

func TestFormula_UnboundHandle(t *testing.T) {
	cell := NewCell("=R1C1 + 1", Handle{})
	assert.Equal(t, ErrorText, cell.Display())

	literal := NewCell("=1 + 1", Handle{})
	assert.Equal(t, "2", literal.Display())
}

func TestParseRef(t *testing.T) {
	ref, ok, err := ParseRef("R2C3")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Ref{Row: 2, Col: 3}, ref)
	assert.Equal(t, "R2C3", ref.String())

	_, ok, err = ParseRef("A1")
	assert.False(t, ok)
	assert.NoError(t, err)

	_, ok, err = ParseRef("R0C3")
	assert.True(t, ok)
	assert.Error(t, err)
}

func TestFindOperator(t *testing.T) {
	tests := []struct {
		expr string
		want int
	}{
		{expr: "1+2", want: 1},
		{expr: "-1", want: -1},
		{expr: "-1-2", want: 2},
		{expr: "2*3+4", want: 3},
		{expr: "+5", want: -1},
		{expr: "", want: -1},
		{expr: "8/2", want: 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, findOperator(tt.expr), tt.expr)
	}
}

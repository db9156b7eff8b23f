package grid

import (
	"github.com/mesh-intelligence/tableapp/pkg/types"
)

// Table is a ragged two-dimensional collection of cells. Rows may differ in
// length. Public coordinates are 1-based; row and column indexes taken by
// Row and CellAt are 0-based.
//
// A Table is not safe for concurrent use.
type Table struct {
	rows   [][]Cell
	handle Handle
}

// NewTable returns an empty table with zero rows.
func NewTable() *Table {
	t := &Table{}
	t.handle = register(t)
	return t
}

// Handle returns the reference formula cells in this table are bound to.
func (t *Table) Handle() Handle {
	return t.handle
}

// AddRow appends an empty row.
func (t *Table) AddRow() {
	t.rows = append(t.rows, nil)
}

// AppendRow classifies each token with NewCell and appends the cells as a
// new row, in order.
func (t *Table) AppendRow(tokens []string) {
	row := make([]Cell, len(tokens))
	for i, tok := range tokens {
		row[i] = NewCell(tok, t.handle)
	}
	t.rows = append(t.rows, row)
}

// Row returns a copy of the row at the 0-based index.
func (t *Table) Row(index int) ([]Cell, bool) {
	if index < 0 || index >= len(t.rows) {
		return nil, false
	}
	row := make([]Cell, len(t.rows[index]))
	copy(row, t.rows[index])
	return row, true
}

// RowLen returns the number of cells in the row at the 0-based index, or 0
// when the row does not exist.
func (t *Table) RowLen(index int) int {
	if index < 0 || index >= len(t.rows) {
		return 0
	}
	return len(t.rows[index])
}

// CellAt returns the cell at 0-based coordinates.
func (t *Table) CellAt(row, col int) (Cell, bool) {
	if row < 0 || row >= len(t.rows) {
		return Cell{}, false
	}
	if col < 0 || col >= len(t.rows[row]) {
		return Cell{}, false
	}
	return t.rows[row][col], true
}

// Cell returns the cell at 1-based coordinates. It reports false for any
// coordinate outside the populated range and never grows the table.
func (t *Table) Cell(row, col int) (Cell, bool) {
	return t.CellAt(row-1, col-1)
}

// Edit replaces the cell at 1-based coordinates with NewCell(text). The
// table grows as needed: new rows above the target are filled with empty
// text cells up to the target column, and the target row is padded with
// empty text cells. Cells after the target in its row are kept.
func (t *Table) Edit(row, col int, text string) error {
	if row < 1 || col < 1 {
		return types.ErrInvalidCoordinate
	}
	r, c := row-1, col-1
	for len(t.rows) <= r {
		if len(t.rows) == r {
			t.rows = append(t.rows, nil)
			break
		}
		t.rows = append(t.rows, make([]Cell, col))
	}
	if len(t.rows[r]) <= c {
		grown := make([]Cell, col)
		copy(grown, t.rows[r])
		t.rows[r] = grown
	}
	t.rows[r][c] = NewCell(text, t.handle)
	return nil
}

// RowCount returns the number of stored rows, including trailing empty ones.
func (t *Table) RowCount() int {
	return len(t.rows)
}

// ActualHeight returns the 1-based index of the last row that holds a cell
// with a non-empty display value, or 0 when there is none.
func (t *Table) ActualHeight() int {
	for r := len(t.rows) - 1; r >= 0; r-- {
		for _, cell := range t.rows[r] {
			if !cell.IsEmpty() {
				return r + 1
			}
		}
	}
	return 0
}

// ActualWidth returns the length of the longest row.
func (t *Table) ActualWidth() int {
	width := 0
	for _, row := range t.rows {
		width = max(width, len(row))
	}
	return width
}

// Clear removes every row. Formula cells created before the clear stop
// resolving against this table.
func (t *Table) Clear() {
	t.rows = nil
	revoke(t.handle)
	t.handle = register(t)
}

// Release drops the table from the handle registry. Formulas bound to it
// evaluate to the error sentinel afterwards. The table must not be edited
// after Release.
func (t *Table) Release() {
	t.rows = nil
	revoke(t.handle)
}

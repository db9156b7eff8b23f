// Package grid holds the in-memory table model: typed cells, the factory
// that classifies raw text into cells, the ragged two-dimensional Table, and
// the single-operator formula evaluator that resolves R<row>C<col>
// references against the owning table.
//
// Cells are values. A formula cell refers back to its table through a
// Handle, a non-owning registry key; once the table is cleared or released
// the handle no longer resolves and the formula evaluates to the error
// sentinel (NaN), which displays as ERROR.
package grid

// Package document binds a table to the file it was loaded from or saved
// to, and exposes the editing surface used by the command layer: load,
// save, save-as, close, edit, and view.
package document

import (
	"context"
	"fmt"

	"go.alis.build/alog"

	"github.com/mesh-intelligence/tableapp/internal/display"
	"github.com/mesh-intelligence/tableapp/internal/grid"
	"github.com/mesh-intelligence/tableapp/internal/tablefile"
	"github.com/mesh-intelligence/tableapp/pkg/types"
)

// Document is a table plus the path it is bound to. The zero path means no
// file is bound. A Document is not safe for concurrent use.
type Document struct {
	table *grid.Table
	path  string
}

// New returns an empty document with no bound file.
func New() *Document {
	return &Document{table: grid.NewTable()}
}

// Table returns the current table.
func (d *Document) Table() *grid.Table {
	return d.table
}

// Path returns the bound file path, or "" when none is bound.
func (d *Document) Path() string {
	return d.path
}

// IsOpen reports whether a file is bound.
func (d *Document) IsOpen() bool {
	return d.path != ""
}

// Load replaces the table with the contents of path and binds path. The
// file is read into a new table first; on error the current table and
// binding are left unchanged.
func (d *Document) Load(path string) error {
	t, err := tablefile.Load(path)
	if err != nil {
		return fmt.Errorf("load table: %w", err)
	}
	d.Replace(t)
	d.path = path
	alog.Debugf(context.Background(), "loaded %s: %d rows", path, t.RowCount())
	return nil
}

// Save writes the table to the bound path. It returns ErrNoFileBound and
// writes nothing when no path is bound.
func (d *Document) Save() error {
	if d.path == "" {
		return types.ErrNoFileBound
	}
	return d.SaveAs(d.path)
}

// SaveAs writes the table to path and binds path.
func (d *Document) SaveAs(path string) error {
	if err := tablefile.Save(path, d.table); err != nil {
		return fmt.Errorf("save table: %w", err)
	}
	d.path = path
	alog.Debugf(context.Background(), "saved %s: %d rows", path, d.table.RowCount())
	return nil
}

// Close clears the table and forgets the bound path.
func (d *Document) Close() {
	d.table.Clear()
	d.path = ""
}

// Edit sets the cell at 1-based coordinates from raw text, growing the
// table as needed.
func (d *Document) Edit(row, col int, text string) error {
	return d.table.Edit(row, col, text)
}

// Replace swaps in t as the current table and releases the previous one.
// The bound path is kept.
func (d *Document) Replace(t *grid.Table) {
	if d.table != nil && d.table != t {
		d.table.Release()
	}
	d.table = t
}

// DisplayText renders the table in the plain layout with the default
// column width.
func (d *Document) DisplayText() string {
	return display.Plain(d.table, types.DefaultColumnWidth)
}

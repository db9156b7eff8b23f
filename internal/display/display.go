// Package display renders tables for the console.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/mesh-intelligence/tableapp/internal/grid"
	"github.com/mesh-intelligence/tableapp/pkg/types"
)

// Options control how a table is rendered.
type Options struct {
	Style       string // types.StylePlain or types.StyleGrid
	ColumnWidth int    // minimum field width for the plain style
}

// DefaultOptions returns the plain style with the default column width.
func DefaultOptions() Options {
	return Options{Style: types.DefaultPrintStyle, ColumnWidth: types.DefaultColumnWidth}
}

// Matrix returns the display values of t clipped to its actual height and
// padded to its actual width. Missing cells render as "".
func Matrix(t *grid.Table) [][]string {
	height, width := t.ActualHeight(), t.ActualWidth()
	out := make([][]string, height)
	for r := 0; r < height; r++ {
		out[r] = make([]string, width)
		for c := 0; c < width; c++ {
			if cell, ok := t.CellAt(r, c); ok {
				out[r][c] = cell.Display()
			}
		}
	}
	return out
}

// Plain renders t with every value left-aligned in a field of the given
// width and followed by '|'. Each row ends with a newline.
func Plain(t *grid.Table, width int) string {
	var b strings.Builder
	for _, row := range Matrix(t) {
		for _, v := range row {
			fmt.Fprintf(&b, "%-*s|", width, v)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Render writes t to w in the style named by opts.
func Render(w io.Writer, t *grid.Table, opts Options) error {
	switch opts.Style {
	case types.StylePlain, "":
		width := opts.ColumnWidth
		if width <= 0 {
			width = types.DefaultColumnWidth
		}
		_, err := io.WriteString(w, Plain(t, width))
		return err
	case types.StyleGrid:
		return renderGrid(w, t)
	default:
		return fmt.Errorf("%w: %q", types.ErrStyleUnknown, opts.Style)
	}
}

// renderGrid draws a bordered table with C1..Cn column headers.
func renderGrid(w io.Writer, t *grid.Table) error {
	rows := Matrix(t)
	if len(rows) == 0 {
		return nil
	}

	headers := make([]any, t.ActualWidth())
	for c := range headers {
		headers[c] = fmt.Sprintf("C%d", c+1)
	}

	// Headers are printed as given; auto-format would render C1 as "C 1".
	table := tablewriter.NewTable(w, tablewriter.WithHeaderAutoFormat(tw.Off))
	table.Header(headers...)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("append row: %w", err)
		}
	}
	return table.Render()
}

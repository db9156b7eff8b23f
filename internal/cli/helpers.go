// Shared helpers for tableapp CLI commands.
package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/tableapp/internal/display"
	"github.com/mesh-intelligence/tableapp/internal/grid"
	"github.com/mesh-intelligence/tableapp/internal/sqlite"
	"github.com/mesh-intelligence/tableapp/pkg/types"
)

// parseCoord parses a 1-based row or column number.
func parseCoord(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidCoordinate, s)
	}
	return n, nil
}

// parseCell parses a row and column pair.
func parseCell(rowArg, colArg string) (int, int, error) {
	row, err := parseCoord(rowArg)
	if err != nil {
		return 0, 0, err
	}
	col, err := parseCoord(colArg)
	if err != nil {
		return 0, 0, err
	}
	return row, col, nil
}

// displayOptions builds render options from the loaded config.
func (a *app) displayOptions() display.Options {
	return display.Options{Style: a.cfg.PrintStyle, ColumnWidth: a.cfg.ColumnWidth}
}

// attachStore opens the snapshot store. dbDir, when set, replaces the
// resolved data directory. The caller must defer store.Detach().
func (a *app) attachStore(dbDir string) (*sqlite.Store, error) {
	dataDir := dbDir
	if dataDir == "" {
		var err error
		dataDir, err = a.resolveDataDir()
		if err != nil {
			return nil, fmt.Errorf("resolve data dir: %w", err)
		}
	}

	store := sqlite.NewStore()
	if err := store.Attach(dataDir); err != nil {
		return nil, fmt.Errorf("attach store: %w", err)
	}
	return store, nil
}

// describeCell writes the kind, raw text, display value, numeric value,
// and formula references of one cell. Missing cells describe as empty text.
func describeCell(w io.Writer, t *grid.Table, row, col int) {
	cell, _ := t.Cell(row, col)
	fmt.Fprintf(w, "cell: R%dC%d\n", row, col)
	fmt.Fprintf(w, "kind: %s\n", cell.Kind())
	fmt.Fprintf(w, "raw: %s\n", cell.Raw())
	fmt.Fprintf(w, "display: %s\n", cell.Display())
	fmt.Fprintf(w, "value: %s\n", strconv.FormatFloat(cell.Numeric(), 'g', -1, 64))
	if cell.Kind() != grid.KindFormula {
		return
	}
	refs := grid.References(cell.Expression())
	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = ref.String()
	}
	fmt.Fprintf(w, "refs: %s\n", strings.Join(names, ", "))
}

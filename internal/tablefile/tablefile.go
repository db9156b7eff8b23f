// Package tablefile reads and writes tables in the comma-delimited text
// format: one line per row, fields split on a bare ',' when reading and
// joined with ", " when writing. Fields whose display text contains ',' or
// '"' are written quoted with backslash escapes.
//
// Formula cells are written as their display value, so a saved formula
// comes back as a plain number or text on the next load.
package tablefile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/tableapp/internal/grid"
	"github.com/mesh-intelligence/tableapp/pkg/types"
)

const (
	readSeparator  = ","
	writeSeparator = ", "
)

// maxLineSize caps a single input line.
const maxLineSize = 16 << 20

// Read parses r into a new table, one row per line.
func Read(r io.Reader) (*grid.Table, error) {
	t := grid.NewTable()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		t.AppendRow(SplitLine(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		t.Release()
		return nil, err
	}
	return t, nil
}

// SplitLine splits one input line on commas into trimmed fields. Empty
// fields are kept, including a trailing one after a final comma. A field
// that starts with '"' runs to the matching unescaped '"' when that quote is
// followed by a comma or the end of the line, so values written quoted by
// Write read back whole; otherwise the field ends at the next comma.
func SplitLine(line string) []string {
	line = strings.TrimSuffix(line, "\r")
	var fields []string
	for {
		start := len(line) - len(strings.TrimLeft(line, " \t"))
		if end, ok := quotedEnd(line, start); ok {
			fields = append(fields, strings.TrimSpace(line[:end]))
			line = strings.TrimLeft(line[end:], " \t")
			if line == "" {
				return fields
			}
			line = line[len(readSeparator):]
			continue
		}
		i := strings.Index(line, readSeparator)
		if i < 0 {
			return append(fields, strings.TrimSpace(line))
		}
		fields = append(fields, strings.TrimSpace(line[:i]))
		line = line[i+len(readSeparator):]
	}
}

// quotedEnd reports the index just past the closing quote of a quoted field
// starting at start. The closing quote must be followed only by blanks and
// then a comma or the end of the line.
func quotedEnd(line string, start int) (int, bool) {
	if start >= len(line) || line[start] != '"' {
		return 0, false
	}
	for i := start + 1; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '"':
			rest := strings.TrimLeft(line[i+1:], " \t")
			if rest == "" || strings.HasPrefix(rest, readSeparator) {
				return i + 1, true
			}
		}
	}
	return 0, false
}

// Write renders every stored row of t to w. Each row ends with a newline,
// the last one included.
func Write(w io.Writer, t *grid.Table) error {
	bw := bufio.NewWriter(w)
	for r := 0; r < t.RowCount(); r++ {
		row, _ := t.Row(r)
		for c, cell := range row {
			if c > 0 {
				if _, err := bw.WriteString(writeSeparator); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(EncodeField(cell.Display())); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// EncodeField quotes value when it contains a comma or a double quote.
func EncodeField(value string) string {
	if !strings.ContainsAny(value, `,"`) {
		return value
	}
	return grid.Quote(value)
}

// Load reads the table stored at path. The file is closed before Load
// returns.
func Load(path string) (*grid.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", types.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", types.ErrFileRead, err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrFileRead, path, err)
	}
	return t, nil
}

// Save atomically writes t to path using the temp-file, fsync, rename
// pattern, so a failed save leaves any existing file intact.
func Save(path string, t *grid.Table) error {
	if err := writeAtomic(path, t); err != nil {
		return fmt.Errorf("%w: %v", types.ErrFileWrite, err)
	}
	return nil
}

func writeAtomic(path string, t *grid.Table) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".table-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := Write(tmp, t); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing rows: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/tableapp/internal/grid"
	"github.com/mesh-intelligence/tableapp/pkg/types"
)

// Snapshot describes one stored table.
type Snapshot struct {
	ID        string
	Name      string
	Rows      int
	CreatedAt time.Time
}

// Save stores t under name, replacing any snapshot with the same name.
// Returns the new snapshot ID.
func (s *Store) Save(name string, t *grid.Table) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.attached {
		return "", types.ErrStoreDetached
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM snapshots WHERE name = ?`, name); err != nil {
		return "", fmt.Errorf("replace snapshot: %w", err)
	}

	id := generateUUID()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.Exec(
		`INSERT INTO snapshots (snapshot_id, name, row_count, created_at) VALUES (?, ?, ?, ?)`,
		id, name, t.RowCount(), now,
	); err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO snapshot_cells (snapshot_id, row_idx, col_idx, raw) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare cell insert: %w", err)
	}
	defer stmt.Close()

	for r := 0; r < t.RowCount(); r++ {
		row, _ := t.Row(r)
		for c, cell := range row {
			if _, err := stmt.Exec(id, r, c, cell.Raw()); err != nil {
				return "", fmt.Errorf("insert cell (%d,%d): %w", r+1, c+1, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit snapshot: %w", err)
	}
	return id, nil
}

// Load rebuilds the table stored under name. Row lengths, empty rows, and
// formula expressions are restored exactly.
func (s *Store) Load(name string) (*grid.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.attached {
		return nil, types.ErrStoreDetached
	}

	var id string
	var rowCount int
	err := s.db.QueryRow(`SELECT snapshot_id, row_count FROM snapshots WHERE name = ?`, name).Scan(&id, &rowCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", types.ErrSnapshotNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT row_idx, col_idx, raw FROM snapshot_cells WHERE snapshot_id = ? ORDER BY row_idx, col_idx`, id)
	if err != nil {
		return nil, fmt.Errorf("query cells: %w", err)
	}
	defer rows.Close()

	raws := make([][]string, rowCount)
	for rows.Next() {
		var r, c int
		var raw string
		if err := rows.Scan(&r, &c, &raw); err != nil {
			return nil, fmt.Errorf("scan cell: %w", err)
		}
		if r < 0 || r >= rowCount || c != len(raws[r]) {
			return nil, fmt.Errorf("snapshot %q: unexpected cell (%d,%d)", name, r+1, c+1)
		}
		raws[r] = append(raws[r], raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cells: %w", err)
	}

	t := grid.NewTable()
	for _, tokens := range raws {
		t.AppendRow(tokens)
	}
	return t, nil
}

// List returns all snapshots ordered by creation time, oldest first.
func (s *Store) List() ([]Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := s.db.Query(`SELECT snapshot_id, name, row_count, created_at FROM snapshots ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		var created string
		if err := rows.Scan(&snap.ID, &snap.Name, &snap.Rows, &created); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return out, nil
}

// Delete removes the snapshot stored under name.
// Returns ErrSnapshotNotFound if there is none.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.attached {
		return types.ErrStoreDetached
	}

	res, err := s.db.Exec(`DELETE FROM snapshots WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", types.ErrSnapshotNotFound, name)
	}
	return nil
}

// validateName rejects empty names and names with surrounding whitespace.
func validateName(name string) error {
	if name == "" || strings.TrimSpace(name) != name {
		return fmt.Errorf("%w: %q", types.ErrInvalidName, name)
	}
	return nil
}

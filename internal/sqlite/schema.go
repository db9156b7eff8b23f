package sqlite

// Schema DDL for the snapshot store.
const (
	createSnapshots = `CREATE TABLE IF NOT EXISTS snapshots (
    snapshot_id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    row_count INTEGER NOT NULL,
    created_at TEXT NOT NULL
);`

	createSnapshotCells = `CREATE TABLE IF NOT EXISTS snapshot_cells (
    snapshot_id TEXT NOT NULL,
    row_idx INTEGER NOT NULL,
    col_idx INTEGER NOT NULL,
    raw TEXT NOT NULL,
    PRIMARY KEY (snapshot_id, row_idx, col_idx),
    FOREIGN KEY (snapshot_id) REFERENCES snapshots(snapshot_id) ON DELETE CASCADE
);`
)

// Index DDL for common queries.
const (
	idxSnapshotsCreated = `CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createSnapshots,
	createSnapshotCells,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxSnapshotsCreated,
}

// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: One table of archived roster files keyed by UUID.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		source_path TEXT NOT NULL DEFAULT '',
		format TEXT NOT NULL DEFAULT 'csv',
		row_count INTEGER NOT NULL,
		content BLOB NOT NULL,
		notes TEXT,
		imported_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_imported ON snapshots(imported_at DESC);
	CREATE INDEX IF NOT EXISTS idx_snapshots_name ON snapshots(name);
	`

	_, err := d.db.Exec(schema)
	return err
}

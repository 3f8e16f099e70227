// ABOUTME: Opens the SQLite file that archives roster snapshots.
// ABOUTME: The archive lives at <data dir>/roster.db; modernc.org/sqlite needs no CGO.
package storage

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DBFilename is the archive file name inside the data directory.
const DBFilename = "roster.db"

// archivePragmas run on every connection the driver opens.
var archivePragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"synchronous(NORMAL)",
}

// DB is the SQLite-backed snapshot archive.
type DB struct {
	db     *sql.DB
	dbPath string
}

// DataDir returns $XDG_DATA_HOME/roster, falling back to ~/.local/share/roster.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "roster")
}

// ArchivePath is the archive file inside dataDir, or inside DataDir() when
// dataDir is empty.
func ArchivePath(dataDir string) string {
	if dataDir == "" {
		dataDir = DataDir()
	}
	return filepath.Join(dataDir, DBFilename)
}

// OpenArchive opens or creates the snapshot archive of dataDir.
func OpenArchive(dataDir string) (*DB, error) {
	return Open(ArchivePath(dataDir))
}

// Open opens or creates an archive file at dbPath. The file is created
// readable by the owner only, since snapshots hold whole class lists.
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}

	db, err := sql.Open("sqlite", archiveDSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	db.SetMaxOpenConns(1)

	d := &DB{db: db, dbPath: dbPath}
	if err := d.prepare(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return d, nil
}

// prepare creates the file, restricts its mode and brings the schema up.
func (d *DB) prepare() error {
	if err := d.db.Ping(); err != nil {
		return fmt.Errorf("open archive %s: %w", d.dbPath, err)
	}
	if err := os.Chmod(d.dbPath, 0600); err != nil {
		return fmt.Errorf("set archive permissions: %w", err)
	}
	if err := d.initSchema(); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	return nil
}

func archiveDSN(path string) string {
	q := url.Values{}
	for _, p := range archivePragmas {
		q.Add("_pragma", p)
	}
	return path + "?" + q.Encode()
}

// Path returns the archive file path.
func (d *DB) Path() string {
	return d.dbPath
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

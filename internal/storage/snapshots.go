// ABOUTME: Snapshot CRUD operations for SQLite storage.
// ABOUTME: Ids resolve from unique prefixes; listings omit file content.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/roster/internal/models"
)

// timeLayout has a fixed width so text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SaveSnapshot stores a new snapshot.
func (d *DB) SaveSnapshot(s *models.Snapshot) error {
	query := `
		INSERT INTO snapshots (id, name, source_path, format, row_count, content, notes, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		s.ID.String(),
		s.Name,
		s.SourcePath,
		s.Format,
		s.RowCount,
		s.Content,
		s.Notes,
		s.ImportedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// GetSnapshot retrieves a snapshot, including its content, by ID or ID prefix.
func (d *DB) GetSnapshot(idOrPrefix string) (*models.Snapshot, error) {
	id, err := d.resolveSnapshotID(idOrPrefix)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, source_path, format, row_count, content, notes, imported_at
		FROM snapshots
		WHERE id = ?
	`
	s, err := scanSnapshot(d.db.QueryRow(query, id), true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}
	return s, err
}

// GetLatestSnapshot returns the most recently imported snapshot.
func (d *DB) GetLatestSnapshot() (*models.Snapshot, error) {
	query := `
		SELECT id, name, source_path, format, row_count, content, notes, imported_at
		FROM snapshots
		ORDER BY imported_at DESC
		LIMIT 1
	`
	s, err := scanSnapshot(d.db.QueryRow(query), true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no snapshots stored", ErrNotFound)
	}
	return s, err
}

// ListSnapshots returns snapshots newest first without their content.
func (d *DB) ListSnapshots(limit int) ([]*models.Snapshot, error) {
	query := `
		SELECT id, name, source_path, format, row_count, NULL, notes, imported_at
		FROM snapshots
		ORDER BY imported_at DESC
	`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*models.Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows, false)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// DeleteSnapshot removes a snapshot by ID or prefix.
func (d *DB) DeleteSnapshot(idOrPrefix string) error {
	id, err := d.resolveSnapshotID(idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}

	result, err := d.db.Exec("DELETE FROM snapshots WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete snapshot: %w: %s", ErrNotFound, idOrPrefix)
	}
	return nil
}

// resolveSnapshotID finds the full ID from a prefix.
func (d *DB) resolveSnapshotID(idOrPrefix string) (string, error) {
	if len(idOrPrefix) == 36 && strings.Count(idOrPrefix, "-") == 4 {
		return idOrPrefix, nil
	}
	if idOrPrefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrNotFound)
	}

	rows, err := d.db.Query(`SELECT id FROM snapshots WHERE id LIKE ? || '%'`, idOrPrefix)
	if err != nil {
		return "", fmt.Errorf("resolve snapshot ID: %w", err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan snapshot ID: %w", err)
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve snapshot ID: %w", err)
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
	}
	if len(matches) > 1 {
		return "", fmt.Errorf("ambiguous prefix %s: matches multiple records", idOrPrefix)
	}
	return matches[0], nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner, withContent bool) (*models.Snapshot, error) {
	var s models.Snapshot
	var idStr, importedAt string
	var content []byte
	var notes sql.NullString

	err := row.Scan(&idStr, &s.Name, &s.SourcePath, &s.Format, &s.RowCount, &content, &notes, &importedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}

	s.ID, _ = uuid.Parse(idStr)
	s.ImportedAt, _ = time.Parse(time.RFC3339Nano, importedAt)
	if withContent {
		s.Content = content
	}
	if notes.Valid {
		s.Notes = &notes.String
	}
	return &s, nil
}

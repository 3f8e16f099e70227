// ABOUTME: Snapshot model for archived roster files.
// ABOUTME: Stores the source bytes so derivation can be re-run on read.
package models

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Snapshot content formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Snapshot is an archived copy of a roster file.
type Snapshot struct {
	ID         uuid.UUID
	Name       string
	SourcePath string
	Format     string
	RowCount   int
	Content    []byte
	Notes      *string
	ImportedAt time.Time
}

// NewSnapshot creates a new Snapshot with generated UUID and current timestamp.
func NewSnapshot(name string, content []byte, rowCount int) *Snapshot {
	return &Snapshot{
		ID:         uuid.New(),
		Name:       name,
		Format:     FormatCSV,
		RowCount:   rowCount,
		Content:    content,
		ImportedAt: time.Now(),
	}
}

// WithSourcePath records where the file was read from. A .xlsx extension
// marks the content as a workbook.
func (s *Snapshot) WithSourcePath(path string) *Snapshot {
	s.SourcePath = path
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		s.Format = FormatXLSX
	}
	return s
}

// WithNotes sets notes on the snapshot.
func (s *Snapshot) WithNotes(notes string) *Snapshot {
	s.Notes = &notes
	return s
}

// ShortID returns the 8-character id prefix shown in listings.
func (s *Snapshot) ShortID() string {
	return s.ID.String()[:8]
}

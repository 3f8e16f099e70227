// ABOUTME: Repository interface for the roster snapshot archive.
// ABOUTME: Commands and tests depend on this rather than the SQLite type.
package storage

import (
	"errors"

	"github.com/harperreed/roster/internal/models"
)

// ErrNotFound is returned when no snapshot matches an id or prefix.
var ErrNotFound = errors.New("not found")

// Repository defines the storage interface for archived rosters.
type Repository interface {
	SaveSnapshot(s *models.Snapshot) error
	GetSnapshot(idOrPrefix string) (*models.Snapshot, error)
	GetLatestSnapshot() (*models.Snapshot, error)
	ListSnapshots(limit int) ([]*models.Snapshot, error)
	DeleteSnapshot(idOrPrefix string) error

	Close() error
}

var _ Repository = (*DB)(nil)

package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/mixtape/internal/shared"
)

// StateRepository persists serialized client state snapshots, one record per
// namespace. Implements store.Persister.
type StateRepository struct {
	db *sql.DB
}

// NewStateRepository creates a new StateRepository with the given database connection
func NewStateRepository(db *sql.DB) *StateRepository {
	return &StateRepository{db: db}
}

// SaveState upserts the snapshot for the namespace, replacing any previous record.
func (r *StateRepository) SaveState(namespace string, data []byte) error {
	query := `
		INSERT INTO state (namespace, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(namespace) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, namespace, string(data), time.Now()); err != nil {
		return fmt.Errorf("failed to save state snapshot: %w", err)
	}

	return nil
}

// LoadState returns the snapshot stored under the namespace, or
// [shared.ErrNoState] when none exists.
func (r *StateRepository) LoadState(namespace string) ([]byte, error) {
	var data string

	err := r.db.QueryRow("SELECT data FROM state WHERE namespace = ?", namespace).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: namespace %s", shared.ErrNoState, namespace)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load state snapshot: %w", err)
	}

	return []byte(data), nil
}

// UpdatedAt returns when the namespace's snapshot was last written.
func (r *StateRepository) UpdatedAt(namespace string) (time.Time, error) {
	var updatedAt time.Time

	err := r.db.QueryRow("SELECT updated_at FROM state WHERE namespace = ?", namespace).Scan(&updatedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, fmt.Errorf("%w: namespace %s", shared.ErrNoState, namespace)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query state snapshot: %w", err)
	}

	return updatedAt, nil
}

package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
)

// SongRepository implements models.Repository[*models.PersistedSong] for the search result cache.
//
// Handles song CRUD operations with soft delete support and service-specific lookups.
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Create inserts a new song into the database with generated ID and sequence
func (r *SongRepository) Create(song *models.PersistedSong) error {
	sequence, err := NextSequence(r.db, "songs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	song.SetID(id)

	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO songs (id, sequence, service, service_id, title, artist, thumbnail, url, duration, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		song.Service(),
		song.ServiceID(),
		song.Title(),
		song.Artist(),
		song.Thumbnail(),
		song.URL(),
		song.Duration(),
		song.CreatedAt(),
		song.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	return nil
}

// Get retrieves a song by ID, excluding soft-deleted songs
func (r *SongRepository) Get(id string) (*models.PersistedSong, error) {
	query := `
		SELECT id, sequence, service, service_id, title, artist, thumbnail, url, duration, created_at, updated_at, deleted_at
		FROM songs
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByServiceID retrieves a song by service and service_id
func (r *SongRepository) GetByServiceID(service, serviceID string) (*models.PersistedSong, error) {
	query := `
		SELECT id, sequence, service, service_id, title, artist, thumbnail, url, duration, created_at, updated_at, deleted_at
		FROM songs
		WHERE service = ? AND service_id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, service, serviceID))
}

// Update modifies an existing song in the database
func (r *SongRepository) Update(song *models.PersistedSong) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	song.SetUpdatedAt(now)

	query := `
		UPDATE songs
		SET title = ?, artist = ?, thumbnail = ?, url = ?, duration = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		song.Title(),
		song.Artist(),
		song.Thumbnail(),
		song.URL(),
		song.Duration(),
		now,
		song.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("song not found or already deleted: %s", song.ID())
	}

	return nil
}

// Delete soft-deletes a song by ID
func (r *SongRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE songs
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("song not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all songs matching the given criteria, excluding soft-deleted songs
func (r *SongRepository) List(criteria map[string]any) ([]*models.PersistedSong, error) {
	query := `
		SELECT id, sequence, service, service_id, title, artist, thumbnail, url, duration, created_at, updated_at, deleted_at
		FROM songs
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if service, ok := criteria["service"].(string); ok && service != "" {
		query += " AND service = ?"
		args = append(args, service)
	}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ?"
		args = append(args, artist)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []*models.PersistedSong
	for rows.Next() {
		song, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

type songRow struct {
	id        string
	sequence  int
	service   string
	serviceID string
	title     string
	artist    sql.NullString
	thumbnail sql.NullString
	url       sql.NullString
	duration  int
	createdAt time.Time
	updatedAt time.Time
	deletedAt sql.NullTime
}

func (row *songRow) toModel() *models.PersistedSong {
	dto := models.Song{
		ID:        row.serviceID,
		Title:     row.title,
		Artist:    row.artist.String,
		Thumbnail: row.thumbnail.String,
		URL:       row.url.String,
		Duration:  row.duration,
	}

	song := models.NewPersistedSong(row.sequence, row.service, row.serviceID, dto)
	song.SetID(row.id)
	song.SetUpdatedAt(row.updatedAt)
	if row.deletedAt.Valid {
		song.SetDeletedAt(&row.deletedAt.Time)
	}

	return song
}

// scanOne scans a single row into a [models.PersistedSong]
func (r *SongRepository) scanOne(row *sql.Row) (*models.PersistedSong, error) {
	var sr songRow

	err := row.Scan(&sr.id, &sr.sequence, &sr.service, &sr.serviceID, &sr.title, &sr.artist, &sr.thumbnail, &sr.url, &sr.duration, &sr.createdAt, &sr.updatedAt, &sr.deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w", shared.ErrSongNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	return sr.toModel(), nil
}

// scanRow scans a row from [sql.Rows] into a [models.PersistedSong]
func (r *SongRepository) scanRow(rows *sql.Rows) (*models.PersistedSong, error) {
	var sr songRow

	err := rows.Scan(&sr.id, &sr.sequence, &sr.service, &sr.serviceID, &sr.title, &sr.artist, &sr.thumbnail, &sr.url, &sr.duration, &sr.createdAt, &sr.updatedAt, &sr.deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	return sr.toModel(), nil
}

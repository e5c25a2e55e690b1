package models

import (
	"fmt"
	"time"
)

// PersistedSong is a database-backed cache entry for a song seen through a gateway.
//
// Songs are deduplicated by (service, service_id); the embedded [Song] carries
// the presentation fields. Implements [Model].
type PersistedSong struct {
	id        string
	sequence  int
	service   string
	serviceID string
	song      Song
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewPersistedSong creates a cache entry for a song from the named service.
func NewPersistedSong(sequence int, service, serviceID string, song Song) *PersistedSong {
	now := time.Now()
	return &PersistedSong{
		sequence:  sequence,
		service:   service,
		serviceID: serviceID,
		song:      song,
		createdAt: now,
		updatedAt: now,
	}
}

func (s *PersistedSong) ID() string            { return s.id }
func (s *PersistedSong) SetID(id string)       { s.id = id }
func (s *PersistedSong) Sequence() int         { return s.sequence }
func (s *PersistedSong) Service() string       { return s.service }
func (s *PersistedSong) ServiceID() string     { return s.serviceID }
func (s *PersistedSong) Title() string         { return s.song.Title }
func (s *PersistedSong) Artist() string        { return s.song.Artist }
func (s *PersistedSong) Thumbnail() string     { return s.song.Thumbnail }
func (s *PersistedSong) URL() string           { return s.song.URL }
func (s *PersistedSong) Duration() int         { return s.song.Duration }
func (s *PersistedSong) CreatedAt() time.Time  { return s.createdAt }
func (s *PersistedSong) UpdatedAt() time.Time  { return s.updatedAt }
func (s *PersistedSong) DeletedAt() *time.Time { return s.deletedAt }

// Song returns the entity view of the cache entry.
func (s *PersistedSong) Song() Song { return s.song }

func (s *PersistedSong) SetUpdatedAt(t time.Time)  { s.updatedAt = t }
func (s *PersistedSong) SetDeletedAt(t *time.Time) { s.deletedAt = t }

// Validate checks that the cache entry carries its service identity and a title.
func (s *PersistedSong) Validate() error {
	if s.service == "" {
		return fmt.Errorf("persisted song missing service")
	}
	if s.serviceID == "" {
		return fmt.Errorf("persisted song missing service id")
	}
	if s.song.Title == "" {
		return fmt.Errorf("persisted song missing title")
	}
	return nil
}

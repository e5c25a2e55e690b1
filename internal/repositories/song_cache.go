package repositories

import (
	"fmt"
	"strings"

	"github.com/desertthunder/mixtape/internal/models"
)

// SongCacheAdapter implements tasks.SongCacher using SongRepository.
//
// Provides automatic song caching with deduplication via service+service_id constraints.
// Duplicate songs are silently ignored (UNIQUE constraint violations).
type SongCacheAdapter struct {
	repo *SongRepository
}

// NewSongCacheAdapter creates a new SongCacheAdapter with the given repository
func NewSongCacheAdapter(repo *SongRepository) *SongCacheAdapter {
	return &SongCacheAdapter{repo: repo}
}

// CacheSong caches a song seen through a gateway.
// Returns nil if the song already exists (deduplication).
// Only returns errors for actual failures (not constraint violations).
func (a *SongCacheAdapter) CacheSong(service, serviceID string, song models.Song) error {
	existing, err := a.repo.GetByServiceID(service, serviceID)
	if err == nil && existing != nil {
		return nil
	}

	persisted := models.NewPersistedSong(0, service, serviceID, song)

	err = a.repo.Create(persisted)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache song: %w", err)
	}

	return nil
}

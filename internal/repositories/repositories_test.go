package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestStateRepository(t *testing.T) {
	t.Run("Save & Load", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewStateRepository(db)
		snapshot := []byte(`{"volume":0.5,"queue":[]}`)

		if err := repo.SaveState("test.ns", snapshot); err != nil {
			t.Fatalf("failed to save state: %v", err)
		}

		loaded, err := repo.LoadState("test.ns")
		if err != nil {
			t.Fatalf("failed to load state: %v", err)
		}

		if string(loaded) != string(snapshot) {
			t.Errorf("expected %s, got %s", snapshot, loaded)
		}
	})

	t.Run("Save overwrites previous record", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewStateRepository(db)

		if err := repo.SaveState("test.ns", []byte("first")); err != nil {
			t.Fatalf("failed to save state: %v", err)
		}
		if err := repo.SaveState("test.ns", []byte("second")); err != nil {
			t.Fatalf("failed to overwrite state: %v", err)
		}

		loaded, err := repo.LoadState("test.ns")
		if err != nil {
			t.Fatalf("failed to load state: %v", err)
		}
		if string(loaded) != "second" {
			t.Errorf("expected second, got %s", loaded)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM state").Scan(&count); err != nil {
			t.Fatalf("failed to count state rows: %v", err)
		}
		if count != 1 {
			t.Errorf("expected a single record per namespace, got %d", count)
		}
	})

	t.Run("Load missing namespace", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewStateRepository(db)

		_, err := repo.LoadState("missing.ns")
		if !errors.Is(err, shared.ErrNoState) {
			t.Errorf("expected ErrNoState, got %v", err)
		}
	})

	t.Run("UpdatedAt", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewStateRepository(db)

		if _, err := repo.UpdatedAt("missing.ns"); !errors.Is(err, shared.ErrNoState) {
			t.Errorf("expected ErrNoState, got %v", err)
		}

		if err := repo.SaveState("test.ns", []byte("{}")); err != nil {
			t.Fatalf("failed to save state: %v", err)
		}

		updatedAt, err := repo.UpdatedAt("test.ns")
		if err != nil {
			t.Fatalf("failed to query updated_at: %v", err)
		}
		if updatedAt.IsZero() {
			t.Error("expected non-zero updated_at")
		}
	})
}

func TestSongRepository(t *testing.T) {
	songDTO := models.Song{
		ID:        "yt123",
		Title:     "Test Song",
		Artist:    "Test Artist",
		Thumbnail: "https://img.example.com/yt123.jpg",
		URL:       "https://www.youtube.com/watch?v=yt123",
		Duration:  180,
	}

	t.Run("Create & Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		song := models.NewPersistedSong(0, "youtube", "yt123", songDTO)

		if err := repo.Create(song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		if song.ID() == "" {
			t.Error("song ID should be set after creation")
		}

		retrieved, err := repo.GetByServiceID("youtube", "yt123")
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}

		if retrieved.Title() != "Test Song" {
			t.Errorf("expected title 'Test Song', got %s", retrieved.Title())
		}

		if retrieved.URL() != songDTO.URL {
			t.Errorf("expected URL %s, got %s", songDTO.URL, retrieved.URL())
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		song := models.NewPersistedSong(0, "youtube", "yt123", songDTO)

		if err := repo.Create(song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		if err := repo.Update(song); err != nil {
			t.Fatalf("failed to update song: %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		song := models.NewPersistedSong(0, "youtube", "yt123", songDTO)

		if err := repo.Create(song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		if err := repo.Delete(song.ID()); err != nil {
			t.Fatalf("failed to delete song: %v", err)
		}

		if _, err := repo.Get(song.ID()); err == nil {
			t.Error("expected error when getting deleted song")
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)

		for _, id := range []string{"yt1", "yt2", "yt3"} {
			dto := songDTO
			dto.ID = id
			if err := repo.Create(models.NewPersistedSong(0, "youtube", id, dto)); err != nil {
				t.Fatalf("failed to create song %s: %v", id, err)
			}
		}

		songs, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list songs: %v", err)
		}
		if len(songs) != 3 {
			t.Errorf("expected 3 songs, got %d", len(songs))
		}

		filtered, err := repo.List(map[string]any{"service": "youtube"})
		if err != nil {
			t.Fatalf("failed to list filtered songs: %v", err)
		}
		if len(filtered) != 3 {
			t.Errorf("expected 3 youtube songs, got %d", len(filtered))
		}

		none, err := repo.List(map[string]any{"service": "other"})
		if err != nil {
			t.Fatalf("failed to list filtered songs: %v", err)
		}
		if len(none) != 0 {
			t.Errorf("expected no songs for unknown service, got %d", len(none))
		}
	})

	t.Run("Validation", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		song := models.NewPersistedSong(0, "youtube", "yt123", models.Song{ID: "yt123"})

		if err := repo.Create(song); err == nil {
			t.Error("expected validation error for song without title")
		}
	})
}

func TestSongCacheAdapter_CacheSong(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewSongRepository(db)
	adapter := NewSongCacheAdapter(repo)

	songDTO := models.Song{
		ID:       "yt123",
		Title:    "Test Song",
		Artist:   "Test Artist",
		Duration: 180,
	}

	if err := adapter.CacheSong("youtube", "yt123", songDTO); err != nil {
		t.Fatalf("failed to cache song: %v", err)
	}

	if err := adapter.CacheSong("youtube", "yt123", songDTO); err != nil {
		t.Fatalf("caching duplicate song should not error: %v", err)
	}

	retrieved, err := repo.GetByServiceID("youtube", "yt123")
	if err != nil {
		t.Fatalf("failed to retrieve cached song: %v", err)
	}

	if retrieved.Title() != "Test Song" {
		t.Errorf("expected title 'Test Song', got %s", retrieved.Title())
	}
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	seq1, err := NextSequence(db, "songs")
	if err != nil {
		t.Fatalf("failed to get first sequence: %v", err)
	}

	if seq1 != 1 {
		t.Errorf("expected first sequence to be 1, got %d", seq1)
	}

	seq2, err := NextSequence(db, "songs")
	if err != nil {
		t.Fatalf("failed to get second sequence: %v", err)
	}

	if seq2 != 2 {
		t.Errorf("expected second sequence to be 2, got %d", seq2)
	}
}

func TestStoreRoundTripThroughSQLite(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewStateRepository(db)

	snapshot := []byte(`{"volume":1,"queue":[],"playlists":[{"id":"p1","name":"Road Trip","songs":[{"id":"abc","title":"X","artist":"Y"}]}],"liked_songs":[{"id":"abc","title":"X","artist":"Y"},{"id":"def","title":"Z","artist":"W"}]}`)

	if err := repo.SaveState("mixtape.state.v1", snapshot); err != nil {
		t.Fatalf("failed to save snapshot: %v", err)
	}

	loaded, err := repo.LoadState("mixtape.state.v1")
	if err != nil {
		t.Fatalf("failed to load snapshot: %v", err)
	}

	if string(loaded) != string(snapshot) {
		t.Error("snapshot should round-trip byte for byte")
	}
}

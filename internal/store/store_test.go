package store

import (
	"fmt"
	"testing"

	"github.com/desertthunder/mixtape/internal/models"
)

// memPersister keeps snapshots in a map, mirroring the sqlite-backed repository.
type memPersister struct {
	data map[string][]byte
	err  error
}

func newMemPersister() *memPersister {
	return &memPersister{data: map[string][]byte{}}
}

func (m *memPersister) SaveState(namespace string, data []byte) error {
	if m.err != nil {
		return m.err
	}
	m.data[namespace] = data
	return nil
}

func (m *memPersister) LoadState(namespace string) ([]byte, error) {
	if data, ok := m.data[namespace]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("no persisted state")
}

func song(id string) models.Song {
	return models.Song{ID: id, Title: "Song " + id, Artist: "Artist"}
}

func TestStore_Playback(t *testing.T) {
	t.Run("SetCurrentSong leaves play flag alone", func(t *testing.T) {
		s := NewStore(nil, nil)
		s.SetIsPlaying(true)

		sng := song("abc")
		s.SetCurrentSong(&sng)

		state := s.Snapshot()
		if state.CurrentSong == nil || state.CurrentSong.ID != "abc" {
			t.Error("expected current song abc")
		}
		if !state.IsPlaying {
			t.Error("play flag should be untouched by SetCurrentSong")
		}

		s.SetCurrentSong(nil)
		if s.Snapshot().CurrentSong != nil {
			t.Error("expected current song cleared")
		}
	})

	t.Run("SetVolume round trips exactly", func(t *testing.T) {
		s := NewStore(nil, nil)
		s.SetVolume(0.42)

		if got := s.Snapshot().Volume; got != 0.42 {
			t.Errorf("expected volume 0.42, got %v", got)
		}
	})

	t.Run("SetVolume does not clamp", func(t *testing.T) {
		s := NewStore(nil, nil)
		s.SetVolume(1.5)

		if got := s.Snapshot().Volume; got != 1.5 {
			t.Errorf("expected volume stored as given, got %v", got)
		}
	})
}

func TestStore_Queue(t *testing.T) {
	t.Run("queue permits repeats", func(t *testing.T) {
		s := NewStore(nil, nil)
		s.AddToQueue(song("abc"))
		s.AddToQueue(song("abc"))

		if got := len(s.Snapshot().Queue); got != 2 {
			t.Errorf("expected 2 queue entries, got %d", got)
		}
	})

	t.Run("RemoveFromQueue removes all matches", func(t *testing.T) {
		s := NewStore(nil, nil)
		s.AddToQueue(song("abc"))
		s.AddToQueue(song("def"))
		s.AddToQueue(song("abc"))

		s.RemoveFromQueue("abc")

		queue := s.Snapshot().Queue
		if len(queue) != 1 {
			t.Fatalf("expected 1 queue entry, got %d", len(queue))
		}
		if queue[0].ID != "def" {
			t.Errorf("expected def to survive, got %s", queue[0].ID)
		}
	})

	t.Run("ClearQueue", func(t *testing.T) {
		s := NewStore(nil, nil)
		s.AddToQueue(song("abc"))
		s.ClearQueue()

		if got := len(s.Snapshot().Queue); got != 0 {
			t.Errorf("expected empty queue, got %d entries", got)
		}
	})
}

func TestStore_Playlists(t *testing.T) {
	t.Run("duplicate insert suppressed", func(t *testing.T) {
		s := NewStore(nil, nil)
		s.AddPlaylist(models.NewPlaylist("p1", "Road Trip", ""))

		s.AddSongToPlaylist("p1", song("abc"))
		s.AddSongToPlaylist("p1", song("abc"))

		playlists := s.Snapshot().Playlists
		if len(playlists) != 1 {
			t.Fatalf("expected 1 playlist, got %d", len(playlists))
		}
		if got := len(playlists[0].Songs); got != 1 {
			t.Errorf("expected 1 song after duplicate insert, got %d", got)
		}
	})

	t.Run("unknown playlist is a silent no-op", func(t *testing.T) {
		s := NewStore(nil, nil)
		s.AddSongToPlaylist("nope", song("abc"))
		s.RemoveSongFromPlaylist("nope", "abc")
		s.RemovePlaylist("nope")

		if got := len(s.Snapshot().Playlists); got != 0 {
			t.Errorf("expected no playlists, got %d", got)
		}
	})

	t.Run("remove song and playlist", func(t *testing.T) {
		s := NewStore(nil, nil)
		s.AddPlaylist(models.NewPlaylist("p1", "Mix", ""))
		s.AddSongToPlaylist("p1", song("abc"))
		s.AddSongToPlaylist("p1", song("def"))

		s.RemoveSongFromPlaylist("p1", "abc")

		playlists := s.Snapshot().Playlists
		if got := len(playlists[0].Songs); got != 1 {
			t.Fatalf("expected 1 song, got %d", got)
		}

		s.RemovePlaylist("p1")
		if got := len(s.Snapshot().Playlists); got != 0 {
			t.Errorf("expected playlist removed, got %d", got)
		}
	})

	t.Run("merge prefers remote on ID conflict", func(t *testing.T) {
		s := NewStore(nil, nil)
		local := models.NewPlaylist("p1", "Old Name", "")
		s.AddPlaylist(local)
		s.AddPlaylist(models.NewPlaylist("p2", "Local Only", ""))

		remote := models.NewPlaylist("p1", "New Name", "")
		remote.AddSong(song("abc"))
		s.MergePlaylists([]models.Playlist{remote, models.NewPlaylist("p3", "Remote Only", "")})

		playlists := s.Snapshot().Playlists
		if len(playlists) != 3 {
			t.Fatalf("expected 3 playlists after merge, got %d", len(playlists))
		}
		if playlists[0].Name != "New Name" || len(playlists[0].Songs) != 1 {
			t.Errorf("remote playlist should replace local: %+v", playlists[0])
		}
		if playlists[1].Name != "Local Only" {
			t.Errorf("local-only playlist should survive: %+v", playlists[1])
		}
	})

	t.Run("removing open playlist clears selection", func(t *testing.T) {
		s := NewStore(nil, nil)
		p := models.NewPlaylist("p1", "Mix", "")
		s.AddPlaylist(p)
		s.SetCurrentPlaylist(&p)

		s.RemovePlaylist("p1")

		if s.Snapshot().CurrentPlaylist != nil {
			t.Error("expected current playlist cleared")
		}
	})
}

func TestStore_LikedSongs(t *testing.T) {
	t.Run("like then unlike scenario", func(t *testing.T) {
		s := NewStore(nil, nil)

		if got := len(s.Snapshot().LikedSongs); got != 0 {
			t.Fatalf("expected empty liked set, got %d", got)
		}

		s.AddToLikedSongs(song("abc"))
		s.AddToLikedSongs(song("abc"))

		if got := len(s.Snapshot().LikedSongs); got != 1 {
			t.Errorf("expected idempotent insert, got %d entries", got)
		}

		if !s.IsLiked("abc") {
			t.Error("expected abc to be liked")
		}

		s.RemoveFromLikedSongs("abc")

		if got := len(s.Snapshot().LikedSongs); got != 0 {
			t.Errorf("expected empty liked set after unlike, got %d", got)
		}
	})
}

func TestStore_User(t *testing.T) {
	t.Run("preference update is a no-op when signed out", func(t *testing.T) {
		s := NewStore(nil, nil)
		theme := "dark"
		s.UpdateUserPreferences(models.PreferencesPatch{Theme: &theme})

		if s.Snapshot().User != nil {
			t.Error("expected no user")
		}
	})

	t.Run("preference patch merges shallowly", func(t *testing.T) {
		s := NewStore(nil, nil)
		s.SetUser(&models.UserProfile{
			ID:          "u1",
			Name:        "Test User",
			Email:       "test@example.com",
			Preferences: models.DefaultPreferences(),
		})

		theme := "dark"
		crossfade := true
		s.UpdateUserPreferences(models.PreferencesPatch{Theme: &theme, Crossfade: &crossfade})

		prefs := s.Snapshot().User.Preferences
		if prefs.Theme != "dark" {
			t.Errorf("expected theme dark, got %s", prefs.Theme)
		}
		if !prefs.Crossfade {
			t.Error("expected crossfade enabled")
		}
		if prefs.AudioQuality != "auto" {
			t.Errorf("unpatched fields should survive, got %s", prefs.AudioQuality)
		}

		s.ClearUser()
		if s.Snapshot().User != nil {
			t.Error("expected user cleared")
		}
	})
}

func TestStore_Persistence(t *testing.T) {
	t.Run("reload reproduces playlists and liked songs", func(t *testing.T) {
		p := newMemPersister()

		s := NewStore(p, nil)
		s.AddPlaylist(models.NewPlaylist("p1", "Road Trip", ""))
		s.AddSongToPlaylist("p1", models.Song{ID: "abc", Title: "X", Artist: "Y"})
		s.AddToLikedSongs(song("abc"))
		s.AddToLikedSongs(song("def"))
		s.SetVolume(0.7)

		reloaded := NewStore(p, nil)
		state := reloaded.Snapshot()

		if len(state.Playlists) != 1 {
			t.Fatalf("expected 1 playlist, got %d", len(state.Playlists))
		}
		if state.Playlists[0].Name != "Road Trip" {
			t.Errorf("expected Road Trip, got %s", state.Playlists[0].Name)
		}
		if len(state.Playlists[0].Songs) != 1 || state.Playlists[0].Songs[0].ID != "abc" {
			t.Error("expected playlist to contain exactly song abc")
		}
		if len(state.LikedSongs) != 2 {
			t.Errorf("expected 2 liked songs, got %d", len(state.LikedSongs))
		}
		if state.Volume != 0.7 {
			t.Errorf("expected volume 0.7, got %v", state.Volume)
		}
	})

	t.Run("malformed snapshot falls back to defaults", func(t *testing.T) {
		p := newMemPersister()
		p.data[Namespace] = []byte("{not json")

		s := NewStore(p, nil)
		state := s.Snapshot()

		if state.Volume != 1 {
			t.Errorf("expected default volume 1, got %v", state.Volume)
		}
		if len(state.Queue) != 0 || len(state.Playlists) != 0 {
			t.Error("expected empty default state")
		}
	})

	t.Run("persist failures do not break mutations", func(t *testing.T) {
		p := newMemPersister()
		p.err = fmt.Errorf("disk full")

		s := NewStore(p, nil)
		s.AddToQueue(song("abc"))

		if got := len(s.Snapshot().Queue); got != 1 {
			t.Errorf("mutation should succeed despite persist failure, got %d entries", got)
		}
	})
}

func TestStore_Subscribe(t *testing.T) {
	s := NewStore(nil, nil)

	var seen []int
	unsubscribe := s.Subscribe(func(state State) {
		seen = append(seen, len(state.Queue))
	})

	s.AddToQueue(song("abc"))
	s.AddToQueue(song("def"))

	if len(seen) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(seen))
	}
	if seen[1] != 2 {
		t.Errorf("expected snapshot with 2 queue entries, got %d", seen[1])
	}

	unsubscribe()
	s.ClearQueue()

	if len(seen) != 2 {
		t.Error("expected no notification after unsubscribe")
	}
}

func TestStore_SnapshotIsolation(t *testing.T) {
	s := NewStore(nil, nil)
	s.AddPlaylist(models.NewPlaylist("p1", "Mix", ""))
	s.AddSongToPlaylist("p1", song("abc"))

	snapshot := s.Snapshot()
	snapshot.Playlists[0].Songs[0].Title = "mutated"

	if s.Snapshot().Playlists[0].Songs[0].Title == "mutated" {
		t.Error("snapshot should not alias store state")
	}
}

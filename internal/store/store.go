package store

import (
	"encoding/json"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
)

// Namespace is the fixed storage key the state snapshot is persisted under.
const Namespace = "mixtape.state.v1"

// Persister saves and loads serialized state snapshots by namespace.
//
// LoadState returns [shared.ErrNoState] when no snapshot exists for the namespace.
type Persister interface {
	SaveState(namespace string, data []byte) error
	LoadState(namespace string) ([]byte, error)
}

// State is the full shape of the client state container.
type State struct {
	CurrentSong     *models.Song        `json:"current_song,omitempty"`
	IsPlaying       bool                `json:"is_playing"`
	Volume          float64             `json:"volume"`
	Queue           []models.Song       `json:"queue"`
	Playlists       []models.Playlist   `json:"playlists"`
	LikedSongs      []models.Song       `json:"liked_songs"`
	CurrentPlaylist *models.Playlist    `json:"current_playlist,omitempty"`
	User            *models.UserProfile `json:"user,omitempty"`
}

// DefaultState returns the documented startup state: nothing playing, full volume,
// empty queue and library, no user.
func DefaultState() State {
	return State{
		Volume:     1,
		Queue:      []models.Song{},
		Playlists:  []models.Playlist{},
		LikedSongs: []models.Song{},
	}
}

// clone returns a copy whose slices and pointers do not alias the receiver's.
func (s State) clone() State {
	out := s
	out.Queue = append([]models.Song{}, s.Queue...)
	out.LikedSongs = append([]models.Song{}, s.LikedSongs...)
	out.Playlists = make([]models.Playlist, len(s.Playlists))
	for i, p := range s.Playlists {
		p.Songs = append([]models.Song{}, p.Songs...)
		out.Playlists[i] = p
	}
	if s.CurrentSong != nil {
		song := *s.CurrentSong
		out.CurrentSong = &song
	}
	if s.CurrentPlaylist != nil {
		p := *s.CurrentPlaylist
		p.Songs = append([]models.Song{}, p.Songs...)
		out.CurrentPlaylist = &p
	}
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return out
}

// normalize replaces nil slices left behind by deserialization.
func (s *State) normalize() {
	if s.Queue == nil {
		s.Queue = []models.Song{}
	}
	if s.Playlists == nil {
		s.Playlists = []models.Playlist{}
	}
	if s.LikedSongs == nil {
		s.LikedSongs = []models.Song{}
	}
}

// Store is the persistent client state container.
type Store struct {
	mu        sync.Mutex
	state     State
	persister Persister
	logger    *log.Logger
	subs      map[int]func(State)
	nextSub   int
}

// NewStore creates a store, loading the persisted snapshot when one exists.
//
// A nil persister disables persistence (used by tests and degraded startup).
// Absent or malformed snapshots are treated the same: the store starts from
// [DefaultState] without surfacing an error.
func NewStore(persister Persister, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	s := &Store{
		state:     DefaultState(),
		persister: persister,
		logger:    logger,
		subs:      map[int]func(State){},
	}

	if persister == nil {
		return s
	}

	data, err := persister.LoadState(Namespace)
	if err != nil {
		logger.Debugf("no persisted state, starting fresh: %v", err)
		return s
	}

	var loaded State
	if err := json.Unmarshal(data, &loaded); err != nil {
		logger.Warnf("discarding malformed state snapshot: %v", err)
		return s
	}

	loaded.normalize()
	s.state = loaded
	return s
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers a callback invoked with a state copy after every mutation.
// The returned func removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// mutate runs fn under the lock, flushes the snapshot, and notifies subscribers.
func (s *Store) mutate(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	s.flushLocked()
	snapshot := s.state.clone()
	subs := make([]func(State), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snapshot)
	}
}

// flushLocked serializes the state through the persister. Persistence failures
// are logged, not surfaced: mutations always succeed from the caller's view.
func (s *Store) flushLocked() {
	if s.persister == nil {
		return
	}

	data, err := json.Marshal(s.state)
	if err != nil {
		s.logger.Warnf("failed to serialize state: %v", err)
		return
	}

	if err := s.persister.SaveState(Namespace, data); err != nil {
		s.logger.Warnf("failed to persist state: %v", err)
	}
}

// SetCurrentSong replaces the active song. The play flag is untouched.
func (s *Store) SetCurrentSong(song *models.Song) {
	s.mutate(func(st *State) {
		st.CurrentSong = song
	})
}

// SetIsPlaying sets the transport flag. The store does not require a current
// song; disabling controls when none exists is the presentation layer's job.
func (s *Store) SetIsPlaying(playing bool) {
	s.mutate(func(st *State) {
		st.IsPlaying = playing
	})
}

// SetVolume replaces the volume. Values are stored as given, without clamping.
func (s *Store) SetVolume(v float64) {
	s.mutate(func(st *State) {
		st.Volume = v
	})
}

// AddToQueue appends the song unconditionally; the queue permits repeats.
func (s *Store) AddToQueue(song models.Song) {
	s.mutate(func(st *State) {
		st.Queue = append(st.Queue, song)
	})
}

// RemoveFromQueue removes every queue entry with the given song ID.
func (s *Store) RemoveFromQueue(songID string) {
	s.mutate(func(st *State) {
		queue := st.Queue[:0]
		for _, song := range st.Queue {
			if song.ID != songID {
				queue = append(queue, song)
			}
		}
		st.Queue = queue
	})
}

// ClearQueue empties the queue.
func (s *Store) ClearQueue() {
	s.mutate(func(st *State) {
		st.Queue = []models.Song{}
	})
}

// AddPlaylist appends a fully formed playlist. ID uniqueness is the caller's
// responsibility via the generation scheme.
func (s *Store) AddPlaylist(playlist models.Playlist) {
	s.mutate(func(st *State) {
		st.Playlists = append(st.Playlists, playlist)
	})
}

// AddSongToPlaylist appends the song to the named playlist, suppressing
// duplicates by song ID and refreshing the playlist's UpdatedAt on a real
// insert. Unknown playlist IDs are a no-op.
func (s *Store) AddSongToPlaylist(playlistID string, song models.Song) {
	s.mutate(func(st *State) {
		for i := range st.Playlists {
			if st.Playlists[i].ID == playlistID {
				st.Playlists[i].AddSong(song)
				return
			}
		}
	})
}

// RemovePlaylist drops the playlist with the given ID; unknown IDs are a no-op.
func (s *Store) RemovePlaylist(playlistID string) {
	s.mutate(func(st *State) {
		playlists := st.Playlists[:0]
		for _, p := range st.Playlists {
			if p.ID != playlistID {
				playlists = append(playlists, p)
			}
		}
		st.Playlists = playlists
		if st.CurrentPlaylist != nil && st.CurrentPlaylist.ID == playlistID {
			st.CurrentPlaylist = nil
		}
	})
}

// MergePlaylists folds a remote playlist collection into the library. A remote
// playlist replaces the local one with the same ID; local-only playlists are
// kept. Used by sync pull.
func (s *Store) MergePlaylists(remote []models.Playlist) {
	s.mutate(func(st *State) {
		byID := make(map[string]int, len(st.Playlists))
		for i, p := range st.Playlists {
			byID[p.ID] = i
		}
		for _, p := range remote {
			if i, ok := byID[p.ID]; ok {
				st.Playlists[i] = p
			} else {
				st.Playlists = append(st.Playlists, p)
			}
		}
	})
}

// RemoveSongFromPlaylist drops the song from the named playlist; unknown
// playlist or song IDs are a no-op.
func (s *Store) RemoveSongFromPlaylist(playlistID, songID string) {
	s.mutate(func(st *State) {
		for i := range st.Playlists {
			if st.Playlists[i].ID == playlistID {
				st.Playlists[i].RemoveSong(songID)
				return
			}
		}
	})
}

// AddToLikedSongs inserts the song into the liked set; inserts are idempotent
// by song ID.
func (s *Store) AddToLikedSongs(song models.Song) {
	s.mutate(func(st *State) {
		for _, liked := range st.LikedSongs {
			if liked.ID == song.ID {
				return
			}
		}
		st.LikedSongs = append(st.LikedSongs, song)
	})
}

// RemoveFromLikedSongs removes the song with the given ID from the liked set.
func (s *Store) RemoveFromLikedSongs(songID string) {
	s.mutate(func(st *State) {
		liked := st.LikedSongs[:0]
		for _, song := range st.LikedSongs {
			if song.ID != songID {
				liked = append(liked, song)
			}
		}
		st.LikedSongs = liked
	})
}

// IsLiked reports whether a song ID is in the liked set.
func (s *Store) IsLiked(songID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, song := range s.state.LikedSongs {
		if song.ID == songID {
			return true
		}
	}
	return false
}

// SetCurrentPlaylist tracks which playlist is open in the UI. No playback
// coupling is enforced.
func (s *Store) SetCurrentPlaylist(playlist *models.Playlist) {
	s.mutate(func(st *State) {
		st.CurrentPlaylist = playlist
	})
}

// SetUser replaces the signed-in user.
func (s *Store) SetUser(user *models.UserProfile) {
	s.mutate(func(st *State) {
		st.User = user
	})
}

// ClearUser signs the user out of the state container.
func (s *Store) ClearUser() {
	s.mutate(func(st *State) {
		st.User = nil
	})
}

// UpdateUserPreferences shallow-merges the patch into the signed-in user's
// preferences. A no-op when no user is signed in.
func (s *Store) UpdateUserPreferences(patch models.PreferencesPatch) {
	s.mutate(func(st *State) {
		if st.User == nil {
			return
		}
		st.User.Preferences = st.User.Preferences.Apply(patch)
	})
}

package models

import (
	"time"
)

// LikedSongsID is the fixed identifier for the liked-songs pseudo-playlist.
const LikedSongsID = "liked-songs"

// Song represents a playable track returned by the video search gateway.
//
// Songs are immutable once created; two songs are the same song when their IDs match.
// Duration is in seconds and may be zero when the gateway does not report it.
type Song struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Thumbnail string `json:"thumbnail,omitempty"`
	URL       string `json:"url,omitempty"`
	Duration  int    `json:"duration,omitempty"`
}

// Playlist represents a named, ordered song collection.
//
// The song sequence never contains two songs with the same ID; inserts of a
// duplicate ID are suppressed. UpdatedAt is refreshed on any song add or remove.
type Playlist struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CoverImage  string    `json:"cover_image,omitempty"`
	Songs       []Song    `json:"songs"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewPlaylist creates an empty playlist with the given ID and name.
func NewPlaylist(id, name, description string) Playlist {
	now := time.Now()
	return Playlist{
		ID:          id,
		Name:        name,
		Description: description,
		Songs:       []Song{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ContainsSong reports whether the playlist already holds a song with the given ID.
func (p *Playlist) ContainsSong(songID string) bool {
	for _, s := range p.Songs {
		if s.ID == songID {
			return true
		}
	}
	return false
}

// AddSong appends the song unless a song with the same ID is already present.
//
// Returns true when the song was added; UpdatedAt is refreshed only on a real insert.
func (p *Playlist) AddSong(song Song) bool {
	if p.ContainsSong(song.ID) {
		return false
	}
	p.Songs = append(p.Songs, song)
	p.UpdatedAt = time.Now()
	return true
}

// RemoveSong drops the song with the given ID.
//
// Returns true when a song was removed; unknown IDs are a no-op.
func (p *Playlist) RemoveSong(songID string) bool {
	for i, s := range p.Songs {
		if s.ID == songID {
			p.Songs = append(p.Songs[:i], p.Songs[i+1:]...)
			p.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// LikedSongsPlaylist renders the liked-songs set as a pseudo-playlist with the
// fixed [LikedSongsID] identifier for presentation alongside regular playlists.
func LikedSongsPlaylist(songs []Song) Playlist {
	return Playlist{
		ID:    LikedSongsID,
		Name:  "Liked Songs",
		Songs: songs,
	}
}

// Preferences holds the user's playback and appearance settings.
type Preferences struct {
	Theme             string `json:"theme"`              // light, dark, system
	AudioQuality      string `json:"audio_quality"`      // auto, high, medium, low
	Crossfade         bool   `json:"crossfade"`
	CrossfadeDuration int    `json:"crossfade_duration"` // seconds
}

// DefaultPreferences returns the preference set assigned to a freshly signed-in user.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:        "system",
		AudioQuality: "auto",
	}
}

// PreferencesPatch is a partial preference update; nil fields are left unchanged.
type PreferencesPatch struct {
	Theme             *string
	AudioQuality      *string
	Crossfade         *bool
	CrossfadeDuration *int
}

// Apply merges the patch into the preferences, field by field.
func (p Preferences) Apply(patch PreferencesPatch) Preferences {
	if patch.Theme != nil {
		p.Theme = *patch.Theme
	}
	if patch.AudioQuality != nil {
		p.AudioQuality = *patch.AudioQuality
	}
	if patch.Crossfade != nil {
		p.Crossfade = *patch.Crossfade
	}
	if patch.CrossfadeDuration != nil {
		p.CrossfadeDuration = *patch.CrossfadeDuration
	}
	return p
}

// UserProfile represents the signed-in user. At most one is live at a time.
type UserProfile struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Avatar      string      `json:"avatar,omitempty"`
	Preferences Preferences `json:"preferences"`
}

// Recommendation is a single suggestion from the recommendation gateway.
type Recommendation struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

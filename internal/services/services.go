// package services defines interfaces for the hosted HTTP APIs the client delegates to
//
// YouTube search, Gemini recommendations, Google/Firestore sync
package services

import (
	"context"

	"github.com/desertthunder/mixtape/internal/models"
)

// SearchService finds playable songs for a free-text query.
type SearchService interface {
	// Search issues a single request to the provider and maps the response to songs.
	// One attempt per call; no retries.
	Search(ctx context.Context, query string) ([]models.Song, error)

	// Name returns the name of the provider (e.g., "YouTube")
	Name() string
}

// Recommender suggests songs for a free-text description of taste or mood.
type Recommender interface {
	// Recommend returns title/artist suggestions for the query. Unparseable
	// model output yields an empty slice, not an error.
	Recommend(ctx context.Context, query string) ([]models.Recommendation, error)

	// Name returns the name of the provider (e.g., "Gemini")
	Name() string
}

// SyncService handles identity and cloud persistence of playlist collections.
//
// Unlike the search gateways, every failure here is surfaced to the caller:
// these operations are data-loss relevant.
type SyncService interface {
	// Authenticate establishes the service's identity from stored or freshly
	// exchanged credentials.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// CurrentUser fetches the signed-in user's profile.
	CurrentUser(ctx context.Context) (*models.UserProfile, error)

	// SignOut drops the service's credentials. Fire-and-forget: remote
	// revocation is best effort.
	SignOut(ctx context.Context)

	// SavePlaylists upserts the user's playlist collection document.
	SavePlaylists(ctx context.Context, userID string, playlists []models.Playlist) error

	// GetPlaylists fetches the user's playlist collection, empty when none exists.
	GetPlaylists(ctx context.Context, userID string) ([]models.Playlist, error)

	// Name returns the name of the provider (e.g., "Google")
	Name() string
}

// OAuthService extends SyncService for providers using the authorization code flow.
type OAuthService interface {
	SyncService

	// AuthURL returns the authorization URL for the interactive sign-in flow.
	AuthURL(state string) string
}

// package tasks implements multi-step library operations.
//
// The core abstraction is SyncEngine, which orchestrates AI-assisted discovery and cloud sync.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/services"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/desertthunder/mixtape/internal/store"
	"golang.org/x/time/rate"
)

// searchRateLimit caps recommendation match lookups to stay inside API quotas.
const searchRateLimit = 5.0

// SongMatchResult represents the result of matching a single recommendation.
type SongMatchResult struct {
	Recommendation models.Recommendation // Original suggestion
	Matched        *models.Song          // Matched song (nil if not found)
	Error          error                 // Error if the search failed
}

// DiscoverResult contains all data from a discovery run.
type DiscoverResult struct {
	Playlist     *models.Playlist  // Built playlist, nil when nothing matched
	Matches      []SongMatchResult // Individual match results
	SuccessCount int               // Number of successfully matched suggestions
	FailedCount  int               // Number of failed matches
	Total        int               // Total suggestions processed
}

// PushResult summarizes a sync push.
type PushResult struct {
	UserID        string
	PlaylistCount int
}

// PullResult summarizes a sync pull.
type PullResult struct {
	UserID  string
	Fetched int
}

// ComparisonResult contains song comparison details between two playlists.
type ComparisonResult struct {
	MatchedCount    int           // Songs found in both
	MissingInRemote []models.Song // Songs in local but not in remote
	ExtraInRemote   []models.Song // Songs in remote but not in local
}

// SongCacher persists discovered songs for offline lookup.
// Implementations must tolerate duplicate inserts.
type SongCacher interface {
	CacheSong(service, serviceID string, song models.Song) error
}

// SyncEngine defines the orchestrated library operations.
type SyncEngine interface {
	// Discover builds a playlist from AI suggestions by fetching recommendations and searching each for a playable match.
	Discover(ctx context.Context, progress chan<- ProgressUpdate, prompt, playlistName string) (*DiscoverResult, error)

	// Push uploads the local playlist library to the signed-in user's cloud document.
	Push(ctx context.Context, progress chan<- ProgressUpdate) (*PushResult, error)

	// Pull fetches the cloud playlist library and merges it into the local one.
	Pull(ctx context.Context, progress chan<- ProgressUpdate) (*PullResult, error)
}

// LibraryEngine implements SyncEngine.
// Contains dependencies on the gateway services and the state container.
type LibraryEngine struct {
	search      services.SearchService
	recommender services.Recommender
	sync        services.SyncService
	store       *store.Store
	cache       SongCacher
	limiter     *rate.Limiter
}

// NewLibraryEngine creates a new LibraryEngine with the provided services.
//
// cache may be nil; discovered songs are then not persisted.
func NewLibraryEngine(search services.SearchService, recommender services.Recommender, sync services.SyncService, st *store.Store, cache SongCacher) *LibraryEngine {
	return &LibraryEngine{
		search:      search,
		recommender: recommender,
		sync:        sync,
		store:       st,
		cache:       cache,
		limiter:     rate.NewLimiter(rate.Limit(searchRateLimit), 1),
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *LibraryEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Discover builds a playlist from AI suggestions.
//
// Each suggestion is searched individually; suggestions without a playable
// match are recorded but do not fail the run. The built playlist is added to
// the library when at least one suggestion matched.
func (e *LibraryEngine) Discover(ctx context.Context, progress chan<- ProgressUpdate, prompt, playlistName string) (*DiscoverResult, error) {
	if e.recommender == nil {
		return nil, fmt.Errorf("%w: recommendation service not initialized", shared.ErrServiceUnavailable)
	}
	if e.search == nil {
		return nil, fmt.Errorf("%w: search service not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, recommendationsUpdate(1, 1, e.recommender.Name()))

	recs, err := e.recommender.Recommend(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch recommendations: %v", shared.ErrAPIRequest, err)
	}

	result := &DiscoverResult{Total: len(recs)}
	e.sendProgress(progress, recommendationsFoundUpdate(len(recs)))

	if len(recs) == 0 {
		return result, nil
	}

	e.sendProgress(progress, searchSongUpdate(0, len(recs), nil))

	matches := make([]SongMatchResult, len(recs))
	successCount := 0

	for i, rec := range recs {
		e.sendProgress(progress, searchSongUpdate(i+1, len(recs), &rec))

		if err := e.limiter.Wait(ctx); err != nil {
			return result, fmt.Errorf("discovery cancelled: %w", err)
		}

		songs, err := e.search.Search(ctx, fmt.Sprintf("%s %s", rec.Title, rec.Artist))
		match := SongMatchResult{Recommendation: rec, Error: err}
		if err == nil && len(songs) > 0 {
			song := songs[0]
			match.Matched = &song
			successCount++
			e.cacheSong(song)
		}
		matches[i] = match
	}

	result.Matches = matches
	result.SuccessCount = successCount
	result.FailedCount = len(recs) - successCount

	if successCount == 0 {
		return result, fmt.Errorf("no suggestions were matched - cannot create empty playlist")
	}

	if playlistName == "" {
		playlistName = fmt.Sprintf("Discover: %s", prompt)
	}

	playlist := models.NewPlaylist(shared.GenerateID(), playlistName, prompt)
	for _, match := range matches {
		if match.Matched != nil {
			playlist.AddSong(*match.Matched)
		}
	}

	if e.store != nil {
		e.store.AddPlaylist(playlist)
	}

	result.Playlist = &playlist
	e.sendProgress(progress, playlistBuiltUpdate(&playlist))
	return result, nil
}

// cacheSong persists a discovered song, ignoring failures.
func (e *LibraryEngine) cacheSong(song models.Song) {
	if e.cache == nil {
		return
	}
	_ = e.cache.CacheSong(e.search.Name(), song.ID, song)
}

// Push uploads the local playlist library to the cloud.
func (e *LibraryEngine) Push(ctx context.Context, progress chan<- ProgressUpdate) (*PushResult, error) {
	if e.sync == nil {
		return nil, fmt.Errorf("%w: sync service not initialized", shared.ErrServiceUnavailable)
	}
	if e.store == nil {
		return nil, fmt.Errorf("%w: state container not initialized", shared.ErrServiceUnavailable)
	}

	user, err := e.sync.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	playlists := e.store.Snapshot().Playlists
	e.sendProgress(progress, pushUpdate(1, 1, len(playlists)))

	if err := e.sync.SavePlaylists(ctx, user.ID, playlists); err != nil {
		return nil, fmt.Errorf("failed to upload playlists: %w", err)
	}

	return &PushResult{UserID: user.ID, PlaylistCount: len(playlists)}, nil
}

// Pull fetches the cloud playlist library and merges it into the local one.
// Remote playlists replace local ones with the same ID.
func (e *LibraryEngine) Pull(ctx context.Context, progress chan<- ProgressUpdate) (*PullResult, error) {
	if e.sync == nil {
		return nil, fmt.Errorf("%w: sync service not initialized", shared.ErrServiceUnavailable)
	}
	if e.store == nil {
		return nil, fmt.Errorf("%w: state container not initialized", shared.ErrServiceUnavailable)
	}

	user, err := e.sync.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	e.sendProgress(progress, pullUpdate(1, 1))

	remote, err := e.sync.GetPlaylists(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlists: %w", err)
	}

	e.store.MergePlaylists(remote)

	return &PullResult{UserID: user.ID, Fetched: len(remote)}, nil
}

// Compare diffs two playlists by normalized title/artist key.
func (e *LibraryEngine) Compare(local, remote models.Playlist) *ComparisonResult {
	remoteKeys := make(map[string]struct{}, len(remote.Songs))
	for _, song := range remote.Songs {
		remoteKeys[shared.NormalizeTrackKey(song.Title, song.Artist)] = struct{}{}
	}

	result := &ComparisonResult{}
	localKeys := make(map[string]struct{}, len(local.Songs))
	for _, song := range local.Songs {
		key := shared.NormalizeTrackKey(song.Title, song.Artist)
		localKeys[key] = struct{}{}
		if _, found := remoteKeys[key]; found {
			result.MatchedCount++
		} else {
			result.MissingInRemote = append(result.MissingInRemote, song)
		}
	}

	for _, song := range remote.Songs {
		if _, found := localKeys[shared.NormalizeTrackKey(song.Title, song.Artist)]; !found {
			result.ExtraInRemote = append(result.ExtraInRemote, song)
		}
	}

	return result
}

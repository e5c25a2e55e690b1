package tasks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/store"
	th "github.com/desertthunder/mixtape/internal/testing"
)

type recordingCacher struct {
	cached []models.Song
}

func (r *recordingCacher) CacheSong(service, serviceID string, song models.Song) error {
	r.cached = append(r.cached, song)
	return nil
}

func fixedRecommender(recs []models.Recommendation, err error) *th.MockRecommender {
	return &th.MockRecommender{
		RecommendFunc: func(ctx context.Context, query string) ([]models.Recommendation, error) {
			return recs, err
		},
	}
}

func matchingSearch() *th.MockSearchService {
	return &th.MockSearchService{
		SearchFunc: func(ctx context.Context, query string) ([]models.Song, error) {
			return []models.Song{{
				ID:     "vid-" + strings.Fields(query)[0],
				Title:  query,
				Artist: "Found Artist",
				URL:    "https://www.youtube.com/watch?v=abc",
			}}, nil
		},
	}
}

func TestDiscover(t *testing.T) {
	ctx := context.Background()

	t.Run("builds playlist from matched suggestions", func(t *testing.T) {
		recs := []models.Recommendation{
			{Title: "Take On Me", Artist: "a-ha"},
			{Title: "Africa", Artist: "Toto"},
		}
		cacher := &recordingCacher{}
		st := store.NewStore(nil, nil)
		engine := NewLibraryEngine(matchingSearch(), fixedRecommender(recs, nil), nil, st, cacher)

		progress := make(chan ProgressUpdate, 32)
		result, err := engine.Discover(ctx, progress, "upbeat 80s", "My Mix")
		if err != nil {
			t.Fatalf("Discover failed: %v", err)
		}

		if result.SuccessCount != 2 || result.FailedCount != 0 {
			t.Errorf("expected 2 matches, got %d success / %d failed", result.SuccessCount, result.FailedCount)
		}
		if result.Playlist == nil {
			t.Fatal("expected a built playlist")
		}
		if result.Playlist.Name != "My Mix" {
			t.Errorf("unexpected playlist name %q", result.Playlist.Name)
		}
		if len(result.Playlist.Songs) != 2 {
			t.Errorf("expected 2 songs in playlist, got %d", len(result.Playlist.Songs))
		}

		playlists := st.Snapshot().Playlists
		if len(playlists) != 1 || playlists[0].ID != result.Playlist.ID {
			t.Errorf("playlist should be added to the library, got %+v", playlists)
		}

		if len(cacher.cached) != 2 {
			t.Errorf("expected 2 cached songs, got %d", len(cacher.cached))
		}

		if len(progress) == 0 {
			t.Error("expected progress updates")
		}
	})

	t.Run("default playlist name embeds the prompt", func(t *testing.T) {
		recs := []models.Recommendation{{Title: "Song", Artist: "Artist"}}
		engine := NewLibraryEngine(matchingSearch(), fixedRecommender(recs, nil), nil, nil, nil)

		result, err := engine.Discover(ctx, nil, "rainy day jazz", "")
		if err != nil {
			t.Fatalf("Discover failed: %v", err)
		}
		if !strings.Contains(result.Playlist.Name, "rainy day jazz") {
			t.Errorf("unexpected playlist name %q", result.Playlist.Name)
		}
	})

	t.Run("empty suggestions yield empty result without error", func(t *testing.T) {
		engine := NewLibraryEngine(matchingSearch(), fixedRecommender([]models.Recommendation{}, nil), nil, nil, nil)

		result, err := engine.Discover(ctx, nil, "anything", "")
		if err != nil {
			t.Fatalf("Discover failed: %v", err)
		}
		if result.Total != 0 || result.Playlist != nil {
			t.Errorf("expected empty result, got %+v", result)
		}
	})

	t.Run("failed searches are recorded per suggestion", func(t *testing.T) {
		recs := []models.Recommendation{
			{Title: "Findable", Artist: "Artist"},
			{Title: "Unfindable", Artist: "Nobody"},
		}
		search := &th.MockSearchService{
			SearchFunc: func(ctx context.Context, query string) ([]models.Song, error) {
				if strings.Contains(query, "Unfindable") {
					return []models.Song{}, nil
				}
				return []models.Song{{ID: "v1", Title: "Findable"}}, nil
			},
		}
		engine := NewLibraryEngine(search, fixedRecommender(recs, nil), nil, nil, nil)

		result, err := engine.Discover(ctx, nil, "mixed", "")
		if err != nil {
			t.Fatalf("Discover failed: %v", err)
		}
		if result.SuccessCount != 1 || result.FailedCount != 1 {
			t.Errorf("expected 1/1 split, got %d/%d", result.SuccessCount, result.FailedCount)
		}
		if len(result.Playlist.Songs) != 1 {
			t.Errorf("playlist should only contain matched songs, got %d", len(result.Playlist.Songs))
		}
	})

	t.Run("all matches failing is an error", func(t *testing.T) {
		recs := []models.Recommendation{{Title: "Unfindable", Artist: "Nobody"}}
		search := &th.MockSearchService{
			SearchFunc: func(ctx context.Context, query string) ([]models.Song, error) {
				return nil, errors.New("quota exceeded")
			},
		}
		engine := NewLibraryEngine(search, fixedRecommender(recs, nil), nil, nil, nil)

		result, err := engine.Discover(ctx, nil, "anything", "")
		if err == nil {
			t.Fatal("expected error when nothing matched")
		}
		if result == nil || result.FailedCount != 1 {
			t.Errorf("expected partial result with failure details, got %+v", result)
		}
	})

	t.Run("recommender failure is propagated", func(t *testing.T) {
		engine := NewLibraryEngine(matchingSearch(), fixedRecommender(nil, errors.New("rate limit")), nil, nil, nil)

		if _, err := engine.Discover(ctx, nil, "anything", ""); err == nil {
			t.Fatal("expected error from recommender failure")
		}
	})

	t.Run("missing services", func(t *testing.T) {
		engine := NewLibraryEngine(nil, nil, nil, nil, nil)
		if _, err := engine.Discover(ctx, nil, "anything", ""); err == nil {
			t.Fatal("expected error with no services wired")
		}
	})
}

func TestPushPull(t *testing.T) {
	ctx := context.Background()

	t.Run("push uploads the library", func(t *testing.T) {
		st := store.NewStore(nil, nil)
		st.AddPlaylist(models.NewPlaylist("p1", "Mix", ""))

		var savedUserID string
		var savedCount int
		sync := &th.MockSyncService{
			SavePlaylistsFunc: func(ctx context.Context, userID string, playlists []models.Playlist) error {
				savedUserID = userID
				savedCount = len(playlists)
				return nil
			},
		}
		engine := NewLibraryEngine(nil, nil, sync, st, nil)

		result, err := engine.Push(ctx, nil)
		if err != nil {
			t.Fatalf("Push failed: %v", err)
		}
		if savedUserID != "mock-user" || savedCount != 1 {
			t.Errorf("unexpected upload: user %q, %d playlists", savedUserID, savedCount)
		}
		if result.PlaylistCount != 1 {
			t.Errorf("unexpected result %+v", result)
		}
	})

	t.Run("pull merges remote playlists", func(t *testing.T) {
		st := store.NewStore(nil, nil)
		st.AddPlaylist(models.NewPlaylist("p1", "Local Name", ""))

		remote := models.NewPlaylist("p1", "Cloud Name", "")
		sync := &th.MockSyncService{
			GetPlaylistsFunc: func(ctx context.Context, userID string) ([]models.Playlist, error) {
				return []models.Playlist{remote, models.NewPlaylist("p2", "Cloud Only", "")}, nil
			},
		}
		engine := NewLibraryEngine(nil, nil, sync, st, nil)

		result, err := engine.Pull(ctx, nil)
		if err != nil {
			t.Fatalf("Pull failed: %v", err)
		}
		if result.Fetched != 2 {
			t.Errorf("expected 2 fetched, got %d", result.Fetched)
		}

		playlists := st.Snapshot().Playlists
		if len(playlists) != 2 {
			t.Fatalf("expected 2 playlists after merge, got %d", len(playlists))
		}
		if playlists[0].Name != "Cloud Name" {
			t.Errorf("remote should win on ID conflict, got %q", playlists[0].Name)
		}
	})

	t.Run("push surfaces sync failures", func(t *testing.T) {
		st := store.NewStore(nil, nil)
		sync := &th.MockSyncService{
			SavePlaylistsFunc: func(ctx context.Context, userID string, playlists []models.Playlist) error {
				return errors.New("permission denied")
			},
		}
		engine := NewLibraryEngine(nil, nil, sync, st, nil)

		if _, err := engine.Push(ctx, nil); err == nil {
			t.Fatal("expected error from sync failure")
		}
	})

	t.Run("unresolved user fails the operation", func(t *testing.T) {
		st := store.NewStore(nil, nil)
		sync := &th.MockSyncService{
			CurrentUserFunc: func(ctx context.Context) (*models.UserProfile, error) {
				return nil, errors.New("not signed in")
			},
		}
		engine := NewLibraryEngine(nil, nil, sync, st, nil)

		if _, err := engine.Push(ctx, nil); err == nil {
			t.Error("push should fail without a user")
		}
		if _, err := engine.Pull(ctx, nil); err == nil {
			t.Error("pull should fail without a user")
		}
	})
}

func TestCompare(t *testing.T) {
	engine := NewLibraryEngine(nil, nil, nil, nil, nil)

	local := models.NewPlaylist("p1", "Local", "")
	local.AddSong(models.Song{ID: "a", Title: "Take On Me", Artist: "a-ha"})
	local.AddSong(models.Song{ID: "b", Title: "Africa", Artist: "Toto"})

	remote := models.NewPlaylist("p2", "Remote", "")
	// normalized matching is case and whitespace insensitive
	remote.AddSong(models.Song{ID: "x", Title: "take on me", Artist: "A-HA"})
	remote.AddSong(models.Song{ID: "y", Title: "Hold the Line", Artist: "Toto"})

	result := engine.Compare(local, remote)

	if result.MatchedCount != 1 {
		t.Errorf("expected 1 match, got %d", result.MatchedCount)
	}
	if len(result.MissingInRemote) != 1 || result.MissingInRemote[0].Title != "Africa" {
		t.Errorf("unexpected missing set: %+v", result.MissingInRemote)
	}
	if len(result.ExtraInRemote) != 1 || result.ExtraInRemote[0].Title != "Hold the Line" {
		t.Errorf("unexpected extra set: %+v", result.ExtraInRemote)
	}
}

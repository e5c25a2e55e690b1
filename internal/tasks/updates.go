package tasks

import (
	"fmt"

	"github.com/desertthunder/mixtape/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchRecommendations Phase = iota
	SearchSongs
	BuildPlaylist
	PushPlaylists
	PullPlaylists
	Compare
	ExportPlaylist
)

func (p Phase) String() string {
	switch p {
	case FetchRecommendations:
		return "fetch_recommendations"
	case SearchSongs:
		return "search_songs"
	case BuildPlaylist:
		return "build_playlist"
	case PushPlaylists:
		return "push_playlists"
	case PullPlaylists:
		return "pull_playlists"
	case Compare:
		return "compare"
	case ExportPlaylist:
		return "export_playlist"
	default:
		return ""
	}
}

func recommendationsUpdate(step, total int, provider string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchRecommendations,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching suggestions from %s...", provider),
	}
}

func recommendationsFoundUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchRecommendations,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Received %d suggestions", count),
	}
}

func searchSongUpdate(step, total int, rec *models.Recommendation) ProgressUpdate {
	if rec == nil {
		return ProgressUpdate{
			Phase:   SearchSongs,
			Step:    step,
			Total:   total,
			Message: "Searching for playable matches...",
		}
	}
	return ProgressUpdate{
		Phase:   SearchSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, rec.Artist, rec.Title),
	}
}

func playlistBuiltUpdate(pl *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   BuildPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (%d songs)", pl.Name, len(pl.Songs)),
		Data:    pl,
	}
}

func pushUpdate(step, total, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PushPlaylists,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Uploading %d playlists...", count),
	}
}

func pullUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PullPlaylists,
		Step:    step,
		Total:   total,
		Message: "Fetching cloud playlists...",
	}
}

func exportingPlaylistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

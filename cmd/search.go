package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/urfave/cli/v3"
)

// Search queries the video catalog and prints the matches.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}
	if r.search == nil {
		return fmt.Errorf("%w: search service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("searching", "provider", r.search.Name(), "query", query)

	songs, err := r.search.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.cacheSongs(songs)

	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}

	if len(songs) == 0 {
		return r.writePlain("No results for %q\n", query)
	}

	r.writePlainHeader(fmt.Sprintf("Results for %q", query))
	for i, song := range songs {
		r.writePlain("%2d. %s - %s [%s]\n", i+1, song.Artist, song.Title, shared.FormatDuration(song.Duration))
		r.writePlain("    id: %s\n", song.ID)
	}
	return nil
}

// Discover builds a playlist from AI suggestions for a prompt.
func (r *Runner) Discover(ctx context.Context, cmd *cli.Command) error {
	prompt := cmd.StringArg("prompt")
	if prompt == "" {
		return fmt.Errorf("%w: a prompt is required", shared.ErrMissingArgument)
	}
	if r.recommender == nil {
		return fmt.Errorf("%w: recommendation service not initialized", shared.ErrServiceUnavailable)
	}

	if cmd.Bool("suggestions-only") {
		recs, err := r.recommender.Recommend(ctx, prompt)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}

		if cmd.Bool("json") {
			return r.writeJSON(recs, true)
		}

		r.writePlainHeader(fmt.Sprintf("Suggestions for %q", prompt))
		for i, rec := range recs {
			r.writePlain("%2d. %s - %s\n", i+1, rec.Artist, rec.Title)
		}
		return nil
	}

	progress, done := r.drainProgress()
	result, err := r.engine.Discover(ctx, progress, prompt, cmd.String("name"))
	done()
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	r.writePlainln("✓ Playlist created: %s", result.Playlist.Name)
	r.writePlain("  Matched: %d/%d suggestions\n", result.SuccessCount, result.Total)
	for _, match := range result.Matches {
		if match.Matched != nil {
			r.writePlain("  ✓ %s - %s\n", match.Matched.Artist, match.Matched.Title)
		} else {
			r.writePlain("  ✗ %s - %s (no match)\n", match.Recommendation.Artist, match.Recommendation.Title)
		}
	}
	return nil
}

// cacheSongs persists search results to the local cache, ignoring failures.
func (r *Runner) cacheSongs(songs []models.Song) {
	if r.cache == nil {
		return
	}
	for _, song := range songs {
		if err := r.cache.CacheSong(r.search.Name(), song.ID, song); err != nil {
			r.logger.Debugf("failed to cache song %s: %v", song.ID, err)
		}
	}
}

// firstMatch searches the catalog and returns the top result.
func (r *Runner) firstMatch(ctx context.Context, query string) (*models.Song, error) {
	if r.search == nil {
		return nil, fmt.Errorf("%w: search service not initialized", shared.ErrServiceUnavailable)
	}

	songs, err := r.search.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if len(songs) == 0 {
		return nil, fmt.Errorf("%w: no results for %q", shared.ErrSongNotFound, query)
	}

	r.cacheSongs(songs[:1])
	return &songs[0], nil
}

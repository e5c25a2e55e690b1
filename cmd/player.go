package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlayerPlay resumes playback, or searches for the query and plays the top match.
func (r *Runner) PlayerPlay(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")

	if query == "" {
		if r.store.Snapshot().CurrentSong == nil {
			return fmt.Errorf("%w: nothing to resume, give a query to play", shared.ErrSongNotFound)
		}
		r.store.SetIsPlaying(true)
		return r.writePlain("▶ Resumed\n")
	}

	song, err := r.firstMatch(ctx, query)
	if err != nil {
		return err
	}

	r.store.SetCurrentSong(song)
	r.store.SetIsPlaying(true)

	r.logger.Info("playing", "song", song.Title, "artist", song.Artist)
	return r.writePlain("▶ %s - %s\n", song.Artist, song.Title)
}

// PlayerPause pauses playback. Pausing when nothing plays is a no-op.
func (r *Runner) PlayerPause(ctx context.Context, cmd *cli.Command) error {
	r.store.SetIsPlaying(false)
	return r.writePlain("▌▌ Paused\n")
}

// PlayerVolume sets the volume from a 0-100 level.
func (r *Runner) PlayerVolume(ctx context.Context, cmd *cli.Command) error {
	level := cmd.StringArg("level")
	if level == "" {
		return r.writePlain("Volume: %.0f%%\n", r.store.Snapshot().Volume*100)
	}

	percent, err := strconv.ParseFloat(level, 64)
	if err != nil || percent < 0 || percent > 100 {
		return fmt.Errorf("%w: volume must be between 0 and 100", shared.ErrInvalidArgument)
	}

	r.store.SetVolume(percent / 100)
	return r.writePlain("Volume: %.0f%%\n", percent)
}

// PlayerNow shows the current song and queue.
func (r *Runner) PlayerNow(ctx context.Context, cmd *cli.Command) error {
	state := r.store.Snapshot()

	if cmd.Bool("json") {
		return r.writeJSON(state, cmd.Bool("pretty"))
	}

	if state.CurrentSong == nil {
		return r.writePlain("Nothing playing\n")
	}

	transport := "▌▌"
	if state.IsPlaying {
		transport = "▶"
	}
	r.writePlain("%s %s - %s [%s]\n", transport, state.CurrentSong.Artist, state.CurrentSong.Title, shared.FormatDuration(state.CurrentSong.Duration))
	r.writePlain("Volume: %.0f%%\n", state.Volume*100)

	if len(state.Queue) > 0 {
		r.writePlain("Up next:\n")
		for i, song := range state.Queue {
			r.writePlain("%2d. %s - %s\n", i+1, song.Artist, song.Title)
		}
	}
	return nil
}

// QueueAdd searches for the query and appends the top match to the queue.
func (r *Runner) QueueAdd(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	song, err := r.firstMatch(ctx, query)
	if err != nil {
		return err
	}

	r.store.AddToQueue(*song)
	return r.writePlain("✓ Queued: %s - %s\n", song.Artist, song.Title)
}

// QueueList lists queued songs.
func (r *Runner) QueueList(ctx context.Context, cmd *cli.Command) error {
	queue := r.store.Snapshot().Queue

	if cmd.Bool("json") {
		return r.writeJSON(queue, cmd.Bool("pretty"))
	}

	if len(queue) == 0 {
		return r.writePlain("Queue is empty\n")
	}

	r.writePlainHeader(fmt.Sprintf("Queue (%d)", len(queue)))
	for i, song := range queue {
		r.writePlain("%2d. %s - %s (%s)\n", i+1, song.Artist, song.Title, song.ID)
	}
	return nil
}

// QueueRemove removes every queue entry with the given song ID.
func (r *Runner) QueueRemove(ctx context.Context, cmd *cli.Command) error {
	songID := cmd.StringArg("id")
	if songID == "" {
		return fmt.Errorf("%w: song ID is required", shared.ErrMissingArgument)
	}

	r.store.RemoveFromQueue(songID)
	return r.writePlain("✓ Removed %s from queue\n", songID)
}

// QueueClear empties the queue.
func (r *Runner) QueueClear(ctx context.Context, cmd *cli.Command) error {
	r.store.ClearQueue()
	return r.writePlain("✓ Queue cleared\n")
}

// LikeAdd searches for the query and likes the top match.
func (r *Runner) LikeAdd(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	song, err := r.firstMatch(ctx, query)
	if err != nil {
		return err
	}

	r.store.AddToLikedSongs(*song)
	return r.writePlain("♥ %s - %s\n", song.Artist, song.Title)
}

// LikeRemove unlikes a song by ID.
func (r *Runner) LikeRemove(ctx context.Context, cmd *cli.Command) error {
	songID := cmd.StringArg("id")
	if songID == "" {
		return fmt.Errorf("%w: song ID is required", shared.ErrMissingArgument)
	}

	r.store.RemoveFromLikedSongs(songID)
	return r.writePlain("✓ Unliked %s\n", songID)
}

// LikeList lists liked songs.
func (r *Runner) LikeList(ctx context.Context, cmd *cli.Command) error {
	liked := r.store.Snapshot().LikedSongs

	if cmd.Bool("json") {
		return r.writeJSON(liked, cmd.Bool("pretty"))
	}

	if len(liked) == 0 {
		return r.writePlain("No liked songs\n")
	}

	r.writePlainHeader(fmt.Sprintf("Liked Songs (%d)", len(liked)))
	for i, song := range liked {
		r.writePlain("%2d. %s - %s (%s)\n", i+1, song.Artist, song.Title, song.ID)
	}
	return nil
}

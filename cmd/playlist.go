package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/desertthunder/mixtape/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PlaylistCreate creates an empty playlist.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name is required", shared.ErrMissingArgument)
	}

	playlist := models.NewPlaylist(shared.GenerateID(), name, cmd.String("description"))
	r.store.AddPlaylist(playlist)

	r.logger.Info("playlist created", "id", playlist.ID, "name", playlist.Name)
	return r.writePlain("✓ Created playlist %q (%s)\n", playlist.Name, playlist.ID)
}

// PlaylistList lists the playlist library.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	playlists := r.store.Snapshot().Playlists

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	if len(playlists) == 0 {
		return r.writePlain("No playlists yet. Create one with 'mixtape playlist create'.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Playlists (%d)", len(playlists)))
	for _, playlist := range playlists {
		r.writePlain("%s  %s (%d songs)\n", playlist.ID, playlist.Name, len(playlist.Songs))
	}
	return nil
}

// PlaylistShow shows a playlist's songs.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	playlist, err := r.findPlaylist(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlist, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%s (%d songs)", playlist.Name, len(playlist.Songs)))
	if playlist.Description != "" {
		r.writePlain("%s\n", playlist.Description)
	}
	for i, song := range playlist.Songs {
		r.writePlain("%2d. %s - %s [%s]\n", i+1, song.Artist, song.Title, shared.FormatDuration(song.Duration))
	}
	return nil
}

// PlaylistAdd searches for the query and adds the top match to the playlist.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	playlist, err := r.findPlaylist(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	song, err := r.firstMatch(ctx, query)
	if err != nil {
		return err
	}

	r.store.AddSongToPlaylist(playlist.ID, *song)
	return r.writePlain("✓ Added %s - %s to %q\n", song.Artist, song.Title, playlist.Name)
}

// PlaylistRemove removes a song from a playlist.
func (r *Runner) PlaylistRemove(ctx context.Context, cmd *cli.Command) error {
	playlist, err := r.findPlaylist(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	songID := cmd.StringArg("song-id")
	if songID == "" {
		return fmt.Errorf("%w: song ID is required", shared.ErrMissingArgument)
	}

	r.store.RemoveSongFromPlaylist(playlist.ID, songID)
	return r.writePlain("✓ Removed %s from %q\n", songID, playlist.Name)
}

// PlaylistDelete deletes a playlist.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	playlist, err := r.findPlaylist(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	r.store.RemovePlaylist(playlist.ID)
	return r.writePlain("✓ Deleted %q\n", playlist.Name)
}

// PlaylistExport exports one playlist, or the whole library, to files.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	var playlists []models.Playlist
	if id := cmd.String("id"); id != "" {
		playlist, err := r.findPlaylist(id)
		if err != nil {
			return err
		}
		playlists = []models.Playlist{*playlist}
	} else {
		playlists = r.store.Snapshot().Playlists
	}

	if len(playlists) == 0 {
		return r.writePlain("Nothing to export\n")
	}

	progress, done := r.drainProgress()
	result, err := r.engine.BulkExport(ctx, progress, playlists, tasks.BulkExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
	})
	done()
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.writePlainln("✓ Exported %d/%d playlists to %s", result.SuccessfulExports, result.TotalPlaylists, result.OutputDirectory)
	r.writePlain("Manifest: %s\n", result.ManifestPath)
	return nil
}

// findPlaylist resolves a playlist by ID from the current snapshot.
func (r *Runner) findPlaylist(id string) (*models.Playlist, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: playlist ID is required", shared.ErrMissingArgument)
	}

	for _, playlist := range r.store.Snapshot().Playlists {
		if playlist.ID == id {
			return &playlist, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
}

package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// SyncPush uploads the local playlist library to the cloud.
func (r *Runner) SyncPush(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureAuthenticated(ctx); err != nil {
		return err
	}

	progress, done := r.drainProgress()
	result, err := r.engine.Push(ctx, progress)
	done()
	if err != nil {
		return fmt.Errorf("push failed: %w", err)
	}

	r.logger.Info("push complete", "user", result.UserID, "playlists", result.PlaylistCount)
	return r.writePlain("✓ Uploaded %d playlists\n", result.PlaylistCount)
}

// SyncPull fetches the cloud playlist library and merges it into the local one.
func (r *Runner) SyncPull(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureAuthenticated(ctx); err != nil {
		return err
	}

	progress, done := r.drainProgress()
	result, err := r.engine.Pull(ctx, progress)
	done()
	if err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}

	r.logger.Info("pull complete", "user", result.UserID, "fetched", result.Fetched)
	return r.writePlain("✓ Fetched %d playlists\n", result.Fetched)
}

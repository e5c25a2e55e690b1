package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/mixtape/internal/repositories"
	"github.com/desertthunder/mixtape/internal/services"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/desertthunder/mixtape/internal/store"
	"github.com/desertthunder/mixtape/internal/tasks"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := "config.toml"
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		}
	}

	// A broken database degrades to in-memory state rather than refusing to start.
	var persister store.Persister
	var cache tasks.SongCacher
	if db, err := shared.NewDatabase(config.Database.Path); err == nil {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		if err := shared.RunMigrations(db); err == nil {
			persister = repositories.NewStateRepository(db)
			cache = repositories.NewSongCacheAdapter(repositories.NewSongRepository(db))
		} else {
			logger.Warnf("migrations failed, state will not persist: %v", err)
		}
	} else {
		logger.Warnf("database unavailable, state will not persist: %v", err)
	}

	st := store.NewStore(persister, logger)

	searchService := services.NewYouTubeService(config.Credentials.YouTube.APIKey, "", nil)
	recommender := services.NewGeminiService(config.Credentials.Gemini.APIKey, config.Credentials.Gemini.Model, "", nil)

	var syncService services.OAuthService
	if config.Credentials.Google.ClientID != "" && config.Credentials.Google.ClientSecret != "" {
		if svc, err := services.NewGoogleSyncService(config.Credentials.Google.Map()); err == nil {
			syncService = svc
		} else {
			logger.Debugf("sync gateway not configured: %v", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:      config,
		ConfigPath:  configPath,
		Search:      searchService,
		Recommender: recommender,
		Sync:        syncService,
		Store:       st,
		Cache:       cache,
		Logger:      logger,
	})

	app := &cli.Command{
		Name:     "mixtape",
		Usage:    "Search, queue & sync music from the terminal",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}

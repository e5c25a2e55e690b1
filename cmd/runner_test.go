package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/desertthunder/mixtape/internal/store"
	tu "github.com/desertthunder/mixtape/internal/testing"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			search := &tu.MockSearchService{}
			recommender := &tu.MockRecommender{}
			st := store.NewStore(nil, logger)

			runner := NewRunner(RunnerOpts{
				Config:      config,
				Logger:      logger,
				Output:      output,
				HTTPClient:  httpClient,
				Search:      search,
				Recommender: recommender,
				Store:       st,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.search != search {
				t.Error("expected search to be set")
			}
			if runner.recommender != recommender {
				t.Error("expected recommender to be set")
			}
			if runner.store != st {
				t.Error("expected store to be set")
			}
			if runner.engine == nil {
				t.Error("expected engine to be built")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil store builds in-memory store", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.store == nil {
				t.Error("expected an in-memory store")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			data := map[string]string{"key": "value"}
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})

	t.Run("saveTokens", func(t *testing.T) {
		t.Run("saves tokens successfully", func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, "config.toml")

			config := shared.DefaultConfig()
			config.Credentials.Google.ClientID = "test_id"
			config.Credentials.Google.ClientSecret = "test_secret"

			if err := shared.SaveConfig(configPath, config); err != nil {
				t.Fatalf("failed to create test config: %v", err)
			}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: configPath,
			})

			token := &oauth2.Token{
				AccessToken:  "new_access_token",
				RefreshToken: "new_refresh_token",
			}

			if err := runner.saveTokens(token); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			loadedConfig, err := shared.LoadConfig(configPath)
			if err != nil {
				t.Fatalf("failed to reload config: %v", err)
			}

			if loadedConfig.Credentials.Google.AccessToken != "new_access_token" {
				t.Errorf("expected access token to be updated, got %s", loadedConfig.Credentials.Google.AccessToken)
			}
			if loadedConfig.Credentials.Google.RefreshToken != "new_refresh_token" {
				t.Errorf("expected refresh token to be updated, got %s", loadedConfig.Credentials.Google.RefreshToken)
			}
		})

		t.Run("handles empty configPath", func(t *testing.T) {
			config := shared.DefaultConfig()
			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "",
			})

			token := &oauth2.Token{
				AccessToken:  "new_token",
				RefreshToken: "new_refresh",
			}

			if err := runner.saveTokens(token); err != nil {
				t.Fatalf("expected no error with empty path, got %v", err)
			}

			if config.Credentials.Google.AccessToken != "new_token" {
				t.Error("expected config to be updated in memory")
			}
		})

		t.Run("handles Update error", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: shared.DefaultConfig()})

			err := runner.saveTokens(nil)
			if err == nil {
				t.Fatal("expected error when updating with nil token")
			}
			if !strings.Contains(err.Error(), "failed to update google configuration") {
				t.Errorf("expected update error, got %v", err)
			}
		})
	})
}

// runCommand executes a registered subcommand against the runner's CLI tree.
func runCommand(t *testing.T, runner *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{
		Name:     "mixtape",
		Commands: runner.register(),
	}
	return app.Run(context.Background(), append([]string{"mixtape"}, args...))
}

func TestCommands(t *testing.T) {
	newTestRunner := func(search *tu.MockSearchService) (*Runner, *bytes.Buffer) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Search: search,
			Output: output,
			Logger: shared.NewLogger(&bytes.Buffer{}),
		})
		return runner, output
	}

	matching := &tu.MockSearchService{
		SearchFunc: func(ctx context.Context, query string) ([]models.Song, error) {
			return []models.Song{{ID: "song-1", Title: "Found", Artist: "Artist"}}, nil
		},
	}

	t.Run("queue add appends the top match", func(t *testing.T) {
		runner, output := newTestRunner(matching)

		if err := runCommand(t, runner, "queue", "add", "some song"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		queue := runner.store.Snapshot().Queue
		if len(queue) != 1 || queue[0].ID != "song-1" {
			t.Fatalf("expected song-1 in queue, got %v", queue)
		}
		if !strings.Contains(output.String(), "Queued") {
			t.Errorf("expected confirmation, got %q", output.String())
		}
	})

	t.Run("player play sets the current song", func(t *testing.T) {
		runner, _ := newTestRunner(matching)

		if err := runCommand(t, runner, "player", "play", "some song"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		state := runner.store.Snapshot()
		if state.CurrentSong == nil || state.CurrentSong.ID != "song-1" {
			t.Fatal("expected current song to be set")
		}
		if !state.IsPlaying {
			t.Error("expected playback to start")
		}
	})

	t.Run("player volume rejects out-of-range levels", func(t *testing.T) {
		runner, _ := newTestRunner(matching)

		if err := runCommand(t, runner, "player", "volume", "150"); err == nil {
			t.Fatal("expected error for volume above 100")
		}
	})

	t.Run("playlist create and show round-trip", func(t *testing.T) {
		runner, output := newTestRunner(matching)

		if err := runCommand(t, runner, "playlist", "create", "Road Trip"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		playlists := runner.store.Snapshot().Playlists
		if len(playlists) != 1 || playlists[0].Name != "Road Trip" {
			t.Fatalf("expected playlist in library, got %v", playlists)
		}

		output.Reset()
		if err := runCommand(t, runner, "playlist", "show", playlists[0].ID); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Road Trip") {
			t.Errorf("expected playlist name in output, got %q", output.String())
		}
	})

	t.Run("playlist show fails for unknown ID", func(t *testing.T) {
		runner, _ := newTestRunner(matching)

		err := runCommand(t, runner, "playlist", "show", "nope")
		if err == nil {
			t.Fatal("expected error for unknown playlist")
		}
	})

	t.Run("like add is idempotent", func(t *testing.T) {
		runner, _ := newTestRunner(matching)

		if err := runCommand(t, runner, "like", "add", "some song"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := runCommand(t, runner, "like", "add", "some song"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if liked := runner.store.Snapshot().LikedSongs; len(liked) != 1 {
			t.Errorf("expected 1 liked song, got %d", len(liked))
		}
	})

	t.Run("search without results reports no matches", func(t *testing.T) {
		empty := &tu.MockSearchService{
			SearchFunc: func(ctx context.Context, query string) ([]models.Song, error) {
				return []models.Song{}, nil
			},
		}
		runner, output := newTestRunner(empty)

		if err := runCommand(t, runner, "search", "obscure"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "No results") {
			t.Errorf("expected no-results message, got %q", output.String())
		}
	})

	t.Run("sync push without credentials fails", func(t *testing.T) {
		runner, _ := newTestRunner(matching)

		if err := runCommand(t, runner, "sync", "push"); err == nil {
			t.Fatal("expected error without sync credentials")
		}
	})
}

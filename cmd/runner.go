package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mixtape/internal/services"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/desertthunder/mixtape/internal/store"
	"github.com/desertthunder/mixtape/internal/tasks"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	search      services.SearchService
	recommender services.Recommender
	sync        services.OAuthService
	store       *store.Store
	cache       tasks.SongCacher
	engine      *tasks.LibraryEngine
	httpClient  *http.Client
	logger      *log.Logger
	output      io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config      *shared.Config
	ConfigPath  string
	Search      services.SearchService
	Recommender services.Recommender
	Sync        services.OAuthService
	Store       *store.Store
	Cache       tasks.SongCacher
	HTTPClient  *http.Client
	Logger      *log.Logger
	Output      io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Store == nil {
		opts.Store = store.NewStore(nil, opts.Logger)
	}

	var syncService services.SyncService
	if opts.Sync != nil {
		syncService = opts.Sync
	}
	engine := tasks.NewLibraryEngine(opts.Search, opts.Recommender, syncService, opts.Store, opts.Cache)

	return &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		search:      opts.Search,
		recommender: opts.Recommender,
		sync:        opts.Sync,
		store:       opts.Store,
		cache:       opts.Cache,
		engine:      engine,
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		output:      opts.Output,
	}
}

// SetLogger replaces the runner's logger (used when the TUI owns stderr).
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, searchCommand, discoverCommand, playerCommand, queueCommand, playlistCommand, likeCommand, syncCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// saveTokens stores OAuth tokens in the config and writes it back to disk when a path is known.
func (r *Runner) saveTokens(token *oauth2.Token) error {
	if r.config == nil {
		return fmt.Errorf("config is nil")
	}

	if err := r.config.Credentials.Google.Update(token); err != nil {
		return fmt.Errorf("failed to update google configuration: %w", err)
	}

	if r.configPath == "" {
		r.logger.Debug("no config path set, tokens kept in memory only")
		return nil
	}

	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// drainProgress prints progress messages from a running engine operation.
//
// Returns a channel for the engine and a done func to call after the
// operation finishes.
func (r *Runner) drainProgress() (chan tasks.ProgressUpdate, func()) {
	progress := make(chan tasks.ProgressUpdate, 32)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	return progress, func() {
		close(progress)
		<-done
	}
}

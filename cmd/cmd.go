// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration, database and migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.SetupDatabase,
	}
}

// authCommand handles Google sign-in operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Google authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with Google using OAuth2",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the authorization URL instead of opening a browser",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Sign out and drop stored tokens",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the signed-in user",
				Flags:  jsonFlags(false),
				Action: r.AuthStatus,
			},
		},
	}
}

// searchCommand searches the video catalog for playable songs.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search for playable songs",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags:  jsonFlags(true),
		Action: r.Search,
	}
}

// discoverCommand builds a playlist from AI suggestions.
func discoverCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "discover",
		Aliases: []string{"recommend"},
		Usage:   "Build a playlist from AI suggestions for a prompt",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "prompt",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Name for the created playlist",
			},
			&cli.BoolFlag{
				Name:  "suggestions-only",
				Usage: "Print suggestions without searching or creating a playlist",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Discover,
	}
}

// playerCommand controls the playback state
func playerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "player",
		Usage: "Control playback",
		Commands: []*cli.Command{
			{
				Name:  "play",
				Usage: "Resume playback, or search and play the given query",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Action: r.PlayerPlay,
			},
			{
				Name:   "pause",
				Usage:  "Pause playback",
				Action: r.PlayerPause,
			},
			{
				Name:  "volume",
				Usage: "Set volume (0-100)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "level"},
				},
				Action: r.PlayerVolume,
			},
			{
				Name:   "now",
				Usage:  "Show the current song and queue",
				Flags:  jsonFlags(false),
				Action: r.PlayerNow,
			},
		},
	}
}

// queueCommand manages the play queue
func queueCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "queue",
		Usage: "Manage the play queue",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Search and append the first match to the queue",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Action: r.QueueAdd,
			},
			{
				Name:   "list",
				Usage:  "List queued songs",
				Flags:  jsonFlags(false),
				Action: r.QueueList,
			},
			{
				Name:  "remove",
				Usage: "Remove a song from the queue by ID",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.QueueRemove,
			},
			{
				Name:   "clear",
				Usage:  "Empty the queue",
				Action: r.QueueClear,
			},
		},
	}
}

// playlistCommand manages the playlist library
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Manage playlists",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create an empty playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "Playlist description",
					},
				},
				Action: r.PlaylistCreate,
			},
			{
				Name:   "list",
				Usage:  "List playlists",
				Flags:  jsonFlags(false),
				Action: r.PlaylistList,
			},
			{
				Name:  "show",
				Usage: "Show a playlist's songs",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  jsonFlags(false),
				Action: r.PlaylistShow,
			},
			{
				Name:  "add",
				Usage: "Search and add the first match to a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
					&cli.StringArg{Name: "query"},
				},
				Action: r.PlaylistAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove a song from a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
					&cli.StringArg{Name: "song-id"},
				},
				Action: r.PlaylistRemove,
			},
			{
				Name:  "delete",
				Usage: "Delete a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.PlaylistDelete,
			},
			{
				Name:  "export",
				Usage: "Export playlists to files",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "id",
						Usage: "Playlist ID to export (all playlists when omitted)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown, txt",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent export workers",
						Value: 5,
					},
				},
				Action: r.PlaylistExport,
			},
		},
	}
}

// likeCommand manages the liked-songs set
func likeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "like",
		Usage: "Manage liked songs",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Search and like the first match",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Action: r.LikeAdd,
			},
			{
				Name:  "remove",
				Usage: "Unlike a song by ID",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.LikeRemove,
			},
			{
				Name:   "list",
				Usage:  "List liked songs",
				Flags:  jsonFlags(false),
				Action: r.LikeList,
			},
		},
	}
}

// syncCommand pushes and pulls the playlist library to the cloud
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Sync the playlist library with the cloud",
		Commands: []*cli.Command{
			{
				Name:   "push",
				Usage:  "Upload local playlists",
				Action: r.SyncPush,
			},
			{
				Name:   "pull",
				Usage:  "Fetch cloud playlists and merge them locally",
				Action: r.SyncPull,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive playback and browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive player",
		Action:  r.TUI,
	}
}

// jsonFlags returns the shared --json/--pretty flag pair.
func jsonFlags(prettyDefault bool) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: prettyDefault,
		},
	}
}

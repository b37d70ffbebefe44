// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// authCommand handles account and session operations
func authCommand(r *Runner) *cli.Command {
	credentialFlags := []cli.Flag{
		&cli.StringFlag{
			Name:     "email",
			Aliases:  []string{"e"},
			Usage:    "Account email",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "password",
			Aliases:  []string{"p"},
			Usage:    "Account password",
			Required: true,
		},
	}

	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the signed-in session",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Sign in with email and password",
				Flags:  credentialFlags,
				Action: r.AuthLogin,
			},
			{
				Name:   "register",
				Usage:  "Create an account and sign in",
				Flags:  credentialFlags,
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Sign out and clear the persisted session",
				Action: r.AuthLogout,
			},
			{
				Name:   "whoami",
				Usage:  "Show the current signed-in identity",
				Action: r.AuthWhoami,
			},
			{
				Name:   "status",
				Usage:  "Check tracker availability (calls /health)",
				Action: r.AuthStatus,
			},
		},
	}
}

// gamesCommand handles game record operations
func gamesCommand(r *Runner) *cli.Command {
	recordFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  "name",
			Usage: "Game name",
		},
		&cli.IntFlag{
			Name:  "year",
			Usage: "Release year",
		},
		&cli.IntFlag{
			Name:  "completed-year",
			Usage: "Year the game was completed",
		},
		&cli.BoolFlag{
			Name:  "completed",
			Usage: "Mark the game completed",
		},
		&cli.BoolFlag{
			Name:  "hundred",
			Usage: "Mark the game 100% completed",
		},
		&cli.BoolFlag{
			Name:  "favourite",
			Usage: "Mark the game as a favourite",
		},
		&cli.StringFlag{
			Name:  "description",
			Usage: "Short special description",
		},
		&cli.StringFlag{
			Name:  "image-url",
			Usage: "Cover image URL",
		},
	}

	return &cli.Command{
		Name:    "games",
		Aliases: []string{"game"},
		Usage:   "Browse and edit game records",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List a library subset",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "year",
						Usage: "Games completed in this year",
					},
					&cli.BoolFlag{
						Name:  "backlog",
						Usage: "Games to be completed",
					},
					&cli.BoolFlag{
						Name:  "favourites",
						Usage: "Favourite games",
					},
					&cli.BoolFlag{
						Name:  "hundred",
						Usage: "Games completed to 100%",
					},
					&cli.BoolFlag{
						Name:  "cached",
						Usage: "Read from the local cache instead of the API",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.GamesList,
			},
			{
				Name:   "count",
				Usage:  "Show the total number of tracked games",
				Action: r.GamesCount,
			},
			{
				Name:  "get",
				Usage: "Fetch a single game record",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the cover image in the browser",
					},
				},
				Action: r.GamesGet,
			},
			{
				Name:   "add",
				Usage:  "Create a game record",
				Flags:  recordFlags,
				Action: r.GamesAdd,
			},
			{
				Name:  "update",
				Usage: "Update fields on an existing game record",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  recordFlags,
				Action: r.GamesUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete a game record",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.GamesDelete,
			},
			{
				Name:  "note",
				Usage: "Replace the note attached to a game",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "text",
						Usage:    "Note text (empty clears the note)",
						Required: true,
					},
				},
				Action: r.GamesNote,
			},
		},
	}
}

// mediaCommand handles gallery and video attachments
func mediaCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "media",
		Usage: "Manage game media attachments",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Attach an image or video file to a game",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Game ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "Media type (image or video)",
						Value: "image",
					},
				},
				Action: r.MediaAdd,
			},
			{
				Name:  "remove",
				Usage: "Detach a media URL from a game",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Game ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "url",
						Usage:    "Media URL to detach",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "Media type (image or video)",
						Value: "image",
					},
				},
				Action: r.MediaRemove,
			},
			{
				Name:  "upload",
				Usage: "Upload an image and print its public URL",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "content-type",
						Usage: "MIME type of the file",
						Value: "image/jpeg",
					},
				},
				Action: r.MediaUpload,
			},
			{
				Name:  "download",
				Usage: "Save a game's cover image to a local file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (defaults to the remote filename)",
					},
				},
				Action: r.MediaDownload,
			},
		},
	}
}

// discoverCommand browses the public AI-curated list
func discoverCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "discover",
		Usage: "Browse the public AI-curated game list",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "year",
				Usage: "Release year to discover",
			},
			&cli.IntFlag{
				Name:  "count",
				Usage: "Maximum number of titles",
				Value: 12,
			},
			&cli.StringFlag{
				Name:  "search",
				Usage: "Fuzzy search on the title",
			},
			&cli.StringFlag{
				Name:  "genre",
				Usage: "Filter by genre",
			},
			&cli.StringFlag{
				Name:  "platform",
				Usage: "Filter by platform",
			},
			&cli.BoolFlag{
				Name:  "facets",
				Usage: "Print the genre and platform facets instead of titles",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Discover,
	}
}

// apiCommand handles direct tracker API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the tracker",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the tracker, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
			{
				Name:  "dump",
				Usage: "Fetch and display every tracker endpoint",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save dump to api_dump.json",
						Value: false,
					},
				},
				Action: r.APIDump,
			},
			{
				Name:   "health",
				Usage:  "Ping the public health endpoint",
				Action: r.APIHealth,
			},
		},
	}
}

// cacheCommand handles the local library cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Sync and inspect the local library cache",
		Commands: []*cli.Command{
			{
				Name:  "sync",
				Usage: "Fetch the library subsets and refresh the cache",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "years",
						Usage: "Comma-separated completion years to fetch (default: last three)",
					},
				},
				Action: r.CacheSync,
			},
			{
				Name:   "list",
				Usage:  "List cached games",
				Action: r.CacheList,
			},
			{
				Name:   "status",
				Usage:  "Show the most recent sync run",
				Action: r.CacheStatus,
			},
			{
				Name:   "clear",
				Usage:  "Remove every cached game",
				Action: r.CacheClear,
			},
		},
	}
}

// exportCommand writes the cached library to files
func exportCommand(r *Runner) *cli.Command {
	outputFlag := &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path",
	}

	return &cli.Command{
		Name:  "export",
		Usage: "Export the cached library",
		Commands: []*cli.Command{
			{
				Name:   "csv",
				Usage:  "Export to CSV with a JSON metadata file",
				Flags:  []cli.Flag{outputFlag},
				Action: r.ExportCSV,
			},
			{
				Name:    "markdown",
				Aliases: []string{"md"},
				Usage:   "Export to Markdown grouped by completion year",
				Flags:   []cli.Flag{outputFlag},
				Action:  r.ExportMarkdown,
			},
			{
				Name:   "text",
				Usage:  "Export to plain text",
				Flags:  []cli.Flag{outputFlag},
				Action: r.ExportText,
			},
		},
	}
}

// setupCommand handles setup operations for the local database and config.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize the cache database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write a config.toml template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive library browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive library browser",
		Action:  r.TUI,
	}
}

// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// windowFlags are shared by commands that browse a playlist.
func windowFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "skip",
			Usage: "Number of entries to skip",
		},
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"n"},
			Usage:   "Maximum number of entries to return (-1 for all, defaults to browse.default_count)",
		},
		&cli.StringFlag{
			Name:    "keys",
			Aliases: []string{"k"},
			Usage:   "Comma-separated metadata keys (title,url,mime,modification-date,childcount,duration,thumbnail,album,artist,genre)",
		},
		&cli.StringFlag{
			Name:    "type",
			Aliases: []string{"t"},
			Usage:   "Restrict to media types (audio,video,image,all)",
		},
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize config and history database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.SetupDatabase,
		Commands: []*cli.Command{
			{
				Name:  "rollback",
				Usage: "Revert the most recent database migration",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.RollbackDatabase,
			},
		},
	}
}

// browseCommand streams the entries of a playlist as they are delivered
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "browse",
		Aliases: []string{"b"},
		Usage:   "Browse a playlist, printing entries as they arrive",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "playlist",
			},
		},
		Flags:  windowFlags(),
		Action: r.Browse,
	}
}

// listCommand renders a playlist window in one of the export formats
func listCommand(r *Runner) *cli.Command {
	flags := append(windowFlags(),
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, csv, md, json, m3u",
			Value:   "text",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write to file instead of stdout",
		},
		&cli.BoolFlag{
			Name:  "save",
			Usage: "Write to <playlist>_export.<ext>",
		},
	)
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List a playlist and render it",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "playlist",
			},
		},
		Flags:  flags,
		Action: r.List,
	}
}

// sniffCommand checks paths or MIME types for playlist content
func sniffCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "sniff",
		Usage:     "Report whether files or MIME types are playlists",
		ArgsUsage: "<path|mime>...",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Sniff,
	}
}

// scanCommand finds playlists in a directory tree
func scanCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "Find and parse playlists below a directory",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "dir",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "recurse",
				Aliases: []string{"r"},
				Usage:   "Descend into subdirectories",
			},
			&cli.BoolFlag{
				Name:  "hidden",
				Usage: "Include dot-files and dot-directories (defaults to scan.hidden)",
			},
			&cli.BoolFlag{
				Name:  "expand",
				Usage: "Count entries of nested playlists",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent workers (defaults to scan.workers)",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Files opened per second (defaults to scan.rate_limit)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Print progress while scanning",
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
		Action: r.Scan,
	}
}

// historyCommand inspects recorded browses
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect recorded browses",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recorded browses, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of records to return",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Filter by status (parsed, cached, cancelled, failed)",
					},
					&cli.StringFlag{
						Name:  "playlist",
						Usage: "Filter by playlist path or URL",
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
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Show a recorded browse and its entries",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.HistoryShow,
			},
			{
				Name:  "delete",
				Usage: "Delete a recorded browse",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.HistoryDelete,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive playlist browser",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "playlist",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where logs go while the TUI owns the terminal",
				Value: "./tmp/plsx-tui.log",
			},
		},
		Action: r.TUI,
	}
}

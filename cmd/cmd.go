// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand initializes the settings database and config file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Initialize settings database and configuration",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// statusCommand reports the current gate state.
func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show gate state and library summary",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "local",
				Usage: "Skip config server confirmation",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Status,
	}
}

// unlockCommand attempts to open the gate with a password.
func unlockCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "unlock",
		Usage: "Unlock the gate for this session",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "password"},
		},
		Action: r.Unlock,
	}
}

// lockCommand clears the session marker, re-locking protected libraries.
func lockCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "lock",
		Usage:  "Clear the session unlock marker",
		Action: r.Lock,
	}
}

// sessionCommand manages the per-session unlock marker.
func sessionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "session",
		Usage: "Manage the unlock session",
		Commands: []*cli.Command{
			{
				Name:   "clear",
				Usage:  "Remove the session unlock marker",
				Action: r.SessionClear,
			},
		},
	}
}

// accessCommand manages password protection of the library.
func accessCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "access",
		Usage: "Manage password protection",
		Commands: []*cli.Command{
			{
				Name:   "enable",
				Usage:  "Require a password to view the library",
				Action: r.AccessEnable,
			},
			{
				Name:   "disable",
				Usage:  "Stop requiring a password",
				Action: r.AccessDisable,
			},
			{
				Name:  "add",
				Usage: "Add an access password",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "password"},
				},
				Action: r.AccessAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove an access password",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "password"},
				},
				Action: r.AccessRemove,
			},
		},
	}
}

// subsCommand manages subscription feeds.
func subsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "subs",
		Aliases: []string{"subscriptions"},
		Usage:   "Manage subscription feeds",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a subscription feed",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "url",
						Usage: "Feed URL",
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Display name",
					},
					&cli.StringFlag{
						Name:  "token",
						Usage: "Bearer token for protected feeds",
					},
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to file containing a cURL command",
					},
					&cli.BoolFlag{
						Name:  "manual",
						Usage: "Exclude from automatic refresh",
					},
				},
				Action: r.SubsAdd,
			},
			{
				Name:  "list",
				Usage: "List subscription feeds",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.SubsList,
			},
			{
				Name:  "remove",
				Usage: "Remove a subscription feed by id or url",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "ref"},
				},
				Action: r.SubsRemove,
			},
		},
	}
}

// syncCommand refreshes source lists from subscription feeds.
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Refresh sources from subscription feeds",
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Fetch every auto-refresh feed once",
				Action: r.SyncRun,
			},
			{
				Name:  "watch",
				Usage: "Keep syncing as settings change until interrupted",
				Action: r.SyncWatch,
			},
		},
	}
}

// sourcesCommand inspects and exports the merged library.
func sourcesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sources",
		Usage: "Inspect the merged source library",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List merged sources",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.SourcesList,
			},
			{
				Name:  "export",
				Usage: "Export the library to CSV and JSON files",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Base path for export files",
					},
				},
				Action: r.SourcesExport,
			},
		},
	}
}

// serveCommand hosts the config API that gate clients confirm against.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve the config API (GET/POST /api/config)",
		Action: r.Serve,
	}
}

// openCommand launches the hosted web player.
func openCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "open",
		Usage:  "Open the web player in the default browser",
		Action: r.Open,
	}
}

// tuiCommand returns the top-level TUI command for the gated library.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"gate", "interactive", "ui"},
		Usage:   "Launch the interactive gate and library browser",
		Action:  r.TUI,
	}
}

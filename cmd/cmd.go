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

func profileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "profile",
		Aliases: []string{"p"},
		Usage:   "Named token profile",
		Value:   "default",
	}
}

// authCommand handles authorization operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authorization",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authorize via the browser and save the token",
				Flags: []cli.Flag{
					configFlag(),
					profileFlag(),
					&cli.BoolFlag{
						Name:  "prompt",
						Usage: "Paste the callback URL instead of running a local server",
					},
					&cli.IntFlag{
						Name:  "port",
						Usage: "Callback server port (overrides config)",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "status",
				Usage: "Show the saved token for a profile",
				Flags: []cli.Flag{
					configFlag(), profileFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuthStatus,
			},
			{
				Name:  "refresh",
				Usage: "Force-refresh the saved token",
				Flags: []cli.Flag{
					configFlag(), profileFlag(),
				},
				Action: r.AuthRefresh,
			},
			{
				Name:  "logout",
				Usage: "Delete the saved token for a profile",
				Flags: []cli.Flag{
					configFlag(), profileFlag(),
				},
				Action: r.AuthLogout,
			},
		},
	}
}

// apiCommand handles Spotify Web API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Query the Spotify Web API",
		Commands: []*cli.Command{
			{
				Name:   "me",
				Usage:  "Show the authorized user's profile",
				Flags:  []cli.Flag{configFlag(), profileFlag(), jsonFlag(), prettyFlag()},
				Action: r.APIMe,
			},
			{
				Name:  "playlists",
				Usage: "List the authorized user's playlists",
				Flags: []cli.Flag{
					configFlag(), profileFlag(), jsonFlag(), prettyFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of playlists to return",
						Value: 20,
					},
					&cli.IntFlag{
						Name:  "offset",
						Usage: "Index of the first playlist to return",
					},
				},
				Action: r.APIPlaylists,
			},
			{
				Name:  "track",
				Usage: "Fetch a track by ID or URI",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{configFlag(), profileFlag(), jsonFlag(), prettyFlag()},
				Action: r.APITrack,
			},
			{
				Name:  "search",
				Usage: "Search tracks, albums, artists and playlists",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags: []cli.Flag{
					configFlag(), profileFlag(), jsonFlag(), prettyFlag(),
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Comma-separated result types",
						Value:   "track",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results per type",
						Value: 10,
					},
				},
				Action: r.APISearch,
			},
			{
				Name:  "get",
				Usage: "Fetch any resource by ID, URI or open.spotify.com URL",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "identifier"},
				},
				Flags:  []cli.Flag{configFlag(), profileFlag(), jsonFlag(), prettyFlag()},
				Action: r.APIGet,
			},
			{
				Name:  "saved",
				Usage: "List the authorized user's saved tracks",
				Flags: []cli.Flag{
					configFlag(), profileFlag(), jsonFlag(), prettyFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of tracks to return",
						Value: 20,
					},
					&cli.IntFlag{
						Name:  "offset",
						Usage: "Index of the first track to return",
					},
				},
				Action: r.APISaved,
			},
		},
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

func prettyFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "pretty",
		Usage: "Pretty-print JSON output",
		Value: true,
	}
}

// setupCommand writes a starter configuration file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create a starter configuration file",
		Flags: []cli.Flag{
			configFlag(),
		},
		Action: r.Setup,
	}
}

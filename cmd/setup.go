package main

import (
	"context"

	"github.com/desertthunder/spotr/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes a starter config.toml for the user to fill in with their
// application credentials.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.writePlain("✓ Created %s\n\n", path)
	r.writePlain("Register an application at https://developer.spotify.com/dashboard,\n")
	r.writePlain("add the redirect URI from the config to its allow-list and fill in\n")
	r.writePlain("the client_id (and client_secret, if any) before running:\n\n")
	return r.writePlain("  spotr auth login\n")
}

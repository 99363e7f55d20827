package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/spotr/internal/auth"
	"github.com/desertthunder/spotr/internal/server"
	"github.com/desertthunder/spotr/internal/store"
	"github.com/urfave/cli/v3"
)

// AuthLogin runs the browser authorization dance and saves the obtained
// token under the chosen profile.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))
	profile := cmd.String("profile")

	session, err := r.userSession()
	if err != nil {
		return err
	}

	s, err := r.tokenStore()
	if err != nil {
		return err
	}

	var token *auth.Token
	if cmd.Bool("prompt") {
		token, err = server.PromptForUserAuthorization(ctx, session, r.input, r.output)
	} else {
		port := cmd.Int("port")
		if port == 0 {
			port = r.config.Server.Port
		}
		r.logger.Info("starting authorization", "flow", session.Flow(), "port", port)
		token, err = r.authorize(ctx, session, &server.AuthorizeOptions{
			AppName:        "spotr",
			Port:           port,
			Timeout:        r.serverTimeout(),
			SessionOptions: r.sessionOpts,
			APIBaseURL:     r.apiBaseURL,
			Logger:         r.logger,
		})
	}
	if err != nil {
		return err
	}

	if err := s.Save(profile, token); err != nil {
		return fmt.Errorf("authorized, but failed to save token: %w", err)
	}

	r.writePlain("✓ Authorization successful\n")
	r.writePlain("Profile: %s\n", profile)
	if scope := token.Scope(); len(scope) > 0 {
		r.writePlain("Scope: %s\n", auth.JoinScope(scope))
	}
	return r.writePlain("Expires: %s\n", token.ExpiresAt().Local().Format(time.RFC1123))
}

// AuthStatus reports on the token saved under a profile.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))
	profile := cmd.String("profile")

	s, err := r.tokenStore()
	if err != nil {
		return err
	}

	token, err := s.Load(profile)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(token, true)
	}

	if token.IsExpired() {
		r.writePlain("✗ Token expired\n")
	} else {
		r.writePlain("✓ Token valid\n")
	}
	r.writePlain("Profile: %s\n", profile)
	if scope := token.Scope(); len(scope) > 0 {
		r.writePlain("Scope: %s\n", auth.JoinScope(scope))
	}
	r.writePlain("Expires: %s\n", token.ExpiresAt().Local().Format(time.RFC1123))
	if token.RefreshToken() != "" {
		return r.writePlain("Refreshable: yes\n")
	}
	return r.writePlain("Refreshable: no\n")
}

// AuthRefresh forces a refresh of the saved token and writes the renewed
// one back to the store.
func (r *Runner) AuthRefresh(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))
	profile := cmd.String("profile")

	session, err := r.userSession()
	if err != nil {
		return err
	}

	refreshable, ok := session.(auth.RefreshableSession)
	if !ok {
		return fmt.Errorf("the %s flow does not issue refresh tokens", session.Flow())
	}

	s, err := r.tokenStore()
	if err != nil {
		return err
	}
	if _, err := store.Restore(session, s, profile); err != nil {
		return err
	}

	token, err := refreshable.RefreshToken(ctx)
	if err != nil {
		return err
	}
	if err := s.Save(profile, token); err != nil {
		return fmt.Errorf("refreshed, but failed to save token: %w", err)
	}

	r.writePlain("✓ Token refreshed\n")
	return r.writePlain("Expires: %s\n", token.ExpiresAt().Local().Format(time.RFC1123))
}

// AuthLogout discards the token saved under a profile.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))
	profile := cmd.String("profile")

	s, err := r.tokenStore()
	if err != nil {
		return err
	}
	if err := s.Delete(profile); err != nil {
		return err
	}

	return r.writePlain("✓ Logged out of profile %q\n", profile)
}

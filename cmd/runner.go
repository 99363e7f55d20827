package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotr/internal/auth"
	"github.com/desertthunder/spotr/internal/server"
	"github.com/desertthunder/spotr/internal/shared"
	"github.com/desertthunder/spotr/internal/spotify"
	"github.com/desertthunder/spotr/internal/store"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	logger *log.Logger
	output io.Writer
	input  io.Reader

	// sessionOpts and apiBaseURL let tests point the runner at local
	// servers; nil/empty means production endpoints.
	sessionOpts *auth.SessionOptions
	apiBaseURL  string
	authorize   func(ctx context.Context, session server.UserSession, opts *server.AuthorizeOptions) (*auth.Token, error)
}

// RunnerConfig contains configuration options for creating a Runner.
type RunnerConfig struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer
	Input  io.Reader

	SessionOptions *auth.SessionOptions
	APIBaseURL     string
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerConfig) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	return &Runner{
		config:      opts.Config,
		logger:      opts.Logger,
		output:      opts.Output,
		input:       opts.Input,
		sessionOpts: opts.SessionOptions,
		apiBaseURL:  opts.APIBaseURL,
		authorize:   server.GetUserAuthorization,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, apiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// reloadConfig swaps in the config at path when it exists; commands taking
// a --config flag call this first.
func (r *Runner) reloadConfig(path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load config, keeping current one", "error", err)
		return
	}
	r.config = config
}

// credentials resolves the client credentials, preferring the config file
// and falling back to SPOTIPIE_* environment variables.
func (r *Runner) credentials() (auth.Credentials, error) {
	c := r.config.Credentials
	if c.ClientID != "" {
		return auth.Credentials{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURI:  c.RedirectURI,
		}, nil
	}
	return auth.CredentialsFromEnvironment(auth.DefaultEnvPrefix)
}

func (r *Runner) scope() []string {
	return auth.ParseScope(r.config.Credentials.Scope)
}

// tokenStore builds the configured token store.
func (r *Runner) tokenStore() (store.TokenStore, error) {
	storage := r.config.Storage
	switch storage.Backend {
	case "", "file":
		return store.NewFileStore(storage.Path)
	case "sqlite":
		return store.NewSQLiteStore(storage.Path)
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", shared.ErrInvalidConfig, storage.Backend)
	}
}

// userSession builds a browser-authorizable session from the credentials:
// authorization-code when a secret is configured, implicit grant otherwise.
func (r *Runner) userSession() (server.UserSession, error) {
	creds, err := r.credentials()
	if err != nil {
		return nil, err
	}

	if creds.ClientSecret != "" {
		return auth.NewAuthorizationCodeSession(creds.ClientID, creds.ClientSecret, creds.RedirectURI, r.scope(), r.sessionOpts), nil
	}
	return auth.NewImplicitGrantSession(creds.ClientID, creds.RedirectURI, r.scope(), r.sessionOpts), nil
}

// client restores the saved token for the profile and wraps the session in
// an API client. Token updates (refreshes) are saved back automatically.
func (r *Runner) client(profile string) (*spotify.Client, error) {
	session, err := r.userSession()
	if err != nil {
		return nil, err
	}

	s, err := r.tokenStore()
	if err != nil {
		return nil, err
	}

	found, err := store.Restore(session, s, profile)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: no saved token for profile %q, run 'spotr auth login' first", shared.ErrNotAuthorized, profile)
	}
	store.Bind(session, s, profile)

	return spotify.NewClient(session, &spotify.ClientOptions{
		BaseURL: r.apiBaseURL,
		Logger:  r.logger,
	}), nil
}

func (r *Runner) serverTimeout() time.Duration {
	if r.config.Server.TimeoutSeconds > 0 {
		return time.Duration(r.config.Server.TimeoutSeconds) * time.Second
	}
	return server.DefaultTimeout
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

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
	return r.writePlain(format+"\n", args...)
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/desertthunder/spotr/internal/auth"
	"github.com/desertthunder/spotr/internal/server"
	"github.com/desertthunder/spotr/internal/shared"
	"github.com/desertthunder/spotr/internal/store"
	tu "github.com/desertthunder/spotr/internal/testing"
	"github.com/urfave/cli/v3"
)

// testConfig builds a config with an isolated file token store and
// implicit-grant credentials.
func testConfig(t *testing.T) *shared.Config {
	t.Helper()
	config := shared.DefaultConfig()
	config.Credentials.ClientID = "test-client"
	config.Credentials.ClientSecret = ""
	config.Credentials.RedirectURI = "http://localhost:1234/callback"
	config.Credentials.Scope = "user-library-read"
	config.Storage.Backend = "file"
	config.Storage.Path = t.TempDir()
	return config
}

func saveTestToken(t *testing.T, config *shared.Config, accessToken string) *auth.Token {
	t.Helper()
	token, err := auth.NewToken(auth.TokenFields{
		AccessToken: accessToken,
		ExpiresIn:   3600,
		Scope:       []string{"user-library-read"},
	})
	if err != nil {
		t.Fatalf("failed to build token: %v", err)
	}
	s, err := store.NewFileStore(config.Storage.Path)
	if err != nil {
		t.Fatalf("failed to build store: %v", err)
	}
	if err := s.Save("default", token); err != nil {
		t.Fatalf("failed to save token: %v", err)
	}
	return token
}

// run executes a CLI invocation against the runner's registered commands.
func run(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "spotr", Commands: r.register()}
	return app.Run(context.Background(), append([]string{"spotr"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := testConfig(t)
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}

			runner := NewRunner(RunnerConfig{
				Config: config,
				Logger: logger,
				Output: output,
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
			if runner.authorize == nil {
				t.Error("expected authorize func to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerConfig{})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.input != os.Stdin {
				t.Error("expected input to default to os.Stdin")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerConfig{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
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

		t.Run("writes compact JSON", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerConfig{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != `{"key":"value"}`+"\n" {
				t.Errorf("expected compact JSON, got %q", output.String())
			}
		})

		t.Run("handles marshal error", func(t *testing.T) {
			runner := NewRunner(RunnerConfig{Output: &bytes.Buffer{}})
			if err := runner.writeJSON(make(chan int), false); err == nil {
				t.Fatal("expected error for non-serializable data")
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerConfig{Output: &tu.FWriter{}})
			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limited := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerConfig{Output: &limited})
			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerConfig{Output: output})

		if err := runner.writePlain("hello %s", "world"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "hello world" {
			t.Errorf("expected 'hello world', got %q", output.String())
		}

		output.Reset()
		if err := runner.writePlainln("line"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "line\n" {
			t.Errorf("expected trailing newline, got %q", output.String())
		}
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerConfig{})
		commands := runner.register()
		if len(commands) != 3 {
			t.Errorf("expected 3 top-level commands, got %d", len(commands))
		}
		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})

	t.Run("tokenStore", func(t *testing.T) {
		t.Run("file backend", func(t *testing.T) {
			config := testConfig(t)
			runner := NewRunner(RunnerConfig{Config: config})

			s, err := runner.tokenStore()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if _, ok := s.(*store.FileStore); !ok {
				t.Errorf("expected *store.FileStore, got %T", s)
			}
		})

		t.Run("sqlite backend", func(t *testing.T) {
			config := testConfig(t)
			config.Storage.Backend = "sqlite"
			config.Storage.Path = t.TempDir() + "/tokens.db"
			runner := NewRunner(RunnerConfig{Config: config})

			s, err := runner.tokenStore()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if _, ok := s.(*store.SQLiteStore); !ok {
				t.Errorf("expected *store.SQLiteStore, got %T", s)
			}
		})

		t.Run("unknown backend", func(t *testing.T) {
			config := testConfig(t)
			config.Storage.Backend = "etcd"
			runner := NewRunner(RunnerConfig{Config: config})

			if _, err := runner.tokenStore(); !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	})

	t.Run("credentials", func(t *testing.T) {
		t.Run("from config", func(t *testing.T) {
			config := testConfig(t)
			runner := NewRunner(RunnerConfig{Config: config})

			creds, err := runner.credentials()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if creds.ClientID != "test-client" {
				t.Errorf("expected configured client id, got %q", creds.ClientID)
			}
		})

		t.Run("environment fallback", func(t *testing.T) {
			config := testConfig(t)
			config.Credentials.ClientID = ""
			t.Setenv("SPOTIPIE_CLIENT_ID", "env-client")
			t.Setenv("SPOTIPIE_REDIRECT_URI", "http://localhost:9999/callback")
			runner := NewRunner(RunnerConfig{Config: config})

			creds, err := runner.credentials()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if creds.ClientID != "env-client" {
				t.Errorf("expected env client id, got %q", creds.ClientID)
			}
		})
	})

	t.Run("userSession", func(t *testing.T) {
		t.Run("implicit grant without secret", func(t *testing.T) {
			runner := NewRunner(RunnerConfig{Config: testConfig(t)})

			session, err := runner.userSession()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if session.Flow() != auth.FlowImplicitGrant {
				t.Errorf("expected implicit grant, got %s", session.Flow())
			}
		})

		t.Run("authorization code with secret", func(t *testing.T) {
			config := testConfig(t)
			config.Credentials.ClientSecret = "test-secret"
			runner := NewRunner(RunnerConfig{Config: config})

			session, err := runner.userSession()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if session.Flow() != auth.FlowAuthorizationCode {
				t.Errorf("expected authorization code, got %s", session.Flow())
			}
		})
	})

	t.Run("client", func(t *testing.T) {
		t.Run("without saved token", func(t *testing.T) {
			runner := NewRunner(RunnerConfig{Config: testConfig(t)})

			_, err := runner.client("default")
			if !errors.Is(err, shared.ErrNotAuthorized) {
				t.Fatalf("expected ErrNotAuthorized, got %v", err)
			}
			if !strings.Contains(err.Error(), "auth login") {
				t.Errorf("expected login hint in error, got %v", err)
			}
		})

		t.Run("with saved token", func(t *testing.T) {
			config := testConfig(t)
			saveTestToken(t, config, "stored-token")
			runner := NewRunner(RunnerConfig{Config: config})

			client, err := runner.client("default")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got := client.Session().Token().AccessToken(); got != "stored-token" {
				t.Errorf("expected restored token, got %q", got)
			}
		})
	})
}

func TestAuthActions(t *testing.T) {
	t.Run("login saves the authorized token", func(t *testing.T) {
		config := testConfig(t)
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerConfig{Config: config, Output: output})

		granted, err := auth.NewToken(auth.TokenFields{AccessToken: "granted", ExpiresIn: 3600})
		if err != nil {
			t.Fatalf("failed to build token: %v", err)
		}
		runner.authorize = func(ctx context.Context, session server.UserSession, opts *server.AuthorizeOptions) (*auth.Token, error) {
			return granted, nil
		}

		if err := run(t, runner, "auth", "login"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Authorization successful") {
			t.Errorf("expected success message, got %q", output.String())
		}

		s, _ := store.NewFileStore(config.Storage.Path)
		saved, err := s.Load("default")
		if err != nil {
			t.Fatalf("expected token saved, got %v", err)
		}
		if saved.AccessToken() != "granted" {
			t.Errorf("expected granted token saved, got %q", saved.AccessToken())
		}
	})

	t.Run("login surfaces authorization failure", func(t *testing.T) {
		runner := NewRunner(RunnerConfig{Config: testConfig(t), Output: &bytes.Buffer{}})
		runner.authorize = func(ctx context.Context, session server.UserSession, opts *server.AuthorizeOptions) (*auth.Token, error) {
			return nil, fmt.Errorf("%w: access denied", shared.ErrAuthFailed)
		}

		if err := run(t, runner, "auth", "login"); !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("login with prompt reads the pasted callback URL", func(t *testing.T) {
		config := testConfig(t)
		output := &bytes.Buffer{}
		input := strings.NewReader("http://localhost:1234/callback#access_token=pasted&token_type=Bearer&expires_in=3600\n")
		runner := NewRunner(RunnerConfig{Config: config, Output: output, Input: input})

		if err := run(t, runner, "auth", "login", "--prompt"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		s, _ := store.NewFileStore(config.Storage.Path)
		saved, err := s.Load("default")
		if err != nil {
			t.Fatalf("expected token saved, got %v", err)
		}
		if saved.AccessToken() != "pasted" {
			t.Errorf("expected pasted token saved, got %q", saved.AccessToken())
		}
	})

	t.Run("status", func(t *testing.T) {
		t.Run("reports a valid token", func(t *testing.T) {
			config := testConfig(t)
			saveTestToken(t, config, "stored-token")
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerConfig{Config: config, Output: output})

			if err := run(t, runner, "auth", "status"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			result := output.String()
			if !strings.Contains(result, "Token valid") {
				t.Errorf("expected valid marker, got %q", result)
			}
			if !strings.Contains(result, "user-library-read") {
				t.Errorf("expected scope in output, got %q", result)
			}
			if !strings.Contains(result, "Refreshable: no") {
				t.Errorf("expected non-refreshable, got %q", result)
			}
		})

		t.Run("reports an expired token", func(t *testing.T) {
			config := testConfig(t)
			token, err := auth.NewToken(auth.TokenFields{AccessToken: "old", ExpiresIn: 1})
			if err != nil {
				t.Fatalf("failed to build token: %v", err)
			}
			s, _ := store.NewFileStore(config.Storage.Path)
			if err := s.Save("default", token); err != nil {
				t.Fatalf("failed to save token: %v", err)
			}

			output := &bytes.Buffer{}
			runner := NewRunner(RunnerConfig{Config: config, Output: output})
			if err := run(t, runner, "auth", "status"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), "Token expired") {
				t.Errorf("expected expired marker, got %q", output.String())
			}
		})

		t.Run("json output round trips", func(t *testing.T) {
			config := testConfig(t)
			saved := saveTestToken(t, config, "stored-token")
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerConfig{Config: config, Output: output})

			if err := run(t, runner, "auth", "status", "--json"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			parsed, err := auth.TokenFromJSON(output.Bytes())
			if err != nil {
				t.Fatalf("expected token JSON, got %v", err)
			}
			if !parsed.Equal(saved) {
				t.Error("expected JSON output to round trip the saved token")
			}
		})

		t.Run("errors without a saved token", func(t *testing.T) {
			runner := NewRunner(RunnerConfig{Config: testConfig(t), Output: &bytes.Buffer{}})
			if err := run(t, runner, "auth", "status"); !errors.Is(err, shared.ErrTokenNotFound) {
				t.Errorf("expected ErrTokenNotFound, got %v", err)
			}
		})
	})

	t.Run("refresh renews and saves the token", func(t *testing.T) {
		accounts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if err := req.ParseForm(); err != nil {
				t.Errorf("failed to parse form: %v", err)
			}
			if got := req.PostForm.Get("grant_type"); got != "refresh_token" {
				t.Errorf("expected refresh_token grant, got %q", got)
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": "renewed",
				"token_type":   "Bearer",
				"expires_in":   3600,
			})
		}))
		defer accounts.Close()

		config := testConfig(t)
		config.Credentials.ClientSecret = "test-secret"

		token, err := auth.NewToken(auth.TokenFields{
			AccessToken:  "stale",
			ExpiresIn:    3600,
			RefreshToken: "refresh-1",
		})
		if err != nil {
			t.Fatalf("failed to build token: %v", err)
		}
		s, _ := store.NewFileStore(config.Storage.Path)
		if err := s.Save("default", token); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}

		output := &bytes.Buffer{}
		runner := NewRunner(RunnerConfig{
			Config: config,
			Output: output,
			SessionOptions: &auth.SessionOptions{
				Endpoints: auth.Endpoints{TokenURL: accounts.URL, RefreshURL: accounts.URL},
			},
		})

		if err := run(t, runner, "auth", "refresh"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Token refreshed") {
			t.Errorf("expected refresh message, got %q", output.String())
		}

		saved, err := s.Load("default")
		if err != nil {
			t.Fatalf("expected token saved, got %v", err)
		}
		if saved.AccessToken() != "renewed" {
			t.Errorf("expected renewed token saved, got %q", saved.AccessToken())
		}
	})

	t.Run("refresh rejects non-refreshable flows", func(t *testing.T) {
		runner := NewRunner(RunnerConfig{Config: testConfig(t), Output: &bytes.Buffer{}})
		err := run(t, runner, "auth", "refresh")
		if err == nil || !strings.Contains(err.Error(), "does not issue refresh tokens") {
			t.Errorf("expected flow error, got %v", err)
		}
	})

	t.Run("logout deletes the saved token", func(t *testing.T) {
		config := testConfig(t)
		saveTestToken(t, config, "stored-token")
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerConfig{Config: config, Output: output})

		if err := run(t, runner, "auth", "logout"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Logged out") {
			t.Errorf("expected logout message, got %q", output.String())
		}

		s, _ := store.NewFileStore(config.Storage.Path)
		if _, err := s.Load("default"); !errors.Is(err, shared.ErrTokenNotFound) {
			t.Errorf("expected token gone, got %v", err)
		}

		// logging out twice is fine
		if err := run(t, runner, "auth", "logout"); err != nil {
			t.Errorf("expected second logout to succeed, got %v", err)
		}
	})
}

func TestAPIActions(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if got := req.Header.Get("Authorization"); got != "Bearer stored-token" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":{"status":401,"message":"Invalid access token"}}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch {
		case req.URL.Path == "/v1/me":
			fmt.Fprint(w, `{"id":"wizzler","display_name":"Wizzler","followers":{"total":5}}`)
		case req.URL.Path == "/v1/me/playlists":
			fmt.Fprint(w, `{"items":[{"id":"pl1","name":"Road Trip","tracks":{"total":12}}],"limit":20,"offset":0,"total":1}`)
		case req.URL.Path == "/v1/search":
			if req.URL.Query().Get("q") == "" {
				t.Error("expected search query parameter")
			}
			fmt.Fprint(w, `{"tracks":{"items":[{"id":"t1","name":"Harvest Moon","artists":[{"name":"Neil Young"}]}],"limit":10,"offset":0,"total":1}}`)
		case req.URL.Path == "/v1/tracks/6rqhFgbbKwnb9MLmUQDhG6":
			fmt.Fprint(w, `{"id":"6rqhFgbbKwnb9MLmUQDhG6","name":"Interstate Love Song"}`)
		case req.URL.Path == "/v1/me/tracks":
			fmt.Fprint(w, `{"items":[{"added_at":"2026-01-01T00:00:00Z","track":{"id":"t2","name":"Carry On","artists":[{"name":"CSNY"}],"duration_ms":255000}}],"limit":20,"offset":0,"total":1}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":{"status":404,"message":"Not found"}}`)
		}
	}))
	defer api.Close()

	newRunner := func(t *testing.T) (*Runner, *bytes.Buffer) {
		t.Helper()
		config := testConfig(t)
		saveTestToken(t, config, "stored-token")
		output := &bytes.Buffer{}
		return NewRunner(RunnerConfig{
			Config:     config,
			Output:     output,
			APIBaseURL: api.URL + "/v1",
		}), output
	}

	t.Run("me renders the profile", func(t *testing.T) {
		runner, output := newRunner(t)
		if err := run(t, runner, "api", "me"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		result := output.String()
		if !strings.Contains(result, "Wizzler") {
			t.Errorf("expected display name, got %q", result)
		}
		if !strings.Contains(result, "Followers: 5") {
			t.Errorf("expected follower count, got %q", result)
		}
	})

	t.Run("me with json emits the raw profile", func(t *testing.T) {
		runner, output := newRunner(t)
		if err := run(t, runner, "api", "me", "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		var user struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(output.Bytes(), &user); err != nil {
			t.Fatalf("expected JSON output, got %v", err)
		}
		if user.ID != "wizzler" {
			t.Errorf("expected wizzler, got %q", user.ID)
		}
	})

	t.Run("playlists lists names and counts", func(t *testing.T) {
		runner, output := newRunner(t)
		if err := run(t, runner, "api", "playlists"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		result := output.String()
		if !strings.Contains(result, "Road Trip") {
			t.Errorf("expected playlist name, got %q", result)
		}
		if !strings.Contains(result, "12 tracks") {
			t.Errorf("expected track count, got %q", result)
		}
	})

	t.Run("search renders matching tracks", func(t *testing.T) {
		runner, output := newRunner(t)
		if err := run(t, runner, "api", "search", "harvest moon"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		result := output.String()
		if !strings.Contains(result, "Harvest Moon") || !strings.Contains(result, "Neil Young") {
			t.Errorf("expected track and artist, got %q", result)
		}
	})

	t.Run("search rejects unknown result types", func(t *testing.T) {
		runner, _ := newRunner(t)
		err := run(t, runner, "api", "search", "--type", "podcast", "x")
		if !errors.Is(err, shared.ErrInvalidResource) {
			t.Errorf("expected ErrInvalidResource, got %v", err)
		}
	})

	t.Run("search requires a query", func(t *testing.T) {
		runner, _ := newRunner(t)
		if err := run(t, runner, "api", "search"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("track fetches by URI", func(t *testing.T) {
		runner, output := newRunner(t)
		if err := run(t, runner, "api", "track", "spotify:track:6rqhFgbbKwnb9MLmUQDhG6"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Interstate Love Song") {
			t.Errorf("expected track name, got %q", output.String())
		}
	})

	t.Run("track rejects non-track URIs", func(t *testing.T) {
		runner, _ := newRunner(t)
		err := run(t, runner, "api", "track", "spotify:album:abc123")
		if !errors.Is(err, shared.ErrInvalidResource) {
			t.Errorf("expected ErrInvalidResource, got %v", err)
		}
	})

	t.Run("get fetches a resource by URI", func(t *testing.T) {
		runner, output := newRunner(t)
		if err := run(t, runner, "api", "get", "spotify:track:6rqhFgbbKwnb9MLmUQDhG6"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Interstate Love Song") {
			t.Errorf("expected track payload, got %q", output.String())
		}
	})

	t.Run("get rejects malformed identifiers", func(t *testing.T) {
		runner, _ := newRunner(t)
		err := run(t, runner, "api", "get", "spotify:podcast:abc")
		if !errors.Is(err, shared.ErrInvalidResource) {
			t.Errorf("expected ErrInvalidResource, got %v", err)
		}
	})

	t.Run("saved lists library tracks", func(t *testing.T) {
		runner, output := newRunner(t)
		if err := run(t, runner, "api", "saved"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		result := output.String()
		if !strings.Contains(result, "Carry On") {
			t.Errorf("expected saved track, got %q", result)
		}
		if !strings.Contains(result, "4:15") {
			t.Errorf("expected formatted duration, got %q", result)
		}
	})

	t.Run("api errors surface with status and message", func(t *testing.T) {
		runner, _ := newRunner(t)
		err := run(t, runner, "api", "get", "spotify:album:abc123")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if !strings.Contains(err.Error(), "Not found") {
			t.Errorf("expected API message, got %v", err)
		}
	})
}

func TestSetupAction(t *testing.T) {
	t.Run("creates the config file", func(t *testing.T) {
		path := t.TempDir() + "/config.toml"
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerConfig{Output: output})

		if err := run(t, runner, "setup", "--config", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, path)
		if !strings.Contains(output.String(), "spotr auth login") {
			t.Errorf("expected next-step hint, got %q", output.String())
		}

		config, err := shared.LoadConfig(path)
		if err != nil {
			t.Fatalf("expected parseable config, got %v", err)
		}
		if config.Server.Port != 1234 {
			t.Errorf("expected default port, got %d", config.Server.Port)
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		path := t.TempDir() + "/config.toml"
		runner := NewRunner(RunnerConfig{Output: &bytes.Buffer{}})

		if err := run(t, runner, "setup", "--config", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := run(t, runner, "setup", "--config", path); err == nil {
			t.Fatal("expected error for existing config file")
		}
	})
}

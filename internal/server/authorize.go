package server

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotr/internal/auth"
	"github.com/desertthunder/spotr/internal/shared"
)

// DefaultTimeout bounds the wait for the user to finish the browser dance.
const DefaultTimeout = 120 * time.Second

// shutdownGrace delays the shutdown request so the in-flight success page
// can finish loading; shutting down immediately orphans the browser on a
// hung connection.
var shutdownGrace = time.Second

// AuthorizeOptions configures [GetUserAuthorization].
type AuthorizeOptions struct {
	AppName string
	Port    int           // 0 means DefaultPort; negative lets the kernel pick
	Timeout time.Duration // defaults to DefaultTimeout

	// OpenBrowser overrides how the authorize URL is opened; defaults to
	// the system browser.
	OpenBrowser func(url string) error

	SessionOptions *auth.SessionOptions
	APIBaseURL     string
	Logger         *log.Logger
}

// UserSession is a session authorized through browser interaction: either
// the authorization-code or the implicit-grant flow.
type UserSession interface {
	auth.Session
	AuthorizationURL(forceDialog bool) (string, string)
}

// GetUserAuthorization walks the user through the browser-based grant
// without making them relay the callback URL: it starts a callback server
// in the background, opens /authorize in the browser and blocks on the
// delivery channel. The obtained token is installed on the given session
// before being returned.
//
// http://localhost:{port}/callback must be allow-listed with the provider.
func GetUserAuthorization(ctx context.Context, session UserSession, opts *AuthorizeOptions) (*auth.Token, error) {
	if opts == nil {
		opts = &AuthorizeOptions{}
	}

	port := opts.Port
	if port == 0 {
		port = DefaultPort
	} else if port < 0 {
		port = 0
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	openBrowser := opts.OpenBrowser
	if openBrowser == nil {
		openBrowser = shared.OpenBrowser
	}
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	clientSecret := ""
	if refreshable, ok := session.(auth.RefreshableSession); ok {
		clientSecret = refreshable.ClientSecret()
	}

	app := New(session.ClientID(), clientSecret, session.Scope(), &Options{
		Port:           port,
		AppName:        opts.AppName,
		SessionOptions: opts.SessionOptions,
		APIBaseURL:     opts.APIBaseURL,
		Logger:         logger,
	})
	if err := app.Start(); err != nil {
		return nil, err
	}
	defer requestShutdown(app)

	if err := openBrowser(app.URL() + "/authorize"); err != nil {
		logger.Warn("could not open the browser automatically", "error", err)
		logger.Info("open this link in your browser", "url", app.URL()+"/authorize")
	}

	select {
	case result := <-app.Result():
		if result.Err != nil {
			return nil, result.Err
		}
		if err := session.SetToken(result.Token); err != nil {
			return nil, err
		}
		return result.Token, nil
	case <-time.After(timeout):
		return nil, &auth.AuthorizationTimeoutError{Timeout: timeout}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// requestShutdown asks the app to stop over its own HTTP surface, after
// the grace period. Falls back to a direct shutdown if the request fails.
func requestShutdown(app *App) {
	time.Sleep(shutdownGrace)

	resp, err := http.Post(app.URL()+"/shutdown", "text/plain", nil)
	if err == nil {
		resp.Body.Close()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	app.Shutdown(ctx)
}

// PromptForUserAuthorization is the no-server alternative for terminals:
// it opens the authorize URL and asks the user to paste the callback URL
// back in. The obtained token is installed on the session.
func PromptForUserAuthorization(ctx context.Context, session UserSession, in io.Reader, out io.Writer) (*auth.Token, error) {
	authURL, _ := session.AuthorizationURL(false)

	fmt.Fprintf(out, `
We need your authorization to continue. We are going to open the Spotify
authorization page in your browser:

  %s

Once you authorize the app, Spotify will redirect you to localhost and the
redirection URL will contain the token. Copy that URL and paste it here.

`, authURL)

	if err := shared.OpenBrowser(authURL); err != nil {
		fmt.Fprintf(out, "Could not open the browser automatically; please open the link above.\n\n")
	}

	fmt.Fprint(out, "Paste the callback URL here: ")
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return nil, fmt.Errorf("failed to read callback URL: %w", err)
	}

	callbackURL := strings.TrimSpace(line)
	// The provider's token exchange rejects plain http.
	if strings.HasPrefix(callbackURL, "http:") {
		callbackURL = "https" + callbackURL[len("http"):]
	}

	switch s := session.(type) {
	case *auth.AuthorizationCodeSession:
		return s.FetchToken(ctx, callbackURL)
	case *auth.ImplicitGrantSession:
		return s.ReadTokenFromCallbackURL(callbackURL)
	default:
		return nil, fmt.Errorf("unsupported session type %T", session)
	}
}

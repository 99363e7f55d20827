package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotr/internal/auth"
	"github.com/desertthunder/spotr/internal/shared"
	"github.com/desertthunder/spotr/internal/spotify"
)

// DefaultPort is the port [GetUserAuthorization] uses when none is given.
// http://localhost:1234/callback must be allow-listed in the provider's
// app settings.
const DefaultPort = 1234

// Result is the single message an [App] delivers: a token or an error,
// never both.
type Result struct {
	Token *auth.Token
	Err   error
}

// Options configures an [App]. The zero value (or a nil pointer) yields
// production defaults.
type Options struct {
	Host    string // defaults to "localhost"
	Port    int    // 0 lets the kernel pick a free port
	AppName string // shown on the success page

	// SessionOptions is passed to the internal session; tests use it to
	// point the token exchange at a local provider.
	SessionOptions *auth.SessionOptions
	// APIBaseURL overrides the Web API root used for the sanity call.
	APIBaseURL string
	Logger     *log.Logger
}

// App is the localhost authorization callback server. Each App owns a
// fresh internal session and delivers exactly one [Result]; it is not
// reusable across authorization runs.
type App struct {
	host    string
	port    int
	appName string

	clientID     string
	clientSecret string
	scope        []string
	sessionOpts  *auth.SessionOptions
	apiBaseURL   string

	flow    auth.Flow
	session auth.Session
	client  *spotify.Client
	logger  *log.Logger

	server *http.Server

	result chan Result
	once   sync.Once

	mu    sync.Mutex
	token *auth.Token
	user  *spotify.User
}

// New builds an App for the given client credentials. A non-empty client
// secret selects the authorization-code flow; without one the app falls
// back to the implicit grant.
func New(clientID, clientSecret string, scope []string, opts *Options) *App {
	if opts == nil {
		opts = &Options{}
	}

	host := opts.Host
	if host == "" {
		host = "localhost"
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	flow := auth.FlowImplicitGrant
	if clientSecret != "" {
		flow = auth.FlowAuthorizationCode
	}

	return &App{
		host:         host,
		port:         opts.Port,
		appName:      opts.AppName,
		clientID:     clientID,
		clientSecret: clientSecret,
		scope:        scope,
		sessionOpts:  opts.SessionOptions,
		apiBaseURL:   opts.APIBaseURL,
		flow:         flow,
		result:       make(chan Result, 1),
		logger:       shared.WithLogger(logger, "component", "authserver"),
	}
}

// URL returns the base URL of the server. Only meaningful after Start
// when the port was left to the kernel.
func (a *App) URL() string {
	return fmt.Sprintf("http://%s:%d", a.host, a.port)
}

// RedirectURI returns the callback URL the provider redirects to.
func (a *App) RedirectURI() string {
	return a.URL() + "/callback"
}

// Result returns the one-shot delivery channel. It receives exactly one
// message and is then closed.
func (a *App) Result() <-chan Result {
	return a.result
}

// Start binds the listener and serves in a background goroutine. The
// internal session is built here because its redirect URI depends on the
// resolved port.
func (a *App) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", a.host, a.port))
	if err != nil {
		return fmt.Errorf("failed to bind callback server: %w", err)
	}
	a.port = ln.Addr().(*net.TCPAddr).Port

	if a.flow == auth.FlowAuthorizationCode {
		a.session = auth.NewAuthorizationCodeSession(a.clientID, a.clientSecret, a.RedirectURI(), a.scope, a.sessionOpts)
	} else {
		a.session = auth.NewImplicitGrantSession(a.clientID, a.RedirectURI(), a.scope, a.sessionOpts)
	}
	a.client = spotify.NewClient(a.session, &spotify.ClientOptions{
		BaseURL: a.apiBaseURL,
		Logger:  a.logger,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /authorize", a.handleAuthorize)
	mux.HandleFunc("GET /callback", a.handleCallback)
	mux.HandleFunc("GET /handle-response", a.handleResponse)
	mux.HandleFunc("GET /success", a.handleSuccess)
	mux.HandleFunc("POST /shutdown", a.handleShutdown)

	a.server = &http.Server{Handler: mux}

	a.logger.Debug("callback server listening", "url", a.URL())
	go func() {
		if err := a.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			a.deliver(Result{Err: fmt.Errorf("callback server failed: %w", err)})
		}
	}()
	return nil
}

// Shutdown stops the server. Safe to call more than once.
func (a *App) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// deliver publishes the single result. Later calls are no-ops, so a stray
// second callback cannot overwrite the outcome.
func (a *App) deliver(result Result) {
	a.once.Do(func() {
		a.result <- result
		close(a.result)
	})
}

func (a *App) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	a.token = nil
	a.user = nil
	a.mu.Unlock()

	var authURL string
	switch s := a.session.(type) {
	case *auth.AuthorizationCodeSession:
		authURL, _ = s.AuthorizationURL(false)
	case *auth.ImplicitGrantSession:
		authURL, _ = s.AuthorizationURL(false)
	}

	http.Redirect(w, r, authURL, http.StatusFound)
}

func (a *App) handleCallback(w http.ResponseWriter, r *http.Request) {
	if a.flow == auth.FlowAuthorizationCode {
		target := "/handle-response"
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	// Implicit grant: the token lives in the URL fragment, which never
	// reaches the server. Serve a page that promotes it to a query string.
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, fragmentRelayPage)
}

func (a *App) handleResponse(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if code := query.Get("error"); code != "" {
		authErr := &auth.AuthorizationError{Code: code, Description: query.Get("error_description")}
		a.deliver(Result{Err: authErr})
		if authErr.Denied() {
			renderPage(w, deniedPage(a.appName))
			return
		}
		renderPage(w, errorPage(code))
		return
	}

	// The provider's token exchange rejects plain-http redirect URIs, so
	// the callback URL is rebuilt as https before handing it over.
	sep := "?"
	if a.flow == auth.FlowImplicitGrant {
		sep = "#"
	}
	callbackURL := fmt.Sprintf("https://%s:%d/callback%s%s", a.host, a.port, sep, r.URL.RawQuery)

	token, err := a.fetchToken(r.Context(), callbackURL)
	if err != nil {
		a.deliver(Result{Err: err})
		renderPage(w, errorPage(err.Error()))
		return
	}

	// One sanity call so a broken token fails here, not in the caller.
	user, err := a.client.Me(r.Context())
	if err != nil {
		a.deliver(Result{Err: fmt.Errorf("token verification failed: %w", err)})
		renderPage(w, errorPage(err.Error()))
		return
	}

	a.mu.Lock()
	a.token = token
	a.user = user
	a.mu.Unlock()

	a.deliver(Result{Token: token})
	http.Redirect(w, r, "/success", http.StatusFound)
}

func (a *App) fetchToken(ctx context.Context, callbackURL string) (*auth.Token, error) {
	switch s := a.session.(type) {
	case *auth.AuthorizationCodeSession:
		return s.FetchToken(ctx, callbackURL)
	case *auth.ImplicitGrantSession:
		return s.ReadTokenFromCallbackURL(callbackURL)
	default:
		return nil, fmt.Errorf("unsupported flow: %s", a.flow)
	}
}

func (a *App) handleSuccess(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	token, user := a.token, a.user
	a.mu.Unlock()

	if token == nil {
		w.WriteHeader(http.StatusForbidden)
		renderPage(w, errorPage("you have not granted any authorization yet"))
		return
	}

	name := ""
	if user != nil {
		name = user.DisplayName
		if name == "" {
			name = user.ID
		}
	}
	renderPage(w, successPage(name, a.appName))
}

func (a *App) handleShutdown(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "Shutdown")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.server.Shutdown(ctx); err != nil {
			a.logger.Warn("shutdown failed", "error", err)
		}
	}()
}

package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotr/internal/shared"
)

// Spotify Accounts service endpoints. The token and refresh endpoints are
// the same URL.
const (
	AuthURL    = "https://accounts.spotify.com/authorize"
	TokenURL   = "https://accounts.spotify.com/api/token"
	RefreshURL = TokenURL
)

// Flow tags the OAuth2 grant strategy a session implements.
type Flow string

const (
	FlowClientCredentials Flow = "client_credentials"
	FlowAuthorizationCode Flow = "authorization_code"
	FlowImplicitGrant     Flow = "implicit_grant"
)

// Endpoints holds the provider URLs a session talks to. The zero value
// falls back to the Spotify production endpoints; tests point it at a local
// server.
type Endpoints struct {
	AuthURL    string
	TokenURL   string
	RefreshURL string
}

func (e Endpoints) withDefaults() Endpoints {
	if e.AuthURL == "" {
		e.AuthURL = AuthURL
	}
	if e.TokenURL == "" {
		e.TokenURL = TokenURL
	}
	if e.RefreshURL == "" {
		e.RefreshURL = e.TokenURL
	}
	return e
}

// RequestOptions carries the optional parts of an outbound API request.
type RequestOptions struct {
	Query       url.Values
	Header      http.Header
	Body        io.Reader
	ContentType string

	// WithholdToken issues the request without the Authorization header and
	// prevents refreshable sessions from auto-refreshing for this call.
	WithholdToken bool
}

// SessionOptions configures optional session behavior. The zero value (or a
// nil pointer) yields production defaults.
type SessionOptions struct {
	HTTPClient *http.Client // retry/caching adapters are the caller's concern
	Logger     *log.Logger
	Endpoints  Endpoints

	// DisableAutoRefresh turns off transparent token renewal on refreshable
	// flows. It has no effect on the implicit grant flow.
	DisableAutoRefresh bool
}

// Session is the capability shared by all grant flows.
//
// Sessions hold at most one current token. Replacing it always fires a
// token-updated event, even if the new value is identical. A session is not
// safe for concurrent use without external synchronization.
type Session interface {
	Flow() Flow
	ClientID() string

	// Token returns the current token, or nil when unauthorized.
	Token() *Token
	// SetToken validates and installs a token, firing token-updated.
	SetToken(token *Token) error
	// SetTokenFromMap normalizes a wire-shaped map into a Token and installs
	// it through the same path as SetToken.
	SetTokenFromMap(data map[string]any) error

	// Scope returns the current token's scope, falling back to the scope
	// the session was configured with.
	Scope() []string
	Authorized() bool

	AddListener(kind EventKind, fn Listener) ListenerHandle
	RemoveListener(h ListenerHandle) error

	// Request is the guarded entry point for all outbound HTTP calls. With
	// no token the call goes out unauthenticated; with an expired token the
	// token-expired event fires first (and refreshable flows may renew);
	// the raw response is returned without retry or status inspection.
	Request(ctx context.Context, method, rawURL string, opts *RequestOptions) (*http.Response, error)
}

// RefreshableSession is the narrower capability of the two flows whose
// token can be renewed without user interaction.
type RefreshableSession interface {
	Session

	ClientSecret() string
	// RefreshToken obtains a new token, installs it and returns it. This is
	// the only path that silently replaces an expired token.
	RefreshToken(ctx context.Context) (*Token, error)
	AutoRefresh() bool
	EnableAutoRefresh()
	DisableAutoRefresh()
}

// baseSession is the helper struct the flow variants are composed around.
type baseSession struct {
	flow        Flow
	clientID    string
	redirectURI string
	scope       []string
	endpoints   Endpoints
	httpClient  *http.Client
	logger      *log.Logger

	// owner points back at the flow variant so events carry the session the
	// caller constructed, not the embedded helper.
	owner Session

	token     *Token
	listeners listenerRegistry
}

func newBaseSession(flow Flow, clientID, redirectURI string, scope []string, opts *SessionOptions) baseSession {
	if opts == nil {
		opts = &SessionOptions{}
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return baseSession{
		flow:        flow,
		clientID:    clientID,
		redirectURI: redirectURI,
		scope:       NormalizeScope(scope),
		endpoints:   opts.Endpoints.withDefaults(),
		httpClient:  httpClient,
		logger:      shared.WithLogger(logger, "flow", string(flow)),
	}
}

func (b *baseSession) Flow() Flow       { return b.flow }
func (b *baseSession) ClientID() string { return b.clientID }
func (b *baseSession) Token() *Token    { return b.token }

func (b *baseSession) Authorized() bool { return b.token != nil }

func (b *baseSession) Scope() []string {
	if b.token != nil {
		return b.token.Scope()
	}
	return slices.Clone(b.scope)
}

func (b *baseSession) AddListener(kind EventKind, fn Listener) ListenerHandle {
	return b.listeners.add(kind, fn)
}

func (b *baseSession) RemoveListener(h ListenerHandle) error {
	return b.listeners.remove(h)
}

func (b *baseSession) SetToken(token *Token) error {
	if token == nil {
		return fmt.Errorf("%w: nil token", shared.ErrMalformedToken)
	}
	return b.installToken(token)
}

func (b *baseSession) SetTokenFromMap(data map[string]any) error {
	if _, ok := data["scope"]; !ok && len(b.scope) > 0 {
		data = cloneMap(data)
		data["scope"] = JoinScope(b.scope)
	}

	token, err := TokenFromMap(data, true)
	if err != nil {
		return err
	}
	return b.installToken(token)
}

// installToken is the single funnel every token replacement goes through.
func (b *baseSession) installToken(token *Token) error {
	old := b.token
	b.token = token
	b.logger.Debug("token updated", "expires_at", token.ExpiresAt())
	return b.listeners.notify(TokenUpdatedEvent{Session: b.owner, OldToken: old, NewToken: token})
}

// request implements the guarded call. refresh is nil for flows (or calls)
// that must not renew automatically.
func (b *baseSession) request(ctx context.Context, method, rawURL string, opts *RequestOptions, refresh func(context.Context) error) (*http.Response, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}

	if b.token != nil && b.token.IsExpired() {
		event := TokenExpiredEvent{Session: b.owner, ExpiredToken: b.token, WithholdToken: opts.WithholdToken}
		if err := b.listeners.notify(event); err != nil {
			return nil, err
		}
		if refresh != nil && !opts.WithholdToken {
			if err := refresh(ctx); err != nil {
				return nil, err
			}
		}
	}

	return b.do(ctx, method, rawURL, opts)
}

// do issues the HTTP call with the current token attached.
func (b *baseSession) do(ctx context.Context, method, rawURL string, opts *RequestOptions) (*http.Response, error) {
	if len(opts.Query) > 0 {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid request URL: %w", err)
		}
		q := u.Query()
		for key, values := range opts.Query {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		u.RawQuery = q.Encode()
		rawURL = u.String()
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, opts.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, values := range opts.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if opts.ContentType != "" {
		req.Header.Set("Content-Type", opts.ContentType)
	}
	if b.token != nil && !opts.WithholdToken {
		req.Header.Set("Authorization", "Bearer "+b.token.AccessToken())
	}

	return b.httpClient.Do(req)
}

// authorizationURL builds the provider authorize URL with a generated
// anti-CSRF state value, returning both.
func (b *baseSession) authorizationURL(responseType string, forceDialog bool) (string, string) {
	state := shared.GenerateState()

	q := url.Values{}
	q.Set("client_id", b.clientID)
	q.Set("response_type", responseType)
	q.Set("redirect_uri", b.redirectURI)
	if len(b.scope) > 0 {
		q.Set("scope", JoinScope(b.scope))
	}
	q.Set("state", state)
	if forceDialog {
		q.Set("show_dialog", "true")
	}

	return b.endpoints.AuthURL + "?" + q.Encode(), state
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

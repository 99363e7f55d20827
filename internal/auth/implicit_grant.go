package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ImplicitGrantSession implements the implicit grant flow: the token is
// delivered directly in the fragment of the callback URL, no client secret
// and no refresh token. When the token expires, renewal requires another
// round through the browser; listen for [TokenExpired] to drive it.
type ImplicitGrantSession struct {
	baseSession
}

// NewImplicitGrantSession builds a session for the implicit grant flow.
func NewImplicitGrantSession(clientID, redirectURI string, scope []string, opts *SessionOptions) *ImplicitGrantSession {
	s := &ImplicitGrantSession{
		baseSession: newBaseSession(FlowImplicitGrant, clientID, redirectURI, scope, opts),
	}
	s.owner = s
	return s
}

// AuthorizationURL generates the URL the user must visit to authorize the
// application, along with the anti-CSRF state embedded in it.
func (s *ImplicitGrantSession) AuthorizationURL(forceDialog bool) (string, string) {
	return s.authorizationURL("token", forceDialog)
}

// Request fires token-expired on an expired token and then proceeds with
// the stale token, unless a listener installed a fresh one synchronously.
func (s *ImplicitGrantSession) Request(ctx context.Context, method, rawURL string, opts *RequestOptions) (*http.Response, error) {
	return s.request(ctx, method, rawURL, opts, nil)
}

// ReadTokenFromCallbackURL extracts the token from the fragment of the
// callback URL and installs it. By protocol the fragment never reaches a
// server; it must be handled client-side.
func (s *ImplicitGrantSession) ReadTokenFromCallbackURL(callbackURL string) (*Token, error) {
	u, err := url.Parse(callbackURL)
	if err != nil {
		return nil, fmt.Errorf("invalid callback URL: %w", err)
	}

	params, err := url.ParseQuery(u.Fragment)
	if err != nil {
		return nil, fmt.Errorf("invalid callback URL fragment: %w", err)
	}

	if code := params.Get("error"); code != "" {
		return nil, &AuthorizationError{Code: code, Description: params.Get("error_description")}
	}

	record := make(map[string]any, len(params))
	for key := range params {
		record[key] = params.Get(key)
	}

	if err := s.SetTokenFromMap(record); err != nil {
		return nil, err
	}
	return s.token, nil
}

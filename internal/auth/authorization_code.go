package auth

import (
	"context"
	"fmt"
	"net/url"

	"github.com/desertthunder/spotr/internal/shared"
)

// AuthorizationCodeSession implements the three-legged authorization-code
// flow: the user authorizes in a browser, the provider redirects back with
// a code, and the code is exchanged for a refreshable token.
type AuthorizationCodeSession struct {
	refreshableSession

	// lastState remembers the state generated by AuthorizationURL so the
	// callback can be correlated.
	lastState string
}

// NewAuthorizationCodeSession builds a session for the authorization-code
// flow. Auto-refresh is enabled unless opts disables it.
func NewAuthorizationCodeSession(clientID, clientSecret, redirectURI string, scope []string, opts *SessionOptions) *AuthorizationCodeSession {
	s := &AuthorizationCodeSession{
		refreshableSession: refreshableSession{
			baseSession:  newBaseSession(FlowAuthorizationCode, clientID, redirectURI, scope, opts),
			clientSecret: clientSecret,
		},
	}
	s.owner = s
	s.renew = s.refreshGrant
	if opts == nil || !opts.DisableAutoRefresh {
		s.EnableAutoRefresh()
	}
	return s
}

// AuthorizationURL generates the URL the user must visit to authorize the
// application, along with the anti-CSRF state embedded in it. With
// forceDialog the provider re-prompts even if the app was already approved.
func (s *AuthorizationCodeSession) AuthorizationURL(forceDialog bool) (string, string) {
	authURL, state := s.authorizationURL("code", forceDialog)
	s.lastState = state
	return authURL, state
}

// FetchToken extracts the code and state query parameters from the callback
// URL and exchanges the code for a token.
//
// An error=access_denied parameter yields an error matching
// [ErrAccessDenied]; any other error parameter yields an
// [AuthorizationError] with that code.
func (s *AuthorizationCodeSession) FetchToken(ctx context.Context, callbackURL string) (*Token, error) {
	u, err := url.Parse(callbackURL)
	if err != nil {
		return nil, fmt.Errorf("invalid callback URL: %w", err)
	}

	params := u.Query()
	if code := params.Get("error"); code != "" {
		return nil, &AuthorizationError{Code: code, Description: params.Get("error_description")}
	}

	code := params.Get("code")
	if code == "" {
		return nil, &AuthorizationError{Code: "invalid_request", Description: "callback URL has no code parameter"}
	}

	return s.FetchTokenGivenCode(ctx, code, params.Get("state"))
}

// FetchTokenGivenCode is the same exchange as FetchToken, skipping the URL
// parsing. The state is verified against the one AuthorizationURL generated
// when available.
func (s *AuthorizationCodeSession) FetchTokenGivenCode(ctx context.Context, code, state string) (*Token, error) {
	if s.lastState != "" && state != s.lastState {
		return nil, &AuthorizationError{Code: "state_mismatch", Description: "callback state does not match the authorization request"}
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", s.redirectURI)

	token, err := s.exchangeToken(ctx, s.endpoints.TokenURL, form, s.clientSecret)
	if err != nil {
		return nil, err
	}
	if err := s.installToken(token); err != nil {
		return nil, err
	}
	return s.token, nil
}

// refreshGrant renews through the dedicated refresh-token grant. The
// provider may omit the refresh token in the response, in which case the
// stored one is carried over.
func (s *AuthorizationCodeSession) refreshGrant(ctx context.Context) (*Token, error) {
	current := s.token
	if current == nil || current.RefreshToken() == "" {
		return nil, shared.ErrNoRefreshToken
	}

	endpoint := s.refreshURL
	if endpoint == "" {
		endpoint = s.endpoints.RefreshURL
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", current.RefreshToken())

	token, err := s.exchangeToken(ctx, endpoint, form, s.clientSecret)
	if err != nil {
		return nil, err
	}

	if token.RefreshToken() == "" {
		token, err = NewToken(TokenFields{
			AccessToken:  token.AccessToken(),
			TokenType:    token.TokenType(),
			ExpiresIn:    token.ExpiresIn(),
			Scope:        token.Scope(),
			State:        token.State(),
			ExpiresAt:    token.ExpiresAt(),
			RefreshToken: current.RefreshToken(),
		})
		if err != nil {
			return nil, err
		}
	}
	return token, nil
}

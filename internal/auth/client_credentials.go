package auth

import (
	"context"
	"net/url"
)

// ClientCredentialsSession implements the two-legged client-credentials
// flow: the application authenticates with its own id and secret, no user
// involved. There is no distinct refresh grant; renewal re-fetches.
type ClientCredentialsSession struct {
	refreshableSession
}

// NewClientCredentialsSession builds a session for the client-credentials
// flow. Auto-refresh is enabled unless opts disables it.
func NewClientCredentialsSession(clientID, clientSecret string, opts *SessionOptions) *ClientCredentialsSession {
	s := &ClientCredentialsSession{
		refreshableSession: refreshableSession{
			baseSession:  newBaseSession(FlowClientCredentials, clientID, "", nil, opts),
			clientSecret: clientSecret,
		},
	}
	s.owner = s
	s.renew = s.fetch
	if opts == nil || !opts.DisableAutoRefresh {
		s.EnableAutoRefresh()
	}
	return s
}

// FetchToken performs the client-credentials exchange against the token
// endpoint and installs the result.
func (s *ClientCredentialsSession) FetchToken(ctx context.Context) (*Token, error) {
	token, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.installToken(token); err != nil {
		return nil, err
	}
	return s.token, nil
}

func (s *ClientCredentialsSession) fetch(ctx context.Context) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	return s.exchangeToken(ctx, s.endpoints.TokenURL, form, s.clientSecret)
}

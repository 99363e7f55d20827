package auth

import (
	"context"
	"net/http"
)

// refreshableSession extends baseSession with the client secret and the
// auto-refresh machinery shared by the client-credentials and
// authorization-code flows. renew is the flow-specific token renewal
// procedure; it returns a fresh token without installing it.
type refreshableSession struct {
	baseSession

	clientSecret string
	autoRefresh  bool

	// refreshURL doubles as the "refresh endpoint configured" flag: empty
	// while auto-refresh is disabled.
	refreshURL string

	renew func(ctx context.Context) (*Token, error)
}

func (r *refreshableSession) ClientSecret() string { return r.clientSecret }

func (r *refreshableSession) AutoRefresh() bool { return r.autoRefresh }

// EnableAutoRefresh configures the refresh endpoint and turns transparent
// renewal back on.
func (r *refreshableSession) EnableAutoRefresh() {
	r.refreshURL = r.endpoints.RefreshURL
	r.autoRefresh = true
}

// DisableAutoRefresh clears the refresh endpoint; expired tokens are then
// sent as-is and the remote server decides.
func (r *refreshableSession) DisableAutoRefresh() {
	r.refreshURL = ""
	r.autoRefresh = false
}

// RefreshToken obtains a new token through the flow-specific renewal
// procedure and installs it, firing token-updated.
func (r *refreshableSession) RefreshToken(ctx context.Context) (*Token, error) {
	r.logger.Debug("obtaining a new token")

	token, err := r.renew(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.installToken(token); err != nil {
		return nil, err
	}
	return r.token, nil
}

// Request fires token-expired on an expired token, renews it first when
// auto-refresh is on and the caller did not withhold the token, then issues
// the call.
func (r *refreshableSession) Request(ctx context.Context, method, rawURL string, opts *RequestOptions) (*http.Response, error) {
	var refresh func(context.Context) error
	if r.autoRefresh {
		refresh = func(ctx context.Context) error {
			_, err := r.RefreshToken(ctx)
			return err
		}
	}
	return r.request(ctx, method, rawURL, opts, refresh)
}

package auth

import (
	"context"
	"time"

	"github.com/desertthunder/spotr/internal/shared"
	"golang.org/x/oauth2"
)

// TokenSource adapts a refreshable session to [oauth2.TokenSource] so it
// can feed code built on golang.org/x/oauth2 (for example
// oauth2.NewClient). The source fetches on first use and renews through the
// session, so token-updated listeners keep firing.
func TokenSource(ctx context.Context, session RefreshableSession) oauth2.TokenSource {
	return &sessionTokenSource{ctx: ctx, session: session}
}

type sessionTokenSource struct {
	ctx     context.Context
	session RefreshableSession
}

func (src *sessionTokenSource) Token() (*oauth2.Token, error) {
	current := src.session.Token()
	if current == nil || current.IsExpired() {
		renewed, err := src.session.RefreshToken(src.ctx)
		if err != nil {
			return nil, err
		}
		current = renewed
	}
	return OAuth2Token(current), nil
}

// OAuth2Token converts a Token to its golang.org/x/oauth2 representation.
func OAuth2Token(t *Token) *oauth2.Token {
	if t == nil {
		return nil
	}
	return &oauth2.Token{
		AccessToken:  t.AccessToken(),
		TokenType:    t.TokenType(),
		RefreshToken: t.RefreshToken(),
		Expiry:       t.ExpiresAt(),
	}
}

// FromOAuth2Token converts a golang.org/x/oauth2 token into a Token,
// attaching the given scope set. A token without an expiry comes out
// already expired; this layer requires an absolute expiry to reason about.
func FromOAuth2Token(t *oauth2.Token, scope []string) (*Token, error) {
	if t == nil {
		return nil, shared.ErrMalformedToken
	}

	expiresIn := 0
	if !t.Expiry.IsZero() {
		expiresIn = int(time.Until(t.Expiry) / time.Second)
		if expiresIn < 0 {
			expiresIn = 0
		}
	}

	return NewToken(TokenFields{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		ExpiresIn:    expiresIn,
		Scope:        scope,
		ExpiresAt:    t.Expiry,
		RefreshToken: t.RefreshToken,
	})
}

package auth

import (
	"context"
	"testing"
	"time"
)

func TestOAuth2Interop(t *testing.T) {
	ctx := context.Background()

	t.Run("Token Conversion", func(t *testing.T) {
		expiry := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
		tok, err := NewToken(TokenFields{
			AccessToken:  "abc",
			ExpiresIn:    3600,
			ExpiresAt:    expiry,
			RefreshToken: "ref",
			Scope:        []string{"user-read-email"},
		})
		if err != nil {
			t.Fatal(err)
		}

		converted := OAuth2Token(tok)
		if converted.AccessToken != "abc" || converted.RefreshToken != "ref" {
			t.Errorf("unexpected conversion: %+v", converted)
		}
		if !converted.Expiry.Equal(expiry) {
			t.Errorf("expected expiry to carry over, got %v", converted.Expiry)
		}
		if converted.TokenType != "Bearer" {
			t.Errorf("expected default token type, got %s", converted.TokenType)
		}

		back, err := FromOAuth2Token(converted, []string{"user-read-email"})
		if err != nil {
			t.Fatal(err)
		}
		if back.AccessToken() != "abc" || !back.ExpiresAt().Equal(expiry) {
			t.Errorf("round trip mismatch: %+v", back)
		}
		if len(back.Scope()) != 1 || back.Scope()[0] != "user-read-email" {
			t.Errorf("scope should be attached, got %v", back.Scope())
		}
	})

	t.Run("Nil Conversions", func(t *testing.T) {
		if OAuth2Token(nil) != nil {
			t.Error("nil token should convert to nil")
		}
		if _, err := FromOAuth2Token(nil, nil); err == nil {
			t.Error("expected error for nil oauth2 token")
		}
	})

	t.Run("TokenSource Fetches When Empty", func(t *testing.T) {
		provider := newFakeProvider(t)
		session := NewClientCredentialsSession("cid", "secret", &SessionOptions{Endpoints: provider.endpoints()})

		src := TokenSource(ctx, session)
		got, err := src.Token()
		if err != nil {
			t.Fatalf("token source failed: %v", err)
		}
		if got.AccessToken == "" {
			t.Error("expected an access token")
		}
		if session.Token() == nil {
			t.Error("the fetched token should be installed on the session")
		}
	})

	t.Run("TokenSource Reuses Fresh Token", func(t *testing.T) {
		provider := newFakeProvider(t)
		session := NewClientCredentialsSession("cid", "secret", &SessionOptions{Endpoints: provider.endpoints()})

		if _, err := session.FetchToken(ctx); err != nil {
			t.Fatal(err)
		}

		src := TokenSource(ctx, session)
		got, err := src.Token()
		if err != nil {
			t.Fatal(err)
		}
		if got.AccessToken != session.Token().AccessToken() {
			t.Error("a fresh token should be returned as-is")
		}
		if provider.issued != 1 {
			t.Errorf("no extra grant expected, got %d", provider.issued)
		}
	})

	t.Run("TokenSource Renews Expired Token", func(t *testing.T) {
		provider := newFakeProvider(t)
		session := NewClientCredentialsSession("cid", "secret", &SessionOptions{Endpoints: provider.endpoints()})

		if _, err := session.FetchToken(ctx); err != nil {
			t.Fatal(err)
		}
		old := session.Token().AccessToken()

		base := time.Now().Add(2 * time.Hour)
		timeNow = func() time.Time { return base }
		t.Cleanup(func() { timeNow = time.Now })

		src := TokenSource(ctx, session)
		got, err := src.Token()
		if err != nil {
			t.Fatal(err)
		}
		if got.AccessToken == old {
			t.Error("expired token should have been renewed")
		}
		if provider.issued != 2 {
			t.Errorf("expected a second grant, got %d", provider.issued)
		}
	})
}

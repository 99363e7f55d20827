package auth

import (
	"errors"
	"testing"

	"github.com/desertthunder/spotr/internal/shared"
)

func TestCredentialsFromEnvironment(t *testing.T) {
	t.Run("Default Prefix", func(t *testing.T) {
		t.Setenv("SPOTIPIE_CLIENT_ID", "cid")
		t.Setenv("SPOTIPIE_CLIENT_SECRET", "secret")
		t.Setenv("SPOTIPIE_REDIRECT_URI", "http://localhost:1234/callback")

		creds, err := CredentialsFromEnvironment("")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if creds.ClientID != "cid" || creds.ClientSecret != "secret" {
			t.Errorf("unexpected credentials: %+v", creds)
		}
		if creds.RedirectURI != "http://localhost:1234/callback" {
			t.Errorf("unexpected redirect URI: %s", creds.RedirectURI)
		}
	})

	t.Run("Custom Prefix", func(t *testing.T) {
		t.Setenv("MYAPP_CLIENT_ID", "cid")
		t.Setenv("MYAPP_REDIRECT_URI", "http://localhost:9999/callback")

		creds, err := CredentialsFromEnvironment("MYAPP")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if creds.ClientSecret != "" {
			t.Errorf("secret should be optional, got %q", creds.ClientSecret)
		}
	})

	t.Run("Missing Client ID", func(t *testing.T) {
		t.Setenv("EMPTYAPP_REDIRECT_URI", "http://localhost/callback")

		_, err := CredentialsFromEnvironment("EMPTYAPP")
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected missing credentials error, got %v", err)
		}
	})

	t.Run("Missing Redirect URI", func(t *testing.T) {
		t.Setenv("HALFAPP_CLIENT_ID", "cid")

		_, err := CredentialsFromEnvironment("HALFAPP")
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected missing credentials error, got %v", err)
		}
	})
}

package auth

import (
	"fmt"
	"os"

	"github.com/desertthunder/spotr/internal/shared"
)

// DefaultEnvPrefix is the prefix used by [CredentialsFromEnvironment] when
// none is supplied.
const DefaultEnvPrefix = "SPOTIPIE"

// Credentials is the static client identity of a registered application.
// ClientSecret is empty for flows that do not need it (implicit grant).
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// CredentialsFromEnvironment reads credentials from the environment
// variables {prefix}_CLIENT_ID, {prefix}_CLIENT_SECRET and
// {prefix}_REDIRECT_URI. The secret is optional; the other two are required
// and a missing variable is reported as a lookup error.
func CredentialsFromEnvironment(prefix string) (Credentials, error) {
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}

	clientID, err := requireEnv(prefix + "_CLIENT_ID")
	if err != nil {
		return Credentials{}, err
	}

	redirectURI, err := requireEnv(prefix + "_REDIRECT_URI")
	if err != nil {
		return Credentials{}, err
	}

	return Credentials{
		ClientID:     clientID,
		ClientSecret: os.Getenv(prefix + "_CLIENT_SECRET"),
		RedirectURI:  redirectURI,
	}, nil
}

func requireEnv(key string) (string, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", fmt.Errorf("%w: environment variable %s not set", shared.ErrMissingCredentials, key)
	}
	return value, nil
}

package store

import (
	"errors"

	"github.com/desertthunder/spotr/internal/auth"
	"github.com/desertthunder/spotr/internal/shared"
)

// TokenStore persists tokens by profile name. Load returns
// shared.ErrTokenNotFound when no token was saved under the name.
type TokenStore interface {
	Save(name string, token *auth.Token) error
	Load(name string) (*auth.Token, error)
	Delete(name string) error
}

// Bind saves every token the session installs under the given profile
// name, so a later run can pick up where this one left off. The returned
// handle can be passed to the session's RemoveListener to stop saving.
//
// A save failure aborts the in-flight SetToken or refresh, surfacing
// storage problems at the point the token was obtained.
func Bind(session auth.Session, s TokenStore, name string) auth.ListenerHandle {
	return session.AddListener(auth.TokenUpdated, func(e auth.Event) error {
		updated := e.(auth.TokenUpdatedEvent)
		return s.Save(name, updated.NewToken)
	})
}

// Restore loads the named token and installs it on the session. A missing
// token is not an error; it reports false.
func Restore(session auth.Session, s TokenStore, name string) (bool, error) {
	token, err := s.Load(name)
	if err != nil {
		if errors.Is(err, shared.ErrTokenNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := session.SetToken(token); err != nil {
		return false, err
	}
	return true, nil
}

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/spotr/internal/shared"
)

// ErrCodeAccessDenied is the provider error code sent when the user declines
// to authorize the application.
const ErrCodeAccessDenied = "access_denied"

var (
	// ErrAccessDenied matches any authorization failure caused by the user
	// declining the grant. Test with [errors.Is].
	ErrAccessDenied = errors.New("the user did not grant authorization")

	// ErrListenerNotFound is returned by RemoveListener for an unknown handle.
	ErrListenerNotFound = errors.New("listener not found")
)

// AuthorizationError reports an abnormal event during the grant process.
// Code carries the raw error code returned by the provider.
type AuthorizationError struct {
	Code        string
	Description string
}

func (e *AuthorizationError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("authorization failed: %s (%s)", e.Code, e.Description)
	}
	return fmt.Sprintf("authorization failed: %s", e.Code)
}

// Denied reports whether the user explicitly declined the grant.
func (e *AuthorizationError) Denied() bool {
	return e.Code == ErrCodeAccessDenied
}

func (e *AuthorizationError) Unwrap() error {
	if e.Denied() {
		return ErrAccessDenied
	}
	return shared.ErrAuthFailed
}

// AuthorizationTimeoutError is returned when the blocking wait for a
// delivered token expires before the user completes the grant.
type AuthorizationTimeoutError struct {
	Timeout time.Duration
}

func (e *AuthorizationTimeoutError) Error() string {
	return fmt.Sprintf("no authorization response after %s", e.Timeout)
}

func (e *AuthorizationTimeoutError) Unwrap() error {
	return shared.ErrTimeout
}

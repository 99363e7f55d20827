package spotify

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/desertthunder/spotr/internal/shared"
)

// APIError is returned for any Web API response with a 4xx or 5xx status.
// The message is taken from the API's error envelope when present.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("spotify API error: status %d: %s (%s)", e.StatusCode, e.Message, e.URL)
}

func (e *APIError) Unwrap() error { return shared.ErrAPIRequest }

// apiErrorFromResponse drains and closes the response body. The Web API
// wraps errors in {"error": {"status": ..., "message": ...}}.
func apiErrorFromResponse(resp *http.Response) *APIError {
	defer resp.Body.Close()

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
	}
	if resp.Request != nil && resp.Request.URL != nil {
		apiErr.URL = resp.Request.URL.String()
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Message = envelope.Error.Message
	}
	return apiErr
}

// InsufficientScopeError is returned before a request is made when the
// session's granted scope does not cover what the operation needs.
//
// Not every insufficient-scope condition is detectable client-side; some
// only surface as an [APIError] with status 403, so callers should handle
// both.
type InsufficientScopeError struct {
	Current  []string
	Required []string
	Missing  []string
}

func newInsufficientScopeError(required, current []string) *InsufficientScopeError {
	have := make(map[string]bool, len(current))
	for _, s := range current {
		have[s] = true
	}

	var missing []string
	for _, s := range required {
		if !have[s] {
			missing = append(missing, s)
		}
	}
	sort.Strings(missing)

	return &InsufficientScopeError{Current: current, Required: required, Missing: missing}
}

func (e *InsufficientScopeError) Error() string {
	return fmt.Sprintf("insufficient scope: have [%s], need [%s], missing [%s]",
		strings.Join(e.Current, " "), strings.Join(e.Required, " "), strings.Join(e.Missing, " "))
}

func (e *InsufficientScopeError) Unwrap() error { return shared.ErrNotAuthorized }

// ResourceTypeMismatchError is returned when an identifier resolves to a
// resource of a different type than the caller expected.
type ResourceTypeMismatchError struct {
	Expected ResourceType
	Actual   ResourceType
}

func (e *ResourceTypeMismatchError) Error() string {
	return fmt.Sprintf("expected a %s but got a %s", e.Expected, e.Actual)
}

func (e *ResourceTypeMismatchError) Unwrap() error { return shared.ErrInvalidResource }

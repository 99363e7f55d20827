package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// exchangeToken posts a form to the token endpoint and normalizes the
// response into a Token. The client authenticates with HTTP basic auth when
// a secret is available, otherwise the client id travels in the form.
//
// Provider error responses are mapped to [AuthorizationError]; transport
// errors propagate as-is.
func (b *baseSession) exchangeToken(ctx context.Context, endpoint string, form url.Values, clientSecret string) (*Token, error) {
	if clientSecret == "" {
		form.Set("client_id", b.clientID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if clientSecret != "" {
		req.SetBasicAuth(b.clientID, clientSecret)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, authorizationErrorFromBody(resp.StatusCode, body)
	}

	var record map[string]any
	decoder := json.NewDecoder(strings.NewReader(string(body)))
	decoder.UseNumber()
	if err := decoder.Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	// Spotify omits the scope when it matches the request; fall back to the
	// scope this session asked for.
	if _, ok := record["scope"]; !ok && len(b.scope) > 0 {
		record["scope"] = JoinScope(b.scope)
	}

	return TokenFromMap(record, true)
}

// authorizationErrorFromBody maps an RFC 6749 error response to the
// taxonomy, best effort.
func authorizationErrorFromBody(status int, body []byte) error {
	var payload struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}

	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return &AuthorizationError{Code: payload.Error, Description: payload.ErrorDescription}
	}

	return &AuthorizationError{
		Code:        "server_error",
		Description: fmt.Sprintf("token endpoint returned status %d", status),
	}
}

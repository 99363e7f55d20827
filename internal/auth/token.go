package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/spotr/internal/shared"
)

// DefaultExpiryMargin is subtracted from the provider-reported lifetime when
// computing the absolute expiry, and used as the default margin for
// [Token.IsExpired]. A token is treated as expired slightly before the
// provider would reject it.
const DefaultExpiryMargin = 2 * time.Second

var timeNow = time.Now

// Token is an immutable OAuth2 access token plus metadata. A Token is never
// mutated after construction; sessions replace it wholesale.
type Token struct {
	accessToken  string
	tokenType    string
	expiresIn    int
	scope        []string
	state        string
	expiresAt    time.Time
	refreshToken string
}

// TokenFields is the construction input for [NewToken], mirroring the wire
// shape of a token record.
type TokenFields struct {
	AccessToken  string
	TokenType    string // defaults to "Bearer"
	ExpiresIn    int
	Scope        []string
	State        string
	ExpiresAt    time.Time // zero value: computed as now + ExpiresIn - margin
	RefreshToken string
}

// NewToken validates the fields and builds a Token. The absolute expiry is
// computed at construction time when not supplied, so it is always set.
// Timestamps are truncated to second precision to survive serialization.
func NewToken(f TokenFields) (*Token, error) {
	if f.AccessToken == "" {
		return nil, fmt.Errorf("%w: missing access_token", shared.ErrMalformedToken)
	}
	if f.ExpiresIn < 0 {
		return nil, fmt.Errorf("%w: negative expires_in %d", shared.ErrMalformedToken, f.ExpiresIn)
	}

	tokenType := f.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	expiresAt := f.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = timeNow().Add(time.Duration(f.ExpiresIn)*time.Second - DefaultExpiryMargin)
	}

	return &Token{
		accessToken:  f.AccessToken,
		tokenType:    tokenType,
		expiresIn:    f.ExpiresIn,
		scope:        NormalizeScope(f.Scope),
		state:        f.State,
		expiresAt:    expiresAt.Truncate(time.Second),
		refreshToken: f.RefreshToken,
	}, nil
}

func (t *Token) AccessToken() string  { return t.accessToken }
func (t *Token) TokenType() string    { return t.tokenType }
func (t *Token) ExpiresIn() int       { return t.expiresIn }
func (t *Token) State() string        { return t.state }
func (t *Token) ExpiresAt() time.Time { return t.expiresAt }
func (t *Token) RefreshToken() string { return t.refreshToken }

// Scope returns a copy of the canonically sorted scope set.
func (t *Token) Scope() []string {
	return slices.Clone(t.scope)
}

// IsExpired reports whether the token is expired using [DefaultExpiryMargin].
func (t *Token) IsExpired() bool {
	return t.IsExpiredWithin(DefaultExpiryMargin)
}

// IsExpiredWithin reports whether now >= expiresAt - margin.
func (t *Token) IsExpiredWithin(margin time.Duration) bool {
	return !timeNow().Before(t.expiresAt.Add(-margin))
}

// Equal compares two tokens field for field.
func (t *Token) Equal(other *Token) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.accessToken == other.accessToken &&
		t.tokenType == other.tokenType &&
		t.expiresIn == other.expiresIn &&
		t.state == other.state &&
		t.refreshToken == other.refreshToken &&
		t.expiresAt.Equal(other.expiresAt) &&
		slices.Equal(t.scope, other.scope)
}

var tokenKeys = map[string]bool{
	"access_token": true, "token_type": true, "expires_in": true,
	"scope": true, "state": true, "expires_at": true, "refresh_token": true,
}

// TokenFromMap builds a Token from a plain key-value map in the wire shape.
// Unknown keys are rejected unless ignoreUnknown is set. The scope value may
// be a space-separated string or a list of strings.
func TokenFromMap(data map[string]any, ignoreUnknown bool) (*Token, error) {
	var f TokenFields

	for key, value := range data {
		if !tokenKeys[key] {
			if ignoreUnknown {
				continue
			}
			return nil, fmt.Errorf("%w: unknown key %q", shared.ErrMalformedToken, key)
		}

		switch key {
		case "access_token":
			f.AccessToken, _ = value.(string)
		case "token_type":
			f.TokenType, _ = value.(string)
		case "state":
			f.State, _ = value.(string)
		case "refresh_token":
			f.RefreshToken, _ = value.(string)
		case "expires_in":
			n, err := asInt(value)
			if err != nil {
				return nil, fmt.Errorf("%w: expires_in: %v", shared.ErrMalformedToken, err)
			}
			f.ExpiresIn = n
		case "expires_at":
			sec, err := asInt64(value)
			if err != nil {
				return nil, fmt.Errorf("%w: expires_at: %v", shared.ErrMalformedToken, err)
			}
			f.ExpiresAt = time.Unix(sec, 0)
		case "scope":
			scope, err := asScope(value)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", shared.ErrMalformedToken, err)
			}
			f.Scope = scope
		}
	}

	return NewToken(f)
}

// ToMap serializes the token to a plain key-value map in the wire shape.
// Optional fields are omitted when empty.
func (t *Token) ToMap() map[string]any {
	m := map[string]any{
		"access_token": t.accessToken,
		"token_type":   t.tokenType,
		"expires_in":   t.expiresIn,
		"expires_at":   t.expiresAt.Unix(),
	}
	if len(t.scope) > 0 {
		m["scope"] = JoinScope(t.scope)
	}
	if t.state != "" {
		m["state"] = t.state
	}
	if t.refreshToken != "" {
		m["refresh_token"] = t.refreshToken
	}
	return m
}

type wireToken struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope,omitempty"`
	State        string `json:"state,omitempty"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

func (t *Token) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireToken{
		AccessToken:  t.accessToken,
		TokenType:    t.tokenType,
		ExpiresIn:    t.expiresIn,
		Scope:        JoinScope(t.scope),
		State:        t.state,
		ExpiresAt:    t.expiresAt.Unix(),
		RefreshToken: t.refreshToken,
	})
}

// TokenFromJSON parses a JSON document matching the wire shape.
func TokenFromJSON(data []byte) (*Token, error) {
	var w wireToken
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedToken, err)
	}

	fields := TokenFields{
		AccessToken:  w.AccessToken,
		TokenType:    w.TokenType,
		ExpiresIn:    w.ExpiresIn,
		Scope:        ParseScope(w.Scope),
		State:        w.State,
		RefreshToken: w.RefreshToken,
	}
	if w.ExpiresAt != 0 {
		fields.ExpiresAt = time.Unix(w.ExpiresAt, 0)
	}
	return NewToken(fields)
}

// TokenFromJSONFile reads a persisted token from the given path.
func TokenFromJSONFile(path string) (*Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}
	return TokenFromJSON(data)
}

// WriteJSONFile persists the token to the given path, creating parent
// directories as needed.
func (t *Token) WriteJSONFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create token directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// NormalizeScope returns a sorted copy of the scope set with empty entries
// dropped. Normalization is idempotent and order-independent.
func NormalizeScope(scope []string) []string {
	out := make([]string, 0, len(scope))
	for _, s := range scope {
		if s != "" {
			out = append(out, s)
		}
	}
	slices.Sort(out)
	return out
}

// ParseScope splits a space-separated scope string and normalizes it.
func ParseScope(scope string) []string {
	return NormalizeScope(strings.Fields(scope))
}

// JoinScope renders a scope set in its wire form (space-separated).
func JoinScope(scope []string) string {
	return strings.Join(scope, " ")
}

func asInt(value any) (int, error) {
	n, err := asInt64(value)
	return int(n), err
}

func asInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case json.Number:
		return v.Int64()
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("non-numeric value %q", v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("non-numeric value %v (%T)", value, value)
	}
}

func asScope(value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return ParseScope(v), nil
	case []string:
		return NormalizeScope(v), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("scope entry %v is not a string", item)
			}
			out = append(out, s)
		}
		return NormalizeScope(out), nil
	default:
		return nil, fmt.Errorf("scope must be a string or list of strings, got %T", value)
	}
}

package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotr/internal/auth"
	"github.com/desertthunder/spotr/internal/shared"
	"golang.org/x/time/rate"
)

// APIBaseURL is the production Web API root.
const APIBaseURL = "https://api.spotify.com/v1"

// defaultRequestsPerSecond keeps well under Spotify's rolling rate window.
const defaultRequestsPerSecond = 10

// ClientOptions configures optional client behavior. The zero value (or a
// nil pointer) yields production defaults.
type ClientOptions struct {
	BaseURL string
	Limiter *rate.Limiter
	Logger  *log.Logger
}

// Client is a thin wrapper over the Web API. All calls go out through the
// session so token attachment, expiry events and auto-refresh apply.
type Client struct {
	session auth.Session
	baseURL string
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewClient builds a client on top of an authorized (or soon-to-be
// authorized) session.
func NewClient(session auth.Session, opts *ClientOptions) *Client {
	if opts == nil {
		opts = &ClientOptions{}
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = APIBaseURL
	}

	limiter := opts.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), 1)
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Client{
		session: session,
		baseURL: baseURL,
		limiter: limiter,
		logger:  shared.WithLogger(logger, "component", "spotify"),
	}
}

// Session exposes the underlying auth session.
func (c *Client) Session() auth.Session { return c.session }

// params builds a query map, dropping empty values so optional parameters
// never reach the wire.
type params map[string]string

func (p params) values() url.Values {
	q := url.Values{}
	for key, value := range p {
		if value != "" {
			q.Set(key, value)
		}
	}
	return q
}

// request issues an API call and decodes the JSON response into out. A
// relative path is resolved against the base URL; absolute URLs (paging
// cursors) pass through untouched.
func (c *Client) request(ctx context.Context, method, path string, query params, body, out any) error {
	rawURL := path
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = c.baseURL + path
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	opts := &auth.RequestOptions{Query: query.values()}
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		opts.Body = bytes.NewReader(payload)
		opts.ContentType = "application/json"
	}

	c.logger.Debug("api request", "method", method, "url", rawURL)

	resp, err := c.session.Request(ctx, method, rawURL, opts)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return apiErrorFromResponse(resp)
	}
	defer resp.Body.Close()

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query params, out any) error {
	return c.request(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, query params, body, out any) error {
	return c.request(ctx, http.MethodPost, path, query, body, out)
}

func (c *Client) put(ctx context.Context, path string, query params, body, out any) error {
	return c.request(ctx, http.MethodPut, path, query, body, out)
}

func (c *Client) delete(ctx context.Context, path string, query params, body, out any) error {
	return c.request(ctx, http.MethodDelete, path, query, body, out)
}

// completeScope resolves scope stems ending in "-", e.g. "playlist-modify-"
// becomes "playlist-modify-public" when the target resource is public and
// "playlist-modify-private" otherwise.
func completeScope(required []string, public bool) []string {
	suffix := "private"
	if public {
		suffix = "public"
	}

	out := make([]string, len(required))
	for i, s := range required {
		if strings.HasSuffix(s, "-") {
			s += suffix
		}
		out[i] = s
	}
	return out
}

// ensureScope checks client-side that the session's granted scope covers
// the operation, returning an [InsufficientScopeError] before any request
// goes out when it does not.
func (c *Client) ensureScope(required ...string) error {
	current := c.session.Scope()
	have := make(map[string]bool, len(current))
	for _, s := range current {
		have[s] = true
	}

	for _, s := range required {
		if !have[s] {
			return newInsufficientScopeError(required, current)
		}
	}
	return nil
}

// NextPage fetches the page after the given one into out, which should be
// the same paged type the original call returned. It reports false without
// a request when there is no next page.
func (c *Client) NextPage(ctx context.Context, page Page, out any) (bool, error) {
	if !page.HasNext() {
		return false, nil
	}
	if err := c.get(ctx, *page.Next, nil, out); err != nil {
		return false, err
	}
	return true, nil
}

// PreviousPage fetches the page before the given one into out. It reports
// false without a request when there is no previous page.
func (c *Client) PreviousPage(ctx context.Context, page Page, out any) (bool, error) {
	if !page.HasPrevious() {
		return false, nil
	}
	if err := c.get(ctx, *page.Previous, nil, out); err != nil {
		return false, err
	}
	return true, nil
}

// Get fetches a resource (track, album, artist, playlist or user) given
// its Spotify URI or URL, dispatching to the matching typed endpoint.
func (c *Client) Get(ctx context.Context, uriOrURL string) (any, error) {
	resource, err := ParseResource(uriOrURL)
	if err != nil {
		return nil, err
	}

	switch resource.Type {
	case TypeTrack:
		return c.Track(ctx, resource.ID, "")
	case TypeAlbum:
		return c.Album(ctx, resource.ID, "")
	case TypeArtist:
		return c.Artist(ctx, resource.ID)
	case TypePlaylist:
		return c.Playlist(ctx, resource.ID)
	case TypeUser:
		return c.UserProfile(ctx, resource.ID)
	default:
		return nil, fmt.Errorf("%w: no endpoint for resource type %q", shared.ErrInvalidResource, resource.Type)
	}
}

package spotify

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Required scopes, straight from the Web API reference. Stems ending in
// "-" are completed per-call with "public" or "private".
const (
	scopeLibraryRead    = "user-library-read"
	scopeLibraryModify  = "user-library-modify"
	scopePlaylistModify = "playlist-modify-"
	scopeTopRead        = "user-top-read"
)

func clampLimit(limit int) string {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}
	return strconv.Itoa(limit)
}

func joinIDs(ids []string) string { return strings.Join(ids, ",") }

// Me retrieves the current authenticated user's profile.
// https://developer.spotify.com/documentation/web-api/reference/get-current-users-profile
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserProfile retrieves a user's public profile.
func (c *Client) UserProfile(ctx context.Context, userID string) (*User, error) {
	var user User
	if err := c.get(ctx, "/users/"+userID, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Track retrieves a single track by ID.
// https://developer.spotify.com/documentation/web-api/reference/get-track
func (c *Client) Track(ctx context.Context, trackID, market string) (*Track, error) {
	var track Track
	if err := c.get(ctx, "/tracks/"+trackID, params{"market": market}, &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// Tracks retrieves multiple tracks by their IDs (up to 50).
func (c *Client) Tracks(ctx context.Context, trackIDs []string, market string) ([]Track, error) {
	if len(trackIDs) == 0 {
		return nil, fmt.Errorf("no track IDs provided")
	}
	if len(trackIDs) > 50 {
		return nil, fmt.Errorf("maximum 50 track IDs allowed")
	}

	var response struct {
		Tracks []Track `json:"tracks"`
	}
	query := params{"ids": joinIDs(trackIDs), "market": market}
	if err := c.get(ctx, "/tracks", query, &response); err != nil {
		return nil, err
	}
	return response.Tracks, nil
}

// Album retrieves an album by ID.
func (c *Client) Album(ctx context.Context, albumID, market string) (*Album, error) {
	var album Album
	if err := c.get(ctx, "/albums/"+albumID, params{"market": market}, &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// Albums retrieves multiple albums by their IDs (up to 20).
func (c *Client) Albums(ctx context.Context, albumIDs []string, market string) ([]Album, error) {
	if len(albumIDs) == 0 {
		return nil, fmt.Errorf("no album IDs provided")
	}
	if len(albumIDs) > 20 {
		return nil, fmt.Errorf("maximum 20 album IDs allowed")
	}

	var response struct {
		Albums []Album `json:"albums"`
	}
	query := params{"ids": joinIDs(albumIDs), "market": market}
	if err := c.get(ctx, "/albums", query, &response); err != nil {
		return nil, err
	}
	return response.Albums, nil
}

// AlbumTracks retrieves an album's tracks with pagination.
func (c *Client) AlbumTracks(ctx context.Context, albumID string, limit, offset int, market string) (*SimpleTrackPage, error) {
	query := params{
		"limit":  clampLimit(limit),
		"offset": strconv.Itoa(offset),
		"market": market,
	}

	var page SimpleTrackPage
	if err := c.get(ctx, fmt.Sprintf("/albums/%s/tracks", albumID), query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Artist retrieves an artist by ID.
func (c *Client) Artist(ctx context.Context, artistID string) (*Artist, error) {
	var artist Artist
	if err := c.get(ctx, "/artists/"+artistID, nil, &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// Artists retrieves multiple artists by their IDs (up to 50).
func (c *Client) Artists(ctx context.Context, artistIDs []string) ([]Artist, error) {
	if len(artistIDs) == 0 {
		return nil, fmt.Errorf("no artist IDs provided")
	}
	if len(artistIDs) > 50 {
		return nil, fmt.Errorf("maximum 50 artist IDs allowed")
	}

	var response struct {
		Artists []Artist `json:"artists"`
	}
	if err := c.get(ctx, "/artists", params{"ids": joinIDs(artistIDs)}, &response); err != nil {
		return nil, err
	}
	return response.Artists, nil
}

// ArtistAlbums retrieves an artist's albums with pagination. includeGroups
// filters by relationship: album, single, appears_on, compilation.
func (c *Client) ArtistAlbums(ctx context.Context, artistID string, includeGroups []string, limit, offset int, market string) (*AlbumPage, error) {
	query := params{
		"include_groups": joinIDs(includeGroups),
		"limit":          clampLimit(limit),
		"offset":         strconv.Itoa(offset),
		"market":         market,
	}

	var page AlbumPage
	if err := c.get(ctx, fmt.Sprintf("/artists/%s/albums", artistID), query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ArtistTopTracks retrieves an artist's top tracks. The market parameter
// is required by the API.
func (c *Client) ArtistTopTracks(ctx context.Context, artistID, market string) ([]Track, error) {
	var response struct {
		Tracks []Track `json:"tracks"`
	}
	url := fmt.Sprintf("/artists/%s/top-tracks", artistID)
	if err := c.get(ctx, url, params{"market": market}, &response); err != nil {
		return nil, err
	}
	return response.Tracks, nil
}

// Playlist retrieves a playlist by ID.
func (c *Client) Playlist(ctx context.Context, playlistID string) (*Playlist, error) {
	var playlist Playlist
	if err := c.get(ctx, "/playlists/"+playlistID, nil, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// PlaylistTracks retrieves a playlist's tracks with pagination.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string, limit, offset int, market string) (*PlaylistTrackPage, error) {
	if limit <= 0 {
		limit = 100
	}
	query := params{
		"limit":  strconv.Itoa(limit),
		"offset": strconv.Itoa(offset),
		"market": market,
	}

	var page PlaylistTrackPage
	if err := c.get(ctx, fmt.Sprintf("/playlists/%s/tracks", playlistID), query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// MyPlaylists retrieves the current user's playlists with pagination.
func (c *Client) MyPlaylists(ctx context.Context, limit, offset int) (*PlaylistPage, error) {
	query := params{"limit": clampLimit(limit), "offset": strconv.Itoa(offset)}

	var page PlaylistPage
	if err := c.get(ctx, "/me/playlists", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UserPlaylists retrieves a user's public playlists with pagination.
func (c *Client) UserPlaylists(ctx context.Context, userID string, limit, offset int) (*PlaylistPage, error) {
	query := params{"limit": clampLimit(limit), "offset": strconv.Itoa(offset)}

	var page PlaylistPage
	if err := c.get(ctx, fmt.Sprintf("/users/%s/playlists", userID), query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreatePlaylist creates an empty playlist for a user. Requires
// playlist-modify-public or playlist-modify-private depending on the
// public flag.
func (c *Client) CreatePlaylist(ctx context.Context, userID, name string, public, collaborative bool, description string) (*Playlist, error) {
	if err := c.ensureScope(completeScope([]string{scopePlaylistModify}, public)...); err != nil {
		return nil, err
	}

	body := map[string]any{
		"name":          name,
		"public":        public,
		"collaborative": collaborative,
	}
	if description != "" {
		body["description"] = description
	}

	var playlist Playlist
	if err := c.post(ctx, fmt.Sprintf("/users/%s/playlists", userID), nil, body, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// AddTracksToPlaylist appends tracks (given as Spotify URIs) to a
// playlist, optionally at a fixed position.
func (c *Client) AddTracksToPlaylist(ctx context.Context, playlistID string, uris []string, position int) (*SnapshotID, error) {
	if len(uris) == 0 {
		return nil, fmt.Errorf("no track URIs provided")
	}

	body := map[string]any{"uris": uris}
	if position >= 0 {
		body["position"] = position
	}

	var snapshot SnapshotID
	if err := c.post(ctx, fmt.Sprintf("/playlists/%s/tracks", playlistID), nil, body, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// RemoveTracksFromPlaylist removes all occurrences of the given tracks
// (as Spotify URIs) from a playlist.
func (c *Client) RemoveTracksFromPlaylist(ctx context.Context, playlistID string, uris []string) (*SnapshotID, error) {
	if len(uris) == 0 {
		return nil, fmt.Errorf("no track URIs provided")
	}

	tracks := make([]map[string]string, len(uris))
	for i, uri := range uris {
		tracks[i] = map[string]string{"uri": uri}
	}

	var snapshot SnapshotID
	err := c.delete(ctx, fmt.Sprintf("/playlists/%s/tracks", playlistID), nil, map[string]any{"tracks": tracks}, &snapshot)
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// SavedTracks retrieves the user's saved tracks with pagination. Requires
// user-library-read.
func (c *Client) SavedTracks(ctx context.Context, limit, offset int, market string) (*SavedTrackPage, error) {
	if err := c.ensureScope(scopeLibraryRead); err != nil {
		return nil, err
	}

	query := params{
		"limit":  clampLimit(limit),
		"offset": strconv.Itoa(offset),
		"market": market,
	}

	var page SavedTrackPage
	if err := c.get(ctx, "/me/tracks", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SaveTracks adds tracks to the user's library. Requires
// user-library-modify.
func (c *Client) SaveTracks(ctx context.Context, trackIDs []string) error {
	if err := c.ensureScope(scopeLibraryModify); err != nil {
		return err
	}
	if len(trackIDs) == 0 {
		return fmt.Errorf("no track IDs provided")
	}
	return c.put(ctx, "/me/tracks", params{"ids": joinIDs(trackIDs)}, nil, nil)
}

// RemoveSavedTracks removes tracks from the user's library. Requires
// user-library-modify.
func (c *Client) RemoveSavedTracks(ctx context.Context, trackIDs []string) error {
	if err := c.ensureScope(scopeLibraryModify); err != nil {
		return err
	}
	if len(trackIDs) == 0 {
		return fmt.Errorf("no track IDs provided")
	}
	return c.delete(ctx, "/me/tracks", params{"ids": joinIDs(trackIDs)}, nil, nil)
}

// SavedTracksContains checks which of the given tracks are in the user's
// library. Requires user-library-read.
func (c *Client) SavedTracksContains(ctx context.Context, trackIDs []string) ([]bool, error) {
	if err := c.ensureScope(scopeLibraryRead); err != nil {
		return nil, err
	}
	if len(trackIDs) == 0 {
		return nil, fmt.Errorf("no track IDs provided")
	}

	var contains []bool
	if err := c.get(ctx, "/me/tracks/contains", params{"ids": joinIDs(trackIDs)}, &contains); err != nil {
		return nil, err
	}
	return contains, nil
}

// TopTracks retrieves the user's top tracks over a time range
// (short_term, medium_term or long_term). Requires user-top-read.
func (c *Client) TopTracks(ctx context.Context, limit, offset int, timeRange string) (*TrackPage, error) {
	if err := c.ensureScope(scopeTopRead); err != nil {
		return nil, err
	}
	if timeRange == "" {
		timeRange = "medium_term"
	}

	query := params{
		"limit":      clampLimit(limit),
		"offset":     strconv.Itoa(offset),
		"time_range": timeRange,
	}

	var page TrackPage
	if err := c.get(ctx, "/me/top/tracks", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Search searches the catalog. types selects which resource kinds to
// search for; when empty all of track, album, artist and playlist are
// searched.
func (c *Client) Search(ctx context.Context, query string, types []ResourceType, limit, offset int, market string) (*SearchResults, error) {
	if query == "" {
		return nil, fmt.Errorf("no search query provided")
	}

	if len(types) == 0 {
		types = []ResourceType{TypeTrack, TypeAlbum, TypeArtist, TypePlaylist}
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}

	q := params{
		"q":      query,
		"type":   strings.Join(names, ","),
		"limit":  clampLimit(limit),
		"offset": strconv.Itoa(offset),
		"market": market,
	}

	var results SearchResults
	if err := c.get(ctx, "/search", q, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package spotify

// Page carries the pagination metadata the Web API attaches to every
// paged response.
type Page struct {
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
	Total    int     `json:"total"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// HasNext reports whether another page follows this one.
func (p Page) HasNext() bool { return p.Next != nil && *p.Next != "" }

// HasPrevious reports whether a page precedes this one.
func (p Page) HasPrevious() bool { return p.Previous != nil && *p.Previous != "" }

type followers struct {
	Total int `json:"total"`
}

// User represents a Spotify user profile. Email and Product are only
// populated for the current user with the matching scopes granted.
type User struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Country     string    `json:"country"`
	Product     string    `json:"product"` // premium, free, etc.
	Followers   followers `json:"followers"`
	Images      []Image   `json:"images"`
	URI         string    `json:"uri"`
}

// Image represents an image resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type externalIDs struct {
	ISRC string `json:"isrc"`
}

// Track represents a Spotify track.
type Track struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Artists     []Artist    `json:"artists"`
	Album       Album       `json:"album"`
	DurationMS  int         `json:"duration_ms"`
	Explicit    bool        `json:"explicit"`
	ExternalIDs externalIDs `json:"external_ids"`
	Popularity  int         `json:"popularity"`
	URI         string      `json:"uri"`
}

// Artist represents a Spotify artist.
type Artist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
	Images []Image  `json:"images"`
	URI    string   `json:"uri"`
}

// Album represents a Spotify album.
type Album struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []Artist `json:"artists"`
	ReleaseDate string   `json:"release_date"`
	TotalTracks int      `json:"total_tracks"`
	Images      []Image  `json:"images"`
	URI         string   `json:"uri"`
}

// SimpleTrack is the stripped track object album listings use.
type SimpleTrack struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []Artist `json:"artists"`
	DurationMS int      `json:"duration_ms"`
	Explicit   bool     `json:"explicit"`
	URI        string   `json:"uri"`
}

// Owner identifies the user owning a playlist.
type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type playlistTracks struct {
	Total int `json:"total"`
}

// Playlist represents a Spotify playlist.
type Playlist struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Owner         Owner          `json:"owner"`
	Public        bool           `json:"public"`
	Collaborative bool           `json:"collaborative"`
	Tracks        playlistTracks `json:"tracks"`
	Images        []Image        `json:"images"`
	URI           string         `json:"uri"`
}

// PlaylistTrack represents a track within a playlist context.
type PlaylistTrack struct {
	AddedAt string `json:"added_at"`
	Track   Track  `json:"track"`
}

// SavedTrack represents a track saved in the user's library.
type SavedTrack struct {
	AddedAt string `json:"added_at"`
	Track   Track  `json:"track"`
}

// TrackPage is a paged list of full track objects.
type TrackPage struct {
	Page
	Items []Track `json:"items"`
}

// SimpleTrackPage is a paged list of stripped track objects.
type SimpleTrackPage struct {
	Page
	Items []SimpleTrack `json:"items"`
}

// SavedTrackPage is a paged list of the user's saved tracks.
type SavedTrackPage struct {
	Page
	Items []SavedTrack `json:"items"`
}

// PlaylistTrackPage is a paged list of a playlist's tracks.
type PlaylistTrackPage struct {
	Page
	Items []PlaylistTrack `json:"items"`
}

// PlaylistPage is a paged list of playlists.
type PlaylistPage struct {
	Page
	Items []Playlist `json:"items"`
}

// AlbumPage is a paged list of albums.
type AlbumPage struct {
	Page
	Items []Album `json:"items"`
}

// ArtistPage is a paged list of artists.
type ArtistPage struct {
	Page
	Items []Artist `json:"items"`
}

// SearchResults groups the paged results of a search by resource type.
// Only the sections matching the requested types are populated.
type SearchResults struct {
	Tracks    *TrackPage    `json:"tracks"`
	Albums    *AlbumPage    `json:"albums"`
	Artists   *ArtistPage   `json:"artists"`
	Playlists *PlaylistPage `json:"playlists"`
}

// SnapshotID is returned by playlist mutations.
type SnapshotID struct {
	SnapshotID string `json:"snapshot_id"`
}

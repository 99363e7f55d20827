package spotify

import (
	"fmt"
	"strings"

	"github.com/desertthunder/spotr/internal/shared"
)

// OpenSpotifyURL is the base of the shareable web URLs for resources.
const OpenSpotifyURL = "https://open.spotify.com"

// ResourceType tags the kind of a Spotify resource.
type ResourceType string

const (
	TypeTrack    ResourceType = "track"
	TypeAlbum    ResourceType = "album"
	TypeArtist   ResourceType = "artist"
	TypePlaylist ResourceType = "playlist"
	TypeUser     ResourceType = "user"
)

var resourceTypes = map[ResourceType]bool{
	TypeTrack:    true,
	TypeAlbum:    true,
	TypeArtist:   true,
	TypePlaylist: true,
	TypeUser:     true,
}

// ResourceInfo identifies a Spotify resource by type and ID. OwnerID is only
// meaningful for playlists; the legacy playlist URIs and URLs carried it.
//
// Treat values as immutable once constructed.
type ResourceInfo struct {
	Type    ResourceType
	ID      string
	OwnerID string
}

// NewResourceInfo validates and builds a ResourceInfo.
func NewResourceInfo(resType ResourceType, id, ownerID string) (ResourceInfo, error) {
	if !resourceTypes[resType] {
		return ResourceInfo{}, fmt.Errorf("%w: invalid resource type %q", shared.ErrInvalidResource, resType)
	}
	if !isAlphanumeric(id) {
		return ResourceInfo{}, fmt.Errorf("%w: invalid resource id %q", shared.ErrInvalidResource, id)
	}
	if ownerID != "" {
		if resType != TypePlaylist {
			return ResourceInfo{}, fmt.Errorf("%w: owner id given but resource is a %s, not a playlist",
				shared.ErrInvalidResource, resType)
		}
		if !isAlphanumeric(ownerID) {
			return ResourceInfo{}, fmt.Errorf("%w: invalid owner id %q", shared.ErrInvalidResource, ownerID)
		}
	}
	return ResourceInfo{Type: resType, ID: id, OwnerID: ownerID}, nil
}

// URI renders the resource as a Spotify URI, using the legacy 4-part form
// when an owner is set.
func (r ResourceInfo) URI() string {
	if r.OwnerID != "" {
		return fmt.Sprintf("spotify:user:%s:%s:%s", r.OwnerID, r.Type, r.ID)
	}
	return fmt.Sprintf("spotify:%s:%s", r.Type, r.ID)
}

// URL renders the resource as an open.spotify.com URL.
func (r ResourceInfo) URL() string {
	if r.OwnerID != "" {
		return strings.Join([]string{OpenSpotifyURL, "user", r.OwnerID, string(r.Type), r.ID}, "/")
	}
	return strings.Join([]string{OpenSpotifyURL, string(r.Type), r.ID}, "/")
}

// Equal reports whether two resources refer to the same object. The owner
// is deliberately ignored; the legacy and modern identifiers of a playlist
// compare equal.
func (r ResourceInfo) Equal(other ResourceInfo) bool {
	return r.Type == other.Type && r.ID == other.ID
}

// Key returns a map key identifying the resource, consistent with Equal.
func (r ResourceInfo) Key() string {
	return string(r.Type) + ":" + r.ID
}

func resourceFromTokens(tokens []string, original string) (ResourceInfo, error) {
	switch len(tokens) {
	case 2:
		return NewResourceInfo(ResourceType(tokens[0]), tokens[1], "")
	case 4:
		// Legacy playlist form: user:{owner}:playlist:{id}
		if tokens[0] != "user" {
			return ResourceInfo{}, fmt.Errorf("%w: invalid Spotify URI/URL %q", shared.ErrInvalidResource, original)
		}
		return NewResourceInfo(ResourceType(tokens[2]), tokens[3], tokens[1])
	default:
		return ResourceInfo{}, fmt.Errorf("%w: invalid Spotify URI/URL %q", shared.ErrInvalidResource, original)
	}
}

// ParseURI parses a Spotify URI such as "spotify:track:{id}". The leading
// "spotify:" is optional.
func ParseURI(uri string) (ResourceInfo, error) {
	tokens := strings.Split(uri, ":")
	if len(tokens) > 0 && tokens[0] == "spotify" {
		tokens = tokens[1:]
	}
	return resourceFromTokens(tokens, uri)
}

// ParseURL parses an open.spotify.com URL.
func ParseURL(rawURL string) (ResourceInfo, error) {
	if !strings.HasPrefix(rawURL, OpenSpotifyURL) {
		return ResourceInfo{}, fmt.Errorf("%w: invalid Spotify URL %q", shared.ErrInvalidResource, rawURL)
	}
	tokens := strings.Split(rawURL, "/")[3:]
	return resourceFromTokens(tokens, rawURL)
}

// ParseResource accepts either a Spotify URI or an open.spotify.com URL.
func ParseResource(uriOrURL string) (ResourceInfo, error) {
	if strings.HasPrefix(uriOrURL, "https") {
		return ParseURL(uriOrURL)
	}
	return ParseURI(uriOrURL)
}

// GetID extracts the base-62 ID from a Spotify URI, URL or bare ID. When
// expectedType is non-empty and the identifier resolves to a different
// type, a [ResourceTypeMismatchError] is returned.
func GetID(identifier string, expectedType ResourceType) (string, error) {
	if isAlphanumeric(identifier) {
		return identifier, nil
	}

	resource, err := ParseResource(identifier)
	if err != nil {
		return "", err
	}

	if expectedType != "" && resource.Type != expectedType {
		if !resourceTypes[expectedType] {
			return "", fmt.Errorf("%w: invalid expected type %q", shared.ErrInvalidResource, expectedType)
		}
		return "", &ResourceTypeMismatchError{Expected: expectedType, Actual: resource.Type}
	}
	return resource.ID, nil
}

// ParseResourceTypes parses a comma-separated list like "track,album" into
// validated resource types.
func ParseResourceTypes(csv string) ([]ResourceType, error) {
	var types []ResourceType
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		t := ResourceType(part)
		if !resourceTypes[t] {
			return nil, fmt.Errorf("%w: unknown resource type %q", shared.ErrInvalidResource, part)
		}
		types = append(types, t)
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("%w: no resource types given", shared.ErrInvalidResource)
	}
	return types, nil
}

func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}

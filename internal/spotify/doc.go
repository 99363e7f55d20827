// Package spotify is a thin client for the Spotify Web API.
//
// A [Client] wraps an auth session and adds rate limiting, parameter
// cleanup, client-side scope checks and error mapping. Endpoint methods
// return typed responses matching the API JSON; paged responses carry a
// [Page] that can be walked with [Client.NextPage] and
// [Client.PreviousPage].
//
// Spotify resources are addressed by URIs ("spotify:track:{id}"), URLs
// ("https://open.spotify.com/track/{id}") or bare IDs. [ParseResource] and
// [GetID] convert between the three forms.
package spotify

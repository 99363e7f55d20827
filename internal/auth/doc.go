// Package auth implements the OAuth2 session and token lifecycle for the
// Spotify Accounts service.
//
// # Sessions
//
// A [Session] wraps an HTTP client, holds the current [Token] and decides
// when it must be renewed. Three grant flows are provided:
//
//   - [ClientCredentialsSession]: two-legged, app-only access. Refreshable
//     by re-fetching a token with the client id and secret.
//   - [AuthorizationCodeSession]: browser-based user authorization.
//     Refreshable through the dedicated refresh-token grant.
//   - [ImplicitGrantSession]: browser-based, token delivered in the URL
//     fragment. Not refreshable; renewal goes back through the browser.
//
// The two refreshable flows also satisfy [RefreshableSession]. With
// auto-refresh enabled (the default) an expired token is transparently
// replaced before an outbound request is issued.
//
// # Events
//
// Sessions fire [TokenExpiredEvent] and [TokenUpdatedEvent] synchronously.
// Listeners registered with [Session.AddListener] run in registration order
// and a listener error aborts the in-flight operation. The implicit grant
// flow relies on the token-expired event as its renewal mechanism.
//
// # Concurrency
//
// Session operations are not synchronized internally. A session is intended
// for one logical caller at a time; concurrent use requires external
// locking.
package auth

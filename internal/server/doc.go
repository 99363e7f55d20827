// Package server runs the short-lived localhost HTTP server that completes
// a browser-based OAuth2 grant without the user relaying the callback URL
// by hand.
//
// An [App] holds its own internal auth session (authorization-code flow
// when a client secret is supplied, implicit grant otherwise) and a
// one-shot delivery channel. The browser is sent through
// /authorize -> provider -> /callback -> /handle-response, which extracts
// the token (promoting the URL fragment to a query string for the implicit
// flow), verifies it with one profile call and delivers it to the waiting
// caller. The caller then posts /shutdown after a short grace period so
// the success page can finish loading.
//
// [GetUserAuthorization] wraps the whole dance: it starts the app in the
// background, opens the browser and blocks on the delivery channel with a
// timeout. [PromptForUserAuthorization] is the no-server alternative for
// terminals: the user pastes the callback URL back in.
package server

// Package store persists tokens across runs so a CLI invocation can reuse
// an earlier authorization instead of sending the user back to the
// browser.
//
// [TokenStore] is the capability; [FileStore] keeps one JSON document per
// profile under a directory, [SQLiteStore] keeps all profiles in a single
// database. [Bind] connects a store to a session so every token update is
// saved automatically.
package store

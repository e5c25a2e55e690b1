// Package store implements the client state container backing playback and library state.
//
// A [Store] is the single source of truth shared by the CLI and TUI layers: the
// current song, transport flag, volume, queue, playlists, liked songs, the open
// playlist, and the signed-in user. It is an explicitly owned object injected
// into its consumers rather than package-level state.
//
// Every mutation serializes the full state through a [Persister] under a fixed
// namespace key, and startup loads the snapshot back, falling back to the
// default state when the snapshot is absent or malformed. Subscribers are
// notified with a copy of the state after each mutation.
//
// Mutations are total functions: unknown playlist or song identifiers are
// silent no-ops, never errors.
package store

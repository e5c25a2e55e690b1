// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view player workflow:
//  1. [LibraryView] : Browse the playlist library (liked songs first)
//  2. [PlaylistView] : Browse a playlist's songs and start playback
//  3. [SearchView] : Free-text song search against the search gateway
//
// Every view renders a now-playing bar with the transport state, volume, and
// liked indicator. The (view) [Model] implements bubbletea/Elm's standard
// Init/Update/View pattern. State flows one way: key handlers call store
// operations, and the store's subscriber callback feeds fresh snapshots back
// into the model as messages.
//
// Search requests carry a generation counter; a response whose generation no
// longer matches the latest request is discarded, so a slow earlier search can
// never overwrite the results of a newer one.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) plus player
// keys (space, +/-, a, L, o, /) with contextual help displayed via charmbracelet/bubbles/help.
package ui

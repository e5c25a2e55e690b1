// Package tasks orchestrates multi-step library operations with real-time progress reporting.
//
// # Core Operations
//
// The [SyncEngine] interface defines three operations:
//
//  1. [SyncEngine.Discover] : AI-assisted playlist building
//     - Fetches title/artist suggestions from the recommendation gateway
//     - Searches each suggestion for a playable match, rate limited
//     - Builds a playlist from the matches and adds it to the library
//     - Returns detailed results including failed matches
//
//  2. [SyncEngine.Push] : Upload the playlist library to the cloud
//     - Resolves the signed-in user, then upserts the playlist collection document
//
//  3. [SyncEngine.Pull] : Fetch the cloud playlist library
//     - Merges remote playlists into the local library, remote wins on ID conflict
//
// [LibraryEngine.Compare] diffs two playlists by normalized title/artist key,
// reporting matched, missing, and extra songs.
//
// # Progress Reporting
//
// # All operations use non-blocking channels for progress updates
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Song Caching
//
// The optional [SongCacher] interface enables automatic song persistence during discovery
//
// Songs are cached silently (errors ignored) to avoid disrupting the operation.
//
// # Implementation
//
// [LibraryEngine] implements [SyncEngine] with dependencies on:
//   - [services.SearchService] and [services.Recommender] : search and recommendation gateways
//   - [services.SyncService] : identity and cloud playlist persistence
//   - [store.Store] : the client state container
//   - [SongCacher] : Optional persistence layer (repositories.SongCacheAdapter)
package tasks

// Package repositories provides the SQLite persistence layer for the streaming client.
//
// StateRepository stores the serialized client state container as a single
// record under a fixed namespace key, implementing store.Persister. SongRepository
// implements models.Repository[*models.PersistedSong] for the search result
// cache, with soft deletes and sequence generation.
package repositories

// Package models defines domain entities and persistence interfaces for the mixtape streaming client.
//
// The package contains two categories of types:
//
// 1. Entities shared across the store, gateways, and presentation layers:
//   - [Song] : A playable track sourced from the video search gateway
//   - [Playlist] : A named, ordered song collection with duplicate suppression
//   - [UserProfile] : The signed-in user and their [Preferences]
//   - [Recommendation] : A title/artist pair returned by the recommendation gateway
//
// 2. Persistent entities: database-backed models with full lifecycle management
//   - [PersistedSong] : Cached search results with service metadata
//
// Persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models

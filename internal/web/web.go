// Package web implements an HTMX-based web dashboard mirroring the TUI functionality.
//
// # HTMX Web Application Implementation Plan
//
// # Architecture
//
// The web app replicates the player workflow using server-side rendering
// with HTMX for dynamic updates. Each view corresponds to a template and handler:
//
//  1. Library: Server-rendered playlist table with hx-get for song preview
//  2. Playlist Detail: HTMX partial swap showing songs + playback controls
//  3. Search: hx-get backed search box against the search gateway
//  4. Discover: SSE (Server-Sent Events) streaming discovery progress
//  5. Now Playing: Polling partial reflecting the state container
//
// Core Components
//
//   - HTTP Server: the server package's BasicRouter with html/template rendering
//   - Service Integration: Uses the same services gateways and tasks.LibraryEngine as the TUI
//   - Session Management: Cookie-based sessions for OAuth state and user tracking
//   - SSE Handler: Streams real-time progress during discovery runs
//
// Routes
//
//	GET  /                      → Library view (requires auth)
//	GET  /auth/google           → OAuth initiation
//	GET  /callback              → OAuth completion
//	GET  /playlists/{id}/songs  → HTMX partial: song list
//	GET  /search                → HTMX partial: search results
//	POST /discover              → Start discovery, return SSE endpoint
//	GET  /discover/{id}/stream  → SSE progress stream
//	GET  /player                → HTMX partial: now-playing bar
//
// # State Management
//
// The web app shares the TUI's state container:
//   - Session cookies: Authentication tokens, user ID
//   - store.Store: single source of truth for player and library state
//   - In-memory channels: SSE connections for active discovery runs
//
// # Progress Streaming
//
// Discovery progress uses Server-Sent Events:
//  1. POST /discover starts LibraryEngine.Discover in a goroutine
//  2. Client opens SSE connection to /discover/{id}/stream
//  3. Progress channel updates stream as SSE events
//  4. On completion, send "done" event with the built playlist
//
// Authentication Flow
//
//  1. User visits /, redirected to /auth/google if not authenticated
//  2. OAuth dance stores tokens in session
//  3. Session middleware validates tokens on protected routes
//  4. Expired tokens trigger reauthorization flow
//
// # Testing Strategy
//
// Use httptest:
//   - Mocks from the internal testing package for gateway data
//   - Validate HTMX headers and response structure
//   - Test SSE stream formatting
package web

// Package services implements the HTTP gateways the streaming client delegates to.
//
// # Gateways
//
// Three hosted services back every non-trivial behavior:
//
//   - [YouTubeService] : video search via the YouTube Data API ([SearchService])
//   - [GeminiService] : AI song suggestions via the generative language API ([Recommender])
//   - [GoogleSyncService] : Google sign-in and playlist documents via the Firestore REST API ([SyncService])
//
// All gateways are stateless request/response wrappers: one attempt per call,
// no retries, no backoff. Search and recommendation failures are recoverable —
// callers degrade to an empty result and notify the user. Sync failures are
// data-loss relevant and are always propagated.
//
// # OAuth
//
// [GoogleSyncService] implements [OAuthService]; the interactive flow runs
// through the local callback server in the server package, and the resulting
// tokens are stored in the config for subsequent runs. The [oauth2] client
// refreshes expired access tokens with the refresh token.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrAPIRequest] : HTTP request failed
//   - [shared.ErrAuthFailed] : sign-in or token exchange failed
package services

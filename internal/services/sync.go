// Google sign-in and Firestore-backed [SyncService] implementation
//
// Playlist collections are stored one document per user in the `playlists`
// collection via the Firestore REST API:
// https://firebase.google.com/docs/firestore/use-rest-api
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
	"golang.org/x/oauth2"
)

const (
	googleAuthURL   = "https://accounts.google.com/o/oauth2/auth"
	googleTokenURL  = "https://oauth2.googleapis.com/token"
	googleRevokeURL = "https://oauth2.googleapis.com/revoke"
	userinfoURL     = "https://openidconnect.googleapis.com/v1/userinfo"

	defaultFirestoreBaseURL = "https://firestore.googleapis.com/v1"
)

// GoogleSyncService implements [OAuthService] for Google identity and the
// Firestore documents API.
type GoogleSyncService struct {
	config           *oauth2.Config
	token            *oauth2.Token
	httpClient       *http.Client
	projectID        string
	firestoreBaseURL string
	identityBaseURL  string
	revokeBaseURL    string
}

// NewGoogleSyncService creates a sync gateway from the Google credentials map.
//
// Requires client_id, client_secret, and project_id; redirect_uri defaults to
// the local callback server.
func NewGoogleSyncService(credentials map[string]string) (*GoogleSyncService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	projectID, ok := credentials["project_id"]
	if !ok || projectID == "" {
		return nil, fmt.Errorf("%w: missing project_id", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:3000/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"openid",
			"email",
			"profile",
			"https://www.googleapis.com/auth/datastore",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  googleAuthURL,
			TokenURL: googleTokenURL,
		},
	}

	return &GoogleSyncService{
		config:           config,
		httpClient:       http.DefaultClient,
		projectID:        projectID,
		firestoreBaseURL: defaultFirestoreBaseURL,
		identityBaseURL:  userinfoURL,
		revokeBaseURL:    googleRevokeURL,
	}, nil
}

// Name returns the provider name.
func (g *GoogleSyncService) Name() string {
	return "Google"
}

// AuthURL returns the OAuth2 authorization URL for the interactive sign-in flow.
func (g *GoogleSyncService) AuthURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Authenticate establishes identity from stored tokens or a fresh auth code.
//
// Expects either access_token (with optional refresh_token) or auth_code in
// credentials. The resulting client refreshes tokens automatically.
func (g *GoogleSyncService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken, ok := credentials["access_token"]; ok && accessToken != "" {
		g.token = &oauth2.Token{
			AccessToken:  accessToken,
			RefreshToken: credentials["refresh_token"],
		}
		g.httpClient = g.config.Client(ctx, g.token)
		return nil
	}

	if authCode, ok := credentials["auth_code"]; ok && authCode != "" {
		token, err := g.config.Exchange(ctx, authCode)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
		}
		g.token = token
		g.httpClient = g.config.Client(ctx, g.token)
		return nil
	}

	return fmt.Errorf("%w: missing access_token or auth_code", shared.ErrMissingCredentials)
}

// Token returns the current OAuth2 token, nil before authentication.
func (g *GoogleSyncService) Token() *oauth2.Token {
	return g.token
}

// SignOut drops local credentials and revokes the token remotely, best effort.
func (g *GoogleSyncService) SignOut(ctx context.Context) {
	token := g.token
	g.token = nil
	g.httpClient = http.DefaultClient

	if token == nil || token.AccessToken == "" {
		return
	}

	form := url.Values{"token": {token.AccessToken}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.revokeBaseURL, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if resp, err := http.DefaultClient.Do(req); err == nil {
		resp.Body.Close()
	}
}

// CurrentUser fetches the signed-in user's OpenID profile.
func (g *GoogleSyncService) CurrentUser(ctx context.Context) (*models.UserProfile, error) {
	if g.token == nil {
		return nil, fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.identityBaseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: userinfo status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var info struct {
		Sub     string `json:"sub"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}

	return &models.UserProfile{
		ID:          info.Sub,
		Name:        info.Name,
		Email:       info.Email,
		Avatar:      info.Picture,
		Preferences: models.DefaultPreferences(),
	}, nil
}

// firestoreDocument is the wire shape of a playlist collection document.
//
// The playlist collection itself is stored as a JSON string field; Firestore's
// typed value encoding is not worth mirroring the whole entity tree.
type firestoreDocument struct {
	Fields struct {
		UserID    firestoreString    `json:"user_id"`
		Playlists firestoreString    `json:"playlists"`
		UpdatedAt firestoreTimestamp `json:"updated_at"`
	} `json:"fields"`
}

type firestoreString struct {
	StringValue string `json:"stringValue"`
}

type firestoreTimestamp struct {
	TimestampValue string `json:"timestampValue"`
}

func (g *GoogleSyncService) documentURL(userID string) string {
	return fmt.Sprintf("%s/projects/%s/databases/(default)/documents/playlists/%s",
		g.firestoreBaseURL, g.projectID, url.PathEscape(userID))
}

// SavePlaylists upserts the user's playlist collection document, keyed by user ID.
func (g *GoogleSyncService) SavePlaylists(ctx context.Context, userID string, playlists []models.Playlist) error {
	if g.token == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	data, err := json.Marshal(playlists)
	if err != nil {
		return fmt.Errorf("failed to marshal playlists: %w", err)
	}

	var doc firestoreDocument
	doc.Fields.UserID.StringValue = userID
	doc.Fields.Playlists.StringValue = string(data)
	doc.Fields.UpdatedAt.TimestampValue = time.Now().UTC().Format(time.RFC3339)

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, g.documentURL(userID), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: save playlists status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	return nil
}

// GetPlaylists fetches the user's playlist collection; a missing document is
// an empty collection, not an error.
func (g *GoogleSyncService) GetPlaylists(ctx context.Context, userID string) ([]models.Playlist, error) {
	if g.token == nil {
		return nil, fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.documentURL(userID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return []models.Playlist{}, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: get playlists status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var doc firestoreDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	if doc.Fields.Playlists.StringValue == "" {
		return []models.Playlist{}, nil
	}

	var playlists []models.Playlist
	if err := json.Unmarshal([]byte(doc.Fields.Playlists.StringValue), &playlists); err != nil {
		return nil, fmt.Errorf("failed to parse playlist collection: %w", err)
	}

	return playlists, nil
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/mixtape/internal/server"
	"github.com/desertthunder/mixtape/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// loginTimeout bounds how long the callback server waits for the browser flow.
const loginTimeout = 3 * time.Minute

// AuthLogin runs the interactive Google sign-in flow through a local callback server.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if r.sync == nil {
		return fmt.Errorf("%w: Google credentials not configured, run 'mixtape setup' first", shared.ErrServiceUnavailable)
	}

	state := shared.GenerateID()
	handler := server.NewOAuthHandler(r.oauthConfig(), state)

	router := server.NewBasicRouter()
	router.Use(server.LoggingMiddleware(r.logger))
	router.Handler(handler)

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	srv := &http.Server{Addr: addr, Handler: router}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			r.logger.Errorf("callback server error: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	authURL := r.sync.AuthURL(state)
	if cmd.Bool("no-browser") {
		r.writePlain("Open this URL to sign in:\n%s\n", authURL)
	} else {
		r.logger.Info("opening browser for Google sign-in")
		if err := shared.OpenBrowser(authURL); err != nil {
			r.logger.Warnf("failed to open browser: %v", err)
			r.writePlain("Open this URL to sign in:\n%s\n", authURL)
		}
	}

	var result server.OAuthResult
	select {
	case result = <-handler.Result():
	case <-time.After(loginTimeout):
		return fmt.Errorf("%w: sign-in timed out", shared.ErrTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := result.Error(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if err := r.sync.Authenticate(ctx, map[string]string{
		"access_token":  result.Token.AccessToken,
		"refresh_token": result.Token.RefreshToken,
	}); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if err := r.saveTokens(result.Token); err != nil {
		r.logger.Warnf("failed to persist tokens: %v", err)
	}

	user, err := r.sync.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch user profile: %w", err)
	}
	r.store.SetUser(user)

	r.logger.Info("authentication successful", "user", user.Email)
	return r.writePlain("✓ Signed in as %s <%s>\n", user.Name, user.Email)
}

// AuthLogout signs out and drops stored tokens.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if r.sync != nil {
		if err := r.ensureAuthenticated(ctx); err == nil {
			r.sync.SignOut(ctx)
		}
	}

	r.store.ClearUser()

	r.config.Credentials.Google.AccessToken = ""
	r.config.Credentials.Google.RefreshToken = ""
	if r.configPath != "" {
		if err := shared.SaveConfig(r.configPath, r.config); err != nil {
			r.logger.Warnf("failed to clear stored tokens: %v", err)
		}
	}

	return r.writePlain("✓ Signed out\n")
}

// AuthStatus shows the signed-in user.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.sync == nil {
		return r.writePlain("✗ Google credentials not configured\n")
	}

	if err := r.ensureAuthenticated(ctx); err != nil {
		return r.writePlain("✗ Not signed in\nRun 'mixtape auth login' to sign in.\n")
	}

	user, err := r.sync.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch user profile: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, cmd.Bool("pretty"))
	}

	r.writePlain("✓ Signed in\n")
	r.writePlain("Name:  %s\n", user.Name)
	r.writePlain("Email: %s\n", user.Email)
	return nil
}

// ensureAuthenticated primes the sync gateway with tokens stored in the config.
func (r *Runner) ensureAuthenticated(ctx context.Context) error {
	if r.sync == nil {
		return fmt.Errorf("%w: Google credentials not configured", shared.ErrServiceUnavailable)
	}

	creds := r.config.Credentials.Google
	if creds.AccessToken == "" && creds.RefreshToken == "" {
		return fmt.Errorf("%w: run 'mixtape auth login' to sign in", shared.ErrNotAuthenticated)
	}

	return r.sync.Authenticate(ctx, creds.Map())
}

// oauthConfig builds the OAuth2 exchange config for the callback handler.
func (r *Runner) oauthConfig() *oauth2.Config {
	creds := r.config.Credentials.Google
	redirectURI := creds.RedirectURI
	if redirectURI == "" {
		redirectURI = fmt.Sprintf("http://%s:%d/callback", r.config.Server.Host, r.config.Server.Port)
	}

	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"openid",
			"email",
			"profile",
			"https://www.googleapis.com/auth/datastore",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.google.com/o/oauth2/auth",
			TokenURL: "https://oauth2.googleapis.com/token",
		},
	}
}

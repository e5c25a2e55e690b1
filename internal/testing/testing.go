// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/mixtape/internal/models"
)

// MockSearchService is a test double for [services.SearchService]
type MockSearchService struct {
	SearchFunc func(ctx context.Context, query string) ([]models.Song, error)
}

func (m *MockSearchService) Search(ctx context.Context, query string) ([]models.Song, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return []models.Song{}, nil
}

func (m *MockSearchService) Name() string { return "mock-search" }

// MockRecommender is a test double for [services.Recommender]
type MockRecommender struct {
	RecommendFunc func(ctx context.Context, query string) ([]models.Recommendation, error)
}

func (m *MockRecommender) Recommend(ctx context.Context, query string) ([]models.Recommendation, error) {
	if m.RecommendFunc != nil {
		return m.RecommendFunc(ctx, query)
	}
	return []models.Recommendation{}, nil
}

func (m *MockRecommender) Name() string { return "mock-recommender" }

// MockSyncService is a test double for [services.SyncService]
type MockSyncService struct {
	AuthenticateFunc  func(ctx context.Context, credentials map[string]string) error
	CurrentUserFunc   func(ctx context.Context) (*models.UserProfile, error)
	SavePlaylistsFunc func(ctx context.Context, userID string, playlists []models.Playlist) error
	GetPlaylistsFunc  func(ctx context.Context, userID string) ([]models.Playlist, error)
	SignedOut         bool
}

func (m *MockSyncService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, credentials)
	}
	return nil
}

func (m *MockSyncService) CurrentUser(ctx context.Context) (*models.UserProfile, error) {
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx)
	}
	return &models.UserProfile{ID: "mock-user"}, nil
}

func (m *MockSyncService) SignOut(ctx context.Context) {
	m.SignedOut = true
}

func (m *MockSyncService) SavePlaylists(ctx context.Context, userID string, playlists []models.Playlist) error {
	if m.SavePlaylistsFunc != nil {
		return m.SavePlaylistsFunc(ctx, userID, playlists)
	}
	return nil
}

func (m *MockSyncService) GetPlaylists(ctx context.Context, userID string) ([]models.Playlist, error) {
	if m.GetPlaylistsFunc != nil {
		return m.GetPlaylistsFunc(ctx, userID)
	}
	return []models.Playlist{}, nil
}

func (m *MockSyncService) Name() string { return "mock-sync" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

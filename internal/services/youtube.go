// YouTube Data API [SearchService] implementation
//
// Response types based on https://developers.google.com/youtube/v3/docs/search/list
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
)

const (
	defaultYouTubeBaseURL = "https://www.googleapis.com/youtube/v3"

	// watchURLTemplate synthesizes the playable resource URL from a video ID.
	watchURLTemplate = "https://www.youtube.com/watch?v=%s"

	// musicCategoryID is YouTube's category filter for music videos.
	musicCategoryID = "10"

	searchResultSize = "20"
)

// YouTubeThumbnail represents a thumbnail at one resolution.
type YouTubeThumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// YouTubeThumbnails carries the per-resolution thumbnail variants of a result.
type YouTubeThumbnails struct {
	Default YouTubeThumbnail `json:"default"`
	Medium  YouTubeThumbnail `json:"medium"`
	High    YouTubeThumbnail `json:"high"`
}

// YouTubeSearchResult represents a single item in a search response.
type YouTubeSearchResult struct {
	ID struct {
		Kind    string `json:"kind"`
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		Title        string            `json:"title"`
		ChannelTitle string            `json:"channelTitle"`
		Thumbnails   YouTubeThumbnails `json:"thumbnails"`
	} `json:"snippet"`
}

// YouTubeService implements [SearchService] against the YouTube Data API.
//
// Stateless; the API key rides along as a query parameter on every request.
type YouTubeService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewYouTubeService creates a search gateway with the given API key.
//
// baseURL and client default to the hosted API and [http.DefaultClient].
func NewYouTubeService(apiKey, baseURL string, client *http.Client) *YouTubeService {
	if baseURL == "" {
		baseURL = defaultYouTubeBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &YouTubeService{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: client,
	}
}

// Name returns the provider name.
func (y *YouTubeService) Name() string {
	return "YouTube"
}

// Search issues a single video search scoped to the music category and maps
// the items to songs. The video ID becomes the song ID and the playable URL
// is synthesized from it; duration is unknown at search time and left zero.
func (y *YouTubeService) Search(ctx context.Context, query string) ([]models.Song, error) {
	if y.apiKey == "" {
		return nil, fmt.Errorf("%w: youtube api_key not configured", shared.ErrMissingCredentials)
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("videoCategoryId", musicCategoryID)
	params.Set("maxResults", searchResultSize)
	params.Set("q", query)
	params.Set("key", y.apiKey)

	apiURL := fmt.Sprintf("%s/search?%s", y.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error.Message != "" {
			return nil, fmt.Errorf("youtube API error (status %d): %s", resp.StatusCode, errResp.Error.Message)
		}
		return nil, fmt.Errorf("youtube API error: status %d", resp.StatusCode)
	}

	var searchResp struct {
		Items []YouTubeSearchResult `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	songs := make([]models.Song, 0, len(searchResp.Items))
	for _, item := range searchResp.Items {
		if item.ID.VideoID == "" {
			continue
		}

		thumbnail := item.Snippet.Thumbnails.Medium.URL
		if thumbnail == "" {
			thumbnail = item.Snippet.Thumbnails.Default.URL
		}

		songs = append(songs, models.Song{
			ID:        item.ID.VideoID,
			Title:     item.Snippet.Title,
			Artist:    item.Snippet.ChannelTitle,
			Thumbnail: thumbnail,
			URL:       fmt.Sprintf(watchURLTemplate, item.ID.VideoID),
		})
	}

	return songs, nil
}

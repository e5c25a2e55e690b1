// Generative language API [Recommender] implementation
//
// Request/response shapes based on https://ai.google.dev/api/generate-content
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/mixtape/internal/models"
	"github.com/desertthunder/mixtape/internal/shared"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel   = "gemini-pro"

	recommendationPrompt = `As a music recommendation expert, suggest 5 songs based on these preferences: %s.
Format the response as a JSON array with objects containing title and artist.
Keep it focused on popular and well-known songs that are likely to be found on YouTube.`
)

// GeminiService implements [Recommender] against the generative language API.
type GeminiService struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGeminiService creates a recommendation gateway with the given API key and model.
func NewGeminiService(apiKey, model, baseURL string, client *http.Client) *GeminiService {
	if model == "" {
		model = defaultGeminiModel
	}
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &GeminiService{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: client,
	}
}

// Name returns the provider name.
func (g *GeminiService) Name() string {
	return "Gemini"
}

// Recommend sends a single text-generation request embedding the query and the
// requested output shape, then parses the model's text as a JSON array of
// title/artist pairs. Text that does not parse as JSON yields an empty slice:
// the model's formatting is out of our hands and not worth an error.
func (g *GeminiService) Recommend(ctx context.Context, query string) ([]models.Recommendation, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("%w: gemini api_key not configured", shared.ErrMissingCredentials)
	}

	reqBody := struct {
		Contents []struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
	}{}
	reqBody.Contents = append(reqBody.Contents, struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	}{
		Parts: []struct {
			Text string `json:"text"`
		}{{Text: fmt.Sprintf(recommendationPrompt, query)}},
	})

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
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
			return nil, fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, errResp.Error.Message)
		}
		return nil, fmt.Errorf("gemini API error: status %d", resp.StatusCode)
	}

	var genResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return []models.Recommendation{}, nil
	}

	text := stripCodeFence(genResp.Candidates[0].Content.Parts[0].Text)

	var recs []models.Recommendation
	if err := json.Unmarshal([]byte(text), &recs); err != nil {
		return []models.Recommendation{}, nil
	}

	return recs, nil
}

// stripCodeFence removes a surrounding markdown code fence the model sometimes
// wraps its JSON in.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

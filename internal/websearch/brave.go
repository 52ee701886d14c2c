package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/ridhiratan/macos-tahoe-rag/internal/models"
)

// BraveSearcher queries the Brave Search API. Requests are rate limited
// client-side to stay inside the provider's quota.
type BraveSearcher struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

// BraveConfig configures the Brave Search client.
type BraveConfig struct {
	BaseURL           string
	APIKeyEnv         string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// NewBraveSearcher creates a Brave Search client. The API key is read from
// the environment variable named by cfg.APIKeyEnv.
func NewBraveSearcher(cfg BraveConfig) (*BraveSearcher, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 1
	}
	return &BraveSearcher{
		baseURL: cfg.BaseURL,
		apiKey:  key,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}, nil
}

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// Search returns up to maxResults normalized web results for query.
func (b *BraveSearcher) Search(ctx context.Context, query string, maxResults int) ([]models.WebResult, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/res/v1/web/search?q=%s&count=%s",
		b.baseURL, url.QueryEscape(query), strconv.Itoa(maxResults))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("web search request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("web search returned %s", resp.Status)
	}

	var parsed braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode web search response: %w", err)
	}

	results := make([]models.WebResult, 0, len(parsed.Web.Results))
	for _, r := range parsed.Web.Results {
		if r.URL == "" {
			continue
		}
		results = append(results, models.WebResult{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Description,
		})
		if len(results) >= maxResults {
			break
		}
	}
	return results, nil
}

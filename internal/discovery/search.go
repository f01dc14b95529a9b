package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// HTTPSearcher queries a JSON search API for result URLs. The endpoint is
// expected to accept ?q= and return {"results": [{"url": "..."}]}, the shape
// offered by self-hosted metasearch instances.
type HTTPSearcher struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

type searchResult struct {
	URL string `json:"url"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

// NewHTTPSearcher creates a searcher against the given endpoint. apiKey may
// be empty for unauthenticated endpoints.
func NewHTTPSearcher(baseURL, apiKey string, client *http.Client) *HTTPSearcher {
	return &HTTPSearcher{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  client,
	}
}

// Search performs one query and returns the result URLs in rank order.
func (s *HTTPSearcher) Search(ctx context.Context, query string) ([]string, error) {
	endpoint := fmt.Sprintf("%s?q=%s&format=json", s.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request: unexpected status %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("search response: %w", err)
	}

	urls := make([]string, 0, len(sr.Results))
	for _, r := range sr.Results {
		if r.URL != "" {
			urls = append(urls, r.URL)
		}
	}
	return urls, nil
}

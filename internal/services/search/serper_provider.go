// File: internal/services/search/serper_provider.go
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// SerperProvider talks to the serper.dev search API (or any compatible
// endpoint configured via BaseURL).
type SerperProvider struct {
	config     *Config
	httpClient *http.Client
}

func NewSerperProvider(config *Config) (*SerperProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, &SearchError{Type: ErrTypeConfig, Operation: "config", Message: err.Error()}
	}

	return &SerperProvider{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}, nil
}

type serperRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num"`
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
		Date    string `json:"date"`
	} `json:"organic"`
}

// Search runs one query and returns the organic results in provider order.
func (p *SerperProvider) Search(ctx context.Context, query string, resultCount int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, NewValidationError("search", "query cannot be empty")
	}
	if resultCount <= 0 {
		resultCount = p.config.DefaultResultCount
	}
	if resultCount > p.config.MaxResultCount {
		resultCount = p.config.MaxResultCount
	}

	body, err := json.Marshal(serperRequest{Query: query, Num: resultCount})
	if err != nil {
		return nil, NewValidationError("search", "failed to encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, NewNetworkError("search", "failed to build request", err)
	}
	req.Header.Set("X-API-KEY", p.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, NewNetworkError("search", "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, NewUpstreamError("search",
			fmt.Sprintf("unexpected status %d from search provider", resp.StatusCode), nil)
	}

	var parsed serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, NewUpstreamError("search", "failed to decode response", err)
	}

	results := make([]Result, 0, len(parsed.Organic))
	for _, item := range parsed.Organic {
		results = append(results, Result{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
			Date:    item.Date,
		})
	}

	return results, nil
}

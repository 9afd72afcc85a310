// File: internal/services/search/serper_provider_test.go
package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *SerperProvider {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = server.URL

	provider, err := NewSerperProvider(cfg)
	require.NoError(t, err)
	return provider
}

func TestSearchReturnsRankedResults(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-KEY"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "weather paris", req["q"])
		assert.Equal(t, float64(3), req["num"])

		_, _ = w.Write([]byte(`{"organic":[
			{"title":"Paris Weather","link":"https://weather.example/paris","snippet":"Sunny, 24C","date":"Aug 28, 2026"},
			{"title":"Meteo France","link":"https://meteo.example","snippet":"Forecast"}
		]}`))
	})

	results, err := provider.Search(context.Background(), "weather paris", 3)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Provider ranking is preserved as-is.
	assert.Equal(t, "Paris Weather", results[0].Title)
	assert.Equal(t, "https://weather.example/paris", results[0].Link)
	assert.Equal(t, "Aug 28, 2026", results[0].Date)
	assert.Equal(t, "Meteo France", results[1].Title)
}

func TestSearchClampsResultCount(t *testing.T) {
	maxCount := DefaultConfig().MaxResultCount
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float64(maxCount), req["num"])
		_, _ = w.Write([]byte(`{"organic":[]}`))
	})

	_, err := provider.Search(context.Background(), "q", 1000)
	require.NoError(t, err)
}

func TestSearchUpstreamFailure(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := provider.Search(context.Background(), "q", 3)
	require.Error(t, err)

	var searchErr *SearchError
	require.True(t, errors.As(err, &searchErr))
	assert.Equal(t, ErrTypeUpstream, searchErr.Type)
}

func TestSearchEmptyQuery(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty query")
	})

	_, err := provider.Search(context.Background(), "   ", 3)
	require.Error(t, err)

	var searchErr *SearchError
	require.True(t, errors.As(err, &searchErr))
	assert.Equal(t, ErrTypeValidation, searchErr.Type)
}

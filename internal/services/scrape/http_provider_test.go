// File: internal/services/scrape/http_provider_test.go
package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.PerURLTimeout = 200 * time.Millisecond
	return cfg
}

func TestScrapeManyPartialFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte(`<html><head><script>ignored()</script></head><body><p>Paris is sunny.</p></body></html>`))
		case "/slow":
			time.Sleep(time.Second)
			_, _ = w.Write([]byte(`<html><body>too late</body></html>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	provider, err := NewHTTPProvider(testConfig())
	require.NoError(t, err)

	okURL := server.URL + "/ok"
	slowURL := server.URL + "/slow"
	missingURL := server.URL + "/missing"

	result, err := provider.ScrapeMany(context.Background(), []string{okURL, slowURL, missingURL})
	require.NoError(t, err)

	// One outcome per URL, overall failure, partial success kept.
	require.Len(t, result.Pages, 3)
	assert.False(t, result.Success)

	ok := result.Pages[okURL]
	assert.True(t, ok.Success)
	assert.Contains(t, ok.Data, "Paris is sunny.")
	assert.NotContains(t, ok.Data, "ignored", "script content must be stripped")

	slow := result.Pages[slowURL]
	assert.False(t, slow.Success)
	assert.Equal(t, ErrKindTimeout, slow.ErrorKind)

	missing := result.Pages[missingURL]
	assert.False(t, missing.Success)
	assert.Equal(t, ErrKindStatus, missing.ErrorKind)
}

func TestScrapeManyAllSucceed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>fine</body></html>`))
	}))
	defer server.Close()

	provider, err := NewHTTPProvider(testConfig())
	require.NoError(t, err)

	result, err := provider.ScrapeMany(context.Background(), []string{server.URL + "/a", server.URL + "/b"})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Len(t, result.Pages, 2)
}

func TestScrapeManyNetworkFailure(t *testing.T) {
	provider, err := NewHTTPProvider(testConfig())
	require.NoError(t, err)

	// Nothing listens here.
	url := "http://127.0.0.1:1/nope"
	result, err := provider.ScrapeMany(context.Background(), []string{url})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, ErrKindNetwork, result.Pages[url].ErrorKind)
}

func TestScrapeManyValidation(t *testing.T) {
	provider, err := NewHTTPProvider(testConfig())
	require.NoError(t, err)

	_, err = provider.ScrapeMany(context.Background(), nil)
	assert.Error(t, err)

	urls := make([]string, provider.config.MaxURLs+1)
	for i := range urls {
		urls[i] = "http://example.com/" + string(rune('a'+i))
	}
	_, err = provider.ScrapeMany(context.Background(), urls)
	assert.Error(t, err)
}

func TestScrapeManyDeduplicatesURLs(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(`<html><body>once</body></html>`))
	}))
	defer server.Close()

	provider, err := NewHTTPProvider(testConfig())
	require.NoError(t, err)

	result, err := provider.ScrapeMany(context.Background(), []string{server.URL, server.URL, " " + server.URL})
	require.NoError(t, err)
	assert.Len(t, result.Pages, 1)
	assert.Equal(t, 1, hits)
}

func TestScrapeManyTruncatesOnRuneBoundary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>` + strings.Repeat("é", 100) + `</body></html>`))
	}))
	defer server.Close()

	cfg := testConfig()
	// An odd byte budget lands mid-rune for two-byte characters.
	cfg.MaxTextBytes = 11

	provider, err := NewHTTPProvider(cfg)
	require.NoError(t, err)

	result, err := provider.ScrapeMany(context.Background(), []string{server.URL})
	require.NoError(t, err)

	page := result.Pages[server.URL]
	require.True(t, page.Success)
	assert.LessOrEqual(t, len(page.Data), cfg.MaxTextBytes)
	assert.True(t, utf8.ValidString(page.Data), "truncation must not split a rune")
	assert.NotEmpty(t, page.Data)
}

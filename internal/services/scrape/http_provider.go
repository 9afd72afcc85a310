// File: internal/services/scrape/http_provider.go
package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

// HTTPProvider fetches pages directly over HTTP and reduces their HTML to
// plain text.
type HTTPProvider struct {
	config     *Config
	httpClient *http.Client
}

func NewHTTPProvider(config *Config) (*HTTPProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &HTTPProvider{
		config: config,
		// Per-URL deadlines come from the request context, not the client.
		httpClient: &http.Client{},
	}, nil
}

// ScrapeMany fetches all URLs in parallel. Every URL gets exactly one
// outcome; a single failure flips the overall Success flag but never
// suppresses the pages that did succeed.
func (p *HTTPProvider) ScrapeMany(ctx context.Context, urls []string) (*Result, error) {
	urls = dedupe(urls)
	if len(urls) == 0 {
		return nil, errors.New("no URLs to scrape")
	}
	if len(urls) > p.config.MaxURLs {
		return nil, fmt.Errorf("too many URLs: %d exceeds limit of %d", len(urls), p.config.MaxURLs)
	}

	result := &Result{Success: true, Pages: make(map[string]PageResult, len(urls))}
	var mu sync.Mutex

	parent := ctx
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.config.MaxConcurrency)

	for _, url := range urls {
		url := url
		g.Go(func() error {
			page := p.fetchOne(ctx, url)
			mu.Lock()
			result.Pages[url] = page
			if !page.Success {
				result.Success = false
			}
			mu.Unlock()
			return nil
		})
	}

	// Worker errors are recorded per page; only context cancellation can
	// surface here.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := parent.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (p *HTTPProvider) fetchOne(ctx context.Context, url string) PageResult {
	fetchCtx, cancel := context.WithTimeout(ctx, p.config.PerURLTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, url, nil)
	if err != nil {
		return PageResult{Error: "invalid URL: " + err.Error(), ErrorKind: ErrKindNetwork}
	}
	req.Header.Set("User-Agent", p.config.UserAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return PageResult{Error: err.Error(), ErrorKind: classify(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return PageResult{
			Error:     fmt.Sprintf("unexpected status %d", resp.StatusCode),
			ErrorKind: ErrKindStatus,
		}
	}

	text, err := extractText(io.LimitReader(resp.Body, int64(p.config.MaxTextBytes)*4))
	if err != nil {
		if fetchCtx.Err() != nil {
			return PageResult{Error: "timeout", ErrorKind: ErrKindTimeout}
		}
		return PageResult{Error: "failed to parse page: " + err.Error(), ErrorKind: ErrKindParse}
	}

	if len(text) > p.config.MaxTextBytes {
		cut := p.config.MaxTextBytes
		// Back up to a rune boundary so the cut never leaves invalid UTF-8.
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return PageResult{Success: true, Data: text}
}

// classify tells a deadline expiry apart from other transport failures.
func classify(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrKindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrKindTimeout
	}
	return ErrKindNetwork
}

// extractText walks the HTML tree and collects visible text, skipping
// script and style subtrees.
func extractText(r io.Reader) (string, error) {
	root, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "head":
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if b.Len() > 0 {
					b.WriteByte('\n')
				}
				b.WriteString(text)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)

	return b.String(), nil
}

func dedupe(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	for _, url := range urls {
		url = strings.TrimSpace(url)
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		out = append(out, url)
	}
	return out
}

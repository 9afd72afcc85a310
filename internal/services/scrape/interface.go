// File: internal/services/scrape/interface.go
package scrape

import "context"

// PageResult is the outcome for one URL: extracted text on success, an
// error description and kind on failure.
type PageResult struct {
	Success   bool      `json:"success"`
	Data      string    `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
	ErrorKind ErrorKind `json:"errorKind,omitempty"`
}

// Result always carries one entry per requested URL. Success is false iff
// at least one page failed; partial failure never discards partial success.
type Result struct {
	Success bool                  `json:"success"`
	Pages   map[string]PageResult `json:"pages"`
}

// Provider fetches a set of URLs concurrently and extracts their text.
type Provider interface {
	ScrapeMany(ctx context.Context, urls []string) (*Result, error)
}

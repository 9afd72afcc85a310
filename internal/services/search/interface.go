// File: internal/services/search/interface.go
package search

import "context"

// Result is one ranked organic hit from the upstream search API.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Date    string `json:"date,omitempty"`
}

// Provider issues a query against an external search API. Ordering is the
// provider's own ranking; retries, if any, are the caller's concern.
type Provider interface {
	Search(ctx context.Context, query string, resultCount int) ([]Result, error)
}

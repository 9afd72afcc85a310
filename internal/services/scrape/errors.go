// File: internal/services/scrape/errors.go
package scrape

// ErrorKind distinguishes why a single page fetch failed. A timed-out
// fetch must be tellable apart from an outright network failure.
type ErrorKind string

const (
	ErrKindTimeout ErrorKind = "timeout"
	ErrKindNetwork ErrorKind = "network"
	ErrKindStatus  ErrorKind = "status"
	ErrKindParse   ErrorKind = "parse"
)

// File: internal/services/chat/tools.go
package chat

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mkarimi-dev/go-askweb/internal/services/scrape"
	"github.com/mkarimi-dev/go-askweb/internal/services/search"
)

// Tool names exposed to the model.
const (
	ToolSearchWeb   = "searchWeb"
	ToolScrapePages = "scrapePages"
)

type searchWebArgs struct {
	Query       string `json:"query"`
	ResultCount int    `json:"resultCount,omitempty"`
}

type scrapePagesArgs struct {
	URLs []string `json:"urls"`
}

// ToolDefinitions describes the fixed tool set offered on every model
// invocation.
func ToolDefinitions() []openai.Tool {
	return []openai.Tool{
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        ToolSearchWeb,
				Description: "Search the web for current information. Returns ranked results with title, link, snippet and publication date.",
				Parameters: json.RawMessage(`{
					"type": "object",
					"properties": {
						"query": {"type": "string", "description": "The search query"},
						"resultCount": {"type": "integer", "description": "How many results to return"}
					},
					"required": ["query"]
				}`),
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        ToolScrapePages,
				Description: "Fetch one or more web pages and return their text content. Use after searchWeb when snippets are not enough.",
				Parameters: json.RawMessage(`{
					"type": "object",
					"properties": {
						"urls": {"type": "array", "items": {"type": "string"}, "description": "The URLs to fetch"}
					},
					"required": ["urls"]
				}`),
			},
		},
	}
}

// ToolExecutor dispatches model-requested tool calls to the search and
// scrape provider clients.
type ToolExecutor struct {
	config *Config
	search search.Provider
	scrape scrape.Provider
	logger Logger
}

func NewToolExecutor(config *Config, searchProvider search.Provider, scrapeProvider scrape.Provider, logger Logger) *ToolExecutor {
	return &ToolExecutor{
		config: config,
		search: searchProvider,
		scrape: scrapeProvider,
		logger: logger,
	}
}

// Execute runs one tool call and returns its JSON result payload. Errors
// are returned to the orchestrator, which feeds them back to the model as
// structured payloads rather than aborting the loop.
func (e *ToolExecutor) Execute(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error) {
	switch name {
	case ToolSearchWeb:
		return e.executeSearch(ctx, args)
	case ToolScrapePages:
		return e.executeScrape(ctx, args)
	default:
		return nil, fmt.Errorf("unknown tool %q", name)
	}
}

func (e *ToolExecutor) executeSearch(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
	var parsed searchWebArgs
	if err := json.Unmarshal(args, &parsed); err != nil {
		return nil, fmt.Errorf("invalid searchWeb arguments: %w", err)
	}
	if parsed.ResultCount <= 0 {
		parsed.ResultCount = e.config.SearchResultCount
	}

	results, err := e.search.Search(ctx, parsed.Query, parsed.ResultCount)
	if err != nil {
		return nil, err
	}

	e.logger.Info("search tool executed", "query", parsed.Query, "results", len(results))

	payload, err := json.Marshal(map[string]interface{}{"results": results})
	if err != nil {
		return nil, fmt.Errorf("encode search results: %w", err)
	}
	return payload, nil
}

func (e *ToolExecutor) executeScrape(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
	var parsed scrapePagesArgs
	if err := json.Unmarshal(args, &parsed); err != nil {
		return nil, fmt.Errorf("invalid scrapePages arguments: %w", err)
	}
	if len(parsed.URLs) == 0 {
		return nil, fmt.Errorf("scrapePages requires at least one URL")
	}

	result, err := e.scrape.ScrapeMany(ctx, parsed.URLs)
	if err != nil {
		return nil, err
	}

	e.logger.Info("scrape tool executed", "urls", len(parsed.URLs), "success", result.Success)

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode scrape results: %w", err)
	}
	return payload, nil
}

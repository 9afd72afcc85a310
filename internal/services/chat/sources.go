// File: internal/services/chat/sources.go
package chat

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// SourceExtractor pulls citation links out of the assistant's final
// markdown reply.
type SourceExtractor struct {
	config *Config
	logger Logger
}

func NewSourceExtractor(config *Config, logger Logger) *SourceExtractor {
	return &SourceExtractor{
		config: config,
		logger: logger,
	}
}

// ExtractSources returns the unique link destinations from a markdown
// document, in order of first appearance, capped at MaxSources.
func (s *SourceExtractor) ExtractSources(markdown string) []string {
	if markdown == "" {
		return nil
	}

	source := []byte(markdown)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var sources []string
	seen := make(map[string]bool)

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		var dest string
		switch node := n.(type) {
		case *ast.Link:
			dest = string(node.Destination)
		case *ast.AutoLink:
			dest = string(node.URL(source))
		default:
			return ast.WalkContinue, nil
		}

		if dest != "" && !seen[dest] {
			sources = append(sources, dest)
			seen[dest] = true
			if len(sources) >= s.config.MaxSources {
				return ast.WalkStop, nil
			}
		}
		return ast.WalkContinue, nil
	})

	s.logger.Info("sources extracted", "unique_sources", len(sources))
	return sources
}

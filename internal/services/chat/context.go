// File: internal/services/chat/context.go
package chat

import (
	"strings"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mkarimi-dev/go-askweb/internal/domain"
)

const systemPrompt = `You are a helpful assistant with access to live web search and page scraping tools.
Use searchWeb when the question needs current or external information, and scrapePages when a result's snippet is not enough.
Cite your sources as markdown links in the final answer.
Answer in concise, well-structured Markdown.`

// buildModelMessages converts the persisted conversation into the model's
// wire format. Tool invocation parts from earlier turns are not replayed;
// the flat text of each message is what carries forward.
func buildModelMessages(messages []domain.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	out = append(out, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})

	for i := range messages {
		msg := &messages[i]
		text := msg.TextContent()
		if text == "" {
			continue
		}

		role := openai.ChatMessageRoleUser
		switch msg.Role {
		case domain.RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		case domain.RoleSystem:
			role = openai.ChatMessageRoleSystem
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: text})
	}

	return out
}

// deriveTitle builds a chat title from the first user message, truncated
// rune-safely.
func deriveTitle(messages []domain.Message, maxRunes int) string {
	for i := range messages {
		if messages[i].Role != domain.RoleUser {
			continue
		}
		title := strings.Join(strings.Fields(messages[i].TextContent()), " ")
		if title == "" {
			break
		}
		if utf8.RuneCountInString(title) > maxRunes {
			runes := []rune(title)
			title = string(runes[:maxRunes])
		}
		return title
	}
	return "New Chat"
}

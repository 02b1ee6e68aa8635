package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aktagon/llmkit/anthropic/agents"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

const maxContentChars = 40000

const summarizerSystemPrompt = `You are an AI news digest assistant. Your role is to create concise, informative summaries of AI-related content.

Your task:
- Read the provided content (article, blog post, or video transcript)
- Create a 2-3 sentence summary that captures the key points
- Focus on what's new, important, or actionable
- Use clear, professional language
- Do not include any preamble like "This article discusses..." - just give the summary directly

The summary should help a busy reader quickly understand what the content is about and whether they should read/watch the full version.`

const summarySchema = `{
  "name": "digest_summary",
  "description": "Structured summary of one content item",
  "strict": true,
  "schema": {
    "type": "object",
    "properties": {
      "summary": {
        "type": "string",
        "description": "A concise 2-3 sentence summary of the content that captures key points"
      },
      "key_topics": {
        "type": "array",
        "items": {"type": "string"},
        "description": "List of 2-4 key topics or themes covered in the content"
      },
      "content_type": {
        "type": "string",
        "description": "Type of content: 'announcement', 'tutorial', 'research', 'news', 'opinion', or 'other'"
      }
    },
    "required": ["summary", "key_topics", "content_type"],
    "additionalProperties": false
  }
}`

// Summarizer generates structured summaries via the Anthropic API.
type Summarizer struct {
	agent    *agents.ChatAgent
	settings Settings
	logger   *slog.Logger
}

// NewSummarizer constructs the summarization adapter.
func NewSummarizer(apiKey string, settings Settings, logger *slog.Logger) (*Summarizer, error) {
	agent, err := newAgent(apiKey)
	if err != nil {
		return nil, err
	}
	return &Summarizer{
		agent:    agent,
		settings: settings,
		logger:   logger.With("component", "summarizer"),
	}, nil
}

// Summarize produces a structured summary for one item.
func (s *Summarizer) Summarize(ctx context.Context, req ports.SummaryRequest) (domain.Summary, error) {
	if err := ctx.Err(); err != nil {
		return domain.Summary{}, err
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "article"
	}

	prompt := fmt.Sprintf("Please summarize this %s", contentType)
	if req.Title != "" {
		prompt += fmt.Sprintf(" titled %q", req.Title)
	}
	prompt += ":\n\n" + truncate(req.Content, maxContentChars)

	response, err := s.agent.Chat(prompt, &agents.ChatOptions{
		SystemPrompt: summarizerSystemPrompt,
		Schema:       summarySchema,
		MaxTokens:    s.settings.MaxTokens,
		Temperature:  s.settings.Temperature,
	})
	if err != nil {
		return domain.Summary{}, fmt.Errorf("summarizer chat: %w", err)
	}

	var parsed struct {
		Summary     string   `json:"summary"`
		KeyTopics   []string `json:"key_topics"`
		ContentType string   `json:"content_type"`
	}
	if err := json.Unmarshal([]byte(response.Text), &parsed); err != nil {
		return domain.Summary{}, fmt.Errorf("parse summary response: %w", err)
	}

	s.logger.Debug("summary generated", "title", req.Title)

	return domain.Summary{
		Text:     parsed.Summary,
		Topics:   parsed.KeyTopics,
		Category: parsed.ContentType,
	}, nil
}

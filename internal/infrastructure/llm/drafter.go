package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aktagon/llmkit/anthropic/agents"

	"NewsDigest/internal/domain"
)

const drafterSystemPrompt = `You are an email-writing assistant for an AI news digest.

Goal:
- Produce a friendly, concise email draft using the provided user profile and top-ranked items.

Rules:
- Start with a short greeting using the user's display name.
- Include a 1-2 sentence intro summary of the digest theme.
- List the top items with title, short reason, and URL.
- Keep the tone professional and helpful.
- Do not invent facts or URLs.`

const emailSchema = `{
  "name": "email_draft",
  "description": "Structured digest email draft",
  "strict": true,
  "schema": {
    "type": "object",
    "properties": {
      "subject": {"type": "string", "description": "Email subject line"},
      "greeting": {"type": "string", "description": "Greeting line, e.g. 'Hey Dave,'"},
      "intro": {"type": "string", "description": "1-2 sentence intro summary"},
      "items": {
        "type": "array",
        "description": "Top ranked items",
        "items": {
          "type": "object",
          "properties": {
            "rank": {"type": "integer", "description": "Rank position (1 is best)"},
            "title": {"type": "string", "description": "Item title"},
            "url": {"type": "string", "description": "Item URL"},
            "summary": {"type": "string", "description": "Short summary"},
            "score": {"type": "integer", "description": "Relevance score (0-100)"},
            "reason": {"type": "string", "description": "Short reason for inclusion"}
          },
          "required": ["rank", "title", "url", "summary", "score", "reason"],
          "additionalProperties": false
        }
      },
      "closing": {"type": "string", "description": "Short closing line"}
    },
    "required": ["subject", "greeting", "intro", "items", "closing"],
    "additionalProperties": false
  }
}`

// Drafter composes the digest email via the Anthropic API.
type Drafter struct {
	agent    *agents.ChatAgent
	settings Settings
	logger   *slog.Logger
}

// NewDrafter constructs the email-drafting adapter.
func NewDrafter(apiKey string, settings Settings, logger *slog.Logger) (*Drafter, error) {
	agent, err := newAgent(apiKey)
	if err != nil {
		return nil, err
	}
	return &Drafter{
		agent:    agent,
		settings: settings,
		logger:   logger.With("component", "drafter"),
	}, nil
}

// Draft generates the structured email for the top-ranked items.
func (d *Drafter) Draft(ctx context.Context, profile domain.ProfileSpec, items []domain.EmailItem, dateLabel string) (domain.EmailDraft, error) {
	if err := ctx.Err(); err != nil {
		return domain.EmailDraft{}, err
	}

	payload, err := json.Marshal(map[string]any{
		"date":         dateLabel,
		"user_profile": profile,
		"ranked_items": items,
	})
	if err != nil {
		return domain.EmailDraft{}, fmt.Errorf("marshal email payload: %w", err)
	}

	response, err := d.agent.Chat(string(payload), &agents.ChatOptions{
		SystemPrompt: drafterSystemPrompt,
		Schema:       emailSchema,
		MaxTokens:    d.settings.MaxTokens,
		Temperature:  d.settings.Temperature,
	})
	if err != nil {
		return domain.EmailDraft{}, fmt.Errorf("drafter chat: %w", err)
	}

	var draft domain.EmailDraft
	if err := json.Unmarshal([]byte(response.Text), &draft); err != nil {
		return domain.EmailDraft{}, fmt.Errorf("parse email response: %w", err)
	}

	d.logger.Debug("email drafted", "items", len(draft.Items))
	return draft, nil
}

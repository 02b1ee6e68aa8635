package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aktagon/llmkit/anthropic/agents"

	"NewsDigest/internal/domain"
)

const rankerSystemPrompt = `You are a news ranking assistant.

Goal:
- Rank the provided digest items from most relevant to least relevant for the given user profile.

Ranking rules:
- Use ONLY the provided item data (title, summary, key topics, content category, source).
- Prioritize alignment with the user's interests and preferred content types.
- De-prioritize items that match the user's avoid topics.
- Provide a 0-100 relevance score per item.
- Provide a brief, concrete reason for each score.
- Return every item exactly once, sorted from highest to lowest relevance.`

const rankingSchema = `{
  "name": "ranking_result",
  "description": "Digest items ranked for one user profile",
  "strict": true,
  "schema": {
    "type": "object",
    "properties": {
      "ranked_items": {
        "type": "array",
        "description": "Digest items ranked from most to least relevant",
        "items": {
          "type": "object",
          "properties": {
            "digest_id": {"type": "integer", "description": "ID of the digest item"},
            "score": {"type": "integer", "description": "Relevance score (0-100)"},
            "reason": {"type": "string", "description": "Short explanation of the score"}
          },
          "required": ["digest_id", "score", "reason"],
          "additionalProperties": false
        }
      }
    },
    "required": ["ranked_items"],
    "additionalProperties": false
  }
}`

// Ranker orders digest items against a user profile via the Anthropic API.
type Ranker struct {
	agent    *agents.ChatAgent
	settings Settings
	logger   *slog.Logger
}

// NewRanker constructs the ranking adapter.
func NewRanker(apiKey string, settings Settings, logger *slog.Logger) (*Ranker, error) {
	agent, err := newAgent(apiKey)
	if err != nil {
		return nil, err
	}
	return &Ranker{
		agent:    agent,
		settings: settings,
		logger:   logger.With("component", "ranker"),
	}, nil
}

// RankItems scores and orders the full digest set in one call.
func (r *Ranker) RankItems(ctx context.Context, profile domain.ProfileSpec, items []domain.DigestPayload) ([]domain.RankedItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]any{
		"user_profile": profile,
		"digest_items": items,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal ranking payload: %w", err)
	}

	response, err := r.agent.Chat(string(payload), &agents.ChatOptions{
		SystemPrompt: rankerSystemPrompt,
		Schema:       rankingSchema,
		MaxTokens:    r.settings.MaxTokens,
		Temperature:  r.settings.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("ranker chat: %w", err)
	}

	var parsed struct {
		RankedItems []domain.RankedItem `json:"ranked_items"`
	}
	if err := json.Unmarshal([]byte(response.Text), &parsed); err != nil {
		return nil, fmt.Errorf("parse ranking response: %w", err)
	}

	r.logger.Debug("items ranked", "count", len(parsed.RankedItems))
	return parsed.RankedItems, nil
}

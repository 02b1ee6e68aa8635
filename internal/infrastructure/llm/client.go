// Package llm adapts the Anthropic chat agents to the summarization,
// ranking and email-drafting ports.
package llm

import (
	"fmt"

	"github.com/aktagon/llmkit/anthropic/agents"
)

// Settings tunes one agent's calls.
type Settings struct {
	MaxTokens   int
	Temperature float64
}

func newAgent(apiKey string) (*agents.ChatAgent, error) {
	agent, err := agents.New(apiKey)
	if err != nil {
		return nil, fmt.Errorf("create chat agent: %w", err)
	}
	return agent, nil
}

// truncate caps content length so one oversized item cannot blow the prompt.
func truncate(content string, maxChars int) string {
	if len(content) <= maxChars {
		return content
	}
	return content[:maxChars] + "\n\n[Content truncated...]"
}

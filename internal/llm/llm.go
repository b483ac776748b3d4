// Package llm generates assistant replies through a chat-completions API.
package llm

import (
	"context"
	"fmt"
	"strings"
)

// Message is one entry of a chat transcript; messages[0] is the system role.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Client produces a completion for an ordered message list.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Config controls client construction.
type Config struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
}

// New selects a client implementation by provider mode. A nil client with a
// nil error means generation is intentionally unavailable; callers degrade to
// a fixed reply instead of calling out.
func New(cfg Config) (Client, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if mode == "" {
		mode = "auto"
	}

	switch mode {
	case "auto":
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, nil
		}
		return NewOpenAIClient(cfg), nil
	case "openai":
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, fmt.Errorf("LLM_PROVIDER=openai but OPENAI_API_KEY is not set")
		}
		return NewOpenAIClient(cfg), nil
	case "mock":
		return NewMockClient(), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q (expected auto|openai|mock|none)", cfg.Provider)
	}
}

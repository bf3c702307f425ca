package llm

import (
	"fmt"
	"os"
)

// ProviderType selects the chat-completion backend
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderGroq   ProviderType = "groq"
)

// ProviderConfig holds the settings needed to create a provider
type ProviderConfig struct {
	Type ProviderType

	OpenAIKey string
	GroqKey   string

	Model       string
	Temperature float32
	MaxTokens   int
}

// NewProvider is the factory for chat-completion providers
func NewProvider(cfg *ProviderConfig) (Provider, error) {
	switch cfg.Type {
	case ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required")
		}
		return NewOpenAIProvider(cfg.OpenAIKey, cfg.Model, cfg.Temperature, cfg.MaxTokens), nil

	case ProviderGroq:
		if cfg.GroqKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY is required")
		}
		return NewGroqProvider(cfg.GroqKey, cfg.Model, cfg.Temperature, cfg.MaxTokens), nil

	default:
		return nil, fmt.Errorf("unknown LLM provider type: %s", cfg.Type)
	}
}

// LoadProviderFromEnv loads provider config from environment variables
func LoadProviderFromEnv() (*ProviderConfig, error) {
	providerType := os.Getenv("LLM_PROVIDER")
	if providerType == "" {
		providerType = "openai"
	}

	cfg := &ProviderConfig{
		Type:      ProviderType(providerType),
		OpenAIKey: os.Getenv("OPENAI_API_KEY"),
		GroqKey:   os.Getenv("GROQ_API_KEY"),
	}

	if model := os.Getenv("LLM_MODEL"); model != "" {
		cfg.Model = model
	} else {
		switch cfg.Type {
		case ProviderOpenAI:
			cfg.Model = "gpt-4o-mini"
		case ProviderGroq:
			cfg.Model = "llama-3.1-8b-instant"
		}
	}

	// Extraction wants near-deterministic completions
	cfg.Temperature = 0.1
	cfg.MaxTokens = 1024

	return cfg, nil
}

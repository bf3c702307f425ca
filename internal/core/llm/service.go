package llm

import (
	"context"
	"log"
)

// Provider interface for chat-completion backends
type Provider interface {
	GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error)
	GetProviderName() string
}

// Service wraps an LLM provider for dependency injection
type Service struct {
	provider Provider
}

// NewService creates an LLM service with provider settings from the environment
func NewService() *Service {
	cfg, err := LoadProviderFromEnv()
	if err != nil {
		log.Fatalf("❌ Failed to load LLM config: %v", err)
	}

	provider, err := NewProvider(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to create LLM provider: %v", err)
	}

	log.Printf("🤖 Using LLM provider: %s (model: %s)", provider.GetProviderName(), cfg.Model)

	return &Service{provider: provider}
}

// NewServiceWithProvider creates a service with a custom provider (for testing)
func NewServiceWithProvider(provider Provider) *Service {
	return &Service{provider: provider}
}

// GenerateResponse generates a completion
func (s *Service) GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	return s.provider.GenerateResponse(ctx, systemPrompt, userMessage)
}

// GetProviderName returns the current provider name
func (s *Service) GetProviderName() string {
	return s.provider.GetProviderName()
}

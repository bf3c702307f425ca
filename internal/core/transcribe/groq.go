package transcribe

import (
	"bytes"
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

type GroqProvider struct {
	client *openai.Client
	model  string
}

func NewGroqProvider(apiKey string, model string) *GroqProvider {
	if model == "" {
		model = "whisper-large-v3"
	}

	// Groq uses OpenAI-compatible API with custom base URL
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = "https://api.groq.com/openai/v1"

	return &GroqProvider{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (p *GroqProvider) GetProviderName() string {
	return "Groq Whisper"
}

func (p *GroqProvider) Transcribe(ctx context.Context, audio []byte, filename, language string) (*Result, error) {
	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    p.model,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
		Language: language,
	})
	if err != nil {
		return nil, fmt.Errorf("groq transcription error: %w", err)
	}

	// Groq's transcription endpoint returns plain text only
	return &Result{Text: resp.Text, Confidence: 1.0}, nil
}

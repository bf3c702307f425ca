package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"math"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIProvider struct {
	client *openai.Client
	model  string
}

func NewOpenAIProvider(apiKey string, model string) *OpenAIProvider {
	if model == "" {
		model = openai.Whisper1
	}

	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (p *OpenAIProvider) GetProviderName() string {
	return "OpenAI Whisper"
}

func (p *OpenAIProvider) Transcribe(ctx context.Context, audio []byte, filename, language string) (*Result, error) {
	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    p.model,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
		Language: language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("openai transcription error: %w", err)
	}

	logprobs := make([]float64, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		logprobs = append(logprobs, seg.AvgLogprob)
	}

	return &Result{
		Text:       resp.Text,
		Confidence: logprobConfidence(logprobs),
	}, nil
}

// logprobConfidence maps Whisper's per-segment average logprobs onto a 0-1
// score. Whisper reports no direct confidence.
func logprobConfidence(avgLogprobs []float64) float64 {
	if len(avgLogprobs) == 0 {
		return 1.0
	}

	var sum float64
	for _, lp := range avgLogprobs {
		sum += lp
	}
	conf := math.Exp(sum / float64(len(avgLogprobs)))
	if conf > 1 {
		conf = 1
	}
	if conf < 0 {
		conf = 0
	}
	return conf
}

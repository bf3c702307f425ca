package transcribe

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Result contains the transcript and metadata
type Result struct {
	Text       string  `json:"text"`       // Best-effort transcript
	Confidence float64 `json:"confidence"` // Transcription confidence score (0-1)
}

// Provider interface for speech-to-text services
type Provider interface {
	// Transcribe converts an audio clip into text
	Transcribe(ctx context.Context, audio []byte, filename, language string) (*Result, error)

	// GetProviderName returns the provider name
	GetProviderName() string
}

// Error reports unusable audio (empty, oversize, unsupported container)
// or a provider failure.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transcription failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("transcription failed: %s", e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

var supportedExtensions = map[string]bool{
	".wav": true, ".mp3": true, ".m4a": true, ".mp4": true,
	".webm": true, ".ogg": true, ".oga": true, ".flac": true,
}

// Service wraps the transcription provider and validates input audio.
type Service struct {
	provider Provider
	maxBytes int64
	language string
}

// NewService creates a new transcription service with the given provider.
// maxBytes bounds the accepted clip size; 0 disables the check.
// defaultLanguage is the hint sent to the provider when the caller gives
// none.
func NewService(provider Provider, maxBytes int64, defaultLanguage string) *Service {
	return &Service{provider: provider, maxBytes: maxBytes, language: defaultLanguage}
}

// Transcribe validates the clip and delegates to the configured provider.
// Low-confidence transcripts are not rejected here; downstream stages must
// tolerate noisy text.
func (s *Service) Transcribe(ctx context.Context, audio []byte, filename, language string) (*Result, error) {
	if len(audio) == 0 {
		return nil, &Error{Reason: "empty audio"}
	}
	if s.maxBytes > 0 && int64(len(audio)) > s.maxBytes {
		return nil, &Error{Reason: fmt.Sprintf("audio exceeds maximum size of %d bytes", s.maxBytes)}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext != "" && !supportedExtensions[ext] {
		return nil, &Error{Reason: fmt.Sprintf("unsupported audio container %q", ext)}
	}

	if language == "" {
		language = s.language
	}

	result, err := s.provider.Transcribe(ctx, audio, filename, language)
	if err != nil {
		if _, ok := err.(*Error); ok {
			return nil, err
		}
		return nil, &Error{Reason: "provider error", Err: err}
	}
	return result, nil
}

// GetProviderName returns the name of the current provider
func (s *Service) GetProviderName() string {
	return s.provider.GetProviderName()
}

package transcribe

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubProvider struct {
	result      *Result
	err         error
	calls       int
	gotLanguage string
}

func (s *stubProvider) Transcribe(ctx context.Context, audio []byte, filename, language string) (*Result, error) {
	s.calls++
	s.gotLanguage = language
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubProvider) GetProviderName() string { return "stub" }

func TestServiceRejectsEmptyAudio(t *testing.T) {
	provider := &stubProvider{}
	svc := NewService(provider, 0, "en")

	_, err := svc.Transcribe(context.Background(), nil, "order.wav", "en")
	if err == nil {
		t.Fatal("Transcribe() error = nil, want empty audio rejection")
	}
	var terr *Error
	if !errors.As(err, &terr) {
		t.Fatalf("Transcribe() error type = %T, want *transcribe.Error", err)
	}
	if provider.calls != 0 {
		t.Error("provider called for empty audio")
	}
}

func TestServiceRejectsOversizeAudio(t *testing.T) {
	provider := &stubProvider{}
	svc := NewService(provider, 10, "en")

	_, err := svc.Transcribe(context.Background(), make([]byte, 11), "order.wav", "en")
	if err == nil {
		t.Fatal("Transcribe() error = nil, want oversize rejection")
	}
	if !strings.Contains(err.Error(), "maximum size") {
		t.Errorf("Transcribe() error = %v, want size message", err)
	}
	if provider.calls != 0 {
		t.Error("provider called for oversize audio")
	}
}

func TestServiceRejectsUnsupportedContainer(t *testing.T) {
	provider := &stubProvider{}
	svc := NewService(provider, 0, "en")

	_, err := svc.Transcribe(context.Background(), []byte("audio"), "notes.txt", "en")
	if err == nil {
		t.Fatal("Transcribe() error = nil, want unsupported container rejection")
	}
	if provider.calls != 0 {
		t.Error("provider called for unsupported container")
	}
}

func TestServiceDelegatesValidAudio(t *testing.T) {
	tests := []struct {
		name     string
		filename string
	}{
		{"wav", "order.wav"},
		{"mp3", "order.mp3"},
		{"m4a", "order.m4a"},
		{"ogg", "order.ogg"},
		{"no extension", "order"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &stubProvider{result: &Result{Text: "2 kg rice", Confidence: 0.8}}
			svc := NewService(provider, 0, "en")

			got, err := svc.Transcribe(context.Background(), []byte("audio"), tt.filename, "en")
			if err != nil {
				t.Fatalf("Transcribe() error = %v", err)
			}
			if got.Text != "2 kg rice" {
				t.Errorf("Transcribe() text = %q, want passthrough", got.Text)
			}
			if provider.calls != 1 {
				t.Errorf("provider calls = %d, want 1", provider.calls)
			}
		})
	}
}

func TestServiceDefaultsLanguageHint(t *testing.T) {
	provider := &stubProvider{result: &Result{Text: "2 kg rice"}}
	svc := NewService(provider, 0, "hi")

	if _, err := svc.Transcribe(context.Background(), []byte("audio"), "order.wav", ""); err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if provider.gotLanguage != "hi" {
		t.Errorf("provider language = %q, want configured default hi", provider.gotLanguage)
	}

	// An explicit hint always wins over the default
	if _, err := svc.Transcribe(context.Background(), []byte("audio"), "order.wav", "ta"); err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if provider.gotLanguage != "ta" {
		t.Errorf("provider language = %q, want explicit ta", provider.gotLanguage)
	}
}

func TestServiceWrapsProviderError(t *testing.T) {
	cause := errors.New("network down")
	provider := &stubProvider{err: cause}
	svc := NewService(provider, 0, "en")

	_, err := svc.Transcribe(context.Background(), []byte("audio"), "order.wav", "en")
	var terr *Error
	if !errors.As(err, &terr) {
		t.Fatalf("Transcribe() error type = %T, want *transcribe.Error", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Transcribe() error does not wrap the provider cause")
	}
}

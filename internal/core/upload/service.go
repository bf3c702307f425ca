package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
)

// Service provides file storage with provider switching
type Service struct {
	provider     Provider
	providerName string
}

// NewService creates a new storage service
func NewService(provider Provider) *Service {
	return &Service{
		provider:     provider,
		providerName: provider.GetProviderName(),
	}
}

// Save persists content using the configured provider
func (s *Service) Save(ctx context.Context, folder, filename string, r io.Reader) (*StoredFile, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("storage provider not configured")
	}
	return s.provider.Save(ctx, folder, filename, r)
}

// SaveMultipart persists an uploaded multipart file
func (s *Service) SaveMultipart(ctx context.Context, fileHeader *multipart.FileHeader, folder string, allowedTypes []string, maxSize int64) (*StoredFile, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("storage provider not configured")
	}
	return s.provider.SaveMultipart(ctx, fileHeader, folder, allowedTypes, maxSize)
}

// Open returns a reader over a stored file's content
func (s *Service) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("storage provider not configured")
	}
	return s.provider.Open(ctx, path)
}

// Delete removes a file by provider path
func (s *Service) Delete(ctx context.Context, path string) error {
	if s.provider == nil {
		return fmt.Errorf("storage provider not configured")
	}
	return s.provider.Delete(ctx, path)
}

// URL returns the public URL for a provider path
func (s *Service) URL(path string) string {
	if s.provider == nil {
		return ""
	}
	return s.provider.URL(path)
}

// LocalPath returns the on-disk path when the backend supports it
func (s *Service) LocalPath(path string) (string, bool) {
	if s.provider == nil {
		return "", false
	}
	return s.provider.LocalPath(path)
}

// GetProviderName returns the current provider name
func (s *Service) GetProviderName() string {
	return s.providerName
}

package upload

import (
	"context"
	"io"
	"mime/multipart"
)

// StoredFile describes a persisted file
type StoredFile struct {
	Path     string `json:"path"`      // Provider path (folder/filename), used for later reads/deletes
	FileName string `json:"file_name"` // Stored filename
	Size     int64  `json:"size"`      // File size in bytes
	URL      string `json:"url"`       // Public URL to access the file
}

// Provider defines the interface for file storage backends. The service
// stores two kinds of artifacts: uploaded bill templates and generated
// bill documents.
type Provider interface {
	// Save persists the reader's content under folder/filename,
	// overwriting any previous file at that path
	Save(ctx context.Context, folder, filename string, r io.Reader) (*StoredFile, error)

	// SaveMultipart persists an uploaded multipart file after validating
	// its content type and size
	SaveMultipart(ctx context.Context, fileHeader *multipart.FileHeader, folder string, allowedTypes []string, maxSize int64) (*StoredFile, error)

	// Open returns a reader over a stored file's content. The caller
	// closes it.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file by provider path
	Delete(ctx context.Context, path string) error

	// URL returns the public URL for a provider path
	URL(path string) string

	// LocalPath returns the on-disk location for a provider path, when
	// the backend is filesystem-backed
	LocalPath(path string) (string, bool)

	// GetProviderName returns the provider name
	GetProviderName() string
}

func typeAllowed(contentType string, allowedTypes []string) bool {
	if len(allowedTypes) == 0 {
		return true
	}
	for _, t := range allowedTypes {
		if contentType == t {
			return true
		}
	}
	return false
}

package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// LocalProvider stores files on the local filesystem
type LocalProvider struct {
	basePath   string // Base directory for stored files
	baseURL    string // Base URL to access files
	publicPath string // Public path for URL generation
}

// NewLocalProvider creates a new local file storage provider
func NewLocalProvider(basePath, baseURL string) (*LocalProvider, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalProvider{
		basePath:   basePath,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		publicPath: "/uploads/",
	}, nil
}

// Save writes the content to basePath/folder/filename
func (p *LocalProvider) Save(ctx context.Context, folder, filename string, r io.Reader) (*StoredFile, error) {
	folderPath := filepath.Join(p.basePath, folder)
	if err := os.MkdirAll(folderPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	filePath := filepath.Join(folderPath, filename)
	out, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	size, err := io.Copy(out, r)
	if err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	path := folder + "/" + filename
	return &StoredFile{
		Path:     path,
		FileName: filename,
		Size:     size,
		URL:      p.URL(path),
	}, nil
}

// SaveMultipart validates and stores an uploaded multipart file
func (p *LocalProvider) SaveMultipart(ctx context.Context, fileHeader *multipart.FileHeader, folder string, allowedTypes []string, maxSize int64) (*StoredFile, error) {
	contentType := fileHeader.Header.Get("Content-Type")
	if !typeAllowed(contentType, allowedTypes) {
		return nil, fmt.Errorf("file type not allowed: %s", contentType)
	}
	if maxSize > 0 && fileHeader.Size > maxSize {
		return nil, fmt.Errorf("file size exceeds maximum allowed size: %d bytes", maxSize)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	return p.Save(ctx, folder, filepath.Base(fileHeader.Filename), file)
}

// Open returns a reader over a stored file
func (p *LocalProvider) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(p.basePath, filepath.FromSlash(path)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// Delete removes a file from the local filesystem
func (p *LocalProvider) Delete(ctx context.Context, path string) error {
	filePath := filepath.Join(p.basePath, filepath.FromSlash(path))

	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", path)
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// URL returns the public URL for a provider path
func (p *LocalProvider) URL(path string) string {
	return p.baseURL + p.publicPath + path
}

// LocalPath maps a provider path onto the filesystem
func (p *LocalProvider) LocalPath(path string) (string, bool) {
	return filepath.Join(p.basePath, filepath.FromSlash(path)), true
}

// GetProviderName returns the provider name
func (p *LocalProvider) GetProviderName() string {
	return "Local Storage"
}

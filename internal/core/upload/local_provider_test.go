package upload

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"
)

func TestLocalProviderSaveAndDelete(t *testing.T) {
	provider, err := NewLocalProvider(t.TempDir(), "http://localhost:8080/")
	if err != nil {
		t.Fatalf("NewLocalProvider() error = %v", err)
	}

	stored, err := provider.Save(context.Background(), "bills", "bill_test.pdf", strings.NewReader("%PDF-fake"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if stored.Path != "bills/bill_test.pdf" {
		t.Errorf("Save() path = %q, want bills/bill_test.pdf", stored.Path)
	}
	if stored.Size != int64(len("%PDF-fake")) {
		t.Errorf("Save() size = %d, want %d", stored.Size, len("%PDF-fake"))
	}
	if stored.URL != "http://localhost:8080/uploads/bills/bill_test.pdf" {
		t.Errorf("Save() url = %q", stored.URL)
	}

	localPath, ok := provider.LocalPath(stored.Path)
	if !ok {
		t.Fatal("LocalPath() ok = false, want true for local storage")
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "%PDF-fake" {
		t.Errorf("stored content = %q, want %%PDF-fake", data)
	}

	if err := provider.Delete(context.Background(), stored.Path); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(localPath); !os.IsNotExist(err) {
		t.Errorf("file still exists after Delete()")
	}
}

func TestLocalProviderOpen(t *testing.T) {
	provider, err := NewLocalProvider(t.TempDir(), "http://localhost:8080")
	if err != nil {
		t.Fatalf("NewLocalProvider() error = %v", err)
	}

	if _, err := provider.Save(context.Background(), "templates", "layout.png", strings.NewReader("png bytes")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	r, err := provider.Open(context.Background(), "templates/layout.png")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(data) != "png bytes" {
		t.Errorf("Open() content = %q, want png bytes", data)
	}

	if _, err := provider.Open(context.Background(), "templates/missing.png"); err == nil {
		t.Error("Open() error = nil, want not-found error")
	}
}

func TestLocalProviderSaveOverwrites(t *testing.T) {
	provider, err := NewLocalProvider(t.TempDir(), "http://localhost:8080")
	if err != nil {
		t.Fatalf("NewLocalProvider() error = %v", err)
	}

	if _, err := provider.Save(context.Background(), "templates", "layout.png", strings.NewReader("old")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	stored, err := provider.Save(context.Background(), "templates", "layout.png", strings.NewReader("new content"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	localPath, _ := provider.LocalPath(stored.Path)
	data, err := os.ReadFile(localPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "new content" {
		t.Errorf("stored content = %q, want new content", data)
	}
}

func TestLocalProviderDeleteMissingFile(t *testing.T) {
	provider, err := NewLocalProvider(t.TempDir(), "http://localhost:8080")
	if err != nil {
		t.Fatalf("NewLocalProvider() error = %v", err)
	}

	if err := provider.Delete(context.Background(), "bills/missing.pdf"); err == nil {
		t.Error("Delete() error = nil, want not-found error")
	}
}

package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"studio/internal/domain"
)

func TestSaveResultWritesRelativeKey(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}

	result := domain.GenerationResult{
		ID:         "abc-123",
		MIMEType:   "image/jpeg",
		ImageBytes: []byte("jpeg-bytes"),
	}
	key, err := store.SaveResult(context.Background(), result)
	if err != nil {
		t.Fatalf("SaveResult returned error: %v", err)
	}
	if key != "render-abc-123.jpg" {
		t.Fatalf("key = %q, want render-abc-123.jpg", key)
	}
	data, err := os.ReadFile(filepath.Join(dir, key))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Fatalf("stored bytes = %q", data)
	}
}

func TestWriteRejectsTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	if _, err := store.Write(context.Background(), "../escape.png", []byte("x")); err == nil {
		t.Fatal("traversal key must be rejected")
	}
	if _, err := store.Write(context.Background(), "  ", []byte("x")); err == nil {
		t.Fatal("blank key must be rejected")
	}
}

func TestExtensionFor(t *testing.T) {
	cases := map[string]string{
		"image/png":  ".png",
		"image/jpeg": ".jpg",
		"IMAGE/WEBP": ".webp",
		"image/gif":  ".gif",
		"":           ".png",
		"text/plain": ".png",
	}
	for mime, want := range cases {
		if got := ExtensionFor(mime); got != want {
			t.Fatalf("ExtensionFor(%q) = %q, want %q", mime, got, want)
		}
	}
}

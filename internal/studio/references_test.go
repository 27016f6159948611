package studio

import (
	"encoding/base64"
	"errors"
	"fmt"
	"testing"

	"studio/internal/domain"
)

func refFiles(n int) []ReferenceFile {
	files := make([]ReferenceFile, n)
	for i := range files {
		files[i] = ReferenceFile{
			Name:     fmt.Sprintf("ref-%d.png", i),
			MIMEType: "image/png",
			Data:     []byte(fmt.Sprintf("payload-%d", i)),
		}
	}
	return files
}

func TestReferenceStoreCapSingleCall(t *testing.T) {
	store := NewReferenceStore(NewPreviewRegistry())
	added := store.Add(refFiles(8))
	if len(added) != MaxReferences {
		t.Fatalf("added = %d, want %d", len(added), MaxReferences)
	}
	if store.Len() != MaxReferences {
		t.Fatalf("store len = %d, want %d", store.Len(), MaxReferences)
	}
	if store.Images()[0].Name != "ref-0.png" {
		t.Fatal("earliest files must win when clipping")
	}
}

func TestReferenceStoreCapAcrossCalls(t *testing.T) {
	store := NewReferenceStore(NewPreviewRegistry())
	store.Add(refFiles(3))
	added := store.Add(refFiles(4))
	if len(added) != 2 {
		t.Fatalf("second add admitted = %d, want 2", len(added))
	}
	if store.Len() != MaxReferences {
		t.Fatalf("store len = %d, want %d", store.Len(), MaxReferences)
	}
}

func TestReferenceBase64ComputedOnAdd(t *testing.T) {
	store := NewReferenceStore(NewPreviewRegistry())
	added := store.Add([]ReferenceFile{{Name: "a.png", MIMEType: "image/png", Data: []byte("hello")}})
	if len(added) != 1 {
		t.Fatalf("added = %d, want 1", len(added))
	}
	if added[0].Base64 != base64.StdEncoding.EncodeToString([]byte("hello")) {
		t.Fatalf("Base64 = %q", added[0].Base64)
	}
}

func TestReferenceMIMESniffedWhenMissing(t *testing.T) {
	store := NewReferenceStore(NewPreviewRegistry())
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 16)...)
	added := store.Add([]ReferenceFile{{Name: "a", Data: png}})
	if len(added) != 1 || added[0].MIMEType != "image/png" {
		t.Fatalf("sniffed mime = %q, want image/png", added[0].MIMEType)
	}
}

func TestRemoveReleasesPreviewAndShifts(t *testing.T) {
	previews := NewPreviewRegistry()
	store := NewReferenceStore(previews)
	store.Add(refFiles(3))
	if previews.Len() != 3 {
		t.Fatalf("preview count = %d, want 3", previews.Len())
	}

	removedPreview := store.Images()[1].PreviewID
	if err := store.Remove(1); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if store.Len() != 2 {
		t.Fatalf("store len = %d, want 2", store.Len())
	}
	if store.Images()[1].Name != "ref-2.png" {
		t.Fatal("later entries must shift down on removal")
	}
	if _, _, ok := previews.Lookup(removedPreview); ok {
		t.Fatal("preview handle must be released on removal")
	}
	if previews.Len() != 2 {
		t.Fatalf("preview count = %d, want 2", previews.Len())
	}

	if err := store.Remove(5); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Remove out of range error = %v, want ErrNotFound", err)
	}
}

func TestCloseReleasesRemainingPreviewsOnce(t *testing.T) {
	previews := NewPreviewRegistry()
	store := NewReferenceStore(previews)
	store.Add(refFiles(3))

	released := store.Images()[0].PreviewID
	if err := store.Remove(0); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if previews.Release(released) {
		t.Fatal("second release of the same handle must report false")
	}

	store.Close()
	if previews.Len() != 0 {
		t.Fatalf("preview count after Close = %d, want 0", previews.Len())
	}
}

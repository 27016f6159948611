package studio

import (
	"encoding/base64"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"studio/internal/domain"
)

// MaxReferences caps how many reference images a session may hold. Additions
// beyond the cap are silently dropped.
const MaxReferences = 5

// ReferenceFile is a raw user upload before it is admitted to the store.
type ReferenceFile struct {
	Name     string
	MIMEType string
	Data     []byte
}

// ReferenceImage is an admitted reference. The base64 payload is computed
// before the entry becomes visible, so callers never observe a
// partially-decoded reference. Immutable once created.
type ReferenceImage struct {
	Name      string
	MIMEType  string
	Data      []byte
	Base64    string
	PreviewID string
}

// PreviewRegistry holds preview payloads for admitted references, keyed by
// handle id. It is the one studio structure with its own lock because the
// HTTP preview endpoint reads it outside the session mutex.
type PreviewRegistry struct {
	mu       sync.Mutex
	previews map[string]previewEntry
}

type previewEntry struct {
	mimeType string
	data     []byte
}

// NewPreviewRegistry creates an empty registry.
func NewPreviewRegistry() *PreviewRegistry {
	return &PreviewRegistry{previews: make(map[string]previewEntry)}
}

// Register stores a preview payload and returns its handle id.
func (r *PreviewRegistry) Register(mimeType string, data []byte) string {
	id := uuid.NewString()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.previews[id] = previewEntry{mimeType: mimeType, data: data}
	return id
}

// Lookup returns the preview payload for a handle id.
func (r *PreviewRegistry) Lookup(id string) (string, []byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.previews[id]
	return entry.mimeType, entry.data, ok
}

// Release drops the preview for a handle id. Returns false when the handle
// was already released, so callers can assert the release-once contract.
func (r *PreviewRegistry) Release(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.previews[id]; !ok {
		return false
	}
	delete(r.previews, id)
	return true
}

// Len reports how many previews are currently registered.
func (r *PreviewRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.previews)
}

// ReferenceStore owns the session's reference images. It is guarded by the
// session mutex; only the preview registry is safe to touch directly.
type ReferenceStore struct {
	previews *PreviewRegistry
	images   []ReferenceImage
}

// NewReferenceStore creates an empty store backed by the given registry.
func NewReferenceStore(previews *PreviewRegistry) *ReferenceStore {
	return &ReferenceStore{previews: previews}
}

// Add admits files up to the remaining capacity and returns the entries
// actually added. Excess files are dropped without error.
func (s *ReferenceStore) Add(files []ReferenceFile) []ReferenceImage {
	var added []ReferenceImage
	for _, file := range files {
		if len(s.images) >= MaxReferences {
			break
		}
		if len(file.Data) == 0 {
			continue
		}
		mime := file.MIMEType
		if mime == "" {
			mime = http.DetectContentType(file.Data)
		}
		img := ReferenceImage{
			Name:      file.Name,
			MIMEType:  mime,
			Data:      file.Data,
			Base64:    base64.StdEncoding.EncodeToString(file.Data),
			PreviewID: s.previews.Register(mime, file.Data),
		}
		s.images = append(s.images, img)
		added = append(added, img)
	}
	return added
}

// Remove deletes the entry at index, shifting later entries down, and
// releases its preview handle.
func (s *ReferenceStore) Remove(index int) error {
	if index < 0 || index >= len(s.images) {
		return domain.ErrNotFound
	}
	s.previews.Release(s.images[index].PreviewID)
	s.images = append(s.images[:index], s.images[index+1:]...)
	return nil
}

// Images returns a snapshot of the admitted references.
func (s *ReferenceStore) Images() []ReferenceImage {
	out := make([]ReferenceImage, len(s.images))
	copy(out, s.images)
	return out
}

// ImageParts converts the references into inline image parts for the remote
// client.
func (s *ReferenceStore) ImageParts() []domain.ImagePart {
	parts := make([]domain.ImagePart, 0, len(s.images))
	for _, img := range s.images {
		parts = append(parts, domain.ImagePart{MIMEType: img.MIMEType, Data: img.Data})
	}
	return parts
}

// Len reports the current store size.
func (s *ReferenceStore) Len() int {
	return len(s.images)
}

// Close releases every remaining preview handle. Called at session teardown;
// handles already released by Remove are not released twice.
func (s *ReferenceStore) Close() {
	for _, img := range s.images {
		s.previews.Release(img.PreviewID)
	}
	s.images = nil
}

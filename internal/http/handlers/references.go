package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"studio/internal/studio"
)

// 32 MiB of multipart memory covers five reference images comfortably.
const maxUploadMemory = 32 << 20

type referencePayload struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	MIMEType  string `json:"mime_type"`
	SizeBytes int    `json:"size_bytes"`
	PreviewID string `json:"preview_id"`
}

func toReferencePayloads(refs []studio.ReferenceImage) []referencePayload {
	out := make([]referencePayload, len(refs))
	for i, ref := range refs {
		out[i] = referencePayload{
			Index:     i,
			Name:      ref.Name,
			MIMEType:  ref.MIMEType,
			SizeBytes: len(ref.Data),
			PreviewID: ref.PreviewID,
		}
	}
	return out
}

// ReferencesAdd admits uploaded images into the reference store. Files
// beyond the store capacity are silently dropped, mirroring the store
// contract; the response reflects what was actually admitted.
func (a *App) ReferencesAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		a.json(w, http.StatusBadRequest, map[string]string{"error": "bad_request", "message": "invalid multipart payload"})
		return
	}

	var files []studio.ReferenceFile
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["images"] {
			f, err := header.Open()
			if err != nil {
				continue
			}
			data, err := io.ReadAll(f)
			_ = f.Close()
			if err != nil {
				continue
			}
			files = append(files, studio.ReferenceFile{
				Name:     header.Filename,
				MIMEType: header.Header.Get("Content-Type"),
				Data:     data,
			})
		}
	}

	if _, err := a.Session.AddReferences(files); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"references": toReferencePayloads(a.Session.References())})
}

// ReferencesRemove deletes one reference by position.
func (a *App) ReferencesRemove(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		a.json(w, http.StatusBadRequest, map[string]string{"error": "bad_request", "message": "index must be an integer"})
		return
	}
	if err := a.Session.RemoveReference(index); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"references": toReferencePayloads(a.Session.References())})
}

// ReferencePreview serves the preview payload for an admitted reference.
func (a *App) ReferencePreview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	mime, data, ok := a.Session.Preview(id)
	if !ok {
		a.json(w, http.StatusNotFound, map[string]string{"error": "not_found", "message": "preview not found"})
		return
	}
	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

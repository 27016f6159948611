package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"studio/internal/storage"
	"studio/pkg/zip"
)

// History lists the ledger newest-first.
func (a *App) History(w http.ResponseWriter, r *http.Request) {
	entries := a.Session.History()
	payloads := make([]resultPayload, len(entries))
	for i, entry := range entries {
		payloads[i] = toResultPayload(entry)
	}
	a.json(w, http.StatusOK, map[string]any{"history": payloads})
}

// HistorySelect makes a past entry the active result without touching the
// ledger.
func (a *App) HistorySelect(w http.ResponseWriter, r *http.Request) {
	result, err := a.Session.SelectHistory(chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"result": toResultPayload(result)})
}

// HistoryImage serves the image bytes of one ledger entry without changing
// the active result.
func (a *App) HistoryImage(w http.ResponseWriter, r *http.Request) {
	result, err := a.Session.HistoryEntry(chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", result.MIMEType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.ImageBytes)
}

// HistoryExport bundles every ledger entry into one zip download.
func (a *App) HistoryExport(w http.ResponseWriter, r *http.Request) {
	entries := a.Session.History()
	assets := make([]zip.Asset, len(entries))
	for i, entry := range entries {
		assets[i] = zip.Asset{
			Filename: storage.ResultFilename(entry),
			MIME:     entry.MIMEType,
			Data:     entry.ImageBytes,
		}
	}
	payload := zip.ArchiveAssets(assets)
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="history.zip"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// ResultExport streams the active result for download. A pass-through, not
// a network call.
func (a *App) ResultExport(w http.ResponseWriter, r *http.Request) {
	result, err := a.Session.ExportActiveResult()
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", result.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", storage.ResultFilename(result)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.ImageBytes)
}

// ResultSave writes the active result into the export directory on the
// server host and returns the storage key.
func (a *App) ResultSave(w http.ResponseWriter, r *http.Request) {
	result, err := a.Session.ExportActiveResult()
	if err != nil {
		a.fail(w, r, err)
		return
	}
	key, err := a.Store.SaveResult(r.Context(), result)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "saved", "key": key})
}

package handlers

import (
	"encoding/json"
	"net/http"
)

type editRequest struct {
	Instruction string `json:"instruction"`
}

// Generate runs the full pipeline for the current prompt and references.
// The request holds the connection for the remote round trip; progress is
// observable through GET /v1/state from a parallel request.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	result, err := a.Session.Generate(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"result": toResultPayload(result)})
}

// EditsBegin enters edit-authoring state.
func (a *App) EditsBegin(w http.ResponseWriter, r *http.Request) {
	if err := a.Session.BeginEdit(); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "editing"})
}

// EditsApply re-enters the pipeline with the active result as base image.
func (a *App) EditsApply(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.json(w, http.StatusBadRequest, map[string]string{"error": "bad_request", "message": "invalid payload"})
		return
	}
	result, err := a.Session.ApplyEdit(r.Context(), req.Instruction)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"result": toResultPayload(result)})
}

// EditsCancel discards authored edit state without a remote call.
func (a *App) EditsCancel(w http.ResponseWriter, r *http.Request) {
	if err := a.Session.CancelEdit(); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "idle"})
}

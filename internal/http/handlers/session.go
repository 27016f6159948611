package handlers

import (
	"encoding/json"
	"net/http"
)

type promptRequest struct {
	Text string `json:"text"`
}

type aspectRequest struct {
	ID string `json:"id"`
}

// SetPrompt updates the working prompt text.
func (a *App) SetPrompt(w http.ResponseWriter, r *http.Request) {
	var req promptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.json(w, http.StatusBadRequest, map[string]string{"error": "bad_request", "message": "invalid payload"})
		return
	}
	if err := a.Session.SetPrompt(req.Text); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SetAspectRatio selects the output frame.
func (a *App) SetAspectRatio(w http.ResponseWriter, r *http.Request) {
	var req aspectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.json(w, http.StatusBadRequest, map[string]string{"error": "bad_request", "message": "invalid payload"})
		return
	}
	if err := a.Session.SetAspectRatio(req.ID); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "ok", "aspect_ratio": req.ID})
}

// State returns the session snapshot for the UI.
func (a *App) State(w http.ResponseWriter, r *http.Request) {
	snap := a.Session.State()
	payload := map[string]any{
		"phase":            string(snap.Phase),
		"progress_message": snap.ProgressMessage,
		"prompt":           snap.PromptText,
		"aspect_ratio":     snap.AspectRatio.String(),
		"reference_count":  snap.ReferenceCount,
		"editing":          snap.Editing,
		"history_len":      snap.HistoryLen,
	}
	if snap.ActiveResult != nil {
		payload["active_result"] = toResultPayload(*snap.ActiveResult)
	}
	if snap.ErrorKind != "" {
		payload["error"] = snap.ErrorKind
		payload["message"] = messageFor(snap.ErrorKind, localeFrom(r))
	}
	a.json(w, http.StatusOK, payload)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"studio/internal/domain"
	"studio/internal/infra"
	"studio/internal/middleware"
	"studio/internal/storage"
	"studio/internal/studio"
)

// App is the handler container: one session, one export store, one logger.
type App struct {
	Session *studio.Session
	Store   *storage.FileStore
	Logger  infra.Logger
}

// NewApp wires the handler container.
func NewApp(session *studio.Session, store *storage.FileStore, logger infra.Logger) *App {
	return &App{Session: session, Store: store, Logger: logger}
}

type resultPayload struct {
	ID           string    `json:"id"`
	SourcePrompt string    `json:"source_prompt"`
	AspectRatio  string    `json:"aspect_ratio"`
	MIMEType     string    `json:"mime_type"`
	SizeBytes    int       `json:"size_bytes"`
	CreatedAt    time.Time `json:"created_at"`
}

func toResultPayload(result domain.GenerationResult) resultPayload {
	return resultPayload{
		ID:           result.ID,
		SourcePrompt: result.SourcePromptText,
		AspectRatio:  result.AspectRatio.String(),
		MIMEType:     result.MIMEType,
		SizeBytes:    len(result.ImageBytes),
		CreatedAt:    result.CreatedAt,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// fail renders a classified error with a localized message.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.Classify(err)
	locale := localeFrom(r)
	a.Logger.Debug().
		Err(err).
		Str("kind", kind).
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Msg("handlers: request failed")
	a.json(w, statusFor(kind), map[string]string{
		"error":   kind,
		"message": messageFor(kind, locale),
	})
}

func localeFrom(r *http.Request) string {
	return middleware.LocaleFromContext(r.Context())
}

func statusFor(kind string) int {
	switch kind {
	case "empty_input", "no_active_result":
		return http.StatusBadRequest
	case "not_found":
		return http.StatusNotFound
	case "busy":
		return http.StatusConflict
	case "transport", "empty_response":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"studio/internal/http/handlers"
	"studio/internal/middleware"
)

// RouterOptions carries the router's tunables.
type RouterOptions struct {
	AllowedOrigins []string
	DefaultLocale  string
}

// NewRouter builds the studio API surface.
func NewRouter(app *handlers.App, opts RouterOptions) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.I18N(opts.DefaultLocale),
	)
	if len(opts.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(opts.AllowedOrigins))
	}

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/state", app.State)

	r.Route("/v1/references", func(r chi.Router) {
		r.Post("/", app.ReferencesAdd)
		r.Delete("/{index}", app.ReferencesRemove)
		r.Get("/{id}/preview", app.ReferencePreview)
	})

	r.Post("/v1/prompt", app.SetPrompt)
	r.Post("/v1/aspect", app.SetAspectRatio)
	r.Post("/v1/generate", app.Generate)

	r.Route("/v1/edits", func(r chi.Router) {
		r.Post("/begin", app.EditsBegin)
		r.Post("/", app.EditsApply)
		r.Post("/cancel", app.EditsCancel)
	})

	r.Route("/v1/history", func(r chi.Router) {
		r.Get("/", app.History)
		r.Get("/export", app.HistoryExport)
		r.Get("/{id}/image", app.HistoryImage)
		r.Post("/{id}/select", app.HistorySelect)
	})

	r.Route("/v1/result", func(r chi.Router) {
		r.Get("/export", app.ResultExport)
		r.Post("/save", app.ResultSave)
	})

	return r
}

package server

import (
	"net/http"

	"github.com/cloo-solutions/replypilot/internal/api"
	"github.com/cloo-solutions/replypilot/internal/api/handlers"
	"github.com/cloo-solutions/replypilot/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

type RouterConfig struct {
	APIKey           string
	IngestHandler    *handlers.IngestHandler
	ReplyHandler     *handlers.ReplyHandler
	KnowledgeHandler *handlers.KnowledgeHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 5 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, api.Envelope{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(cfg.APIKey))

		r.Post("/ingest", cfg.IngestHandler.Ingest)
		r.Post("/reply", cfg.ReplyHandler.Draft)

		r.Route("/knowledge", func(r chi.Router) {
			r.Get("/", cfg.KnowledgeHandler.List)
			r.Get("/{id}", cfg.KnowledgeHandler.Get)
		})
	})

	return r
}

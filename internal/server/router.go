package server

import (
	"net/http"

	"github.com/ethograph/ethograph/internal/api"
	"github.com/ethograph/ethograph/internal/api/handlers"
	"github.com/ethograph/ethograph/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

type RouterConfig struct {
	RPCHandler *handlers.RPCHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 5 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/rpc", cfg.RPCHandler.Handle)

	return r
}

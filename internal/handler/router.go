package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	citationHandler "github.com/docsage/backend/internal/handler/citation"
	conversationHandler "github.com/docsage/backend/internal/handler/conversation"
	"github.com/docsage/backend/internal/middleware"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(convHandler *conversationHandler.Handler, citHandler *citationHandler.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS())

	r.Route("/api", func(api chi.Router) {
		convHandler.RegisterRoutes(api)
		citHandler.RegisterRoutes(api)
	})

	return r
}

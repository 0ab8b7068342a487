package routes

import (
	"net/http"

	"github.com/buscador-establecimientos/backend/internal/api/handlers"
	"github.com/buscador-establecimientos/backend/internal/api/middleware"
	"github.com/buscador-establecimientos/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	establecimientoHandler *handlers.EstablecimientoHandler
	healthHandler          *handlers.HealthHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	establecimientoHandler *handlers.EstablecimientoHandler,
	healthHandler *handlers.HealthHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                    http.NewServeMux(),
		establecimientoHandler: establecimientoHandler,
		healthHandler:          healthHandler,
		cacheMiddleware:        cacheMiddleware,
		metrics:                metrics,
	}
}

// SetupRoutes configures all application routes and the middleware chain
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /{$}", r.establecimientoHandler.GetRoot)
	r.mux.HandleFunc("GET /api/establecimientos", r.establecimientoHandler.GetEstablecimientos)
	r.mux.HandleFunc("GET /api/provincias", r.establecimientoHandler.GetProvincias)
	r.mux.HandleFunc("GET /health", r.healthHandler.GetHealth)

	var handler http.Handler = r.mux
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}
	if r.metrics != nil {
		handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	}
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}

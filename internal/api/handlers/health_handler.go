package handlers

import (
	"net/http"

	"github.com/buscador-establecimientos/backend/internal/infrastructure/observability"
)

// HealthHandler reports service liveness and store reachability
type HealthHandler struct {
	service QueryService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service QueryService) *HealthHandler {
	return &HealthHandler{service: service}
}

// GetHealth handles GET /health
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Health(r.Context()); err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("health check failed")
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":   "healthy",
		"database": "connected",
	})
}

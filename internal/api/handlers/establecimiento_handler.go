package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/buscador-establecimientos/backend/internal/domain/entities"
	"github.com/buscador-establecimientos/backend/internal/infrastructure/observability"
	"github.com/buscador-establecimientos/backend/internal/query/services"
	apperrors "github.com/buscador-establecimientos/backend/pkg/errors"
)

// QueryService defines the read operations the HTTP layer depends on
type QueryService interface {
	Search(ctx context.Context, params services.SearchParams) (*entities.ResultPage, error)
	ListProvincias(ctx context.Context) ([]string, error)
	Health(ctx context.Context) error
}

// EstablecimientoHandler handles establishment-related HTTP requests
type EstablecimientoHandler struct {
	service QueryService
}

// NewEstablecimientoHandler creates a new establishment handler
func NewEstablecimientoHandler(service QueryService) *EstablecimientoHandler {
	return &EstablecimientoHandler{service: service}
}

// GetEstablecimientos handles GET /api/establecimientos
func (h *EstablecimientoHandler) GetEstablecimientos(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	skip, err := intParam(query.Get("skip"), 0)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "skip must be an integer")
		return
	}

	limit, err := intParam(query.Get("limit"), 0)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "limit must be an integer")
		return
	}

	page, err := h.service.Search(r.Context(), services.SearchParams{
		Search:    query.Get("search"),
		Provincia: query.Get("provincia"),
		Skip:      skip,
		Limit:     limit,
	})
	if err != nil {
		respondWithAppError(w, r, err, "failed to search establecimientos")
		return
	}

	respondWithJSON(w, http.StatusOK, page)
}

// GetProvincias handles GET /api/provincias
func (h *EstablecimientoHandler) GetProvincias(w http.ResponseWriter, r *http.Request) {
	provincias, err := h.service.ListProvincias(r.Context())
	if err != nil {
		respondWithAppError(w, r, err, "failed to list provincias")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"provincias": provincias,
		"total":      len(provincias),
	})
}

// GetRoot handles GET / with basic API information
func (h *EstablecimientoHandler) GetRoot(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Buscador de Establecimientos API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"establecimientos": "/api/establecimientos",
			"provincias":       "/api/provincias",
			"health":           "/health",
		},
	})
}

// intParam parses an optional integer query parameter. An empty value yields
// the fallback; anything non-numeric is a client error, not a clamp case.
func intParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func respondWithAppError(w http.ResponseWriter, r *http.Request, err error, message string) {
	logger := observability.LoggerFromContext(r.Context())

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Type == apperrors.ErrorTypeValidation {
		respondWithError(w, http.StatusBadRequest, appErr.Message)
		return
	}

	// Storage and unexpected failures surface as an opaque server error
	logger.Error().Err(err).Str("path", r.URL.Path).Msg(message)
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

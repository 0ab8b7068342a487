package services

import (
	"context"
	"strings"

	"github.com/buscador-establecimientos/backend/internal/domain/entities"
	"github.com/buscador-establecimientos/backend/internal/domain/repositories"
)

// Pagination bounds. Out-of-range values are clamped silently rather than
// rejected, so existing clients keep working.
const (
	DefaultLimit = 25
	MaxLimit     = 100
)

// SearchParams defines parameters for an establishment search as received
// from the caller, before clamping
type SearchParams struct {
	Search    string
	Provincia string
	Skip      int
	Limit     int
}

// EstablecimientoQueryService handles read-only catalog operations. It owns
// the query semantics and the pagination arithmetic; the repository only sees
// already-clamped windows.
type EstablecimientoQueryService struct {
	repo repositories.EstablecimientoRepository
}

// NewEstablecimientoQueryService creates a new establishment query service
func NewEstablecimientoQueryService(repo repositories.EstablecimientoRepository) *EstablecimientoQueryService {
	return &EstablecimientoQueryService{repo: repo}
}

// Search retrieves one deterministic page of matching establishments.
// Re-running the same query against an unchanged catalog yields the same page
// and metadata, and following next_skip until has_more is false walks the
// whole match set without gaps or duplicates.
func (s *EstablecimientoQueryService) Search(ctx context.Context, params SearchParams) (*entities.ResultPage, error) {
	search := strings.TrimSpace(params.Search)
	provincia := strings.TrimSpace(params.Provincia)

	skip := params.Skip
	if skip < 0 {
		skip = 0
	}

	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	establecimientos, total, err := s.repo.Search(ctx, repositories.SearchFilter{
		Search:    search,
		Provincia: provincia,
		Skip:      skip,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}

	returned := len(establecimientos)

	return &entities.ResultPage{
		Establecimientos: establecimientos,
		Pagination: entities.Pagination{
			Total:    total,
			Skip:     skip,
			Limit:    limit,
			Returned: returned,
			HasMore:  skip+returned < total,
			NextSkip: skip + returned,
		},
		Filters: entities.SearchFilters{
			Search:    search,
			Provincia: provincia,
		},
	}, nil
}

// ListProvincias retrieves the distinct set of provinces for the filter
// selector
func (s *EstablecimientoQueryService) ListProvincias(ctx context.Context) ([]string, error) {
	return s.repo.ListProvincias(ctx)
}

// Health reports whether the catalog store is reachable. It carries no
// business semantics.
func (s *EstablecimientoQueryService) Health(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

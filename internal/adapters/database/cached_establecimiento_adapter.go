package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/buscador-establecimientos/backend/internal/domain/entities"
	"github.com/buscador-establecimientos/backend/internal/domain/providers"
	"github.com/buscador-establecimientos/backend/internal/domain/repositories"
)

// Cache TTLs (in seconds). The catalog is read-only at serve time, so these
// are generous.
const (
	searchPageTTL = 300
	provinciasTTL = 1800
)

// CachedEstablecimientoAdapter wraps an EstablecimientoRepository with caching
type CachedEstablecimientoAdapter struct {
	adapter repositories.EstablecimientoRepository
	cache   providers.CacheProvider
}

// NewCachedEstablecimientoAdapter creates a new cached establishment adapter
func NewCachedEstablecimientoAdapter(adapter repositories.EstablecimientoRepository, cache providers.CacheProvider) repositories.EstablecimientoRepository {
	return &CachedEstablecimientoAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

func searchCacheKey(filter repositories.SearchFilter) string {
	return fmt.Sprintf("establecimientos:search:%s:%s:%d:%d", filter.Search, filter.Provincia, filter.Skip, filter.Limit)
}

const provinciasCacheKey = "establecimientos:provincias"

type cachedSearchPage struct {
	Establecimientos []entities.Establecimiento `json:"establecimientos"`
	Total            int                        `json:"total"`
}

// Search retrieves a page, preferring the cache
func (a *CachedEstablecimientoAdapter) Search(ctx context.Context, filter repositories.SearchFilter) ([]entities.Establecimiento, int, error) {
	key := searchCacheKey(filter)

	if cached, err := a.cache.Get(ctx, key); err == nil {
		var page cachedSearchPage
		if err := json.Unmarshal(cached, &page); err == nil {
			return page.Establecimientos, page.Total, nil
		} else {
			log.Warn().Str("key", key).Err(err).Msg("failed to unmarshal cached search page")
		}
	}

	establecimientos, total, err := a.adapter.Search(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	go func() {
		bgCtx := context.Background()
		data, err := json.Marshal(cachedSearchPage{Establecimientos: establecimientos, Total: total})
		if err != nil {
			return
		}
		if err := a.cache.Set(bgCtx, key, data, searchPageTTL); err != nil {
			log.Warn().Str("key", key).Err(err).Msg("failed to cache search page")
		}
	}()

	return establecimientos, total, nil
}

// ListProvincias retrieves the distinct provinces, preferring the cache
func (a *CachedEstablecimientoAdapter) ListProvincias(ctx context.Context) ([]string, error) {
	if cached, err := a.cache.Get(ctx, provinciasCacheKey); err == nil {
		var provincias []string
		if err := json.Unmarshal(cached, &provincias); err == nil {
			return provincias, nil
		}
	}

	provincias, err := a.adapter.ListProvincias(ctx)
	if err != nil {
		return nil, err
	}

	go func() {
		bgCtx := context.Background()
		data, err := json.Marshal(provincias)
		if err != nil {
			return
		}
		if err := a.cache.Set(bgCtx, provinciasCacheKey, data, provinciasTTL); err != nil {
			log.Warn().Err(err).Msg("failed to cache provincias")
		}
	}()

	return provincias, nil
}

// Ping always hits the underlying store; health must not be served from cache
func (a *CachedEstablecimientoAdapter) Ping(ctx context.Context) error {
	return a.adapter.Ping(ctx)
}

package repositories

import (
	"context"

	"github.com/buscador-establecimientos/backend/internal/domain/entities"
)

// EstablecimientoRepository defines the interface for catalog read operations.
// The catalog is populated offline; serve-time access is read-only.
type EstablecimientoRepository interface {
	// Search retrieves one window of matching establishments, ordered by id
	// ascending, together with the full match count
	Search(ctx context.Context, filter SearchFilter) ([]entities.Establecimiento, int, error)

	// ListProvincias retrieves the distinct non-empty province values,
	// alphabetically
	ListProvincias(ctx context.Context) ([]string, error)

	// Ping verifies the repository can reach its store
	Ping(ctx context.Context) error
}

// SearchFilter defines the match rule and the window over its result set.
// Search matches nombre OR direccion as a case-insensitive substring;
// Provincia is an exact equality filter. Both empty means match everything.
type SearchFilter struct {
	Search    string
	Provincia string
	Skip      int
	Limit     int
}

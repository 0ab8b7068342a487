package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/buscador-establecimientos/backend/internal/domain/entities"
	"github.com/buscador-establecimientos/backend/internal/domain/repositories"
	"github.com/buscador-establecimientos/backend/internal/infrastructure/clients/postgres"
	"github.com/buscador-establecimientos/backend/internal/infrastructure/observability"
	apperrors "github.com/buscador-establecimientos/backend/pkg/errors"
)

const establecimientosTable = "establecimientos"

// EstablecimientoAdapter implements EstablecimientoRepository over PostgreSQL
type EstablecimientoAdapter struct {
	client  *postgres.Client
	db      *goqu.Database
	metrics *observability.Metrics
}

// NewEstablecimientoAdapter creates a new establishment adapter. metrics may
// be nil when observability is disabled.
func NewEstablecimientoAdapter(client *postgres.Client, metrics *observability.Metrics) repositories.EstablecimientoRepository {
	return &EstablecimientoAdapter{
		client:  client,
		db:      goqu.New("postgres", client.DB()),
		metrics: metrics,
	}
}

// matchExpressions translates the search filter into WHERE expressions.
// The text search is a case-insensitive substring match on nombre OR
// direccion; provincia is an exact equality filter.
func matchExpressions(filter repositories.SearchFilter) []goqu.Expression {
	var exprs []goqu.Expression

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		exprs = append(exprs, goqu.Or(
			goqu.C("nombre").ILike(pattern),
			goqu.C("direccion").ILike(pattern),
		))
	}

	if filter.Provincia != "" {
		exprs = append(exprs, goqu.C("provincia").Eq(filter.Provincia))
	}

	return exprs
}

// Search retrieves one page of matching rows, ordered by id ascending, plus
// the total count over the whole match set. The two queries share the same
// match rule so skip/limit never change total.
func (a *EstablecimientoAdapter) Search(ctx context.Context, filter repositories.SearchFilter) ([]entities.Establecimiento, int, error) {
	exprs := matchExpressions(filter)

	pageSQL, pageArgs, err := a.db.From(establecimientosTable).
		Select("id", "nombre", "direccion", "localidad", "provincia").
		Where(exprs...).
		Order(goqu.C("id").Asc()).
		Limit(uint(filter.Limit)).
		Offset(uint(filter.Skip)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to build search query", err)
	}

	start := time.Now()
	rows, err := a.client.DB().QueryContext(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to search establecimientos", err)
	}
	defer rows.Close()

	establecimientos := []entities.Establecimiento{}
	for rows.Next() {
		var e entities.Establecimiento
		if err := rows.Scan(&e.ID, &e.Nombre, &e.Direccion, &e.Localidad, &e.Provincia); err != nil {
			return nil, 0, apperrors.NewInternalError("failed to scan establecimiento", err)
		}
		establecimientos = append(establecimientos, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewInternalError("error iterating establecimientos", err)
	}
	observability.RecordDBMetric(ctx, a.metrics, "search", time.Since(start))

	countSQL, countArgs, err := a.db.From(establecimientosTable).
		Select(goqu.COUNT(goqu.Star())).
		Where(exprs...).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to build count query", err)
	}

	start = time.Now()
	var total int
	if err := a.client.DB().QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewInternalError("failed to count establecimientos", err)
	}
	observability.RecordDBMetric(ctx, a.metrics, "count", time.Since(start))

	return establecimientos, total, nil
}

// ListProvincias retrieves the distinct non-empty provinces, alphabetically
func (a *EstablecimientoAdapter) ListProvincias(ctx context.Context) ([]string, error) {
	query, args, err := a.db.From(establecimientosTable).
		SelectDistinct(goqu.C("provincia")).
		Where(
			goqu.C("provincia").IsNotNull(),
			goqu.C("provincia").Neq(""),
		).
		Order(goqu.C("provincia").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build provincias query", err)
	}

	start := time.Now()
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list provincias", err)
	}
	defer rows.Close()

	provincias := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, apperrors.NewInternalError("failed to scan provincia", err)
		}
		provincias = append(provincias, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating provincias", err)
	}
	observability.RecordDBMetric(ctx, a.metrics, "list_provincias", time.Since(start))

	return provincias, nil
}

// Ping verifies the backing store is reachable
func (a *EstablecimientoAdapter) Ping(ctx context.Context) error {
	if err := a.client.Ping(ctx); err != nil {
		return apperrors.NewExternalError("database unreachable", err)
	}
	return nil
}

package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buscador-establecimientos/backend/internal/domain/repositories"
	"github.com/buscador-establecimientos/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/buscador-establecimientos/backend/pkg/errors"
)

func newMockAdapter(t *testing.T) (repositories.EstablecimientoRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	adapter := NewEstablecimientoAdapter(postgres.NewClientFromDB(db), nil)
	return adapter, mock
}

func establecimientoRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "nombre", "direccion", "localidad", "provincia"})
}

func TestSearch_TextAndProvinciaFilters(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`SELECT "id", "nombre", "direccion", "localidad", "provincia" FROM "establecimientos" WHERE`).
		WithArgs("%central%", "%central%", "Madrid", 25, 10).
		WillReturnRows(establecimientoRows().
			AddRow(11, "Estanco Central", "Calle Mayor 1", "Madrid", "Madrid").
			AddRow(42, "Bar Central Norte", "Av. Sol 3", "Alcobendas", "Madrid"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "establecimientos" WHERE`).
		WithArgs("%central%", "%central%", "Madrid").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(37))

	results, total, err := adapter.Search(context.Background(), repositories.SearchFilter{
		Search:    "central",
		Provincia: "Madrid",
		Skip:      10,
		Limit:     25,
	})

	require.NoError(t, err)
	assert.Equal(t, 37, total)
	require.Len(t, results, 2)
	assert.Equal(t, int64(11), results[0].ID)
	assert.Equal(t, "Estanco Central", results[0].Nombre)
	assert.Equal(t, "Bar Central Norte", results[1].Nombre)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_NoFiltersPagesWholeTable(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`SELECT "id", "nombre", "direccion", "localidad", "provincia" FROM "establecimientos" ORDER BY "id" ASC`).
		WithArgs(50, 100).
		WillReturnRows(establecimientoRows().
			AddRow(101, "Kiosco Sur", "Plaza Nueva 2", "Sevilla", "Sevilla"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "establecimientos"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(101))

	results, total, err := adapter.Search(context.Background(), repositories.SearchFilter{
		Skip:  100,
		Limit: 50,
	})

	require.NoError(t, err)
	assert.Equal(t, 101, total)
	require.Len(t, results, 1)
	assert.Equal(t, "Kiosco Sur", results[0].Nombre)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_QueryFailureIsInternal(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`SELECT "id", "nombre", "direccion", "localidad", "provincia" FROM "establecimientos"`).
		WillReturnError(errors.New("connection reset by peer"))

	_, _, err := adapter.Search(context.Background(), repositories.SearchFilter{Skip: 10, Limit: 25})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListProvincias_DistinctAndOrdered(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(`SELECT DISTINCT "provincia" FROM "establecimientos" WHERE`).
		WillReturnRows(sqlmock.NewRows([]string{"provincia"}).
			AddRow("Barcelona").
			AddRow("Madrid").
			AddRow("Sevilla"))

	provincias, err := adapter.ListProvincias(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Barcelona", "Madrid", "Sevilla"}, provincias)
	assert.NoError(t, mock.ExpectationsWereMet())
}

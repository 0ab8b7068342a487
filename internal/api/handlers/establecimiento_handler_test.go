package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/buscador-establecimientos/backend/internal/api/handlers"
	"github.com/buscador-establecimientos/backend/internal/domain/entities"
	"github.com/buscador-establecimientos/backend/internal/query/services"
	apperrors "github.com/buscador-establecimientos/backend/pkg/errors"
)

type MockQueryService struct {
	mock.Mock
}

func (m *MockQueryService) Search(ctx context.Context, params services.SearchParams) (*entities.ResultPage, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ResultPage), args.Error(1)
}

func (m *MockQueryService) ListProvincias(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockQueryService) Health(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func resultPage(rows []entities.Establecimiento, total, skip, limit int) *entities.ResultPage {
	returned := len(rows)
	return &entities.ResultPage{
		Establecimientos: rows,
		Pagination: entities.Pagination{
			Total:    total,
			Skip:     skip,
			Limit:    limit,
			Returned: returned,
			HasMore:  skip+returned < total,
			NextSkip: skip + returned,
		},
	}
}

func TestGetEstablecimientos_ReturnsContract(t *testing.T) {
	mockService := new(MockQueryService)
	handler := handlers.NewEstablecimientoHandler(mockService)

	expected := resultPage([]entities.Establecimiento{
		{ID: 1, Nombre: "Estanco Central", Direccion: "Calle Mayor 5", Localidad: "Madrid", Provincia: "Madrid"},
	}, 26, 0, 25)

	mockService.On("Search", mock.Anything, mock.MatchedBy(func(p services.SearchParams) bool {
		return p.Search == "Central" && p.Provincia == "Madrid" && p.Skip == 0 && p.Limit == 25
	})).Return(expected, nil)

	req := httptest.NewRequest("GET", "/api/establecimientos?search=Central&provincia=Madrid&skip=0&limit=25", nil)
	w := httptest.NewRecorder()

	handler.GetEstablecimientos(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp entities.ResultPage
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Establecimientos, 1)
	assert.Equal(t, "Estanco Central", resp.Establecimientos[0].Nombre)
	assert.Equal(t, 26, resp.Pagination.Total)
	assert.True(t, resp.Pagination.HasMore)
	assert.Equal(t, 1, resp.Pagination.NextSkip)
}

func TestGetEstablecimientos_OmittedParamsUseDefaults(t *testing.T) {
	mockService := new(MockQueryService)
	handler := handlers.NewEstablecimientoHandler(mockService)

	mockService.On("Search", mock.Anything, services.SearchParams{}).
		Return(resultPage(nil, 0, 0, 25), nil)

	req := httptest.NewRequest("GET", "/api/establecimientos", nil)
	w := httptest.NewRecorder()

	handler.GetEstablecimientos(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestGetEstablecimientos_RejectsNonIntegerParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"non-integer skip", "skip=abc"},
		{"non-integer limit", "limit=muchos"},
		{"float skip", "skip=1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockQueryService)
			handler := handlers.NewEstablecimientoHandler(mockService)

			req := httptest.NewRequest("GET", "/api/establecimientos?"+tt.query, nil)
			w := httptest.NewRecorder()

			handler.GetEstablecimientos(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			mockService.AssertNotCalled(t, "Search")
		})
	}
}

func TestGetEstablecimientos_EmptyMatchIsOK(t *testing.T) {
	mockService := new(MockQueryService)
	handler := handlers.NewEstablecimientoHandler(mockService)

	mockService.On("Search", mock.Anything, mock.Anything).
		Return(resultPage([]entities.Establecimiento{}, 0, 0, 25), nil)

	req := httptest.NewRequest("GET", "/api/establecimientos?provincia=Valencia", nil)
	w := httptest.NewRecorder()

	handler.GetEstablecimientos(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp entities.ResultPage
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Empty(t, resp.Establecimientos)
	assert.Equal(t, 0, resp.Pagination.Total)
	assert.False(t, resp.Pagination.HasMore)
}

func TestGetEstablecimientos_StorageFailureIsOpaque(t *testing.T) {
	mockService := new(MockQueryService)
	handler := handlers.NewEstablecimientoHandler(mockService)

	mockService.On("Search", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewInternalError("query failed", errors.New("connection reset")))

	req := httptest.NewRequest("GET", "/api/establecimientos", nil)
	w := httptest.NewRecorder()

	handler.GetEstablecimientos(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "internal server error", resp["error"])
	assert.NotContains(t, resp["error"], "connection reset")
}

func TestGetProvincias(t *testing.T) {
	mockService := new(MockQueryService)
	handler := handlers.NewEstablecimientoHandler(mockService)

	mockService.On("ListProvincias", mock.Anything).
		Return([]string{"Madrid", "Sevilla"}, nil)

	req := httptest.NewRequest("GET", "/api/provincias", nil)
	w := httptest.NewRecorder()

	handler.GetProvincias(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Provincias []string `json:"provincias"`
		Total      int      `json:"total"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, []string{"Madrid", "Sevilla"}, resp.Provincias)
	assert.Equal(t, 2, resp.Total)
}

func TestGetRoot_ListsEndpoints(t *testing.T) {
	handler := handlers.NewEstablecimientoHandler(new(MockQueryService))

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	handler.GetRoot(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Endpoints map[string]string `json:"endpoints"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "/api/establecimientos", resp.Endpoints["establecimientos"])
}

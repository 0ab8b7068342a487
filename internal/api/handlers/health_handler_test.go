package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/buscador-establecimientos/backend/internal/api/handlers"
)

func TestGetHealth_Healthy(t *testing.T) {
	mockService := new(MockQueryService)
	handler := handlers.NewHealthHandler(mockService)

	mockService.On("Health", mock.Anything).Return(nil)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	handler.GetHealth(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "connected", resp["database"])
}

func TestGetHealth_StoreUnreachable(t *testing.T) {
	mockService := new(MockQueryService)
	handler := handlers.NewHealthHandler(mockService)

	mockService.On("Health", mock.Anything).Return(errors.New("dial tcp: connection refused"))

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	handler.GetHealth(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "unhealthy", resp["status"])
	assert.Equal(t, "disconnected", resp["database"])
}

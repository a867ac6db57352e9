package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/athebyme/storefront-service/internal/adapters/logger"
	"github.com/athebyme/storefront-service/internal/domain/models"
)

func catalogRequest(t *testing.T, storeID string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/"+storeID, nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("storeID", storeID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestGetCatalog_ReturnsProducts(t *testing.T) {
	storage := new(mockStorage)
	catalogService := new(mockCatalogService)

	storage.On("GetStore", mock.Anything, "store-1").Return(activeStore(), nil).Once()
	catalogService.On("ListCatalog", mock.Anything, "store-1").Return([]*models.Product{
		{StoreID: "store-1", MarketplaceID: "101", Name: "Букет", Price: 1500, InStock: true},
	}, nil).Once()

	handler := NewCatalogHandler(storage, catalogService, logger.NewNop())

	rec := httptest.NewRecorder()
	handler.GetCatalog(rec, catalogRequest(t, "store-1"))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Store struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"store"`
			Products []*models.Product `json:"products"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "store-1", body.Data.Store.ID)
	require.Len(t, body.Data.Products, 1)
	assert.Equal(t, "Букет", body.Data.Products[0].Name)
}

func TestGetCatalog_UnknownStore(t *testing.T) {
	storage := new(mockStorage)
	catalogService := new(mockCatalogService)

	storage.On("GetStore", mock.Anything, "ghost").Return(nil, nil).Once()

	handler := NewCatalogHandler(storage, catalogService, logger.NewNop())

	rec := httptest.NewRecorder()
	handler.GetCatalog(rec, catalogRequest(t, "ghost"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	catalogService.AssertNotCalled(t, "ListCatalog", mock.Anything, mock.Anything)
}

func TestGetCatalog_InactiveStore(t *testing.T) {
	storage := new(mockStorage)
	catalogService := new(mockCatalogService)

	store := activeStore()
	store.IsActive = false
	storage.On("GetStore", mock.Anything, "store-1").Return(store, nil).Once()

	handler := NewCatalogHandler(storage, catalogService, logger.NewNop())

	rec := httptest.NewRecorder()
	handler.GetCatalog(rec, catalogRequest(t, "store-1"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

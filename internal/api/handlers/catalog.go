package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/athebyme/storefront-service/internal/adapters/logger"
	postgres "github.com/athebyme/storefront-service/internal/adapters/storage"
	"github.com/athebyme/storefront-service/internal/domain/services"
)

// CatalogHandler отдает витрину магазина для мини-приложения
type CatalogHandler struct {
	storage        postgres.StorageInterface
	catalogService services.CatalogServiceInterface
	logger         logger.Logger
}

// NewCatalogHandler создает новый обработчик витрины
func NewCatalogHandler(storage postgres.StorageInterface, catalogService services.CatalogServiceInterface, log logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		storage:        storage,
		catalogService: catalogService,
		logger:         log,
	}
}

// GetCatalog обрабатывает запрос GET /api/v1/catalog/{storeID}.
func (h *CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeID")

	store, err := h.storage.GetStore(r.Context(), storeID)
	if err != nil {
		h.logger.ErrorWithContext(r.Context(), "Ошибка получения магазина",
			logger.Field{Key: "store_id", Value: storeID},
			logger.Field{Key: "error", Value: err.Error()})
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResponse{
			Error:   "internal_error",
			Code:    http.StatusInternalServerError,
			Message: "Ошибка получения магазина",
		})
		return
	}
	if store == nil || !store.IsActive {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, errorResponse{
			Error:   "not_found",
			Code:    http.StatusNotFound,
			Message: "Магазин не найден",
		})
		return
	}

	products, err := h.catalogService.ListCatalog(r.Context(), store.ID)
	if err != nil {
		h.logger.ErrorWithContext(r.Context(), "Ошибка получения витрины",
			logger.Field{Key: "store_id", Value: store.ID},
			logger.Field{Key: "error", Value: err.Error()})
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResponse{
			Error:   "internal_error",
			Code:    http.StatusInternalServerError,
			Message: "Ошибка получения витрины",
		})
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response{
		Success: true,
		Data: map[string]interface{}{
			"store": map[string]string{
				"id":   store.ID,
				"name": store.Name,
			},
			"products": products,
		},
	})
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/athebyme/storefront-service/internal/adapters/logger"
	postgres "github.com/athebyme/storefront-service/internal/adapters/storage"
	"github.com/athebyme/storefront-service/internal/domain/services"
	"github.com/athebyme/storefront-service/internal/marketplace"
)

// errorResponse представляет структуру ответа с ошибкой
type errorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// response представляет структуру успешного ответа
type response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// SyncHandler обработчик запросов синхронизации с маркетплейсами
type SyncHandler struct {
	storage     postgres.StorageInterface
	syncService services.SyncServiceInterface
	logger      logger.Logger
}

// NewSyncHandler создает новый обработчик синхронизации
func NewSyncHandler(storage postgres.StorageInterface, syncService services.SyncServiceInterface, log logger.Logger) *SyncHandler {
	return &SyncHandler{
		storage:     storage,
		syncService: syncService,
		logger:      log,
	}
}

// SyncStore обрабатывает запрос POST /api/v1/stores/{storeID}/sync.
// Владение магазином проверяется до любых обращений к маркетплейсам.
func (h *SyncHandler) SyncStore(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(string)
	if !ok || userID == "" {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, errorResponse{
			Error:   "unauthorized",
			Code:    http.StatusUnauthorized,
			Message: "Пользователь не аутентифицирован",
		})
		return
	}

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
	if store == nil || store.UserID != userID {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, errorResponse{
			Error:   "not_found",
			Code:    http.StatusNotFound,
			Message: "Магазин не найден",
		})
		return
	}

	result, err := h.syncService.SyncStore(r.Context(), store)
	if err != nil {
		if errors.Is(err, marketplace.ErrNoCredentials) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, errorResponse{
				Error:   "bad_request",
				Code:    http.StatusBadRequest,
				Message: "У магазина не настроены учетные данные маркетплейсов",
			})
			return
		}

		h.logger.ErrorWithContext(r.Context(), "Ошибка синхронизации",
			logger.Field{Key: "store_id", Value: store.ID},
			logger.Field{Key: "error", Value: err.Error()})
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResponse{
			Error:   "internal_error",
			Code:    http.StatusInternalServerError,
			Message: "Ошибка синхронизации",
		})
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response{
		Success: true,
		Data:    result,
	})
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/athebyme/storefront-service/internal/adapters/logger"
	postgres "github.com/athebyme/storefront-service/internal/adapters/storage"
	"github.com/athebyme/storefront-service/internal/adapters/telegram"
	"github.com/athebyme/storefront-service/internal/domain/models"
)

// SecretTokenHeader — заголовок Telegram с секретом вебхука.
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// UpdateDispatcher обрабатывает обновления Telegram для магазина.
type UpdateDispatcher interface {
	HandleUpdate(ctx context.Context, store *models.Store, sender telegram.Sender, update *tgbotapi.Update) error
}

// SenderProvider выдает отправителя сообщений по токену бота.
type SenderProvider interface {
	SenderFor(token string) (telegram.Sender, error)
}

// WebhookHandler обработчик вебхуков Telegram
type WebhookHandler struct {
	storage    postgres.StorageInterface
	dispatcher UpdateDispatcher
	senders    SenderProvider
	secret     string
	logger     logger.Logger
}

// NewWebhookHandler создает новый обработчик вебхуков
func NewWebhookHandler(
	storage postgres.StorageInterface,
	dispatcher UpdateDispatcher,
	senders SenderProvider,
	secret string,
	log logger.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		storage:    storage,
		dispatcher: dispatcher,
		senders:    senders,
		secret:     secret,
		logger:     log,
	}
}

// HandleWebhook обрабатывает запрос POST /webhook/{storeID}.
// Секрет принимается либо параметром secret в URL вебхука, либо
// заголовком Telegram, и проверяется до любых обращений к хранилищу:
// запрос с неверным секретом не оставляет побочных эффектов.
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if h.secret != "" && !h.secretMatches(r) {
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, errorResponse{
			Error:   "forbidden",
			Code:    http.StatusForbidden,
			Message: "Неверный секрет вебхука",
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
	if store == nil || !store.IsActive {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, errorResponse{
			Error:   "not_found",
			Code:    http.StatusNotFound,
			Message: "Магазин не найден",
		})
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{
			Error:   "bad_request",
			Code:    http.StatusBadRequest,
			Message: "Некорректное тело обновления",
		})
		return
	}

	sender, err := h.senders.SenderFor(store.BotToken)
	if err != nil {
		h.logger.ErrorWithContext(r.Context(), "Ошибка инициализации бота",
			logger.Field{Key: "store_id", Value: store.ID},
			logger.Field{Key: "error", Value: err.Error()})
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResponse{
			Error:   "internal_error",
			Code:    http.StatusInternalServerError,
			Message: "Бот магазина недоступен",
		})
		return
	}

	if err := h.dispatcher.HandleUpdate(r.Context(), store, sender, &update); err != nil {
		h.logger.ErrorWithContext(r.Context(), "Ошибка обработки обновления",
			logger.Field{Key: "store_id", Value: store.ID},
			logger.Field{Key: "error", Value: err.Error()})
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResponse{
			Error:   "internal_error",
			Code:    http.StatusInternalServerError,
			Message: "Ошибка обработки обновления",
		})
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response{Success: true})
}

// secretMatches сравнивает секрет из параметра secret или заголовка
// Telegram с настроенным значением.
func (h *WebhookHandler) secretMatches(r *http.Request) bool {
	if r.URL.Query().Get("secret") == h.secret {
		return true
	}
	return r.Header.Get(SecretTokenHeader) == h.secret
}

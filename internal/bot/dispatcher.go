package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/athebyme/storefront-service/internal/adapters/logger"
	"github.com/athebyme/storefront-service/internal/adapters/telegram"
	"github.com/athebyme/storefront-service/internal/domain/models"
)

const (
	commandStart   = "start"
	commandCatalog = "catalog"
	commandOrders  = "orders"
	commandHelp    = "help"

	buttonCatalog = "🛍 Каталог"
	buttonOrders  = "📦 Мои заказы"
	buttonHelp    = "ℹ️ Помощь"

	callbackAddToCart = "add_to_cart:"
	callbackShowCart  = "show_cart"
	callbackCheckout  = "checkout"
)

// Dispatcher маршрутизирует входящие обновления Telegram на обработчики.
// Каждое обновление обрабатывается ботом конкретного магазина: отправитель
// передается явно вместе с магазином, общего токена у процесса нет.
type Dispatcher struct {
	webAppBaseURL string
	logger        logger.Logger
}

// NewDispatcher создает новый экземпляр Dispatcher.
func NewDispatcher(webAppBaseURL string, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		webAppBaseURL: webAppBaseURL,
		logger:        log,
	}
}

// HandleUpdate обрабатывает одно обновление. Неизвестные типы обновлений
// игнорируются без ошибки: Telegram повторяет доставку только на 5xx.
func (d *Dispatcher) HandleUpdate(ctx context.Context, store *models.Store, sender telegram.Sender, update *tgbotapi.Update) error {
	switch {
	case update.Message != nil:
		return d.handleMessage(ctx, store, sender, update.Message)
	case update.CallbackQuery != nil:
		return d.handleCallback(ctx, store, sender, update.CallbackQuery)
	default:
		return nil
	}
}

func (d *Dispatcher) handleMessage(ctx context.Context, store *models.Store, sender telegram.Sender, message *tgbotapi.Message) error {
	command := message.Command()
	if command == "" {
		switch message.Text {
		case buttonCatalog:
			command = commandCatalog
		case buttonOrders:
			command = commandOrders
		case buttonHelp:
			command = commandHelp
		}
	}

	var msg tgbotapi.MessageConfig

	switch command {
	case commandStart:
		msg = tgbotapi.NewMessage(message.Chat.ID,
			fmt.Sprintf("Добро пожаловать в магазин «%s»! Выберите действие:", store.Name))
		msg.ReplyMarkup = mainMenuKeyboard()
	case commandCatalog:
		msg = tgbotapi.NewMessage(message.Chat.ID, "Откройте каталог магазина:")
		msg.ReplyMarkup = d.catalogKeyboard(store.ID)
	case commandOrders:
		msg = tgbotapi.NewMessage(message.Chat.ID, "У вас пока нет заказов.")
	case commandHelp:
		msg = tgbotapi.NewMessage(message.Chat.ID,
			"Команды:\n/catalog — каталог товаров\n/orders — ваши заказы\n/help — эта справка")
	default:
		msg = tgbotapi.NewMessage(message.Chat.ID, "Не понимаю. Выберите действие из меню:")
		msg.ReplyMarkup = mainMenuKeyboard()
	}

	if _, err := sender.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	d.logger.InfoWithContext(ctx, "Сообщение обработано",
		logger.Field{Key: "store_id", Value: store.ID},
		logger.Field{Key: "chat_id", Value: message.Chat.ID},
		logger.Field{Key: "command", Value: command})
	return nil
}

func (d *Dispatcher) handleCallback(ctx context.Context, store *models.Store, sender telegram.Sender, callback *tgbotapi.CallbackQuery) error {
	if callback.Message == nil {
		return nil
	}
	chatID := callback.Message.Chat.ID

	var text string
	switch {
	case strings.HasPrefix(callback.Data, callbackAddToCart):
		productID := strings.TrimPrefix(callback.Data, callbackAddToCart)
		text = fmt.Sprintf("Товар %s добавлен в корзину.", productID)
	case callback.Data == callbackShowCart:
		text = "Ваша корзина пуста."
	case callback.Data == callbackCheckout:
		text = "Оформление заказов скоро появится."
	default:
		return nil
	}

	if _, err := sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	d.logger.InfoWithContext(ctx, "Callback обработан",
		logger.Field{Key: "store_id", Value: store.ID},
		logger.Field{Key: "data", Value: callback.Data})
	return nil
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonCatalog),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonOrders),
			tgbotapi.NewKeyboardButton(buttonHelp),
		),
	)
}

func (d *Dispatcher) catalogKeyboard(storeID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.InlineKeyboardButton{
				Text: "Открыть каталог",
				WebApp: &tgbotapi.WebAppInfo{
					URL: fmt.Sprintf("%s?store_id=%s", d.webAppBaseURL, storeID),
				},
			},
		),
	)
}

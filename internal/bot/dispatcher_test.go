package bot

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athebyme/storefront-service/internal/adapters/logger"
	"github.com/athebyme/storefront-service/internal/domain/models"
)

type recordingSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (s *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if s.err != nil {
		return tgbotapi.Message{}, s.err
	}
	s.sent = append(s.sent, c)
	return tgbotapi.Message{MessageID: len(s.sent)}, nil
}

func messageUpdate(text string) *tgbotapi.Update {
	msg := &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: 1001},
	}
	if len(text) > 0 && text[0] == '/' {
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}}
	}
	return &tgbotapi.Update{Message: msg}
}

func callbackUpdate(data string) *tgbotapi.Update {
	return &tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			Data: data,
			Message: &tgbotapi.Message{
				Chat: &tgbotapi.Chat{ID: 1001},
			},
		},
	}
}

func testDispatcherStore() *models.Store {
	return &models.Store{ID: "store-1", Name: "Цветы у дома"}
}

func TestHandleUpdate_StartCommand(t *testing.T) {
	sender := &recordingSender{}
	dispatcher := NewDispatcher("https://shop.example.com/app", logger.NewNop())

	err := dispatcher.HandleUpdate(context.Background(), testDispatcherStore(), sender, messageUpdate("/start"))

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Contains(t, msg.Text, "Цветы у дома")
	assert.IsType(t, tgbotapi.ReplyKeyboardMarkup{}, msg.ReplyMarkup)
}

func TestHandleUpdate_CatalogOpensWebApp(t *testing.T) {
	sender := &recordingSender{}
	dispatcher := NewDispatcher("https://shop.example.com/app", logger.NewNop())

	err := dispatcher.HandleUpdate(context.Background(), testDispatcherStore(), sender, messageUpdate("/catalog"))

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	msg := sender.sent[0].(tgbotapi.MessageConfig)
	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 1)
	button := markup.InlineKeyboard[0][0]
	require.NotNil(t, button.WebApp)
	assert.Equal(t, "https://shop.example.com/app?store_id=store-1", button.WebApp.URL)
}

func TestHandleUpdate_MenuButtonText(t *testing.T) {
	sender := &recordingSender{}
	dispatcher := NewDispatcher("https://shop.example.com/app", logger.NewNop())

	err := dispatcher.HandleUpdate(context.Background(), testDispatcherStore(), sender, messageUpdate(buttonCatalog))

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	msg := sender.sent[0].(tgbotapi.MessageConfig)
	_, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	assert.True(t, ok)
}

func TestHandleUpdate_UnknownTextShowsMenu(t *testing.T) {
	sender := &recordingSender{}
	dispatcher := NewDispatcher("https://shop.example.com/app", logger.NewNop())

	err := dispatcher.HandleUpdate(context.Background(), testDispatcherStore(), sender, messageUpdate("привет"))

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	msg := sender.sent[0].(tgbotapi.MessageConfig)
	assert.Contains(t, msg.Text, "меню")
}

func TestHandleUpdate_AddToCartCallback(t *testing.T) {
	sender := &recordingSender{}
	dispatcher := NewDispatcher("https://shop.example.com/app", logger.NewNop())

	err := dispatcher.HandleUpdate(context.Background(), testDispatcherStore(), sender, callbackUpdate("add_to_cart:101"))

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	msg := sender.sent[0].(tgbotapi.MessageConfig)
	assert.Contains(t, msg.Text, "101")
}

func TestHandleUpdate_UnknownCallbackIgnored(t *testing.T) {
	sender := &recordingSender{}
	dispatcher := NewDispatcher("https://shop.example.com/app", logger.NewNop())

	err := dispatcher.HandleUpdate(context.Background(), testDispatcherStore(), sender, callbackUpdate("something_else"))

	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func TestHandleUpdate_EmptyUpdateIgnored(t *testing.T) {
	sender := &recordingSender{}
	dispatcher := NewDispatcher("https://shop.example.com/app", logger.NewNop())

	err := dispatcher.HandleUpdate(context.Background(), testDispatcherStore(), sender, &tgbotapi.Update{})

	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func TestHandleUpdate_SendFailure(t *testing.T) {
	sender := &recordingSender{err: errors.New("telegram unavailable")}
	dispatcher := NewDispatcher("https://shop.example.com/app", logger.NewNop())

	err := dispatcher.HandleUpdate(context.Background(), testDispatcherStore(), sender, messageUpdate("/start"))

	assert.Error(t, err)
}

package telegram

import (
	"fmt"
	"net/http"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender определяет минимальный интерфейс отправки сообщений ботом.
// *tgbotapi.BotAPI реализует его напрямую.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Registry выдает клиентов Bot API по токену магазина. Общего на процесс
// токена нет: каждый вызов вебхука резолвит своего бота по магазину из
// маршрута и передает его дальше по цепочке явно.
type Registry struct {
	mu         sync.RWMutex
	bots       map[string]*tgbotapi.BotAPI
	httpClient *http.Client
}

// NewRegistry создает пустой реестр ботов.
func NewRegistry() *Registry {
	return &Registry{
		bots:       make(map[string]*tgbotapi.BotAPI),
		httpClient: &http.Client{},
	}
}

// Bot возвращает клиента Bot API для токена, создавая и проверяя его при
// первом обращении.
func (r *Registry) Bot(token string) (*tgbotapi.BotAPI, error) {
	if token == "" {
		return nil, fmt.Errorf("bot token is empty")
	}

	r.mu.RLock()
	bot, ok := r.bots[token]
	r.mu.RUnlock()
	if ok {
		return bot, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Повторная проверка под write-блокировкой.
	if bot, ok := r.bots[token]; ok {
		return bot, nil
	}

	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, r.httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize bot: %w", err)
	}

	r.bots[token] = bot
	return bot, nil
}

// SenderFor возвращает отправителя сообщений для токена.
func (r *Registry) SenderFor(token string) (Sender, error) {
	return r.Bot(token)
}

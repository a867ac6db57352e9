package marketplace

import (
	"github.com/athebyme/storefront-service/internal/adapters/logger"
	"github.com/athebyme/storefront-service/internal/domain/models"
)

// WildberriesBuilder создает клиента Wildberries по токену магазина.
type WildberriesBuilder func(token string) (Client, error)

// OzonBuilder создает клиента Ozon по учетным данным магазина.
type OzonBuilder func(clientID, apiKey string) (Client, error)

// Factory собирает клиентов маркетплейсов по учетным данным магазина.
// Конструкторы конкретных клиентов передаются снаружи, чтобы лимитер
// Wildberries и базовые URL настраивались в одном месте при сборке сервиса.
type Factory struct {
	wildberries WildberriesBuilder
	ozon        OzonBuilder
	logger      logger.Logger
}

// NewFactory создает новый экземпляр Factory.
func NewFactory(wildberries WildberriesBuilder, ozon OzonBuilder, log logger.Logger) *Factory {
	return &Factory{
		wildberries: wildberries,
		ozon:        ozon,
		logger:      log,
	}
}

// ClientsFor возвращает по клиенту на каждый настроенный у магазина
// маркетплейс. Если учетных данных нет ни для одного — ErrNoCredentials,
// без сетевых вызовов.
func (f *Factory) ClientsFor(store *models.Store) ([]Client, error) {
	var clients []Client

	if store.HasWildberries() {
		client, err := f.wildberries(store.WBAPIToken)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}

	if store.HasOzon() {
		client, err := f.ozon(store.OzonClientID, store.OzonAPIKey)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}

	if len(clients) == 0 {
		return nil, ErrNoCredentials
	}

	return clients, nil
}

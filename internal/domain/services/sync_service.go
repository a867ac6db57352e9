package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/athebyme/storefront-service/internal/adapters/cache"
	"github.com/athebyme/storefront-service/internal/adapters/logger"
	"github.com/athebyme/storefront-service/internal/adapters/messaging"
	postgres "github.com/athebyme/storefront-service/internal/adapters/storage"
	"github.com/athebyme/storefront-service/internal/domain/models"
	"github.com/athebyme/storefront-service/internal/marketplace"
)

// ClientFactory собирает клиентов маркетплейсов по учетным данным магазина.
type ClientFactory interface {
	// ClientsFor возвращает по одному клиенту на каждый маркетплейс,
	// для которого у магазина заполнены учетные данные. Если не заполнен
	// ни один — marketplace.ErrNoCredentials, без сетевых вызовов.
	ClientsFor(store *models.Store) ([]marketplace.Client, error)
}

// SyncServiceInterface определяет интерфейс сервиса синхронизации.
type SyncServiceInterface interface {
	SyncStore(ctx context.Context, store *models.Store) (*models.SyncResult, error)
}

// SyncService выполняет синхронизацию каталога магазина с маркетплейсами:
// листинг -> цены -> нормализация -> upsert. Прогон идемпотентен: повторный
// запуск при неизменных данных маркетплейса оставляет строки без изменений,
// кроме временных меток.
type SyncService struct {
	repository postgres.StorageInterface
	cache      cache.Cache
	publisher  messaging.EventPublisher
	factory    ClientFactory
	logger     logger.Logger
}

// NewSyncService создает новый экземпляр SyncService.
func NewSyncService(
	repository postgres.StorageInterface,
	cacheClient cache.Cache,
	publisher messaging.EventPublisher,
	factory ClientFactory,
	log logger.Logger,
) *SyncService {
	return &SyncService{
		repository: repository,
		cache:      cacheClient,
		publisher:  publisher,
		factory:    factory,
		logger:     log,
	}
}

// SyncStore запускает синхронизацию по всем настроенным у магазина
// маркетплейсам и возвращает сводный результат. Ошибка возвращается только
// для конфигурационных проблем (нет учетных данных) — до сетевых вызовов.
func (s *SyncService) SyncStore(ctx context.Context, store *models.Store) (*models.SyncResult, error) {
	clients, err := s.factory.ClientsFor(store)
	if err != nil {
		return nil, err
	}

	aggregate := &models.SyncResult{Success: true}

	for _, client := range clients {
		result := s.syncMarketplace(ctx, store, client)

		if err := s.publisher.PublishSyncCompleted(ctx, store.ID, result); err != nil {
			s.logger.ErrorWithContext(ctx, "Не удалось опубликовать событие синхронизации",
				logger.Field{Key: "store_id", Value: store.ID},
				logger.Field{Key: "error", Value: err.Error()})
		}

		aggregate.Merge(result)
	}

	if aggregate.SyncedCount > 0 {
		if err := s.cache.Delete(ctx, CatalogCacheKey(store.ID)); err != nil {
			s.logger.ErrorWithContext(ctx, "Не удалось сбросить кэш витрины",
				logger.Field{Key: "store_id", Value: store.ID},
				logger.Field{Key: "error", Value: err.Error()})
		}
	}

	return aggregate, nil
}

// syncMarketplace выполняет один прогон по одному маркетплейсу.
func (s *SyncService) syncMarketplace(ctx context.Context, store *models.Store, client marketplace.Client) *models.SyncResult {
	result := &models.SyncResult{Success: true, Marketplace: client.Name()}

	items, err := client.ListItems(ctx)
	if err != nil {
		// Без листинга продолжать нечем: ошибка фатальна для прогона.
		s.logger.ErrorWithContext(ctx, "Ошибка выгрузки листинга",
			logger.Field{Key: "store_id", Value: store.ID},
			logger.Field{Key: "marketplace", Value: client.Name()},
			logger.Field{Key: "error", Value: err.Error()})
		result.Success = false
		result.Error = fmt.Sprintf("listing fetch failed: %v", err)
		return result
	}

	if len(items) == 0 {
		// Пустой листинг — не ошибка.
		return result
	}

	result.TotalProducts = len(items)

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	prices, err := client.FetchPrices(ctx, ids)
	if err != nil {
		result.Success = false
		result.Error = fmt.Sprintf("price fetch failed: %v", err)
		return result
	}

	for _, item := range items {
		price := prices[item.ID]
		display := price.Display()

		// Публикуются только продаваемые позиции с ценой: нулевая цена или
		// отсутствие остатков — пропуск без upsert и без удаления строки.
		if display <= 0 || !item.InStock {
			continue
		}

		product, err := buildProduct(store.ID, client.Name(), item, price)
		if err != nil {
			result.AddError(fmt.Sprintf("product %s: %v", item.ID, err))
			continue
		}

		if err := s.repository.UpsertProduct(ctx, product); err != nil {
			result.AddError(fmt.Sprintf("product %s: %v", item.ID, err))
			continue
		}

		result.SyncedCount++
	}

	s.logger.InfoWithContext(ctx, "Прогон синхронизации завершен",
		logger.Field{Key: "store_id", Value: store.ID},
		logger.Field{Key: "marketplace", Value: client.Name()},
		logger.Field{Key: "synced", Value: result.SyncedCount},
		logger.Field{Key: "errors", Value: result.ErrorCount},
		logger.Field{Key: "total", Value: result.TotalProducts})

	return result
}

// buildProduct нормализует позицию листинга в запись каталога.
func buildProduct(storeID, marketplaceName string, item marketplace.Item, price marketplace.Price) (*models.Product, error) {
	display := price.Display()

	properties := make(map[string]interface{}, len(item.Properties)+1)
	for k, v := range item.Properties {
		properties[k] = v
	}
	if price.Price > display {
		properties["discount_percent"] = math.Round((price.Price - display) / price.Price * 100)
	}

	raw, err := json.Marshal(properties)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal properties: %w", err)
	}

	return &models.Product{
		StoreID:       storeID,
		Marketplace:   marketplaceName,
		MarketplaceID: item.ID,
		Name:          item.Name,
		Description:   item.Description,
		Price:         display,
		OriginalPrice: price.Price,
		InStock:       item.InStock,
		ImageURLs:     item.ImageURLs,
		Category:      item.Category,
		Brand:         item.Brand,
		Properties:    raw,
	}, nil
}

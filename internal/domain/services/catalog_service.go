package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/athebyme/storefront-service/internal/adapters/cache"
	"github.com/athebyme/storefront-service/internal/adapters/logger"
	postgres "github.com/athebyme/storefront-service/internal/adapters/storage"
	"github.com/athebyme/storefront-service/internal/domain/models"
)

// CatalogCacheKey возвращает ключ кэша витрины магазина.
func CatalogCacheKey(storeID string) string {
	return fmt.Sprintf("catalog:%s", storeID)
}

// CatalogServiceInterface определяет интерфейс сервиса витрины.
type CatalogServiceInterface interface {
	ListCatalog(ctx context.Context, storeID string) ([]*models.Product, error)
}

// CatalogService отдает витрину магазина для мини-приложения.
// Витрина кэшируется в Redis и сбрасывается после успешной синхронизации.
type CatalogService struct {
	repository postgres.StorageInterface
	cache      cache.Cache
	logger     logger.Logger
	ttl        time.Duration
}

// NewCatalogService создает новый экземпляр CatalogService.
func NewCatalogService(repository postgres.StorageInterface, cacheClient cache.Cache, log logger.Logger, ttl time.Duration) *CatalogService {
	return &CatalogService{
		repository: repository,
		cache:      cacheClient,
		logger:     log,
		ttl:        ttl,
	}
}

// ListCatalog возвращает позиции витрины: только с остатками, свежие сверху.
func (s *CatalogService) ListCatalog(ctx context.Context, storeID string) ([]*models.Product, error) {
	key := CatalogCacheKey(storeID)

	cached, err := s.cache.Get(ctx, key)
	if err == nil {
		var products []*models.Product
		if err := json.Unmarshal(cached, &products); err == nil {
			return products, nil
		}
		s.logger.ErrorWithContext(ctx, "Поврежденная запись кэша витрины",
			logger.Field{Key: "store_id", Value: storeID})
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.ErrorWithContext(ctx, "Ошибка чтения кэша витрины",
			logger.Field{Key: "store_id", Value: storeID},
			logger.Field{Key: "error", Value: err.Error()})
	}

	products, err := s.repository.ListProducts(ctx, storeID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	if data, err := json.Marshal(products); err == nil {
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			s.logger.ErrorWithContext(ctx, "Не удалось записать кэш витрины",
				logger.Field{Key: "store_id", Value: storeID},
				logger.Field{Key: "error", Value: err.Error()})
		}
	}

	return products, nil
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/athebyme/storefront-service/internal/domain/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StorageInterface определяет интерфейс взаимодействия с хранилищем PostgreSQL.
type StorageInterface interface {
	// Store методы
	SaveStore(ctx context.Context, store *models.Store) error
	GetStore(ctx context.Context, storeID string) (*models.Store, error)
	ListStoresByUser(ctx context.Context, userID string) ([]*models.Store, error)

	// Product методы
	UpsertProduct(ctx context.Context, product *models.Product) error
	ListProducts(ctx context.Context, storeID string, inStockOnly bool) ([]*models.Product, error)

	Close() error
}

// Storage реализация StorageInterface для PostgreSQL.
type Storage struct {
	pool *pgxpool.Pool
}

// NewStorage создает новый экземпляр Storage.
func NewStorage(ctx context.Context, connectionString string) (*Storage, error) {
	pool, err := pgxpool.New(ctx, connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &Storage{pool: pool}, nil
}

// NewStorageWithPool создает Storage поверх готового пула.
func NewStorageWithPool(ctx context.Context, pool *pgxpool.Pool) (*Storage, error) {
	if pool == nil {
		return nil, errors.New("pool is nil")
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return &Storage{pool: pool}, nil
}

// Close закрывает соединение с БД.
func (r *Storage) Close() error {
	r.pool.Close()
	return nil
}

// SaveStore сохраняет магазин (вставка или полная перезапись по id).
func (r *Storage) SaveStore(ctx context.Context, store *models.Store) error {
	if store.ID == "" {
		store.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	if store.CreatedAt.IsZero() {
		store.CreatedAt = now
	}
	store.UpdatedAt = now

	query := `
		INSERT INTO stores (id, user_id, name, bot_token, wb_api_token,
			ozon_client_id, ozon_api_key, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id)
		DO UPDATE SET
			user_id = $2,
			name = $3,
			bot_token = $4,
			wb_api_token = $5,
			ozon_client_id = $6,
			ozon_api_key = $7,
			is_active = $8,
			updated_at = $10
	`

	_, err := r.pool.Exec(ctx, query, store.ID, store.UserID, store.Name,
		store.BotToken, store.WBAPIToken, store.OzonClientID, store.OzonAPIKey,
		store.IsActive, store.CreatedAt, store.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save store: %w", err)
	}
	return nil
}

// GetStore получает магазин по ID.
func (r *Storage) GetStore(ctx context.Context, storeID string) (*models.Store, error) {
	query := `
		SELECT id, user_id, name, bot_token, wb_api_token,
			ozon_client_id, ozon_api_key, is_active, created_at, updated_at
		FROM stores
		WHERE id = $1
	`

	var store models.Store
	row := r.pool.QueryRow(ctx, query, storeID)
	err := row.Scan(&store.ID, &store.UserID, &store.Name, &store.BotToken,
		&store.WBAPIToken, &store.OzonClientID, &store.OzonAPIKey,
		&store.IsActive, &store.CreatedAt, &store.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Магазин не найден
		}
		return nil, fmt.Errorf("failed to get store: %w", err)
	}

	return &store, nil
}

// ListStoresByUser возвращает магазины пользователя.
func (r *Storage) ListStoresByUser(ctx context.Context, userID string) ([]*models.Store, error) {
	query := `
		SELECT id, user_id, name, bot_token, wb_api_token,
			ozon_client_id, ozon_api_key, is_active, created_at, updated_at
		FROM stores
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	defer rows.Close()

	var stores []*models.Store
	for rows.Next() {
		var store models.Store
		err := rows.Scan(&store.ID, &store.UserID, &store.Name, &store.BotToken,
			&store.WBAPIToken, &store.OzonClientID, &store.OzonAPIKey,
			&store.IsActive, &store.CreatedAt, &store.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan store row: %w", err)
		}
		stores = append(stores, &store)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating store rows: %w", rows.Err())
	}

	return stores, nil
}

// UpsertProduct сохраняет товар по ключу (store_id, marketplace, marketplace_id).
// Существующая строка перезаписывается целиком, отсутствующая вставляется;
// дубликат по ключу невозможен.
func (r *Storage) UpsertProduct(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	imageURLs, err := json.Marshal(product.ImageURLs)
	if err != nil {
		return fmt.Errorf("failed to marshal image urls: %w", err)
	}

	query := `
		INSERT INTO products (id, store_id, marketplace, marketplace_id, name,
			description, price, original_price, in_stock, image_urls, category,
			brand, rating, review_count, properties, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (store_id, marketplace, marketplace_id)
		DO UPDATE SET
			name = $5,
			description = $6,
			price = $7,
			original_price = $8,
			in_stock = $9,
			image_urls = $10,
			category = $11,
			brand = $12,
			rating = $13,
			review_count = $14,
			properties = $15,
			updated_at = $17
	`

	_, err = r.pool.Exec(ctx, query, product.ID, product.StoreID,
		product.Marketplace, product.MarketplaceID, product.Name,
		product.Description, product.Price, product.OriginalPrice,
		product.InStock, imageURLs, product.Category, product.Brand,
		product.Rating, product.ReviewCount, product.Properties,
		product.CreatedAt, product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}
	return nil
}

// ListProducts возвращает товары магазина, при inStockOnly — только
// доступные к продаже.
func (r *Storage) ListProducts(ctx context.Context, storeID string, inStockOnly bool) ([]*models.Product, error) {
	query := `
		SELECT id, store_id, marketplace, marketplace_id, name, description,
			price, original_price, in_stock, image_urls, category, brand,
			rating, review_count, properties, created_at, updated_at
		FROM products
		WHERE store_id = $1
	`
	if inStockOnly {
		query += " AND in_stock = true"
	}
	query += " ORDER BY updated_at DESC"

	rows, err := r.pool.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		var product models.Product
		var imageURLs []byte
		err := rows.Scan(&product.ID, &product.StoreID, &product.Marketplace,
			&product.MarketplaceID, &product.Name, &product.Description,
			&product.Price, &product.OriginalPrice, &product.InStock,
			&imageURLs, &product.Category, &product.Brand, &product.Rating,
			&product.ReviewCount, &product.Properties,
			&product.CreatedAt, &product.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}

		if len(imageURLs) > 0 {
			if err := json.Unmarshal(imageURLs, &product.ImageURLs); err != nil {
				return nil, fmt.Errorf("failed to unmarshal image urls: %w", err)
			}
		}

		products = append(products, &product)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating product rows: %w", rows.Err())
	}

	return products, nil
}

package models

import (
	"encoding/json"
	"time"
)

// Названия маркетплейсов, используемые в ключе уникальности товара.
const (
	MarketplaceWildberries = "wildberries"
	MarketplaceOzon        = "ozon"
)

// Product представляет нормализованную карточку товара, синхронизированную
// из маркетплейса. Уникальность обеспечивается по ключу
// (store_id, marketplace, marketplace_id): повторная синхронизация
// перезаписывает существующую строку целиком и никогда не создает дубликат.
type Product struct {
	ID            string          `json:"id"`
	StoreID       string          `json:"store_id"`
	Marketplace   string          `json:"marketplace"`
	MarketplaceID string          `json:"marketplace_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         float64         `json:"price"`
	OriginalPrice float64         `json:"original_price,omitempty"`
	InStock       bool            `json:"in_stock"`
	ImageURLs     []string        `json:"image_urls,omitempty"`
	Category      string          `json:"category,omitempty"`
	Brand         string          `json:"brand,omitempty"`
	Rating        float64         `json:"rating,omitempty"`
	ReviewCount   int             `json:"review_count,omitempty"`
	// Properties хранит специфичные для маркетплейса поля
	// (габариты, размеры, процент скидки) без схемы.
	Properties json.RawMessage `json:"properties,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

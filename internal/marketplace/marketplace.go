package marketplace

import (
	"context"
	"errors"
)

// ErrNoCredentials возвращается до любого сетевого вызова, если у магазина
// не заполнены учетные данные маркетплейса.
var ErrNoCredentials = errors.New("marketplace credentials are not configured")

// Item представляет позицию из листинга маркетплейса до обогащения ценами.
type Item struct {
	ID          string
	Name        string
	Description string
	Brand       string
	Category    string
	ImageURLs   []string
	// InStock — true, если хотя бы один размер/вариант имеет доступный SKU.
	InStock bool
	// Properties — специфичные для маркетплейса поля (габариты, размеры,
	// процент скидки), попадающие в колонку properties без изменений.
	Properties map[string]interface{}
}

// Price представляет цену позиции, полученную отдельным проходом:
// листинговые методы маркетплейсов не отдают актуальные цены.
type Price struct {
	ID              string
	Price           float64
	DiscountedPrice float64
}

// Display возвращает цену для витрины: скидочную, если она задана.
func (p Price) Display() float64 {
	if p.DiscountedPrice > 0 {
		return p.DiscountedPrice
	}
	return p.Price
}

// Client определяет, какие операции должен поддерживать адаптер маркетплейса.
type Client interface {
	// Name возвращает имя маркетплейса для ключа уникальности товара.
	Name() string

	// ListItems выгружает полный листинг товаров постранично.
	// Ошибка здесь фатальна для всего прогона синхронизации.
	ListItems(ctx context.Context) ([]Item, error)

	// FetchPrices получает цены по списку идентификаторов. Ошибка по
	// отдельному id не прерывает выборку: для него возвращается нулевая
	// запись-заглушка, а обход продолжается.
	FetchPrices(ctx context.Context, ids []string) (map[string]Price, error)
}

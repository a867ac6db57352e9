package ozon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/athebyme/storefront-service/internal/adapters/logger"
	"github.com/athebyme/storefront-service/internal/marketplace"
)

// DefaultBaseURL — адрес seller API Ozon.
const DefaultBaseURL = "https://api-seller.ozon.ru"

// pageLimit — максимальный размер страницы листинга.
const pageLimit = 100

// Client реализует marketplace.Client для Ozon.
//
// В отличие от Wildberries, Ozon отдает информацию, цены и остатки
// батчами по списку идентификаторов, поэтому ценовой проход здесь
// не нуждается в ограничителе.
type Client struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	apiKey     string
	logger     logger.Logger
}

// Option настраивает клиента.
type Option func(*Client)

// WithBaseURL переопределяет адрес API (используется в тестах).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient переопределяет HTTP-клиент.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient создает клиента Ozon.
func NewClient(clientID, apiKey string, log logger.Logger, opts ...Option) (*Client, error) {
	if clientID == "" || apiKey == "" {
		return nil, marketplace.ErrNoCredentials
	}

	c := &Client{
		httpClient: &http.Client{},
		baseURL:    DefaultBaseURL,
		clientID:   clientID,
		apiKey:     apiKey,
		logger:     log,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Name возвращает имя маркетплейса.
func (c *Client) Name() string {
	return "ozon"
}

// post выполняет POST-запрос к seller API с авторизационными заголовками.
func (c *Client) post(ctx context.Context, path string, reqBody, respBody interface{}) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Client-Id", c.clientID)
	httpReq.Header.Set("Api-Key", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("request to %s failed with status %d", path, httpResp.StatusCode)
	}

	if err := json.NewDecoder(httpResp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}

	return nil
}

// productListResponse — ответ /v3/product/list.
type productListResponse struct {
	Result struct {
		Items []struct {
			ProductID int64  `json:"product_id"`
			OfferID   string `json:"offer_id"`
		} `json:"items"`
		Total  int    `json:"total"`
		LastID string `json:"last_id"`
	} `json:"result"`
}

// productInfoResponse — ответ /v3/product/info/list.
type productInfoResponse struct {
	Items []struct {
		ID          int64    `json:"id"`
		Name        string   `json:"name"`
		OfferID     string   `json:"offer_id"`
		Description string   `json:"description"`
		Images      []string `json:"images"`
		Barcodes    []string `json:"barcodes"`
	} `json:"items"`
}

// stocksResponse — ответ /v4/product/info/stocks.
type stocksResponse struct {
	Items []struct {
		ProductID int64 `json:"product_id"`
		Stocks    []struct {
			Type     string `json:"type"`
			Present  int    `json:"present"`
			Reserved int    `json:"reserved"`
		} `json:"stocks"`
	} `json:"items"`
}

// ListItems выгружает листинг страницами по курсору last_id и обогащает
// его данными карточек и остатками батчевыми запросами.
func (c *Client) ListItems(ctx context.Context) ([]marketplace.Item, error) {
	var ids []int64
	offerIDs := make(map[int64]string)

	lastID := ""
	for {
		req := map[string]interface{}{
			"filter":  map[string]interface{}{"visibility": "ALL"},
			"last_id": lastID,
			"limit":   pageLimit,
		}

		var resp productListResponse
		if err := c.post(ctx, "/v3/product/list", req, &resp); err != nil {
			return nil, err
		}

		for _, it := range resp.Result.Items {
			ids = append(ids, it.ProductID)
			offerIDs[it.ProductID] = it.OfferID
		}

		if len(resp.Result.Items) < pageLimit || resp.Result.LastID == "" {
			break
		}
		lastID = resp.Result.LastID
	}

	if len(ids) == 0 {
		return nil, nil
	}

	info, err := c.fetchInfo(ctx, ids)
	if err != nil {
		return nil, err
	}

	stocks, err := c.fetchStocks(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]marketplace.Item, 0, len(ids))
	for _, id := range ids {
		item, ok := info[id]
		if !ok {
			// Карточка без детальной информации не публикуется.
			c.logger.Warn("Ozon не вернул карточку товара из листинга",
				logger.Field{Key: "product_id", Value: id})
			continue
		}

		item.InStock = stocks[id] > 0
		item.Properties["offer_id"] = offerIDs[id]
		items = append(items, item)
	}

	return items, nil
}

// fetchInfo получает карточки батчем по списку идентификаторов.
func (c *Client) fetchInfo(ctx context.Context, ids []int64) (map[int64]marketplace.Item, error) {
	req := map[string]interface{}{"product_id": ids}

	var resp productInfoResponse
	if err := c.post(ctx, "/v3/product/info/list", req, &resp); err != nil {
		return nil, err
	}

	info := make(map[int64]marketplace.Item, len(resp.Items))
	for _, it := range resp.Items {
		info[it.ID] = marketplace.Item{
			ID:          strconv.FormatInt(it.ID, 10),
			Name:        it.Name,
			Description: it.Description,
			ImageURLs:   it.Images,
			Properties: map[string]interface{}{
				"barcodes": it.Barcodes,
			},
		}
	}

	return info, nil
}

// fetchStocks получает доступные остатки батчем. Доступный остаток —
// сумма present за вычетом reserved по всем складам.
func (c *Client) fetchStocks(ctx context.Context, ids []int64) (map[int64]int, error) {
	req := map[string]interface{}{
		"filter": map[string]interface{}{"product_id": ids},
		"limit":  len(ids),
	}

	var resp stocksResponse
	if err := c.post(ctx, "/v4/product/info/stocks", req, &resp); err != nil {
		return nil, err
	}

	stocks := make(map[int64]int, len(resp.Items))
	for _, it := range resp.Items {
		available := 0
		for _, s := range it.Stocks {
			available += s.Present - s.Reserved
		}
		stocks[it.ProductID] = available
	}

	return stocks, nil
}

// pricesResponse — ответ /v5/product/info/prices.
type pricesResponse struct {
	Items []struct {
		ProductID int64 `json:"product_id"`
		Price     struct {
			Price          string `json:"price"`
			OldPrice       string `json:"old_price"`
			MarketingPrice string `json:"marketing_price"`
		} `json:"price"`
	} `json:"items"`
}

// FetchPrices получает цены одним батчевым запросом. Если батч упал,
// для всех идентификаторов остаются нулевые записи-заглушки, а прогон
// синхронизации продолжается.
func (c *Client) FetchPrices(ctx context.Context, ids []string) (map[string]marketplace.Price, error) {
	prices := make(map[string]marketplace.Price, len(ids))
	for _, id := range ids {
		prices[id] = marketplace.Price{ID: id}
	}

	numeric := make([]int64, 0, len(ids))
	for _, id := range ids {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			continue
		}
		numeric = append(numeric, n)
	}

	req := map[string]interface{}{
		"filter": map[string]interface{}{"product_id": numeric},
		"limit":  len(numeric),
	}

	var resp pricesResponse
	if err := c.post(ctx, "/v5/product/info/prices", req, &resp); err != nil {
		c.logger.Warn("Не удалось получить цены Ozon, оставляем заглушки",
			logger.Field{Key: "error", Value: err.Error()})
		return prices, nil
	}

	for _, it := range resp.Items {
		id := strconv.FormatInt(it.ProductID, 10)

		price := parsePrice(it.Price.OldPrice)
		if price == 0 {
			price = parsePrice(it.Price.Price)
		}

		discounted := parsePrice(it.Price.MarketingPrice)
		if discounted == 0 {
			discounted = parsePrice(it.Price.Price)
		}

		prices[id] = marketplace.Price{
			ID:              id,
			Price:           price,
			DiscountedPrice: discounted,
		}
	}

	return prices, nil
}

// parsePrice разбирает цену, которую Ozon отдает строкой.
func parsePrice(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

package wildberries

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/athebyme/storefront-service/internal/adapters/logger"
	"github.com/athebyme/storefront-service/internal/marketplace"
	"github.com/athebyme/storefront-service/internal/ratelimit"
)

// Значения по умолчанию для API Wildberries.
const (
	DefaultContentURL = "https://content-api.wildberries.ru"
	DefaultPricesURL  = "https://discounts-prices-api.wildberries.ru"

	// pageLimit — максимальный размер страницы листинга карточек.
	pageLimit = 100
)

// Client реализует marketplace.Client для Wildberries.
//
// Листинг выгружается курсорной пагинацией из content API, цены — отдельным
// GET-запросом на каждый nmID: ценовой API не поддерживает батчи, а его
// опубликованный лимит — 10 запросов за 6 секунд, поэтому ценовой проход
// последовательный и пейсится ограничителем.
type Client struct {
	httpClient *http.Client
	contentURL string
	pricesURL  string
	token      string
	limiter    *ratelimit.Limiter
	logger     logger.Logger
}

// Option настраивает клиента.
type Option func(*Client)

// WithBaseURLs переопределяет адреса API (используется в тестах).
func WithBaseURLs(contentURL, pricesURL string) Option {
	return func(c *Client) {
		c.contentURL = contentURL
		c.pricesURL = pricesURL
	}
}

// WithHTTPClient переопределяет HTTP-клиент.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient создает клиента Wildberries. Ограничитель задает темп ценового
// прохода и должен соответствовать опубликованному лимиту API.
func NewClient(token string, limiter *ratelimit.Limiter, log logger.Logger, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, marketplace.ErrNoCredentials
	}

	c := &Client{
		httpClient: &http.Client{},
		contentURL: DefaultContentURL,
		pricesURL:  DefaultPricesURL,
		token:      token,
		limiter:    limiter,
		logger:     log,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Name возвращает имя маркетплейса.
func (c *Client) Name() string {
	return "wildberries"
}

// card — карточка товара из ответа content API.
type card struct {
	NmID        int64  `json:"nmID"`
	VendorCode  string `json:"vendorCode"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Brand       string `json:"brand"`
	SubjectName string `json:"subjectName"`
	Photos      []struct {
		Big string `json:"big"`
	} `json:"photos"`
	Sizes []struct {
		TechSize string   `json:"techSize"`
		Skus     []string `json:"skus"`
	} `json:"sizes"`
	Dimensions struct {
		Length int `json:"length"`
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"dimensions"`
}

// listCardsRequest — тело запроса листинга карточек.
type listCardsRequest struct {
	Settings struct {
		Cursor struct {
			Limit     int    `json:"limit"`
			UpdatedAt string `json:"updatedAt,omitempty"`
			NmID      int64  `json:"nmID,omitempty"`
		} `json:"cursor"`
		Filter struct {
			WithPhoto int `json:"withPhoto"`
		} `json:"filter"`
	} `json:"settings"`
}

// listCardsResponse — ответ листинга карточек.
type listCardsResponse struct {
	Cards  []card `json:"cards"`
	Cursor struct {
		UpdatedAt string `json:"updatedAt"`
		NmID      int64  `json:"nmID"`
		Total     int    `json:"total"`
	} `json:"cursor"`
	Error     bool   `json:"error"`
	ErrorText string `json:"errorText"`
}

// ListItems выгружает полный листинг карточек курсорной пагинацией.
func (c *Client) ListItems(ctx context.Context) ([]marketplace.Item, error) {
	var items []marketplace.Item

	req := listCardsRequest{}
	req.Settings.Cursor.Limit = pageLimit
	req.Settings.Filter.WithPhoto = -1

	for {
		resp, err := c.listCardsPage(ctx, &req)
		if err != nil {
			return nil, err
		}

		for _, cd := range resp.Cards {
			items = append(items, cardToItem(cd))
		}

		// Последняя страница короче лимита.
		if resp.Cursor.Total < pageLimit {
			break
		}

		req.Settings.Cursor.UpdatedAt = resp.Cursor.UpdatedAt
		req.Settings.Cursor.NmID = resp.Cursor.NmID
	}

	return items, nil
}

// listCardsPage запрашивает одну страницу листинга.
func (c *Client) listCardsPage(ctx context.Context, reqBody *listCardsRequest) (*listCardsResponse, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cards request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.contentURL+"/content/v2/get/cards/list", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build cards request: %w", err)
	}
	httpReq.Header.Set("Authorization", c.token)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cards: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cards request failed with status %d", httpResp.StatusCode)
	}

	var resp listCardsResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode cards response: %w", err)
	}

	if resp.Error {
		return nil, fmt.Errorf("cards request rejected: %s", resp.ErrorText)
	}

	return &resp, nil
}

// cardToItem нормализует карточку в общий формат.
func cardToItem(cd card) marketplace.Item {
	item := marketplace.Item{
		ID:          strconv.FormatInt(cd.NmID, 10),
		Name:        cd.Title,
		Description: cd.Description,
		Brand:       cd.Brand,
		Category:    cd.SubjectName,
	}

	for _, p := range cd.Photos {
		if p.Big != "" {
			item.ImageURLs = append(item.ImageURLs, p.Big)
		}
	}

	var techSizes []string
	for _, s := range cd.Sizes {
		techSizes = append(techSizes, s.TechSize)
		if len(s.Skus) > 0 {
			item.InStock = true
		}
	}

	item.Properties = map[string]interface{}{
		"vendor_code": cd.VendorCode,
		"sizes":       techSizes,
		"dimensions": map[string]int{
			"length": cd.Dimensions.Length,
			"width":  cd.Dimensions.Width,
			"height": cd.Dimensions.Height,
		},
	}

	return item
}

// priceFilterResponse — ответ ценового API по одному nmID.
type priceFilterResponse struct {
	Data struct {
		ListGoods []struct {
			NmID     int64 `json:"nmID"`
			Discount int   `json:"discount"`
			Sizes    []struct {
				Price           float64 `json:"price"`
				DiscountedPrice float64 `json:"discountedPrice"`
			} `json:"sizes"`
		} `json:"listGoods"`
	} `json:"data"`
}

// FetchPrices получает цены последовательно, по одному запросу на nmID,
// выдерживая темп ограничителя. Ошибка по отдельному id не прерывает обход:
// для него остается нулевая запись-заглушка.
func (c *Client) FetchPrices(ctx context.Context, ids []string) (map[string]marketplace.Price, error) {
	prices := make(map[string]marketplace.Price, len(ids))

	for _, id := range ids {
		prices[id] = marketplace.Price{ID: id}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("price fetch interrupted: %w", err)
		}

		price, err := c.fetchPrice(ctx, id)
		if err != nil {
			c.logger.Warn("Не удалось получить цену товара, оставляем заглушку",
				logger.Field{Key: "nm_id", Value: id},
				logger.Field{Key: "error", Value: err.Error()},
			)
			continue
		}

		prices[id] = price
	}

	return prices, nil
}

// fetchPrice запрашивает цену одного nmID.
func (c *Client) fetchPrice(ctx context.Context, id string) (marketplace.Price, error) {
	url := fmt.Sprintf("%s/api/v2/list/goods/filter?limit=1&filterNmID=%s", c.pricesURL, id)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return marketplace.Price{}, fmt.Errorf("failed to build price request: %w", err)
	}
	httpReq.Header.Set("Authorization", c.token)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return marketplace.Price{}, fmt.Errorf("failed to fetch price: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return marketplace.Price{}, fmt.Errorf("price request failed with status %d", httpResp.StatusCode)
	}

	var resp priceFilterResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return marketplace.Price{}, fmt.Errorf("failed to decode price response: %w", err)
	}

	if len(resp.Data.ListGoods) == 0 || len(resp.Data.ListGoods[0].Sizes) == 0 {
		return marketplace.Price{}, fmt.Errorf("price response has no goods for nmID %s", id)
	}

	good := resp.Data.ListGoods[0]
	return marketplace.Price{
		ID:              id,
		Price:           good.Sizes[0].Price,
		DiscountedPrice: good.Sizes[0].DiscountedPrice,
	}, nil
}

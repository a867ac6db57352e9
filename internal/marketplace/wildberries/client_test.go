package wildberries

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athebyme/storefront-service/internal/adapters/logger"
	"github.com/athebyme/storefront-service/internal/marketplace"
	"github.com/athebyme/storefront-service/internal/ratelimit"
)

func testLimiter(t *testing.T) *ratelimit.Limiter {
	t.Helper()
	limiter := ratelimit.New(100, 10*time.Millisecond)
	t.Cleanup(limiter.Close)
	return limiter
}

func newTestClient(t *testing.T, contentURL, pricesURL string) *Client {
	t.Helper()
	client, err := NewClient("wb-token", testLimiter(t), logger.NewNop(),
		WithBaseURLs(contentURL, pricesURL))
	require.NoError(t, err)
	return client
}

func cardsPage(nmIDs []int64, total int, cursorNmID int64) map[string]interface{} {
	cards := make([]map[string]interface{}, 0, len(nmIDs))
	for _, id := range nmIDs {
		cards = append(cards, map[string]interface{}{
			"nmID":        id,
			"vendorCode":  "vc",
			"title":       "Товар",
			"brand":       "Бренд",
			"subjectName": "Категория",
			"photos":      []map[string]string{{"big": "https://img.example/1.jpg"}},
			"sizes": []map[string]interface{}{
				{"techSize": "M", "skus": []string{"sku-1"}},
			},
		})
	}
	return map[string]interface{}{
		"cards": cards,
		"cursor": map[string]interface{}{
			"updatedAt": "2024-01-01T00:00:00Z",
			"nmID":      cursorNmID,
			"total":     total,
		},
	}
}

func TestNewClient_RequiresToken(t *testing.T) {
	_, err := NewClient("", testLimiter(t), logger.NewNop())
	assert.ErrorIs(t, err, marketplace.ErrNoCredentials)
}

func TestListItems_PaginatesWithCursor(t *testing.T) {
	var requests []listCardsRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/content/v2/get/cards/list", r.URL.Path)
		require.Equal(t, "wb-token", r.Header.Get("Authorization"))

		var req listCardsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		requests = append(requests, req)

		var page map[string]interface{}
		if len(requests) == 1 {
			ids := make([]int64, pageLimit)
			for i := range ids {
				ids[i] = int64(1000 + i)
			}
			page = cardsPage(ids, pageLimit, ids[len(ids)-1])
		} else {
			page = cardsPage([]int64{5000}, 1, 5000)
		}
		json.NewEncoder(w).Encode(page)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, server.URL)
	items, err := client.ListItems(context.Background())

	require.NoError(t, err)
	assert.Len(t, items, pageLimit+1)
	require.Len(t, requests, 2)
	// Вторая страница продолжает с курсора первой
	assert.Equal(t, int64(1000+pageLimit-1), requests[1].Settings.Cursor.NmID)
	assert.Equal(t, "2024-01-01T00:00:00Z", requests[1].Settings.Cursor.UpdatedAt)
}

func TestListItems_MapsCardFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(cardsPage([]int64{42}, 1, 42))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, server.URL)
	items, err := client.ListItems(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 1)
	item := items[0]
	assert.Equal(t, "42", item.ID)
	assert.Equal(t, "Товар", item.Name)
	assert.Equal(t, "Бренд", item.Brand)
	assert.Equal(t, "Категория", item.Category)
	assert.True(t, item.InStock)
	assert.Equal(t, []string{"https://img.example/1.jpg"}, item.ImageURLs)
	assert.Equal(t, "vc", item.Properties["vendor_code"])
}

func TestListItems_NoSkusMeansOutOfStock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := cardsPage([]int64{42}, 1, 42)
		page["cards"].([]map[string]interface{})[0]["sizes"] = []map[string]interface{}{
			{"techSize": "M", "skus": []string{}},
		}
		json.NewEncoder(w).Encode(page)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, server.URL)
	items, err := client.ListItems(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].InStock)
}

func TestListItems_APIErrorIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, server.URL)
	_, err := client.ListItems(context.Background())

	assert.Error(t, err)
}

func TestFetchPrices_PerIDFailureLeavesPlaceholder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v2/list/goods/filter", r.URL.Path)

		nmID := r.URL.Query().Get("filterNmID")
		if nmID == "500" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"listGoods": []map[string]interface{}{
					{
						"nmID": 100,
						"sizes": []map[string]float64{
							{"price": 1000, "discountedPrice": 800},
						},
					},
				},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, server.URL)
	prices, err := client.FetchPrices(context.Background(), []string{"100", "500", "200"})

	require.NoError(t, err)
	require.Len(t, prices, 3)
	assert.Equal(t, float64(800), prices["100"].DiscountedPrice)
	assert.Equal(t, float64(800), prices["200"].DiscountedPrice)
	// Для упавшего id остается нулевая заглушка
	assert.Equal(t, marketplace.Price{ID: "500"}, prices["500"])
}

func TestFetchPrices_CancelledContextAborts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{})
	}))
	defer server.Close()

	limiter := ratelimit.New(1, time.Hour)
	t.Cleanup(limiter.Close)

	client, err := NewClient("wb-token", limiter, logger.NewNop(),
		WithBaseURLs(server.URL, server.URL))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	// Первый запрос забирает единственный токен, второй упирается в лимитер
	_, err = client.FetchPrices(ctx, []string{"100", "200"})
	assert.Error(t, err)
}

func TestPriceDisplay(t *testing.T) {
	discounted := marketplace.Price{ID: "1", Price: 1000, DiscountedPrice: 750}
	assert.Equal(t, float64(750), discounted.Display())

	plain := marketplace.Price{ID: "2", Price: 1000}
	assert.Equal(t, float64(1000), plain.Display())

	zero := marketplace.Price{ID: "3"}
	assert.Equal(t, float64(0), zero.Display())
}

package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/mock"

	"github.com/athebyme/storefront-service/internal/adapters/telegram"
	"github.com/athebyme/storefront-service/internal/domain/models"
)

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) SaveStore(ctx context.Context, store *models.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

func (m *mockStorage) GetStore(ctx context.Context, storeID string) (*models.Store, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Store), args.Error(1)
}

func (m *mockStorage) ListStoresByUser(ctx context.Context, userID string) ([]*models.Store, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Store), args.Error(1)
}

func (m *mockStorage) UpsertProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockStorage) ListProducts(ctx context.Context, storeID string, inStockOnly bool) ([]*models.Product, error) {
	args := m.Called(ctx, storeID, inStockOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *mockStorage) Close() error {
	args := m.Called()
	return args.Error(0)
}

type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) HandleUpdate(ctx context.Context, store *models.Store, sender telegram.Sender, update *tgbotapi.Update) error {
	args := m.Called(ctx, store, sender, update)
	return args.Error(0)
}

type mockSyncService struct {
	mock.Mock
}

func (m *mockSyncService) SyncStore(ctx context.Context, store *models.Store) (*models.SyncResult, error) {
	args := m.Called(ctx, store)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SyncResult), args.Error(1)
}

type mockCatalogService struct {
	mock.Mock
}

func (m *mockCatalogService) ListCatalog(ctx context.Context, storeID string) ([]*models.Product, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

type nopSender struct{}

func (nopSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	return tgbotapi.Message{}, nil
}

type stubSenderProvider struct {
	err error
}

func (p *stubSenderProvider) SenderFor(token string) (telegram.Sender, error) {
	if p.err != nil {
		return nil, p.err
	}
	return nopSender{}, nil
}

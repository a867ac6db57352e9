package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/athebyme/storefront-service/internal/adapters/logger"
	postgres "github.com/athebyme/storefront-service/internal/adapters/storage"
	"github.com/athebyme/storefront-service/internal/api/handlers"
	"github.com/athebyme/storefront-service/internal/api/middleware"
	"github.com/athebyme/storefront-service/internal/domain/services"
	"github.com/athebyme/storefront-service/internal/security"
)

// RouterDeps зависимости маршрутизатора.
type RouterDeps struct {
	Storage        postgres.StorageInterface
	SyncService    services.SyncServiceInterface
	CatalogService services.CatalogServiceInterface
	Dispatcher     handlers.UpdateDispatcher
	Senders        handlers.SenderProvider
	JWTManager     *security.JWTManager
	WebhookSecret  string
	Logger         logger.Logger

	CORSAllowedOrigins []string
	HTTPDurations      *prometheus.HistogramVec
	HTTPRequests       *prometheus.CounterVec
}

// SetupRouter настраивает маршрутизатор
func SetupRouter(deps RouterDeps) *chi.Mux {
	if deps.WebhookSecret == "" {
		deps.Logger.Warn("Секрет вебхука не задан, запросы к /webhook принимаются без проверки подписи")
	}

	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.CORS(deps.CORSAllowedOrigins))
	if deps.HTTPDurations != nil && deps.HTTPRequests != nil {
		r.Use(middleware.Metrics(deps.HTTPDurations, deps.HTTPRequests))
	}

	r.Method(http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}))
	r.Method(http.MethodHead, "/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	r.Handle("/metrics", promhttp.Handler())

	webhookHandler := handlers.NewWebhookHandler(deps.Storage, deps.Dispatcher, deps.Senders, deps.WebhookSecret, deps.Logger)
	r.Post("/webhook/{storeID}", webhookHandler.HandleWebhook)

	r.Route("/api/v1", func(r chi.Router) {
		catalogHandler := handlers.NewCatalogHandler(deps.Storage, deps.CatalogService, deps.Logger)

		// Витрина открыта для мини-приложения без аутентификации
		r.Get("/catalog/{storeID}", catalogHandler.GetCatalog)

		syncHandler := handlers.NewSyncHandler(deps.Storage, deps.SyncService, deps.Logger)

		r.Route("/stores", func(r chi.Router) {
			r.Use(middleware.Auth(deps.JWTManager, deps.Logger))
			r.Post("/{storeID}/sync", syncHandler.SyncStore)
		})
	})

	return r
}

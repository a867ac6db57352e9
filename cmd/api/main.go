package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/athebyme/storefront-service/config"
	"github.com/athebyme/storefront-service/internal/adapters/cache"
	"github.com/athebyme/storefront-service/internal/adapters/logger"
	"github.com/athebyme/storefront-service/internal/adapters/messaging"
	postgres "github.com/athebyme/storefront-service/internal/adapters/storage"
	"github.com/athebyme/storefront-service/internal/adapters/telegram"
	"github.com/athebyme/storefront-service/internal/api"
	"github.com/athebyme/storefront-service/internal/bot"
	"github.com/athebyme/storefront-service/internal/domain/services"
	"github.com/athebyme/storefront-service/internal/marketplace"
	"github.com/athebyme/storefront-service/internal/marketplace/ozon"
	"github.com/athebyme/storefront-service/internal/marketplace/wildberries"
	"github.com/athebyme/storefront-service/internal/ratelimit"
	"github.com/athebyme/storefront-service/internal/security"
	"github.com/athebyme/storefront-service/internal/utils"
)

// метрики для Prometheus
var (
	httpDurations = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_durations_seconds",
		Help:    "Длительность HTTP запросов",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "method", "status"})

	requestsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Общее количество HTTP запросов",
	}, []string{"path", "method", "status"})
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Ошибка загрузки конфигурации: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log, err := logger.NewZapLogger(cfg.LogLevel, cfg.ENV == "production")
	if err != nil {
		fmt.Printf("Ошибка инициализации логгера: %v\n", err)
		os.Exit(1)
	}
	log.Info("Инициализация сервиса",
		logger.Field{Key: "app_name", Value: cfg.AppName},
		logger.Field{Key: "version", Value: cfg.Version},
		logger.Field{Key: "env", Value: cfg.ENV},
	)

	postgresCon, err := utils.GenerateConnectionString(
		cfg.Postgres.Host,
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
		cfg.Postgres.Port,
		cfg.Postgres.PoolSize,
		cfg.Postgres.Timeout,
	)
	if err != nil {
		fmt.Printf("Ошибка инициализации строки подключения базы: %v\n", err)
		os.Exit(1)
	}

	db, err := postgres.NewStorage(ctx, postgresCon)
	if err != nil {
		log.Fatal("Ошибка инициализации хранилища", logger.Field{Key: "error", Value: err.Error()})
	}
	defer db.Close()
	log.Info("Хранилище инициализировано")

	cacheClient, err := cache.NewRedisCache(ctx, cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatal("Ошибка инициализации кэша", logger.Field{Key: "error", Value: err.Error()})
	}
	defer cacheClient.Close()
	log.Info("Кэш инициализирован")

	var publisher messaging.EventPublisher = messaging.NopPublisher{}
	if cfg.Kafka.Enabled {
		kafkaPublisher, err := messaging.NewKafkaPublisher(strings.Join(cfg.Kafka.Brokers, ","), cfg.Kafka.SyncTopic, log)
		if err != nil {
			log.Fatal("Ошибка инициализации Kafka", logger.Field{Key: "error", Value: err.Error()})
		}
		publisher = kafkaPublisher
		log.Info("Публикация событий в Kafka включена")
	}
	defer publisher.Close()

	jwtManager, err := security.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.JWTExpirationMin, cfg.Security.JWTIssuer)
	if err != nil {
		log.Fatal("Ошибка инициализации JWT", logger.Field{Key: "error", Value: err.Error()})
	}

	// Лимитер API цен Wildberries общий на процесс, а не на магазин.
	wbLimiter := ratelimit.New(cfg.Wildberries.RateRequests, cfg.Wildberries.RateInterval)
	defer wbLimiter.Close()

	factory := marketplace.NewFactory(
		func(token string) (marketplace.Client, error) {
			return wildberries.NewClient(token, wbLimiter, log,
				wildberries.WithBaseURLs(cfg.Wildberries.ContentURL, cfg.Wildberries.PricesURL))
		},
		func(clientID, apiKey string) (marketplace.Client, error) {
			return ozon.NewClient(clientID, apiKey, log,
				ozon.WithBaseURL(cfg.Ozon.BaseURL))
		},
		log,
	)

	syncService := services.NewSyncService(db, cacheClient, publisher, factory, log)
	catalogService := services.NewCatalogService(db, cacheClient, log, cfg.Redis.CatalogTTL)
	log.Info("Сервисы инициализированы")

	registry := telegram.NewRegistry()
	dispatcher := bot.NewDispatcher(cfg.Telegram.WebAppBaseURL, log)

	router := api.SetupRouter(api.RouterDeps{
		Storage:            db,
		SyncService:        syncService,
		CatalogService:     catalogService,
		Dispatcher:         dispatcher,
		Senders:            registry,
		JWTManager:         jwtManager,
		WebhookSecret:      cfg.Telegram.WebhookSecret,
		Logger:             log,
		CORSAllowedOrigins: cfg.Security.CORSAllowOrigins,
		HTTPDurations:      httpDurations,
		HTTPRequests:       requestsCounter,
	})
	log.Info("Маршрутизатор настроен")

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("Сервер запущен", logger.Field{Key: "address", Value: server.Addr})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Ошибка запуска сервера", logger.Field{Key: "error", Value: err.Error()})
		}
	}()

	go func() {
		<-quit
		log.Info("Получен сигнал завершения, выполняется graceful shutdown...")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatal("Ошибка при graceful shutdown", logger.Field{Key: "error", Value: err.Error()})
		}

		log.Info("HTTP сервер остановлен")

		if err := publisher.Close(); err != nil {
			log.Error("Ошибка при закрытии Kafka",
				logger.Field{Key: "error", Value: err.Error()})
		}

		if err := cacheClient.Close(); err != nil {
			log.Error("Ошибка при закрытии Redis",
				logger.Field{Key: "error", Value: err.Error()})
		}

		if err := db.Close(); err != nil {
			log.Error("Ошибка при закрытии БД",
				logger.Field{Key: "error", Value: err.Error()})
		}

		close(done)
	}()

	<-done
	log.Info("Сервер корректно завершил работу")
}

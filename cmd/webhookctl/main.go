package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/athebyme/storefront-service/config"
	"github.com/athebyme/storefront-service/internal/adapters/logger"
	postgres "github.com/athebyme/storefront-service/internal/adapters/storage"
	"github.com/athebyme/storefront-service/internal/domain/models"
	"github.com/athebyme/storefront-service/internal/utils"
)

// webhookctl заводит магазин в базе и регистрирует вебхук его бота.
func main() {
	var (
		storeID      = flag.String("store-id", "", "идентификатор магазина (пустой — сгенерировать)")
		userID       = flag.String("user-id", "", "идентификатор владельца")
		name         = flag.String("name", "", "название магазина")
		botToken     = flag.String("bot-token", "", "токен Telegram бота")
		wbToken      = flag.String("wb-token", "", "API токен Wildberries")
		ozonClientID = flag.String("ozon-client-id", "", "Client-Id Ozon")
		ozonAPIKey   = flag.String("ozon-api-key", "", "Api-Key Ozon")
		register     = flag.Bool("register", true, "зарегистрировать вебхук в Telegram")
	)
	flag.Parse()

	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Ошибка загрузки конфигурации: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewZapLogger(cfg.LogLevel, cfg.ENV == "production")
	if err != nil {
		fmt.Printf("Ошибка инициализации логгера: %v\n", err)
		os.Exit(1)
	}

	if *userID == "" || *name == "" || *botToken == "" {
		log.Fatal("Флаги -user-id, -name и -bot-token обязательны")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

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
		log.Fatal("Ошибка инициализации строки подключения базы", logger.Field{Key: "error", Value: err.Error()})
	}

	db, err := postgres.NewStorage(ctx, postgresCon)
	if err != nil {
		log.Fatal("Ошибка инициализации хранилища", logger.Field{Key: "error", Value: err.Error()})
	}
	defer db.Close()

	id := *storeID
	if id == "" {
		id = uuid.New().String()
	}

	store := &models.Store{
		ID:           id,
		UserID:       *userID,
		Name:         *name,
		BotToken:     *botToken,
		WBAPIToken:   *wbToken,
		OzonClientID: *ozonClientID,
		OzonAPIKey:   *ozonAPIKey,
		IsActive:     true,
	}

	if err := db.SaveStore(ctx, store); err != nil {
		log.Fatal("Ошибка сохранения магазина", logger.Field{Key: "error", Value: err.Error()})
	}
	log.Info("Магазин сохранен", logger.Field{Key: "store_id", Value: store.ID})

	if !*register {
		return
	}

	if cfg.Telegram.WebhookBase == "" {
		log.Fatal("Для регистрации вебхука задайте TELEGRAM_WEBHOOK_BASE")
	}

	bot, err := tgbotapi.NewBotAPI(*botToken)
	if err != nil {
		log.Fatal("Ошибка авторизации бота", logger.Field{Key: "error", Value: err.Error()})
	}

	webhookURL := fmt.Sprintf("%s/webhook/%s", strings.TrimRight(cfg.Telegram.WebhookBase, "/"), store.ID)

	params := tgbotapi.Params{"url": webhookURL}
	if cfg.Telegram.WebhookSecret != "" {
		params["secret_token"] = cfg.Telegram.WebhookSecret
	}

	if _, err := bot.MakeRequest("setWebhook", params); err != nil {
		log.Fatal("Ошибка регистрации вебхука", logger.Field{Key: "error", Value: err.Error()})
	}

	log.Info("Вебхук зарегистрирован",
		logger.Field{Key: "store_id", Value: store.ID},
		logger.Field{Key: "url", Value: webhookURL})
}

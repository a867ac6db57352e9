package main

import (
	"fmt"
	"os"

	"github.com/athebyme/storefront-service/config"
	"github.com/athebyme/storefront-service/internal/adapters/logger"
	"github.com/athebyme/storefront-service/internal/migration"
	"github.com/athebyme/storefront-service/internal/utils"
)

func main() {
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

	databaseURL := utils.PostgresURL(
		cfg.Postgres.Host,
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
		cfg.Postgres.Port,
	)

	mg := migration.NewMigration(databaseURL, migration.DefaultEngine)
	if err := mg.Up(); err != nil {
		log.Fatal("Ошибка применения миграций", logger.Field{Key: "error", Value: err.Error()})
	}

	log.Info("Миграции применены",
		logger.Field{Key: "database", Value: cfg.Postgres.DBName})
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/athebyme/storefront-service/config"
	"github.com/athebyme/storefront-service/internal/adapters/logger"
	"github.com/athebyme/storefront-service/internal/automation"
)

// sessionctl выполняет вход на портал продавца и печатает cookie сессии.
// Используется для порталов, у которых нет API токенов и сессию приходится
// получать через браузер.
func main() {
	var (
		portalURL = flag.String("portal-url", "", "адрес страницы входа портала")
		username  = flag.String("username", "", "логин портала")
		password  = flag.String("password", "", "пароль портала")
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

	if *portalURL == "" || *username == "" || *password == "" {
		log.Fatal("Флаги -portal-url, -username и -password обязательны")
	}

	browser := automation.NewBrowser(automation.BrowserConfig{
		RemoteURL:    cfg.Automation.RemoteURL,
		Headless:     cfg.Automation.Headless,
		NoSandbox:    cfg.Automation.NoSandbox,
		LoginTimeout: cfg.Automation.LoginTimeout,
	}, log)
	defer browser.Close()

	result, err := browser.Login(context.Background(), *portalURL, automation.Credentials{
		Username: *username,
		Password: *password,
	})
	if err != nil {
		log.Fatal("Ошибка входа на портал", logger.Field{Key: "error", Value: err.Error()})
	}

	log.Info("Вход выполнен",
		logger.Field{Key: "locators", Value: result.UsedLocators},
		logger.Field{Key: "cookies", Value: len(result.Cookies)})

	for _, cookie := range result.Cookies {
		fmt.Printf("%s=%s; Domain=%s; Path=%s\n", cookie.Name, cookie.Value, cookie.Domain, cookie.Path)
	}
}

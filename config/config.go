package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config содержит все настройки сервиса
type Config struct {
	AppName  string
	Version  string
	LogLevel string
	ENV      string

	Server struct {
		Host            string
		Port            int
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
	}

	Postgres struct {
		Host     string
		Port     int
		User     string
		Password string
		DBName   string
		SSLMode  string
		Timeout  time.Duration
		PoolSize int // размер пула соединений
	}

	Redis struct {
		Host            string
		Port            int
		Password        string
		DB              int
		PoolSize        int
		MinIdleConns    int
		ConnectTimeout  time.Duration
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		PoolTimeout     time.Duration
		IdleTimeout     time.Duration
		MaxRetries      int
		MinRetryBackoff time.Duration
		MaxRetryBackoff time.Duration
		CatalogTTL      time.Duration // срок действия кэша витрины
	}

	Kafka struct {
		Enabled   bool
		Brokers   []string
		SyncTopic string
	}

	Telegram struct {
		WebhookSecret string
		WebhookBase   string // внешний адрес сервиса для регистрации вебхуков
		WebAppBaseURL string // адрес мини-приложения витрины
	}

	Wildberries struct {
		ContentURL   string
		PricesURL    string
		RateRequests int           // запросов на интервал к API цен
		RateInterval time.Duration // интервал лимитера
	}

	Ozon struct {
		BaseURL string
	}

	Security struct {
		JWTSecret        string
		JWTExpirationMin time.Duration
		JWTIssuer        string
		CORSAllowOrigins []string
	}

	Automation struct {
		RemoteURL    string
		Headless     bool
		NoSandbox    bool
		LoginTimeout time.Duration
	}
}

// Load загружает конфигурацию из файла и переменных окружения
func Load(configPath string) (*Config, error) {
	configFile := "config"
	if configPath != "" {
		configFile = configPath
	}

	var cfg Config

	viper.SetConfigName(configFile)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("../config")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("ошибка чтения файла конфигурации: %w", err)
		}
		// Продолжаем, если файл не найден, будем использовать только переменные окружения
	}

	setDefaults()
	bindEnvVariables()

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка десериализации конфигурации: %w", err)
	}

	cfg.ENV = viper.GetString("env")
	if cfg.ENV == "" {
		cfg.ENV = "development"
		if envVar := os.Getenv("APP_ENV"); envVar != "" {
			cfg.ENV = envVar
		}
	}

	return &cfg, nil
}

// setDefaults устанавливает значения по умолчанию
func setDefaults() {
	viper.SetDefault("appName", "storefront-service")
	viper.SetDefault("version", "1.0.0")
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("env", "development")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readTimeout", "10s")
	viper.SetDefault("server.writeTimeout", "10s")
	viper.SetDefault("server.shutdownTimeout", "5s")

	viper.SetDefault("postgres.host", "localhost")
	viper.SetDefault("postgres.port", 5432)
	viper.SetDefault("postgres.user", "postgres")
	viper.SetDefault("postgres.password", "postgres")
	viper.SetDefault("postgres.dbname", "storefront")
	viper.SetDefault("postgres.sslmode", "disable")
	viper.SetDefault("postgres.timeout", "5s")
	viper.SetDefault("postgres.poolSize", 10)

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.poolSize", 10)
	viper.SetDefault("redis.minIdleConns", 2)
	viper.SetDefault("redis.connectTimeout", "1s")
	viper.SetDefault("redis.readTimeout", "1s")
	viper.SetDefault("redis.writeTimeout", "1s")
	viper.SetDefault("redis.poolTimeout", "4s")
	viper.SetDefault("redis.idleTimeout", "300s")
	viper.SetDefault("redis.maxRetries", 3)
	viper.SetDefault("redis.minRetryBackoff", "8ms")
	viper.SetDefault("redis.maxRetryBackoff", "512ms")
	viper.SetDefault("redis.catalogTTL", "5m")

	viper.SetDefault("kafka.enabled", false)
	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})
	viper.SetDefault("kafka.syncTopic", "store-sync-events")

	viper.SetDefault("telegram.webhookSecret", "")
	viper.SetDefault("telegram.webhookBase", "")
	viper.SetDefault("telegram.webAppBaseURL", "")

	viper.SetDefault("wildberries.contentURL", "https://content-api.wildberries.ru")
	viper.SetDefault("wildberries.pricesURL", "https://discounts-prices-api.wildberries.ru")
	viper.SetDefault("wildberries.rateRequests", 10)
	viper.SetDefault("wildberries.rateInterval", "6s")

	viper.SetDefault("ozon.baseURL", "https://api-seller.ozon.ru")

	viper.SetDefault("security.jwtSecret", "")
	viper.SetDefault("security.jwtExpirationMin", "60m")
	viper.SetDefault("security.jwtIssuer", "storefront-service")
	viper.SetDefault("security.corsAllowOrigins", []string{"*"})

	viper.SetDefault("automation.remoteURL", "")
	viper.SetDefault("automation.headless", true)
	viper.SetDefault("automation.noSandbox", false)
	viper.SetDefault("automation.loginTimeout", "90s")
}

// bindEnvVariables привязывает переменные окружения к конфигурации
func bindEnvVariables() {
	viper.BindEnv("appName", "APP_NAME")
	viper.BindEnv("version", "APP_VERSION")
	viper.BindEnv("logLevel", "LOG_LEVEL")
	viper.BindEnv("env", "APP_ENV")

	viper.BindEnv("server.host", "SERVER_HOST")
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.readTimeout", "SERVER_READ_TIMEOUT")
	viper.BindEnv("server.writeTimeout", "SERVER_WRITE_TIMEOUT")
	viper.BindEnv("server.shutdownTimeout", "SERVER_SHUTDOWN_TIMEOUT")

	viper.BindEnv("postgres.host", "POSTGRES_HOST")
	viper.BindEnv("postgres.port", "POSTGRES_PORT")
	viper.BindEnv("postgres.user", "POSTGRES_USER")
	viper.BindEnv("postgres.password", "POSTGRES_PASSWORD")
	viper.BindEnv("postgres.dbname", "POSTGRES_DBNAME")
	viper.BindEnv("postgres.sslmode", "POSTGRES_SSLMODE")
	viper.BindEnv("postgres.timeout", "POSTGRES_TIMEOUT")
	viper.BindEnv("postgres.poolSize", "POSTGRES_POOL_SIZE")

	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")
	viper.BindEnv("redis.poolSize", "REDIS_POOL_SIZE")
	viper.BindEnv("redis.minIdleConns", "REDIS_MIN_IDLE_CONNS")
	viper.BindEnv("redis.connectTimeout", "REDIS_CONNECT_TIMEOUT")
	viper.BindEnv("redis.readTimeout", "REDIS_READ_TIMEOUT")
	viper.BindEnv("redis.writeTimeout", "REDIS_WRITE_TIMEOUT")
	viper.BindEnv("redis.poolTimeout", "REDIS_POOL_TIMEOUT")
	viper.BindEnv("redis.idleTimeout", "REDIS_IDLE_TIMEOUT")
	viper.BindEnv("redis.maxRetries", "REDIS_MAX_RETRIES")
	viper.BindEnv("redis.minRetryBackoff", "REDIS_MIN_RETRY_BACKOFF")
	viper.BindEnv("redis.maxRetryBackoff", "REDIS_MAX_RETRY_BACKOFF")
	viper.BindEnv("redis.catalogTTL", "REDIS_CATALOG_TTL")

	viper.BindEnv("kafka.enabled", "KAFKA_ENABLED")
	viper.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	viper.BindEnv("kafka.syncTopic", "KAFKA_SYNC_TOPIC")

	viper.BindEnv("telegram.webhookSecret", "TELEGRAM_WEBHOOK_SECRET")
	viper.BindEnv("telegram.webhookBase", "TELEGRAM_WEBHOOK_BASE")
	viper.BindEnv("telegram.webAppBaseURL", "TELEGRAM_WEBAPP_BASE_URL")

	viper.BindEnv("wildberries.contentURL", "WB_CONTENT_URL")
	viper.BindEnv("wildberries.pricesURL", "WB_PRICES_URL")
	viper.BindEnv("wildberries.rateRequests", "WB_RATE_REQUESTS")
	viper.BindEnv("wildberries.rateInterval", "WB_RATE_INTERVAL")

	viper.BindEnv("ozon.baseURL", "OZON_BASE_URL")

	viper.BindEnv("security.jwtSecret", "JWT_SECRET")
	viper.BindEnv("security.jwtExpirationMin", "JWT_EXPIRATION_MIN")
	viper.BindEnv("security.jwtIssuer", "JWT_ISSUER")
	viper.BindEnv("security.corsAllowOrigins", "CORS_ALLOW_ORIGINS")

	viper.BindEnv("automation.remoteURL", "AUTOMATION_REMOTE_URL")
	viper.BindEnv("automation.headless", "AUTOMATION_HEADLESS")
	viper.BindEnv("automation.noSandbox", "AUTOMATION_NO_SANDBOX")
	viper.BindEnv("automation.loginTimeout", "AUTOMATION_LOGIN_TIMEOUT")
}

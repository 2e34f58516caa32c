package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	DBHost            string        `env:"DB_HOST,required"`
	DBPort            int           `env:"DB_PORT,default=5432"`
	DBUser            string        `env:"DB_USER,required"`
	DBPassword        string        `env:"DB_PASSWORD,required"`
	DBName            string        `env:"DB_NAME,required"`
	DBSSLMode         string        `env:"DB_SSLMODE,default=disable"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=10"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=25"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m"`

	ScraperBaseURL     string        `env:"SCRAPER_BASE_URL,default=https://api.scraperapi.com"`
	ScraperAPIKey      string        `env:"SCRAPER_API_KEY,required"`
	ScraperDeviceType  string        `env:"SCRAPER_DEVICE_TYPE,default=mobile"`
	ScraperCountryCode string        `env:"SCRAPER_COUNTRY_CODE,default=us"`
	ScraperRender      bool          `env:"SCRAPER_RENDER,default=true"`
	FetchTimeout       time.Duration `env:"FETCH_TIMEOUT,default=70s"`
	FetchMaxAttempts   int           `env:"FETCH_MAX_ATTEMPTS,default=3"`
	FetchRetryDelay    time.Duration `env:"FETCH_RETRY_DELAY,default=2s"`
	FetchMinPause      time.Duration `env:"FETCH_MIN_PAUSE,default=6s"`
	FetchMaxPause      time.Duration `env:"FETCH_MAX_PAUSE,default=10s"`

	SMTPHost         string        `env:"SMTP_HOST,required"`
	SMTPPort         int           `env:"SMTP_PORT,default=587"`
	SMTPUser         string        `env:"SMTP_USER,required"`
	SMTPPassword     string        `env:"SMTP_PASSWORD,required"`
	AlertFrom        string        `env:"ALERT_FROM,required"`
	AlertRecipient   string        `env:"ALERT_RECIPIENT,required"`
	NotifyAttempts   int           `env:"NOTIFY_MAX_ATTEMPTS,default=2"`
	NotifyRetryDelay time.Duration `env:"NOTIFY_RETRY_DELAY,default=5s"`
	TelegramToken    string        `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   int64         `env:"TELEGRAM_CHAT_ID"`

	HTTPAddr string `env:"HTTP_ADDR,default=:8080"`
	LogLevel string `env:"LOG_LEVEL,default=info"`
}

func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultPartnersAPIURL = "https://itbrv05-partners-backend-0674.twc1.net"

type Config struct {
	Env  string
	Port string

	// Partners backend
	PartnersAPIURL string
	// Zero means no timeout, a hung request hangs the busy indicator.
	PartnersAPITimeout time.Duration

	// Telegram
	TelegramBotToken string
	InitDataMaxAge   time.Duration
	WebAppURL        string

	CORSOrigins []string
	// Idle Mini App sessions are dropped after SessionTTL.
	SessionTTL time.Duration

	// RabbitMQ is optional, an empty URL disables lead events.
	RabbitMQURL      string
	RabbitMQExchange string
}

// Load reads the configuration from the environment, loading .env first
// when it exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:              getEnv("APP_ENV", "production"),
		Port:             getEnv("PORT", "8080"),
		PartnersAPIURL:   strings.TrimRight(getEnv("PARTNERS_API_URL", DefaultPartnersAPIURL), "/"),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		WebAppURL:        getEnv("WEBAPP_URL", ""),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "*")),
		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", "ex.partners"),
	}

	var err error
	if cfg.PartnersAPITimeout, err = getDuration("PARTNERS_API_TIMEOUT", 0); err != nil {
		return nil, err
	}
	if cfg.InitDataMaxAge, err = getDuration("INIT_DATA_MAX_AGE", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", time.Hour); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config %s: %w", key, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

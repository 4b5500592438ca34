// Package config загружает конфигурацию бота из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Telegram ---
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	// ID чата, в котором бот работает (единственный разрешённый групповой чат)
	FloodChatID int64 `envconfig:"FLOOD_CHAT_ID" required:"true"`
	// ID владельца бота (управление модераторами и экстренная эмиссия)
	OwnerID int64 `envconfig:"OWNER_ID" required:"true"`

	// --- Database ---
	// В Docker внутри контейнера "localhost" почти всегда неправильно.
	// Дефолт ставим "postgres" (имя сервиса в docker-compose), а для локалки переопределяй DB_HOST=localhost.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"botuser"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"compliment_bot"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"Europe/Moscow"`

	// --- Bot runtime ---
	// Сколько апдейтов обрабатываем параллельно. Иначе "go на каждый апдейт" = утечка памяти при флуде.
	BotMaxInflight int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`
	// Таймаут long polling (секунды)
	BotUpdateTimeoutSeconds int `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"60"`

	// --- Owner panel ---
	OwnerPasswordHash string `envconfig:"OWNER_PASSWORD_HASH" required:"true"`

	// --- Compliments ---
	// Лимит комплиментов на скользящие 24 часа
	ComplimentDailyLimit int `envconfig:"COMPLIMENT_DAILY_LIMIT" default:"5"`
	// Максимальная длина текста комплимента в байтах
	ComplimentMaxLength int `envconfig:"COMPLIMENT_MAX_LENGTH" default:"280"`

	// --- Tokens ---
	// Жёсткий потолок суммарной эмиссии за всё время жизни системы
	TokenMaxSupply int64 `envconfig:"TOKEN_MAX_SUPPLY" default:"1000000"`
	// Награда автору комплимента
	ComplimentReward int64 `envconfig:"COMPLIMENT_REWARD" default:"10"`
	// Бонус получателю комплимента
	RecipientBonus int64 `envconfig:"RECIPIENT_BONUS" default:"5"`
	// Награда за лайк
	LikeReward int64 `envconfig:"LIKE_REWARD" default:"1"`

	// --- Reputation ---
	ReputationGiver     int64 `envconfig:"REPUTATION_GIVER" default:"10"`
	ReputationRecipient int64 `envconfig:"REPUTATION_RECIPIENT" default:"15"`
	ReputationLike      int64 `envconfig:"REPUTATION_LIKE" default:"2"`

	// --- Rate Limiting (транспортный антифлуд, не путать с дневным лимитом) ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// --- HTTP API ---
	APIEnabled bool   `envconfig:"API_ENABLED" default:"true"`
	APIAddr    string `envconfig:"API_ADDR" default:":8080"`

	// --- Feature Flags ---
	FeatureLikesEnabled  bool `envconfig:"FEATURE_LIKES_ENABLED" default:"true"`
	FeatureDigestEnabled bool `envconfig:"FEATURE_DIGEST_ENABLED" default:"true"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) Validate() error {
	if c.FloodChatID == 0 {
		return fmt.Errorf("FLOOD_CHAT_ID не задан или равен 0")
	}
	if c.OwnerID == 0 {
		return fmt.Errorf("OWNER_ID не задан или равен 0")
	}
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT должен быть > 0")
	}
	if c.BotUpdateTimeoutSeconds <= 0 {
		return fmt.Errorf("BOT_UPDATE_TIMEOUT_SECONDS должен быть > 0")
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if c.ComplimentDailyLimit <= 0 {
		return fmt.Errorf("COMPLIMENT_DAILY_LIMIT должен быть > 0")
	}
	if c.ComplimentMaxLength <= 0 {
		return fmt.Errorf("COMPLIMENT_MAX_LENGTH должен быть > 0")
	}
	if c.TokenMaxSupply <= 0 {
		return fmt.Errorf("TOKEN_MAX_SUPPLY должен быть > 0")
	}
	if c.ComplimentReward < 0 || c.RecipientBonus < 0 || c.LikeReward < 0 {
		return fmt.Errorf("награды не могут быть отрицательными")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

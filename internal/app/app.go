// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, репозитории, сервисы, обработчики,
// фильтры, шину событий и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"compliment-bot/internal/api"
	"compliment-bot/internal/bot"
	"compliment-bot/internal/bot/filters"
	"compliment-bot/internal/config"
	"compliment-bot/internal/db/postgres"
	"compliment-bot/internal/events"
	"compliment-bot/internal/features/compliments"
	"compliment-bot/internal/features/moderation"
	"compliment-bot/internal/features/supply"
	"compliment-bot/internal/features/users"
	"compliment-bot/internal/jobs"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	API       *gin.Engine
	DB        *pgxpool.Pool
	BotAPI    *tgbotapi.BotAPI
	Bus       *events.Bus
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development"
	log.Infof("Авторизован как @%s", botAPI.Self.UserName)

	// === 3. Шина событий ===
	bus := events.NewBus()
	bus.Subscribe(events.LogSubscriber)

	// === 4. Репозитории ===
	userRepo := users.NewRepository(pool)
	supplyRepo := supply.NewRepository(pool)
	complimentRepo := compliments.NewRepository(pool)
	moderationRepo := moderation.NewRepository(pool)

	// Единственная строка token_supply должна существовать до первой награды
	if err := supplyRepo.EnsureSupplyRow(ctx, cfg.TokenMaxSupply); err != nil {
		return nil, fmt.Errorf("ошибка инициализации token_supply: %w", err)
	}

	// === 5. Сервисы ===
	userService := users.NewService(userRepo, bus)
	supplyService := supply.NewService(supplyRepo)
	complimentService := compliments.NewService(complimentRepo, cfg, bus)
	moderationService := moderation.NewService(moderationRepo, userService, complimentService, supplyService, cfg)

	// === 6. Обработчики ===
	userHandler := users.NewHandler(userService, botAPI)
	supplyHandler := supply.NewHandler(supplyService, userService, botAPI)
	complimentHandler := compliments.NewHandler(complimentService, userService, botAPI)
	moderationHandler := moderation.NewHandler(moderationService, userService, botAPI)

	// === 7. Фильтры ===
	chatFilter := filters.NewChatFilter(cfg.FloodChatID, userService, botAPI)

	// === 8. Собираем бота ===
	b := bot.New(
		botAPI, cfg,
		userService, userHandler,
		complimentHandler,
		supplyService, supplyHandler,
		moderationHandler,
		chatFilter,
	)

	// Анонсы модераторских событий в основной чат: команды панели
	// приходят в личке, а чату важно видеть результат
	bus.Subscribe(chatAnnouncer(b))

	// === 9. Планировщик задач ===
	scheduler := jobs.NewScheduler(cfg, complimentService, supplyService, userService, b.AnnounceToChat)

	// === 10. HTTP API (read-only) ===
	var engine *gin.Engine
	if cfg.APIEnabled {
		engine = api.New(cfg, userService, complimentService, supplyService)
	}

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		API:       engine,
		DB:        pool,
		BotAPI:    botAPI,
		Bus:       bus,
	}, nil
}

// chatAnnouncer переводит события модерации в сообщения для чата.
// События самих комплиментов не анонсируются: обработчик команды
// уже ответил в чат.
func chatAnnouncer(b *bot.Bot) events.Subscriber {
	return func(e events.Event) {
		switch e.Kind {
		case events.KindComplimentDeactivated:
			b.AnnounceToChat(fmt.Sprintf("🗑 Комплимент #%d скрыт модератором", e.ComplimentID))
		case events.KindUserBlacklisted:
			b.AnnounceToChat("🚫 Пользователь добавлен в чёрный список")
		case events.KindUserWhitelisted:
			b.AnnounceToChat("✅ Пользователь убран из чёрного списка")
		}
	}
}

// runMigrations выполняет все SQL-миграции.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgres.InitMigrations(ctx, pool); err != nil {
		return err
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migration001Users},
		{2, migration002Supply},
		{3, migration003Compliments},
		{4, migration004OwnerPanel},
	}

	for _, m := range migrations {
		if err := postgres.ExecMigrationSQL(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		log.Infof("Миграция %d применена", m.version)
	}

	return nil
}

// SQL-миграции встроены в код для упрощения деплоя.

var migration001Users = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT UNIQUE NOT NULL,
    username VARCHAR(255),
    first_name VARCHAR(255) NOT NULL,
    given_count INTEGER NOT NULL DEFAULT 0,
    received_count INTEGER NOT NULL DEFAULT 0,
    reputation BIGINT NOT NULL DEFAULT 0,
    rate_window_start TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    rate_window_count INTEGER NOT NULL DEFAULT 0,
    is_moderator BOOLEAN NOT NULL DEFAULT FALSE,
    is_blacklisted BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_users_user_id ON users(user_id);
CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
`

var migration002Supply = `
CREATE TABLE IF NOT EXISTS token_supply (
    id SMALLINT PRIMARY KEY,
    total_issued BIGINT NOT NULL DEFAULT 0,
    max_supply BIGINT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT token_supply_singleton CHECK (id = 1),
    CONSTRAINT token_supply_nonneg CHECK (total_issued >= 0)
);
CREATE TABLE IF NOT EXISTS balances (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT UNIQUE NOT NULL REFERENCES users(user_id),
    balance BIGINT NOT NULL DEFAULT 0,
    total_earned BIGINT NOT NULL DEFAULT 0,
    total_burned BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT balances_nonneg CHECK (balance >= 0)
);
CREATE TABLE IF NOT EXISTS allowances (
    owner_id BIGINT NOT NULL REFERENCES users(user_id),
    spender_id BIGINT NOT NULL REFERENCES users(user_id),
    amount BIGINT NOT NULL DEFAULT 0,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (owner_id, spender_id),
    CONSTRAINT allowances_nonneg CHECK (amount >= 0)
);
`

var migration003Compliments = `
CREATE TABLE IF NOT EXISTS compliments (
    id BIGSERIAL PRIMARY KEY,
    giver_id BIGINT NOT NULL REFERENCES users(user_id),
    recipient_id BIGINT NOT NULL REFERENCES users(user_id),
    message TEXT NOT NULL,
    like_count INTEGER NOT NULL DEFAULT 0,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT compliments_not_self CHECK (giver_id <> recipient_id)
);
CREATE INDEX IF NOT EXISTS idx_compliments_giver ON compliments(giver_id);
CREATE INDEX IF NOT EXISTS idx_compliments_recipient ON compliments(recipient_id);
CREATE INDEX IF NOT EXISTS idx_compliments_created_at ON compliments(created_at DESC);
CREATE TABLE IF NOT EXISTS compliment_likes (
    compliment_id BIGINT NOT NULL REFERENCES compliments(id),
    user_id BIGINT NOT NULL REFERENCES users(user_id),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (compliment_id, user_id)
);
`

var migration004OwnerPanel = `
CREATE TABLE IF NOT EXISTS owner_sessions (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL,
    session_token VARCHAR(255) NOT NULL,
    authenticated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    expires_at TIMESTAMPTZ NOT NULL,
    last_activity TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    is_active BOOLEAN NOT NULL DEFAULT TRUE
);
CREATE INDEX IF NOT EXISTS idx_owner_sessions_user ON owner_sessions(user_id, is_active);
CREATE TABLE IF NOT EXISTS owner_login_attempts (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL,
    attempt_time TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    success BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE INDEX IF NOT EXISTS idx_owner_attempts_user_time ON owner_login_attempts(user_id, attempt_time);
`

// Package bot содержит главный модуль бота — инициализацию, запуск и остановку.
// bot.go подключает обработчики фич и запускает polling.
package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"compliment-bot/internal/bot/filters"
	"compliment-bot/internal/bot/middleware"
	"compliment-bot/internal/config"
	"compliment-bot/internal/features/compliments"
	"compliment-bot/internal/features/moderation"
	"compliment-bot/internal/features/supply"
	"compliment-bot/internal/features/users"
)

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	api *tgbotapi.BotAPI
	cfg *config.Config

	chatFilter  *filters.ChatFilter
	rateLimiter *middleware.RateLimiter

	userHandler       *users.Handler
	complimentHandler *compliments.Handler
	supplyHandler     *supply.Handler
	moderationHandler *moderation.Handler

	userService   *users.Service
	supplyService *supply.Service

	parser *CommandParser

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(
	api *tgbotapi.BotAPI,
	cfg *config.Config,
	userService *users.Service,
	userHandler *users.Handler,
	complimentHandler *compliments.Handler,
	supplyService *supply.Service,
	supplyHandler *supply.Handler,
	moderationHandler *moderation.Handler,
	chatFilter *filters.ChatFilter,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		api:               api,
		cfg:               cfg,
		chatFilter:        chatFilter,
		rateLimiter:       middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		userHandler:       userHandler,
		complimentHandler: complimentHandler,
		supplyHandler:     supplyHandler,
		moderationHandler: moderationHandler,
		userService:       userService,
		supplyService:     supplyService,
		parser:            NewCommandParser(),
		inflight:          make(chan struct{}, maxInFlight),
	}
}

// Start запускает polling обновлений от Telegram.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.BotUpdateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)

	log.WithFields(log.Fields{
		"max_inflight": b.cfg.BotMaxInflight,
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен и ожидает сообщения...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			b.api.StopReceivingUpdates()
			b.rateLimiter.Close()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				return
			}

			// лимит параллелизма
			b.inflight <- struct{}{}
			go func(upd tgbotapi.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// handleUpdate обрабатывает одно обновление от Telegram.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer middleware.RecoverFromPanic()

	// Вступление новых участников
	if update.Message != nil && update.Message.NewChatMembers != nil {
		if update.Message.Chat != nil && update.Message.Chat.ID == b.cfg.FloodChatID {
			b.handleNewMembers(ctx, update.Message.NewChatMembers)
		}
		return
	}

	if update.Message == nil || update.Message.Text == "" {
		return
	}

	message := update.Message

	middleware.LogMessage(message)

	// Проверяем доступ (FLOOD_CHAT_ID или DM участника)
	if !b.chatFilter.CheckAccess(ctx, message) {
		return
	}

	// Транспортный антифлуд
	if message.From != nil && !b.rateLimiter.Allow(message.From.ID) {
		log.WithField("user_id", message.From.ID).Debug("rate limited")
		return
	}

	userID := message.From.ID

	// EnsureUser — ошибки нельзя игнорировать, иначе потом будет «оно не работает»
	if err := b.userService.EnsureUser(ctx, userID,
		message.From.UserName, message.From.FirstName,
	); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("EnsureUser failed")
	}

	cmd, args, isCommand := b.parser.ParseCommand(message.Text)
	if !isCommand {
		return
	}

	log.WithFields(log.Fields{
		"cmd":  cmd,
		"args": args,
	}).Debug("parsed command")

	b.routeCommand(ctx, message, cmd, args)
}

// routeCommand маршрутизирует команду к нужному обработчику.
func (b *Bot) routeCommand(ctx context.Context, message *tgbotapi.Message, cmd string, args []string) {
	chatID := message.Chat.ID
	userID := message.From.ID
	isPrivate := message.Chat.IsPrivate()

	switch cmd {
	case "start", "help", "помощь":
		b.sendMessage(chatID, helpText)

	// --- Комплименты ---
	case "комплимент":
		b.complimentHandler.HandleGive(ctx, message, args)

	case "лайк":
		if b.cfg.FeatureLikesEnabled {
			b.complimentHandler.HandleLike(ctx, chatID, userID, args)
		} else {
			b.sendMessage(chatID, "❤️ Лайки временно отключены")
		}

	case "мои":
		b.complimentHandler.HandleMine(ctx, chatID, userID, args)

	case "полученные":
		b.complimentHandler.HandleReceived(ctx, chatID, userID, args)

	case "последние":
		b.complimentHandler.HandleRecent(ctx, chatID)

	// --- Профиль и токены ---
	case "статы":
		b.userHandler.HandleStats(ctx, chatID, userID, args)

	case "баланс":
		b.supplyHandler.HandleBalance(ctx, chatID, userID)

	case "сжечь":
		b.supplyHandler.HandleBurn(ctx, chatID, userID, args)

	case "доверить":
		b.supplyHandler.HandleApprove(ctx, chatID, userID, args)

	case "сжечьу":
		b.supplyHandler.HandleBurnFrom(ctx, chatID, userID, args)

	// --- Модерация (работает и в чате, и в личке) ---
	case "бан":
		b.moderationHandler.HandleBlacklist(ctx, chatID, userID, args)

	case "разбан":
		b.moderationHandler.HandleWhitelist(ctx, chatID, userID, args)

	case "удалить":
		b.moderationHandler.HandleRemoveCompliment(ctx, chatID, userID, args)

	// --- Панель владельца (только личка) ---
	case "login":
		if isPrivate {
			b.moderationHandler.HandleLogin(ctx, chatID, userID, args)
		}

	case "logout":
		if isPrivate {
			b.moderationHandler.HandleLogout(ctx, chatID, userID)
		}

	case "мод":
		if isPrivate {
			b.moderationHandler.HandleAddModerator(ctx, chatID, userID, args)
		}

	case "размод":
		if isPrivate {
			b.moderationHandler.HandleRemoveModerator(ctx, chatID, userID, args)
		}

	case "эмиссия":
		if isPrivate {
			b.moderationHandler.HandleEmergencyMint(ctx, chatID, userID, args)
		}
	}
}

const helpText = `Я считаю комплименты и раздаю за них токены.

!комплимент <текст> — ответом на сообщение
!комплимент @user <текст>
!лайк <номер> — лайкнуть комплимент
!мои / !полученные [стр] — списки комплиментов
!последние — свежие комплименты чата
!статы [@user] — репутация и счётчики
!баланс — токены
!сжечь <сумма>, !доверить @user <сумма>, !сжечьу @user <сумма>

Модераторам: !бан @user, !разбан @user, !удалить <номер>
Владельцу (в личке): /login <пароль>, мод, размод, эмиссия`

// handleNewMembers обрабатывает вступление новых участников.
func (b *Bot) handleNewMembers(ctx context.Context, newMembers []tgbotapi.User) {
	for _, user := range newMembers {
		if user.IsBot {
			continue
		}
		if err := b.userService.EnsureUser(ctx, user.ID, user.UserName, user.FirstName); err != nil {
			log.WithError(err).WithField("user_id", user.ID).Warn("EnsureUser failed")
		}
		if err := b.supplyService.CreateBalance(ctx, user.ID); err != nil {
			log.WithError(err).WithField("user_id", user.ID).Warn("CreateBalance failed")
		}

		log.WithField("user", user.UserName).Info("Новый участник обработан")
	}
}

// sendMessage — утилита для отправки сообщений.
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

// AnnounceToChat отправляет сообщение в основной чат (для дайджеста и анонсов).
func (b *Bot) AnnounceToChat(text string) {
	msg := tgbotapi.NewMessage(b.cfg.FloodChatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).Error("Не удалось отправить анонс в чат")
	}
}

// CommandParser парсит русские команды с префиксами !, . и /
type CommandParser struct {
	validPrefixes []string
}

// NewCommandParser создаёт парсер команд.
func NewCommandParser() *CommandParser {
	return &CommandParser{
		validPrefixes: []string{"!", ".", "/"},
	}
}

// ParseCommand разбирает текст на команду и аргументы.
func (p *CommandParser) ParseCommand(text string) (string, []string, bool) {
	text = strings.TrimSpace(text)

	hasPrefix := false
	for _, prefix := range p.validPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			hasPrefix = true
			break
		}
	}

	if !hasPrefix {
		return "", nil, false
	}

	text = strings.TrimSpace(text)
	parts := strings.Fields(text)

	if len(parts) == 0 {
		return "", nil, false
	}

	command := strings.ToLower(parts[0])
	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}

	return command, args, true
}

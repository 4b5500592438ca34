// Package supply — handlers.go обрабатывает команды !баланс, !сжечь,
// !доверить и !сжечьу.
package supply

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"compliment-bot/internal/common"
)

// UserResolver разрешает @username в Telegram user ID.
// Реализуется сервисом пользователей; интерфейс здесь, чтобы не
// тянуть пакет users в supply.
type UserResolver interface {
	ResolveUsername(ctx context.Context, username string) (int64, error)
}

// Handler обрабатывает команды токенов.
type Handler struct {
	service  *Service
	resolver UserResolver
	bot      *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик токенов.
func NewHandler(service *Service, resolver UserResolver, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, resolver: resolver, bot: bot}
}

// HandleBalance — команда !баланс.
func (h *Handler) HandleBalance(ctx context.Context, chatID, userID int64) {
	balance, err := h.service.GetBalance(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Ошибка получения баланса")
		h.sendMessage(chatID, "❌ Ошибка получения баланса")
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("💰 Твой баланс: %s", common.FormatTokens(balance)))
}

// HandleBurn — команда !сжечь <количество>.
func (h *Handler) HandleBurn(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 1 {
		h.sendMessage(chatID, "Использование: !сжечь <количество>")
		return
	}
	amount, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || amount <= 0 {
		h.sendMessage(chatID, "❌ Укажи положительное число токенов")
		return
	}

	if err := h.service.Burn(ctx, userID, amount); err != nil {
		if errors.Is(err, common.ErrInsufficientBalance) {
			h.sendMessage(chatID, "❌ Недостаточно токенов на счёте")
			return
		}
		log.WithError(err).Error("Ошибка сжигания")
		h.sendMessage(chatID, "❌ Не удалось сжечь токены")
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("🔥 Сожжено %s", common.FormatTokens(amount)))
}

// HandleApprove — команда !доверить @user <количество>.
// Выставляет (заменяет) лимит списания для указанного пользователя.
func (h *Handler) HandleApprove(ctx context.Context, chatID, userID int64, args []string) {
	spenderID, amount, ok := h.parseUserAmount(ctx, chatID, args, "!доверить @user <количество>")
	if !ok {
		return
	}

	if err := h.service.Approve(ctx, userID, spenderID, amount); err != nil {
		if errors.Is(err, common.ErrInvalidArgument) {
			h.sendMessage(chatID, "❌ Нельзя доверить списание самому себе")
			return
		}
		log.WithError(err).Error("Ошибка выставления разрешения")
		h.sendMessage(chatID, "❌ Не удалось выставить разрешение")
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("🤝 Разрешено списание до %s", common.FormatTokens(amount)))
}

// HandleBurnFrom — команда !сжечьу @user <количество>.
// Сжигает чужие токены в пределах выданного разрешения.
func (h *Handler) HandleBurnFrom(ctx context.Context, chatID, userID int64, args []string) {
	ownerID, amount, ok := h.parseUserAmount(ctx, chatID, args, "!сжечьу @user <количество>")
	if !ok {
		return
	}

	if err := h.service.BurnFrom(ctx, userID, ownerID, amount); err != nil {
		switch {
		case errors.Is(err, common.ErrInsufficientAllowance):
			h.sendMessage(chatID, "❌ Недостаточный лимит доверия")
		case errors.Is(err, common.ErrInsufficientBalance):
			h.sendMessage(chatID, "❌ У владельца недостаточно токенов")
		default:
			log.WithError(err).Error("Ошибка BurnFrom")
			h.sendMessage(chatID, "❌ Не удалось сжечь токены")
		}
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("🔥 Сожжено %s по доверенности", common.FormatTokens(amount)))
}

// parseUserAmount разбирает пару аргументов "@user N".
func (h *Handler) parseUserAmount(ctx context.Context, chatID int64, args []string, usage string) (int64, int64, bool) {
	if len(args) < 2 {
		h.sendMessage(chatID, "Использование: "+usage)
		return 0, 0, false
	}

	userID, err := h.resolver.ResolveUsername(ctx, args[0])
	if err != nil {
		h.sendMessage(chatID, "❌ Пользователь не найден")
		return 0, 0, false
	}

	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || amount <= 0 {
		h.sendMessage(chatID, "❌ Укажи положительное число токенов")
		return 0, 0, false
	}
	return userID, amount, true
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}

// Package moderation — handlers.go обрабатывает команды панели в личных
// сообщениях (вход по паролю) и модераторские команды в чате.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"compliment-bot/internal/common"
	"compliment-bot/internal/features/users"
)

// Handler обрабатывает команды модерации.
type Handler struct {
	service     *Service
	userService *users.Service
	bot         *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик модерации.
func NewHandler(service *Service, userService *users.Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, userService: userService, bot: bot}
}

// HandleLogin — команда /login <пароль> в личных сообщениях.
func (h *Handler) HandleLogin(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 1 {
		h.sendMessage(chatID, "Использование: /login <пароль>")
		return
	}

	err := h.service.Login(ctx, userID, strings.Join(args, " "))
	switch {
	case err == nil:
		h.sendMessage(chatID, "🔓 Вход выполнен. Сессия активна 24 часа.\nКоманды: мод, размод, бан, разбан, удалить, эмиссия, /logout")
	case errors.Is(err, common.ErrTooManyAttempts):
		h.sendMessage(chatID, "⏳ Слишком много попыток, подожди час")
	case errors.Is(err, common.ErrWrongPassword):
		h.sendMessage(chatID, "❌ Неверный пароль")
	case errors.Is(err, common.ErrUnauthorized):
		// Молчим: посторонним знать о панели не нужно
	default:
		log.WithError(err).Error("Ошибка входа в панель")
		h.sendMessage(chatID, "❌ Внутренняя ошибка, попробуй позже")
	}
}

// HandleLogout — команда /logout в личных сообщениях.
func (h *Handler) HandleLogout(ctx context.Context, chatID, userID int64) {
	if err := h.service.Logout(ctx, userID); err != nil {
		log.WithError(err).Error("Ошибка выхода из панели")
		return
	}
	h.sendMessage(chatID, "🔒 Сессия завершена")
}

// HandleAddModerator — команда «мод @user». Только владелец.
func (h *Handler) HandleAddModerator(ctx context.Context, chatID, ownerID int64, args []string) {
	targetID, ok := h.resolveTarget(ctx, chatID, args, "мод @user")
	if !ok {
		return
	}
	if err := h.service.AddModerator(ctx, ownerID, targetID); err != nil {
		h.sendMessage(chatID, panelErrorText(err))
		return
	}
	h.sendMessage(chatID, "✅ Модератор назначен")
}

// HandleRemoveModerator — команда «размод @user». Только владелец.
func (h *Handler) HandleRemoveModerator(ctx context.Context, chatID, ownerID int64, args []string) {
	targetID, ok := h.resolveTarget(ctx, chatID, args, "размод @user")
	if !ok {
		return
	}
	if err := h.service.RemoveModerator(ctx, ownerID, targetID); err != nil {
		h.sendMessage(chatID, panelErrorText(err))
		return
	}
	h.sendMessage(chatID, "✅ Модератор снят")
}

// HandleBlacklist — команда «бан @user». Модератор или владелец.
func (h *Handler) HandleBlacklist(ctx context.Context, chatID, moderatorID int64, args []string) {
	targetID, ok := h.resolveTarget(ctx, chatID, args, "бан @user")
	if !ok {
		return
	}
	if err := h.service.Blacklist(ctx, moderatorID, targetID); err != nil {
		h.sendMessage(chatID, panelErrorText(err))
		return
	}
	h.sendMessage(chatID, "🚫 Пользователь в чёрном списке")
}

// HandleWhitelist — команда «разбан @user». Модератор или владелец.
func (h *Handler) HandleWhitelist(ctx context.Context, chatID, moderatorID int64, args []string) {
	targetID, ok := h.resolveTarget(ctx, chatID, args, "разбан @user")
	if !ok {
		return
	}
	if err := h.service.Whitelist(ctx, moderatorID, targetID); err != nil {
		h.sendMessage(chatID, panelErrorText(err))
		return
	}
	h.sendMessage(chatID, "✅ Пользователь убран из чёрного списка")
}

// HandleRemoveCompliment — команда «удалить <id>». Модератор или владелец.
func (h *Handler) HandleRemoveCompliment(ctx context.Context, chatID, moderatorID int64, args []string) {
	if len(args) < 1 {
		h.sendMessage(chatID, "Использование: удалить <номер комплимента>")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		h.sendMessage(chatID, "❌ Номер комплимента — это число")
		return
	}
	if err := h.service.RemoveCompliment(ctx, moderatorID, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			h.sendMessage(chatID, "❌ Комплимент не найден")
			return
		}
		h.sendMessage(chatID, panelErrorText(err))
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("🗑 Комплимент #%d скрыт", id))
}

// HandleEmergencyMint — команда «эмиссия @user <сумма>». Только владелец.
func (h *Handler) HandleEmergencyMint(ctx context.Context, chatID, ownerID int64, args []string) {
	if len(args) < 2 {
		h.sendMessage(chatID, "Использование: эмиссия @user <сумма>")
		return
	}
	targetID, ok := h.resolveTarget(ctx, chatID, args[:1], "эмиссия @user <сумма>")
	if !ok {
		return
	}
	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		h.sendMessage(chatID, "❌ Сумма — это число")
		return
	}

	err = h.service.EmergencyMint(ctx, ownerID, targetID, amount)
	switch {
	case err == nil:
		h.sendMessage(chatID, fmt.Sprintf("💰 Эмиссия: %s", common.FormatTokens(amount)))
	case errors.Is(err, common.ErrSupplyCapExceeded):
		h.sendMessage(chatID, "❌ Превышен потолок эмиссии")
	case errors.Is(err, common.ErrInvalidAmount):
		h.sendMessage(chatID, "❌ Сумма должна быть положительной")
	default:
		h.sendMessage(chatID, panelErrorText(err))
	}
}

// resolveTarget разбирает @username из первого аргумента.
func (h *Handler) resolveTarget(ctx context.Context, chatID int64, args []string, usage string) (int64, bool) {
	if len(args) < 1 {
		h.sendMessage(chatID, "Использование: "+usage)
		return 0, false
	}
	targetID, err := h.userService.ResolveUsername(ctx, args[0])
	if err != nil {
		h.sendMessage(chatID, "❌ Пользователь не найден")
		return 0, false
	}
	return targetID, true
}

// panelErrorText переводит ошибки полномочий в сообщение для чата.
func panelErrorText(err error) string {
	switch {
	case errors.Is(err, common.ErrUnauthorized):
		return "🚫 Недостаточно прав"
	case errors.Is(err, common.ErrSessionExpired):
		return "🔒 Сессия истекла, войди заново: /login <пароль>"
	case errors.Is(err, common.ErrUserNotFound):
		return "❌ Пользователь не найден"
	default:
		log.WithError(err).Error("Ошибка команды модерации")
		return "❌ Внутренняя ошибка"
	}
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}

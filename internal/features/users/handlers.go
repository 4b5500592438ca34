// Package users — handlers.go обрабатывает команду !статы.
package users

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"compliment-bot/internal/common"
)

// Handler обрабатывает команды реестра участников.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleStats — команда !статы [@user]. Без аргумента показывает свою статистику.
func (h *Handler) HandleStats(ctx context.Context, chatID, userID int64, args []string) {
	targetID := userID
	if len(args) > 0 {
		id, err := h.service.ResolveUsername(ctx, args[0])
		if err != nil {
			h.sendMessage(chatID, "❌ Пользователь не найден")
			return
		}
		targetID = id
	}

	u, err := h.service.GetStats(ctx, targetID)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			h.sendMessage(chatID, "❌ Пользователь не найден")
			return
		}
		log.WithError(err).Error("Ошибка получения статистики")
		h.sendMessage(chatID, "❌ Ошибка получения статистики")
		return
	}

	text := fmt.Sprintf(
		"📊 Статистика %s\n\n⭐ Репутация: %s\n💌 Отдано: %d %s\n💝 Получено: %d %s",
		u.DisplayName(),
		common.FormatNumber(u.Reputation),
		u.GivenCount, common.PluralizeCompliments(u.GivenCount),
		u.ReceivedCount, common.PluralizeCompliments(u.ReceivedCount),
	)
	if u.IsModerator {
		text += "\n🛡 Модератор"
	}
	h.sendMessage(chatID, text)
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}

// Package filters отвечает на вопрос «имеет ли это сообщение право на обработку».
// Бот работает в одном групповом чате и в личке участников этого чата.
package filters

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"compliment-bot/internal/features/users"
)

type ChatFilter struct {
	floodChatID int64
	userService *users.Service
	bot         *tgbotapi.BotAPI
}

func NewChatFilter(floodChatID int64, userService *users.Service, bot *tgbotapi.BotAPI) *ChatFilter {
	return &ChatFilter{
		floodChatID: floodChatID,
		userService: userService,
		bot:         bot,
	}
}

func (f *ChatFilter) CheckAccess(ctx context.Context, message *tgbotapi.Message) bool {
	if message == nil || message.Chat == nil {
		log.WithField("component", "ChatFilter").Warn("nil message/chat")
		return false
	}
	if message.From == nil {
		log.WithFields(log.Fields{
			"component": "ChatFilter",
			"chat_id":   message.Chat.ID,
			"chat_type": message.Chat.Type,
		}).Warn("nil message.From (сервисное сообщение?)")
		return false
	}
	if f.floodChatID == 0 {
		log.WithField("component", "ChatFilter").Error("floodChatID равен 0 (ошибка конфигурации)")
		return false
	}

	chatID := message.Chat.ID
	userID := message.From.ID

	logger := log.WithFields(log.Fields{
		"component":     "ChatFilter",
		"chat_id":       chatID,
		"user_id":       userID,
		"flood_chat_id": f.floodChatID,
	})

	// 1) Разрешённый групповой чат
	if chatID == f.floodChatID {
		logger.Debug("allow: flood chat")
		return true
	}

	// 2) Личка: сначала быстро по БД
	if message.Chat.IsPrivate() {
		isMember, err := f.userService.IsMember(ctx, userID)
		if err != nil {
			logger.WithError(err).Error("member check failed (db)")
			return false
		}
		if isMember {
			logger.Debug("allow: private (db member)")
			return true
		}

		// 2.1) БД не знает пользователя: спрашиваем Telegram о членстве в чате
		cm, err := f.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
			ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
				ChatID: f.floodChatID,
				UserID: userID,
			},
		})
		if err != nil {
			logger.WithError(err).Error("member check failed (telegram GetChatMember)")
			return false
		}

		switch cm.Status {
		case "creator", "administrator", "member", "restricted":
			if err := f.userService.EnsureUser(
				ctx, userID,
				message.From.UserName,
				message.From.FirstName,
			); err != nil {
				logger.WithError(err).Warn("не удалось дозаписать участника в БД (всё равно пускаем)")
			}
			logger.WithField("tg_status", cm.Status).Info("allow: private (telegram member, backfilled)")
			return true

		default:
			logger.WithField("tg_status", cm.Status).Info("deny: private (not a chat member)")
			msg := tgbotapi.NewMessage(chatID, "❌ Бот работает только для участников основного чата")
			if _, sendErr := f.bot.Send(msg); sendErr != nil {
				logger.WithError(sendErr).Warn("failed to send deny message")
			}
			return false
		}
	}

	// 3) Остальные чаты игнорируем
	logger.Info("deny: not flood chat and not private")
	return false
}

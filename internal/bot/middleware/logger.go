// Package middleware содержит промежуточные обработчики бота:
// логирование входящих сообщений, антифлуд и восстановление после паники.
package middleware

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// Текст в логе обрезается, чтобы комплименты не раздували журнал.
const logTextLimit = 50

// LogMessage пишет входящее сообщение в debug-лог до любой обработки.
func LogMessage(message *tgbotapi.Message) {
	if message == nil || message.From == nil {
		return
	}

	text := message.Text
	if len(text) > logTextLimit {
		text = text[:logTextLimit] + "..."
	}

	log.WithFields(log.Fields{
		"user_id":  message.From.ID,
		"chat_id":  message.Chat.ID,
		"username": message.From.UserName,
		"text":     text,
	}).Debug("Входящее сообщение")
}

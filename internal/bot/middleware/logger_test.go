package middleware

import (
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"
)

func TestLogMessageNilSafe(t *testing.T) {
	require.NotPanics(t, func() {
		LogMessage(nil)
	})
	require.NotPanics(t, func() {
		LogMessage(&tgbotapi.Message{})
	})
}

func TestLogMessageLongText(t *testing.T) {
	msg := &tgbotapi.Message{
		From: &tgbotapi.User{ID: 1, UserName: "tester"},
		Chat: &tgbotapi.Chat{ID: -100},
		Text: strings.Repeat("а", 500),
	}
	require.NotPanics(t, func() {
		LogMessage(msg)
	})
}

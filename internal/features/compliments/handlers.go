// Package compliments — handlers.go обрабатывает команды !комплимент,
// !лайк, !мои, !полученные и !последние.
package compliments

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

// PageSize — размер страницы в командах бота (в API действует MaxPageSize).
const PageSize = 5

// Handler обрабатывает события комплиментов.
type Handler struct {
	service     *Service
	userService *users.Service
	bot         *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик комплиментов.
func NewHandler(service *Service, userService *users.Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, userService: userService, bot: bot}
}

// HandleGive — команда !комплимент. Два варианта:
//   - ответом на сообщение: !комплимент <текст>
//   - упоминанием: !комплимент @user <текст>
func (h *Handler) HandleGive(ctx context.Context, message *tgbotapi.Message, args []string) {
	chatID := message.Chat.ID
	giverID := message.From.ID

	recipientID, text, ok := h.resolveRecipient(ctx, message, args)
	if !ok {
		h.sendMessage(chatID, "Использование: ответь на сообщение «!комплимент <текст>» или «!комплимент @user <текст>»")
		return
	}

	result, err := h.service.Give(ctx, giverID, recipientID, text)
	if err != nil {
		h.sendMessage(chatID, giveErrorText(err))
		return
	}

	reply := fmt.Sprintf("💌 Комплимент #%d доставлен!", result.ID)
	if result.Minted > 0 {
		reply += fmt.Sprintf(" Награда: %s на двоих.", common.FormatTokens(result.Minted))
	} else {
		reply += " Потолок выпуска достигнут, награда не начислена."
	}
	reply += fmt.Sprintf("\nЛайкнуть: !лайк %d", result.ID)
	h.sendMessage(chatID, reply)
}

// resolveRecipient определяет получателя: из ответа на сообщение
// или из первого аргумента-упоминания. Возвращает (id, текст, ok).
func (h *Handler) resolveRecipient(ctx context.Context, message *tgbotapi.Message, args []string) (int64, string, bool) {
	if message.ReplyToMessage != nil && message.ReplyToMessage.From != nil {
		target := message.ReplyToMessage.From
		if len(args) == 0 {
			return 0, "", false
		}
		// Получатель может быть ещё не известен базе — регистрируем лениво
		if err := h.userService.EnsureUser(ctx, target.ID, target.UserName, target.FirstName); err != nil {
			log.WithError(err).WithField("user_id", target.ID).Warn("EnsureUser для получателя не удался")
		}
		return target.ID, strings.Join(args, " "), true
	}

	if len(args) >= 2 && strings.HasPrefix(args[0], "@") {
		id, err := h.userService.ResolveUsername(ctx, args[0])
		if err != nil {
			return 0, "", false
		}
		return id, strings.Join(args[1:], " "), true
	}

	return 0, "", false
}

// HandleLike — команда !лайк <id>.
func (h *Handler) HandleLike(ctx context.Context, chatID, userID int64, args []string) {
	if len(args) < 1 {
		h.sendMessage(chatID, "Использование: !лайк <номер комплимента>")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		h.sendMessage(chatID, "❌ Номер комплимента — это число")
		return
	}

	result, err := h.service.Like(ctx, userID, id)
	if err != nil {
		h.sendMessage(chatID, likeErrorText(err))
		return
	}

	h.sendMessage(chatID, fmt.Sprintf("❤️ Комплимент #%d: %d %s",
		result.ComplimentID, result.LikeCount, common.PluralizeLikes(result.LikeCount)))
}

// HandleMine — команда !мои [страница]: отданные комплименты.
func (h *Handler) HandleMine(ctx context.Context, chatID, userID int64, args []string) {
	page := parsePage(args)
	list, err := h.service.QueryByGiver(ctx, userID, (page-1)*PageSize, PageSize)
	if err != nil {
		log.WithError(err).Error("Ошибка выборки отданных комплиментов")
		h.sendMessage(chatID, "❌ Не удалось получить список")
		return
	}
	h.sendList(ctx, chatID, list, fmt.Sprintf("💌 Твои комплименты (стр. %d)", page))
}

// HandleReceived — команда !полученные [страница].
func (h *Handler) HandleReceived(ctx context.Context, chatID, userID int64, args []string) {
	page := parsePage(args)
	list, err := h.service.QueryByRecipient(ctx, userID, (page-1)*PageSize, PageSize)
	if err != nil {
		log.WithError(err).Error("Ошибка выборки полученных комплиментов")
		h.sendMessage(chatID, "❌ Не удалось получить список")
		return
	}
	h.sendList(ctx, chatID, list, fmt.Sprintf("💝 Полученные комплименты (стр. %d)", page))
}

// HandleRecent — команда !последние: свежие комплименты чата.
func (h *Handler) HandleRecent(ctx context.Context, chatID int64) {
	list, err := h.service.QueryRecent(ctx, PageSize)
	if err != nil {
		log.WithError(err).Error("Ошибка выборки последних комплиментов")
		h.sendMessage(chatID, "❌ Не удалось получить список")
		return
	}
	h.sendList(ctx, chatID, list, "🕘 Последние комплименты")
}

// sendList форматирует и отправляет страницу комплиментов.
func (h *Handler) sendList(ctx context.Context, chatID int64, list []*Compliment, title string) {
	if len(list) == 0 {
		h.sendMessage(chatID, "Пока пусто. Сделай кому-нибудь комплимент!")
		return
	}

	var sb strings.Builder
	sb.WriteString(title + "\n\n")
	for _, c := range list {
		sb.WriteString(fmt.Sprintf("#%d | %s | %s → %s | ❤️ %d\n%s\n\n",
			c.ID,
			common.FormatDateTime(c.CreatedAt),
			h.displayName(ctx, c.GiverID),
			h.displayName(ctx, c.RecipientID),
			c.LikeCount,
			c.Message,
		))
	}
	h.sendMessage(chatID, strings.TrimRight(sb.String(), "\n"))
}

// displayName возвращает отображаемое имя по user_id.
func (h *Handler) displayName(ctx context.Context, userID int64) string {
	u, err := h.userService.GetStats(ctx, userID)
	if err != nil {
		return fmt.Sprintf("id%d", userID)
	}
	return u.DisplayName()
}

// parsePage разбирает необязательный номер страницы (с 1).
func parsePage(args []string) int {
	if len(args) == 0 {
		return 1
	}
	page, err := strconv.Atoi(args[0])
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// giveErrorText переводит ошибку выдачи в сообщение для чата.
func giveErrorText(err error) string {
	switch {
	case errors.Is(err, common.ErrBlacklisted):
		return "🚫 Действие недоступно: чёрный список"
	case errors.Is(err, common.ErrInvalidRecipient):
		return "❌ Самому себе комплименты не считаются"
	case errors.Is(err, common.ErrInvalidMessage):
		return "❌ Текст должен быть от 1 до 280 байт"
	case errors.Is(err, common.ErrRateLimitExceeded):
		return "⏳ Лимит комплиментов на сегодня исчерпан, приходи завтра"
	default:
		log.WithError(err).Error("Ошибка выдачи комплимента")
		return "❌ Не удалось выдать комплимент"
	}
}

// likeErrorText переводит ошибку лайка в сообщение для чата.
func likeErrorText(err error) string {
	switch {
	case errors.Is(err, common.ErrBlacklisted):
		return "🚫 Действие недоступно: чёрный список"
	case errors.Is(err, common.ErrNotFound):
		return "❌ Комплимент не найден"
	case errors.Is(err, common.ErrAlreadyLiked):
		return "❌ Ты уже лайкал этот комплимент"
	case errors.Is(err, common.ErrSelfLike):
		return "❌ Собственные комплименты лайкать нельзя"
	default:
		log.WithError(err).Error("Ошибка лайка")
		return "❌ Не удалось поставить лайк"
	}
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}

// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Эти ошибки позволяют обработчикам различать типы проблем
// и отправлять пользователю понятные сообщения.
package common

import "errors"

// Ошибки комплиментов (выдача, лайки)
var (
	// ErrBlacklisted — пользователь в чёрном списке, действия запрещены
	ErrBlacklisted = errors.New("пользователь в чёрном списке")
	// ErrInvalidRecipient — получатель не указан или совпадает с отправителем
	ErrInvalidRecipient = errors.New("некорректный получатель комплимента")
	// ErrInvalidMessage — текст пустой или длиннее 280 байт
	ErrInvalidMessage = errors.New("текст комплимента должен быть от 1 до 280 байт")
	// ErrRateLimitExceeded — дневной лимит комплиментов исчерпан
	ErrRateLimitExceeded = errors.New("лимит комплиментов на сегодня исчерпан")
	// ErrNotFound — комплимент не найден или деактивирован
	ErrNotFound = errors.New("комплимент не найден")
	// ErrAlreadyLiked — этот комплимент уже лайкнут этим пользователем
	ErrAlreadyLiked = errors.New("вы уже лайкнули этот комплимент")
	// ErrSelfLike — попытка лайкнуть собственный комплимент
	ErrSelfLike = errors.New("нельзя лайкать собственный комплимент")
	// ErrInvalidArgument — некорректные параметры запроса (limit > 50 и т.п.)
	ErrInvalidArgument = errors.New("некорректные параметры запроса")
)

// Ошибки токенов (эмиссия, сжигание)
var (
	// ErrInsufficientBalance — недостаточно токенов на счёте
	ErrInsufficientBalance = errors.New("недостаточно токенов на счёте")
	// ErrInsufficientAllowance — разрешённый лимит списания меньше суммы
	ErrInsufficientAllowance = errors.New("недостаточный лимит доверия для списания")
	// ErrSupplyCapExceeded — эмиссия превысила бы максимальный выпуск
	ErrSupplyCapExceeded = errors.New("превышен максимальный выпуск токенов")
	// ErrInvalidAmount — некорректная сумма (ноль или отрицательная)
	ErrInvalidAmount = errors.New("сумма должна быть положительной")
	// ErrUserNotFound — пользователь не найден в базе
	ErrUserNotFound = errors.New("пользователь не найден")
)

// Ошибки модерации и владельца
var (
	// ErrUnauthorized — у пользователя нет прав на это действие
	ErrUnauthorized = errors.New("у вас нет прав на это действие")
	// ErrWrongPassword — неверный пароль владельца
	ErrWrongPassword = errors.New("неверный пароль")
	// ErrTooManyAttempts — слишком много неудачных попыток входа
	ErrTooManyAttempts = errors.New("слишком много попыток, подождите 1 час")
	// ErrSessionExpired — сессия истекла
	ErrSessionExpired = errors.New("сессия истекла, авторизуйтесь заново")
)

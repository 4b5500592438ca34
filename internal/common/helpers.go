// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: русская плюрализация, форматирование чисел, работа с временем.
package common

import (
	"fmt"
	"math"
	"time"
)

// PluralizeTokens возвращает правильную форму слова «токен» для числа n.
//
// Правила русского языка:
//   - n%10==1 И n%100!=11 → "токен" (1, 21, 31, 101, ...)
//   - n%10 в [2,3,4] И n%100 НЕ в [12,13,14] → "токена" (2, 3, 4, 22, 23, ...)
//   - Остальные случаи → "токенов" (0, 5-20, 25-30, 100, ...)
//
// Примеры:
//
//	PluralizeTokens(1)  → "токен"
//	PluralizeTokens(3)  → "токена"
//	PluralizeTokens(5)  → "токенов"
//	PluralizeTokens(11) → "токенов"
//	PluralizeTokens(21) → "токен"
func PluralizeTokens(n int64) string {
	// Берём абсолютное значение для отрицательных чисел
	absN := int64(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	// Единственное число: 1, 21, 31, 101 (но НЕ 11, 111)
	if lastDigit == 1 && lastTwoDigits != 11 {
		return "токен"
	}

	// Малое множественное: 2-4, 22-24, 32-34 (но НЕ 12-14)
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "токена"
	}

	// Большое множественное: 0, 5-20, 25-30, 100, ...
	return "токенов"
}

// FormatTokens форматирует сумму токенов в читабельную строку.
// Пример: FormatTokens(150) → "150 токенов"
func FormatTokens(amount int64) string {
	return fmt.Sprintf("%d %s", amount, PluralizeTokens(amount))
}

// PluralizeCompliments возвращает правильную форму слова «комплимент».
func PluralizeCompliments(n int) string {
	absN := int(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return "комплимент"
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "комплимента"
	}
	return "комплиментов"
}

// PluralizeLikes возвращает правильную форму слова «лайк».
func PluralizeLikes(n int) string {
	absN := int(math.Abs(float64(n)))
	lastDigit := absN % 10
	lastTwoDigits := absN % 100

	if lastDigit == 1 && lastTwoDigits != 11 {
		return "лайк"
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwoDigits < 12 || lastTwoDigits > 14) {
		return "лайка"
	}
	return "лайков"
}

// GetMoscowTime возвращает текущее время в часовом поясе Москвы (Europe/Moscow).
// Используется для ночного аудита выпуска и утреннего дайджеста.
func GetMoscowTime() time.Time {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		// Если не удалось загрузить — используем UTC+3 вручную
		loc = time.FixedZone("MSK", 3*60*60)
	}
	return time.Now().In(loc)
}

// GetMoscowDate возвращает только дату (без времени) в часовом поясе Москвы.
// Формат: 2006-01-02
func GetMoscowDate() time.Time {
	t := GetMoscowTime()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FormatDateTime форматирует время в формат "02.01.2006 15:04" (день.месяц.год часы:минуты).
// Используется для отображения дат комплиментов.
func FormatDateTime(t time.Time) string {
	loc, _ := time.LoadLocation("Europe/Moscow")
	return t.In(loc).Format("02.01.2006 15:04")
}

// FormatNumber форматирует число с разделителями тысяч (пробелами).
// Пример: FormatNumber(2350) → "2 350"
func FormatNumber(n int64) string {
	// Простая реализация для чисел до миллиарда
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	// Рекурсивно добавляем разделители
	rest := n / 1000
	last := n % 1000

	if rest > 0 {
		return fmt.Sprintf("%s %03d", FormatNumber(rest), last)
	}
	return fmt.Sprintf("%d", last)
}

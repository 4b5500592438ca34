// Package users управляет реестром участников: статистикой, репутацией,
// окном дневного лимита и флагами модератора/чёрного списка.
// models.go описывает структуры данных для работы с таблицей users.
package users

import "time"

// User представляет участника в базе данных.
// Запись создаётся лениво — при первом упоминании пользователя,
// все счётчики начинаются с нуля.
type User struct {
	ID              int64     `db:"id"`                // Автоинкрементный ID записи в БД
	UserID          int64     `db:"user_id"`           // Telegram user ID (уникальный)
	Username        string    `db:"username"`          // @username (может быть пустым)
	FirstName       string    `db:"first_name"`        // Имя пользователя
	GivenCount      int       `db:"given_count"`       // Сколько комплиментов отдал (только растёт)
	ReceivedCount   int       `db:"received_count"`    // Сколько получил (только растёт)
	Reputation      int64     `db:"reputation"`        // Репутация (никогда не уменьшается)
	RateWindowStart time.Time `db:"rate_window_start"` // Начало текущего окна дневного лимита
	RateWindowCount int       `db:"rate_window_count"` // Комплиментов в текущем окне
	IsModerator     bool      `db:"is_moderator"`      // Флаг модератора
	IsBlacklisted   bool      `db:"is_blacklisted"`    // Флаг чёрного списка
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// DisplayName возвращает отображаемое имя пользователя.
// Если есть @username — возвращает его, иначе — имя.
func (u *User) DisplayName() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return "аноним"
}

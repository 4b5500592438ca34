// Package compliments реализует леджер комплиментов: записи, лайки
// и составные действия с наградами.
// models.go описывает структуры для таблиц compliments и compliment_likes.
package compliments

import "time"

// MaxPageSize — потолок постраничной выборки. Запросы с limit больше
// отклоняются, а не обрезаются.
const MaxPageSize = 50

// Compliment — одна запись леджера.
// Записи никогда не удаляются физически: деактивация ставит active=false,
// id остаётся занятым навсегда (ноль зарезервирован как "не найдено").
type Compliment struct {
	ID          int64     `db:"id"`           // Строго возрастающий, выдаётся при создании
	GiverID     int64     `db:"giver_id"`     // Автор
	RecipientID int64     `db:"recipient_id"` // Получатель (не равен автору)
	Message     string    `db:"message"`      // Текст, 1–280 байт
	LikeCount   int       `db:"like_count"`   // Не убывает, пока запись активна
	Active      bool      `db:"active"`       // false после деактивации модератором
	CreatedAt   time.Time `db:"created_at"`   // Момент создания, неизменен
}

// Like — запись о лайке. Пара (compliment_id, user_id) уникальна
// и никогда не снимается.
type Like struct {
	ComplimentID int64     `db:"compliment_id"`
	UserID       int64     `db:"user_id"`
	CreatedAt    time.Time `db:"created_at"`
}

// GiveResult — итог успешной выдачи комплимента.
type GiveResult struct {
	ID                  int64     // id новой записи
	CreatedAt           time.Time
	Minted              int64 // Сколько токенов реально выпущено (0 — пропуск из-за потолка)
	GiverReputation     int64 // Новая репутация автора
	RecipientReputation int64 // Новая репутация получателя
}

// LikeResult — итог успешного лайка.
type LikeResult struct {
	ComplimentID    int64
	GiverID         int64 // Автор лайкнутого комплимента
	LikeCount       int   // Новое количество лайков
	Minted          int64 // 0 или награда лайкнувшему
	GiverReputation int64 // Новая репутация автора
}

// DigestStats — сводка за период для утреннего дайджеста.
type DigestStats struct {
	Count          int   // Сколько комплиментов выдано
	TopRecipientID int64 // Кто получил больше всех (0, если никто)
	TopReceived    int   // Сколько получил лидер
}

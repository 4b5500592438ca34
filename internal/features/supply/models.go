// Package supply управляет выпуском токенов и балансами.
// models.go описывает структуры для таблиц token_supply, balances и allowances.
package supply

import "time"

// Supply — единственная строка таблицы token_supply.
// Хранит суммарный выпуск и жёсткий потолок.
type Supply struct {
	TotalIssued int64     `db:"total_issued"` // Сколько токенов выпущено за всё время
	MaxSupply   int64     `db:"max_supply"`   // Потолок эмиссии
	UpdatedAt   time.Time `db:"updated_at"`
}

// Balance представляет счёт пользователя.
// Каждый участник имеет не более одной записи в таблице balances.
type Balance struct {
	ID          int64     `db:"id"`           // ID записи
	UserID      int64     `db:"user_id"`      // Telegram user ID
	Balance     int64     `db:"balance"`      // Текущий баланс (начинается с 0)
	TotalEarned int64     `db:"total_earned"` // Сколько всего начислено
	TotalBurned int64     `db:"total_burned"` // Сколько всего сожжено
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Allowance — разрешение на списание чужих токенов.
// Выставляется командой "доверить", расходуется через BurnFrom.
type Allowance struct {
	OwnerID   int64     `db:"owner_id"`   // Чьи токены
	SpenderID int64     `db:"spender_id"` // Кому разрешено списывать
	Amount    int64     `db:"amount"`     // Оставшийся лимит
	UpdatedAt time.Time `db:"updated_at"`
}

// AuditReport — результат ночной сверки выпуска.
type AuditReport struct {
	TotalIssued int64 // Выпуск по таблице token_supply
	MaxSupply   int64
	SumBalances int64 // Σ(total_earned - total_burned) по балансам
}

// Consistent сообщает, сходится ли бухгалтерия.
func (a *AuditReport) Consistent() bool {
	return a.TotalIssued <= a.MaxSupply && a.TotalIssued == a.SumBalances && a.TotalIssued >= 0
}

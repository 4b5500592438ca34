// Package supply — repository.go выполняет все операции с таблицами
// token_supply, balances и allowances.
// Все денежные операции выполняются в транзакциях БД для целостности данных.
package supply

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"compliment-bot/internal/common"
)

// Repository предоставляет методы для работы с выпуском и балансами.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт новый репозиторий токенов.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// EnsureSupplyRow гарантирует, что строка выпуска существует,
// и синхронизирует потолок с конфигурацией. Вызывается при старте.
func (r *Repository) EnsureSupplyRow(ctx context.Context, maxSupply int64) error {
	query := `
		INSERT INTO token_supply (id, total_issued, max_supply)
		VALUES (1, 0, $1)
		ON CONFLICT (id) DO UPDATE SET max_supply = EXCLUDED.max_supply, updated_at = NOW()
	`
	if _, err := r.db.Exec(ctx, query, maxSupply); err != nil {
		return fmt.Errorf("ошибка инициализации строки выпуска: %w", err)
	}
	return nil
}

// EnsureBalance гарантирует, что у пользователя есть запись баланса.
// Если нет — создаёт с нулевым балансом. Вызывается при регистрации.
func (r *Repository) EnsureBalance(ctx context.Context, userID int64) error {
	query := `
		INSERT INTO balances (user_id, balance, total_earned, total_burned)
		VALUES ($1, 0, 0, 0)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("ошибка создания баланса: %w", err)
	}
	return nil
}

// GetBalance возвращает текущий баланс пользователя.
// Для пользователя без записи возвращает 0.
func (r *Repository) GetBalance(ctx context.Context, userID int64) (int64, error) {
	query := `SELECT balance FROM balances WHERE user_id = $1`
	var balance int64
	err := r.db.QueryRow(ctx, query, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("ошибка получения баланса: %w", err)
	}
	return balance, nil
}

// GetTotalIssued возвращает суммарный выпуск и потолок.
func (r *Repository) GetTotalIssued(ctx context.Context) (*Supply, error) {
	query := `SELECT total_issued, max_supply, updated_at FROM token_supply WHERE id = 1`
	var s Supply
	if err := r.db.QueryRow(ctx, query).Scan(&s.TotalIssued, &s.MaxSupply, &s.UpdatedAt); err != nil {
		return nil, fmt.Errorf("ошибка чтения выпуска: %w", err)
	}
	return &s, nil
}

// MintInTx пытается выпустить amount токенов на счёт userID внутри
// уже открытой транзакции. Если выпуск превысил бы потолок — эмиссия
// ЦЕЛИКОМ пропускается и возвращается issued=false без ошибки:
// это осознанная политика "best effort" для наград, а не сбой.
func MintInTx(ctx context.Context, tx pgx.Tx, userID, amount int64) (bool, error) {
	return MintPairInTx(ctx, tx, userID, amount, 0, 0)
}

// MintPairInTx выпускает парную награду (автору и получателю) как
// единое целое: потолок проверяется ОДИН раз по сумме, и либо обе
// стороны получают токены, либо ни одна. Частичный выпуск исключён.
//
// Строка выпуска блокируется FOR UPDATE, поэтому параллельные
// транзакции видят согласованное значение total_issued.
func MintPairInTx(ctx context.Context, tx pgx.Tx, firstID, firstAmt, secondID, secondAmt int64) (bool, error) {
	total := firstAmt + secondAmt
	if total <= 0 {
		return false, nil
	}

	var issued, capacity int64
	err := tx.QueryRow(ctx,
		`SELECT total_issued, max_supply FROM token_supply WHERE id = 1 FOR UPDATE`,
	).Scan(&issued, &capacity)
	if err != nil {
		return false, fmt.Errorf("ошибка чтения выпуска: %w", err)
	}

	// Потолок: пропускаем эмиссию целиком, не ошибка
	if !capAllows(issued, capacity, total) {
		return false, nil
	}

	_, err = tx.Exec(ctx,
		`UPDATE token_supply SET total_issued = total_issued + $1, updated_at = NOW() WHERE id = 1`,
		total,
	)
	if err != nil {
		return false, fmt.Errorf("ошибка обновления выпуска: %w", err)
	}

	if err := creditInTx(ctx, tx, firstID, firstAmt); err != nil {
		return false, err
	}
	if secondAmt > 0 {
		if err := creditInTx(ctx, tx, secondID, secondAmt); err != nil {
			return false, err
		}
	}
	return true, nil
}

// capAllows сообщает, помещается ли эмиссия amount в остаток потолка.
// Граница включительно: выпуск ровно до потолка разрешён.
func capAllows(issued, capacity, amount int64) bool {
	return issued+amount <= capacity
}

// creditInTx начисляет токены на счёт внутри транзакции.
func creditInTx(ctx context.Context, tx pgx.Tx, userID, amount int64) error {
	if amount <= 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO balances (user_id, balance, total_earned, total_burned)
		VALUES ($1, $2, $2, 0)
		ON CONFLICT (user_id) DO UPDATE
		SET balance = balances.balance + EXCLUDED.balance,
		    total_earned = balances.total_earned + EXCLUDED.total_earned,
		    updated_at = NOW()
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("ошибка начисления: %w", err)
	}
	return nil
}

// EmergencyMint — экстренная эмиссия владельцем. В отличие от наград,
// превышение потолка здесь ЖЁСТКАЯ ошибка (common.ErrSupplyCapExceeded).
func (r *Repository) EmergencyMint(ctx context.Context, userID, amount int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var issued, capacity int64
	err = tx.QueryRow(ctx,
		`SELECT total_issued, max_supply FROM token_supply WHERE id = 1 FOR UPDATE`,
	).Scan(&issued, &capacity)
	if err != nil {
		return fmt.Errorf("ошибка чтения выпуска: %w", err)
	}
	if !capAllows(issued, capacity, amount) {
		return common.ErrSupplyCapExceeded
	}

	_, err = tx.Exec(ctx,
		`UPDATE token_supply SET total_issued = total_issued + $1, updated_at = NOW() WHERE id = 1`,
		amount,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления выпуска: %w", err)
	}
	if err := creditInTx(ctx, tx, userID, amount); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Burn сжигает токены со счёта пользователя: уменьшает и баланс,
// и суммарный выпуск. Проверяет достаточность средств с блокировкой строки.
func (r *Repository) Burn(ctx context.Context, userID, amount int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := burnInTx(ctx, tx, userID, amount); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// BurnFrom сжигает токены со счёта ownerID по поручению spenderID.
// Требует заранее выданного разрешения (allowance); лимит уменьшается
// на сумму сжигания.
func (r *Repository) BurnFrom(ctx context.Context, spenderID, ownerID, amount int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	// Блокируем разрешение и проверяем лимит
	var allowed int64
	err = tx.QueryRow(ctx,
		`SELECT amount FROM allowances WHERE owner_id = $1 AND spender_id = $2 FOR UPDATE`,
		ownerID, spenderID,
	).Scan(&allowed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.ErrInsufficientAllowance
		}
		return fmt.Errorf("ошибка чтения разрешения: %w", err)
	}
	if allowed < amount {
		return common.ErrInsufficientAllowance
	}

	if err := burnInTx(ctx, tx, ownerID, amount); err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`UPDATE allowances SET amount = amount - $3, updated_at = NOW()
		 WHERE owner_id = $1 AND spender_id = $2`,
		ownerID, spenderID, amount,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления разрешения: %w", err)
	}

	return tx.Commit(ctx)
}

// burnInTx — общая часть Burn и BurnFrom: списание со счёта и
// уменьшение выпуска внутри транзакции.
func burnInTx(ctx context.Context, tx pgx.Tx, userID, amount int64) error {
	// Проверяем баланс перед списанием (с блокировкой строки FOR UPDATE)
	var currentBalance int64
	err := tx.QueryRow(ctx,
		`SELECT balance FROM balances WHERE user_id = $1 FOR UPDATE`, userID,
	).Scan(&currentBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.ErrInsufficientBalance
		}
		return fmt.Errorf("ошибка получения баланса: %w", err)
	}
	if currentBalance < amount {
		return common.ErrInsufficientBalance
	}

	_, err = tx.Exec(ctx, `
		UPDATE balances
		SET balance = balance - $2, total_burned = total_burned + $2, updated_at = NOW()
		WHERE user_id = $1
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("ошибка списания: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE token_supply SET total_issued = total_issued - $1, updated_at = NOW() WHERE id = 1`,
		amount,
	)
	if err != nil {
		return fmt.Errorf("ошибка уменьшения выпуска: %w", err)
	}
	return nil
}

// Approve выставляет разрешение на списание. Сумма ЗАМЕНЯЕТ прежний
// лимит, а не прибавляется к нему.
func (r *Repository) Approve(ctx context.Context, ownerID, spenderID, amount int64) error {
	query := `
		INSERT INTO allowances (owner_id, spender_id, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_id, spender_id) DO UPDATE
		SET amount = EXCLUDED.amount, updated_at = NOW()
	`
	if _, err := r.db.Exec(ctx, query, ownerID, spenderID, amount); err != nil {
		return fmt.Errorf("ошибка выставления разрешения: %w", err)
	}
	return nil
}

// GetAllowance возвращает оставшийся лимит списания (0, если не выдан).
func (r *Repository) GetAllowance(ctx context.Context, ownerID, spenderID int64) (int64, error) {
	query := `SELECT amount FROM allowances WHERE owner_id = $1 AND spender_id = $2`
	var amount int64
	err := r.db.QueryRow(ctx, query, ownerID, spenderID).Scan(&amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("ошибка чтения разрешения: %w", err)
	}
	return amount, nil
}

// Audit сверяет выпуск с суммой по балансам. Используется ночным кроном.
func (r *Repository) Audit(ctx context.Context) (*AuditReport, error) {
	var report AuditReport
	err := r.db.QueryRow(ctx,
		`SELECT total_issued, max_supply FROM token_supply WHERE id = 1`,
	).Scan(&report.TotalIssued, &report.MaxSupply)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения выпуска: %w", err)
	}

	err = r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_earned - total_burned), 0) FROM balances`,
	).Scan(&report.SumBalances)
	if err != nil {
		return nil, fmt.Errorf("ошибка суммирования балансов: %w", err)
	}
	return &report, nil
}

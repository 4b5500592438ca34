// Package compliments — repository.go выполняет все операции с таблицами
// compliments и compliment_likes, а также составные действия give/like.
//
// Каждое изменяющее действие — ОДНА транзакция БД: проверки, запись,
// счётчики, репутация и эмиссия либо фиксируются вместе, либо
// откатываются вместе. Единственное допустимое "частичное" поведение —
// пропуск эмиссии при достижении потолка выпуска (бизнес-правило,
// а не сбой).
package compliments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"compliment-bot/internal/common"
	"compliment-bot/internal/features/supply"
	"compliment-bot/internal/features/users"
)

// Repository работает с таблицами комплиментов и лайков.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий комплиментов.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GiveParams — параметры составного действия "выдать комплимент".
// Константы наград передаются из конфигурации, чтобы репозиторий
// не зависел от пакета config.
type GiveParams struct {
	GiverID        int64
	RecipientID    int64
	Message        string
	Now            time.Time
	DailyLimit     int
	GiverReward    int64 // Токены автору
	RecipientBonus int64 // Токены получателю
	RepGiver       int64 // Репутация автору
	RepRecipient   int64 // Репутация получателю
}

// lockedUser — строки users, захваченные FOR UPDATE в начале транзакции.
type lockedUser struct {
	userID      int64
	blacklisted bool
	windowStart time.Time
	windowCount int
}

// Give выполняет всё действие выдачи в одной транзакции:
// чёрный список → окно лимита → запись → счётчики → репутация →
// парная эмиссия под общим потолком.
func (r *Repository) Give(ctx context.Context, p GiveParams) (*GiveResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	// Захватываем обе строки users в порядке возрастания user_id,
	// чтобы параллельные give не взаимоблокировались.
	locked, err := lockUsers(ctx, tx, p.GiverID, p.RecipientID)
	if err != nil {
		return nil, err
	}
	giver, ok := locked[p.GiverID]
	if !ok {
		return nil, common.ErrUserNotFound
	}
	recipient, ok := locked[p.RecipientID]
	if !ok {
		return nil, common.ErrUserNotFound
	}

	if giver.blacklisted || recipient.blacklisted {
		return nil, common.ErrBlacklisted
	}

	// Ленивый сдвиг окна — ровно один раз, до проверки лимита
	windowStart, windowCount := users.RollWindow(giver.windowStart, giver.windowCount, p.Now)
	if windowCount >= p.DailyLimit {
		return nil, common.ErrRateLimitExceeded
	}

	// Создаём запись; id выдаёт последовательность — строго возрастает
	// и не переиспользуется даже после деактивации
	var id int64
	var createdAt time.Time
	err = tx.QueryRow(ctx, `
		INSERT INTO compliments (giver_id, recipient_id, message, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, p.GiverID, p.RecipientID, p.Message, p.Now).Scan(&id, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания комплимента: %w", err)
	}

	// Счётчик отданного, окно и репутация автора — одним апдейтом
	var giverRep int64
	err = tx.QueryRow(ctx, `
		UPDATE users
		SET given_count = given_count + 1,
		    rate_window_start = $2,
		    rate_window_count = $3,
		    reputation = reputation + $4,
		    updated_at = NOW()
		WHERE user_id = $1
		RETURNING reputation
	`, p.GiverID, windowStart, windowCount+1, p.RepGiver).Scan(&giverRep)
	if err != nil {
		return nil, fmt.Errorf("ошибка обновления автора: %w", err)
	}

	var recipientRep int64
	err = tx.QueryRow(ctx, `
		UPDATE users
		SET received_count = received_count + 1,
		    reputation = reputation + $2,
		    updated_at = NOW()
		WHERE user_id = $1
		RETURNING reputation
	`, p.RecipientID, p.RepRecipient).Scan(&recipientRep)
	if err != nil {
		return nil, fmt.Errorf("ошибка обновления получателя: %w", err)
	}

	// Парная эмиссия: один общий чек потолка, обе награды или ни одной
	issued, err := supply.MintPairInTx(ctx, tx,
		p.GiverID, p.GiverReward, p.RecipientID, p.RecipientBonus)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	result := &GiveResult{
		ID:                  id,
		CreatedAt:           createdAt,
		GiverReputation:     giverRep,
		RecipientReputation: recipientRep,
	}
	if issued {
		result.Minted = p.GiverReward + p.RecipientBonus
	}
	return result, nil
}

// LikeParams — параметры действия "лайкнуть комплимент".
type LikeParams struct {
	UserID       int64
	ComplimentID int64
	LikeReward   int64 // Токены лайкнувшему
	RepLike      int64 // Репутация автору комплимента
}

// Like выполняет лайк в одной транзакции: существование и активность
// записи → не свой комплимент → не дубликат → счётчик лайков →
// репутация автора → эмиссия лайкнувшему.
func (r *Repository) Like(ctx context.Context, p LikeParams) (*LikeResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	// Чёрный список лайкнувшего
	var blacklisted bool
	err = tx.QueryRow(ctx,
		`SELECT is_blacklisted FROM users WHERE user_id = $1 FOR UPDATE`, p.UserID,
	).Scan(&blacklisted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка чтения участника: %w", err)
	}
	if blacklisted {
		return nil, common.ErrBlacklisted
	}

	// Комплимент должен существовать и быть активным
	var giverID int64
	var active bool
	err = tx.QueryRow(ctx,
		`SELECT giver_id, active FROM compliments WHERE id = $1 FOR UPDATE`, p.ComplimentID,
	).Scan(&giverID, &active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения комплимента: %w", err)
	}
	if !active {
		return nil, common.ErrNotFound
	}
	if giverID == p.UserID {
		return nil, common.ErrSelfLike
	}

	// Пара (комплимент, пользователь) уникальна; конфликт = дубликат
	tag, err := tx.Exec(ctx, `
		INSERT INTO compliment_likes (compliment_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (compliment_id, user_id) DO NOTHING
	`, p.ComplimentID, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("ошибка записи лайка: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, common.ErrAlreadyLiked
	}

	var likeCount int
	err = tx.QueryRow(ctx, `
		UPDATE compliments SET like_count = like_count + 1 WHERE id = $1
		RETURNING like_count
	`, p.ComplimentID).Scan(&likeCount)
	if err != nil {
		return nil, fmt.Errorf("ошибка обновления счётчика лайков: %w", err)
	}

	var giverRep int64
	err = tx.QueryRow(ctx, `
		UPDATE users SET reputation = reputation + $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING reputation
	`, giverID, p.RepLike).Scan(&giverRep)
	if err != nil {
		return nil, fmt.Errorf("ошибка обновления репутации автора: %w", err)
	}

	issued, err := supply.MintInTx(ctx, tx, p.UserID, p.LikeReward)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	result := &LikeResult{
		ComplimentID:    p.ComplimentID,
		GiverID:         giverID,
		LikeCount:       likeCount,
		GiverReputation: giverRep,
	}
	if issued {
		result.Minted = p.LikeReward
	}
	return result, nil
}

// lockUsers захватывает строки users для обоих участников FOR UPDATE
// в возрастающем порядке user_id.
func lockUsers(ctx context.Context, tx pgx.Tx, a, b int64) (map[int64]lockedUser, error) {
	rows, err := tx.Query(ctx, `
		SELECT user_id, is_blacklisted, rate_window_start, rate_window_count
		FROM users
		WHERE user_id = $1 OR user_id = $2
		ORDER BY user_id
		FOR UPDATE
	`, a, b)
	if err != nil {
		return nil, fmt.Errorf("ошибка блокировки участников: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]lockedUser, 2)
	for rows.Next() {
		var u lockedUser
		if err := rows.Scan(&u.userID, &u.blacklisted, &u.windowStart, &u.windowCount); err != nil {
			return nil, fmt.Errorf("ошибка сканирования участника: %w", err)
		}
		out[u.userID] = u
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения участников: %w", err)
	}
	return out, nil
}

// Get возвращает комплимент по id (включая деактивированные — для аудита).
func (r *Repository) Get(ctx context.Context, id int64) (*Compliment, error) {
	query := `
		SELECT id, giver_id, recipient_id, message, like_count, active, created_at
		FROM compliments
		WHERE id = $1
	`
	var c Compliment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.GiverID, &c.RecipientID, &c.Message,
		&c.LikeCount, &c.Active, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения комплимента: %w", err)
	}
	return &c, nil
}

// Deactivate помечает запись тумстоуном (active=false).
// Повторная деактивация — no-op с успехом.
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE compliments SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка деактивации: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

// QueryByGiver возвращает активные комплименты автора в порядке
// возрастания id. offset отсчитывается по отфильтрованной
// последовательности, а не по сырым id.
func (r *Repository) QueryByGiver(ctx context.Context, userID int64, offset, limit int) ([]*Compliment, error) {
	query := `
		SELECT id, giver_id, recipient_id, message, like_count, active, created_at
		FROM compliments
		WHERE giver_id = $1 AND active = TRUE
		ORDER BY id ASC
		OFFSET $2 LIMIT $3
	`
	return r.queryCompliments(ctx, query, userID, offset, limit)
}

// QueryByRecipient — то же для получателя.
func (r *Repository) QueryByRecipient(ctx context.Context, userID int64, offset, limit int) ([]*Compliment, error) {
	query := `
		SELECT id, giver_id, recipient_id, message, like_count, active, created_at
		FROM compliments
		WHERE recipient_id = $1 AND active = TRUE
		ORDER BY id ASC
		OFFSET $2 LIMIT $3
	`
	return r.queryCompliments(ctx, query, userID, offset, limit)
}

// QueryRecent возвращает до limit активных комплиментов, свежие первыми.
func (r *Repository) QueryRecent(ctx context.Context, limit int) ([]*Compliment, error) {
	query := `
		SELECT id, giver_id, recipient_id, message, like_count, active, created_at
		FROM compliments
		WHERE active = TRUE
		ORDER BY id DESC
		LIMIT $1
	`
	return r.queryCompliments(ctx, query, limit)
}

// TotalCount — сколько комплиментов создано за всё время.
// Деактивация на счётчик не влияет: записи не удаляются.
func (r *Repository) TotalCount(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM compliments`).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта комплиментов: %w", err)
	}
	return count, nil
}

// Digest собирает сводку по активным комплиментам за период [since, until).
func (r *Repository) Digest(ctx context.Context, since, until time.Time) (*DigestStats, error) {
	var stats DigestStats
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM compliments
		WHERE active = TRUE AND created_at >= $1 AND created_at < $2
	`, since, until).Scan(&stats.Count)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчёта за период: %w", err)
	}
	if stats.Count == 0 {
		return &stats, nil
	}

	err = r.db.QueryRow(ctx, `
		SELECT recipient_id, COUNT(*) AS received
		FROM compliments
		WHERE active = TRUE AND created_at >= $1 AND created_at < $2
		GROUP BY recipient_id
		ORDER BY received DESC, recipient_id ASC
		LIMIT 1
	`, since, until).Scan(&stats.TopRecipientID, &stats.TopReceived)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("ошибка поиска лидера: %w", err)
	}
	return &stats, nil
}

func (r *Repository) queryCompliments(ctx context.Context, query string, args ...interface{}) ([]*Compliment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса комплиментов: %w", err)
	}
	defer rows.Close()

	var out []*Compliment
	for rows.Next() {
		var c Compliment
		if err := rows.Scan(
			&c.ID, &c.GiverID, &c.RecipientID, &c.Message,
			&c.LikeCount, &c.Active, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки: %w", err)
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения строк: %w", err)
	}
	return out, nil
}

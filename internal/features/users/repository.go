// Package users — repository.go отвечает за все операции с таблицей users в БД.
// Каждая функция выполняет один SQL-запрос и возвращает результат или ошибку.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"compliment-bot/internal/common"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Ensure создаёт запись участника, если её нет (все счётчики нулевые).
// На конфликте по user_id обновляет только имя/username — счётчики,
// флаги и окно лимита не трогаются.
func (r *Repository) Ensure(ctx context.Context, userID int64, username, firstName string) error {
	query := `
		INSERT INTO users (user_id, username, first_name, rate_window_start)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET username = EXCLUDED.username,
		    first_name = EXCLUDED.first_name,
		    updated_at = NOW()
	`
	if _, err := r.db.Exec(ctx, query, userID, username, firstName); err != nil {
		return fmt.Errorf("ошибка создания/обновления участника: %w", err)
	}
	return nil
}

// GetByUserID: если не найден — common.ErrUserNotFound.
func (r *Repository) GetByUserID(ctx context.Context, userID int64) (*User, error) {
	query := `
		SELECT id, user_id, username, first_name, given_count, received_count,
		       reputation, rate_window_start, rate_window_count,
		       is_moderator, is_blacklisted, created_at, updated_at
		FROM users
		WHERE user_id = $1
	`
	var u User
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&u.ID, &u.UserID, &u.Username, &u.FirstName,
		&u.GivenCount, &u.ReceivedCount, &u.Reputation,
		&u.RateWindowStart, &u.RateWindowCount,
		&u.IsModerator, &u.IsBlacklisted,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка чтения участника (user_id=%d): %w", userID, err)
	}
	return &u, nil
}

// GetByUsername: поиск по @username без учёта регистра.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, user_id, username, first_name, given_count, received_count,
		       reputation, rate_window_start, rate_window_count,
		       is_moderator, is_blacklisted, created_at, updated_at
		FROM users
		WHERE LOWER(username) = LOWER($1)
	`
	var u User
	err := r.db.QueryRow(ctx, query, username).Scan(
		&u.ID, &u.UserID, &u.Username, &u.FirstName,
		&u.GivenCount, &u.ReceivedCount, &u.Reputation,
		&u.RateWindowStart, &u.RateWindowCount,
		&u.IsModerator, &u.IsBlacklisted,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка чтения участника (username=%s): %w", username, err)
	}
	return &u, nil
}

func (r *Repository) Exists(ctx context.Context, userID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE user_id = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("ошибка проверки существования: %w", err)
	}
	return exists, nil
}

// SetModerator включает/выключает флаг модератора.
func (r *Repository) SetModerator(ctx context.Context, userID int64, isModerator bool) error {
	query := `UPDATE users SET is_moderator = $2, updated_at = NOW() WHERE user_id = $1`
	tag, err := r.db.Exec(ctx, query, userID, isModerator)
	if err != nil {
		return fmt.Errorf("ошибка обновления флага модератора: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrUserNotFound
	}
	return nil
}

// SetBlacklisted включает/выключает чёрный список.
func (r *Repository) SetBlacklisted(ctx context.Context, userID int64, isBlacklisted bool) error {
	query := `UPDATE users SET is_blacklisted = $2, updated_at = NOW() WHERE user_id = $1`
	tag, err := r.db.Exec(ctx, query, userID, isBlacklisted)
	if err != nil {
		return fmt.Errorf("ошибка обновления чёрного списка: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrUserNotFound
	}
	return nil
}

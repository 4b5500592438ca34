// Package users — service.go содержит бизнес-логику реестра участников.
// Сервис координирует ленивую регистрацию, запросы статистики
// и административные переключатели.
package users

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"compliment-bot/internal/events"
)

// Service управляет реестром участников.
type Service struct {
	repo *Repository
	bus  *events.Bus
}

// NewService создаёт новый сервис участников.
func NewService(repo *Repository, bus *events.Bus) *Service {
	return &Service{repo: repo, bus: bus}
}

// EnsureUser гарантирует, что участник есть в базе (создание идемпотентно).
// Вызывается при первом сообщении и при вступлении в чат.
func (s *Service) EnsureUser(ctx context.Context, userID int64, username, firstName string) error {
	return s.repo.Ensure(ctx, userID, username, firstName)
}

// GetStats возвращает снимок статистики участника.
func (s *Service) GetStats(ctx context.Context, userID int64) (*User, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// IsMember проверяет, известен ли пользователь базе.
func (s *Service) IsMember(ctx context.Context, userID int64) (bool, error) {
	return s.repo.Exists(ctx, userID)
}

// ResolveUsername переводит "@username" (или "username") в Telegram user ID.
func (s *Service) ResolveUsername(ctx context.Context, username string) (int64, error) {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	return u.UserID, nil
}

// SetModerator назначает или снимает модератора.
// Авторизация (только владелец) — на вызывающей стороне.
func (s *Service) SetModerator(ctx context.Context, userID int64, isModerator bool) error {
	if err := s.repo.SetModerator(ctx, userID, isModerator); err != nil {
		return err
	}

	kind := events.KindModeratorAdded
	if !isModerator {
		kind = events.KindModeratorRemoved
	}
	s.bus.Publish(events.Event{Kind: kind, TargetID: userID})

	log.WithFields(log.Fields{
		"user_id":      userID,
		"is_moderator": isModerator,
	}).Info("Флаг модератора изменён")
	return nil
}

// SetBlacklisted заносит в чёрный список или убирает из него.
// Запросы статистики для таких пользователей продолжают работать,
// блокируются только действия (комплименты и лайки).
func (s *Service) SetBlacklisted(ctx context.Context, userID int64, isBlacklisted bool) error {
	if err := s.repo.SetBlacklisted(ctx, userID, isBlacklisted); err != nil {
		return err
	}

	kind := events.KindUserBlacklisted
	if !isBlacklisted {
		kind = events.KindUserWhitelisted
	}
	s.bus.Publish(events.Event{Kind: kind, TargetID: userID})

	log.WithFields(log.Fields{
		"user_id":        userID,
		"is_blacklisted": isBlacklisted,
	}).Info("Чёрный список изменён")
	return nil
}

// IsModerator сообщает, модератор ли пользователь.
func (s *Service) IsModerator(ctx context.Context, userID int64) (bool, error) {
	u, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	return u.IsModerator, nil
}

// IsBlacklisted сообщает, в чёрном ли списке пользователь.
func (s *Service) IsBlacklisted(ctx context.Context, userID int64) (bool, error) {
	u, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	return u.IsBlacklisted, nil
}

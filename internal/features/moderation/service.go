// Package moderation — service.go содержит логику аутентификации владельца
// и проверку полномочий для модераторских действий.
package moderation

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"compliment-bot/internal/common"
	"compliment-bot/internal/config"
	"compliment-bot/internal/features/compliments"
	"compliment-bot/internal/features/supply"
	"compliment-bot/internal/features/users"
)

// Защита от brute-force: 3 неудачные попытки = блокировка на 1 час.
const (
	maxLoginFailures = 3
	failureWindow    = 1 * time.Hour
	sessionTTL       = 24 * time.Hour
)

// Service управляет панелью владельца и модераторскими действиями.
type Service struct {
	repo        *Repository
	users       *users.Service
	compliments *compliments.Service
	supply      *supply.Service
	cfg         *config.Config
}

// NewService создаёт сервис модерации.
func NewService(repo *Repository, usersSvc *users.Service, complimentsSvc *compliments.Service, supplySvc *supply.Service, cfg *config.Config) *Service {
	return &Service{
		repo:        repo,
		users:       usersSvc,
		compliments: complimentsSvc,
		supply:      supplySvc,
		cfg:         cfg,
	}
}

// Login проверяет пароль владельца и создаёт сессию на 24 часа.
func (s *Service) Login(ctx context.Context, userID int64, password string) error {
	if userID != s.cfg.OwnerID {
		return common.ErrUnauthorized
	}

	failures, err := s.repo.GetRecentFailures(ctx, userID, failureWindow)
	if err != nil {
		return err
	}
	if failures >= maxLoginFailures {
		return common.ErrTooManyAttempts
	}

	match := VerifyArgon2id(password, s.cfg.OwnerPasswordHash)

	if err := s.repo.LogAttempt(ctx, userID, match); err != nil {
		log.WithError(err).Error("Не удалось записать попытку входа")
	}

	if !match {
		return common.ErrWrongPassword
	}

	session := &OwnerSession{
		UserID:       userID,
		SessionToken: generateSecureToken(),
		ExpiresAt:    time.Now().Add(sessionTTL),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return err
	}

	log.WithField("user_id", userID).Info("Владелец вошёл в панель")
	return nil
}

// Logout деактивирует сессии владельца.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	return s.repo.DeactivateSession(ctx, userID)
}

// IsAuthenticated проверяет, есть ли у пользователя активная сессия.
func (s *Service) IsAuthenticated(ctx context.Context, userID int64) bool {
	session, err := s.repo.GetActiveSession(ctx, userID)
	return err == nil && session != nil
}

// requireOwner пропускает только владельца с активной сессией.
func (s *Service) requireOwner(ctx context.Context, userID int64) error {
	if userID != s.cfg.OwnerID {
		return common.ErrUnauthorized
	}
	if !s.IsAuthenticated(ctx, userID) {
		return common.ErrSessionExpired
	}
	if err := s.repo.UpdateActivity(ctx, userID); err != nil {
		log.WithError(err).Warn("Не удалось обновить активность сессии")
	}
	return nil
}

// requireModerator пропускает владельца (с сессией) и модераторов.
func (s *Service) requireModerator(ctx context.Context, userID int64) error {
	if userID == s.cfg.OwnerID {
		return s.requireOwner(ctx, userID)
	}
	isModerator, err := s.users.IsModerator(ctx, userID)
	if err != nil {
		return err
	}
	if !isModerator {
		return common.ErrUnauthorized
	}
	return nil
}

// AddModerator назначает модератора. Только владелец.
func (s *Service) AddModerator(ctx context.Context, ownerID, targetID int64) error {
	if err := s.requireOwner(ctx, ownerID); err != nil {
		return err
	}
	return s.users.SetModerator(ctx, targetID, true)
}

// RemoveModerator снимает модератора. Только владелец.
func (s *Service) RemoveModerator(ctx context.Context, ownerID, targetID int64) error {
	if err := s.requireOwner(ctx, ownerID); err != nil {
		return err
	}
	return s.users.SetModerator(ctx, targetID, false)
}

// EmergencyMint — экстренная эмиссия мимо обычных наград. Только владелец.
// Потолок эмиссии остаётся жёстким: при превышении вернётся ошибка.
func (s *Service) EmergencyMint(ctx context.Context, ownerID, targetID, amount int64) error {
	if err := s.requireOwner(ctx, ownerID); err != nil {
		return err
	}
	return s.supply.EmergencyMint(ctx, targetID, amount)
}

// Blacklist добавляет пользователя в чёрный список. Модератор или владелец.
func (s *Service) Blacklist(ctx context.Context, moderatorID, targetID int64) error {
	if err := s.requireModerator(ctx, moderatorID); err != nil {
		return err
	}
	return s.users.SetBlacklisted(ctx, targetID, true)
}

// Whitelist убирает пользователя из чёрного списка. Модератор или владелец.
func (s *Service) Whitelist(ctx context.Context, moderatorID, targetID int64) error {
	if err := s.requireModerator(ctx, moderatorID); err != nil {
		return err
	}
	return s.users.SetBlacklisted(ctx, targetID, false)
}

// RemoveCompliment скрывает комплимент. Модератор или владелец.
// Токены и репутация за уже выданный комплимент не откатываются.
func (s *Service) RemoveCompliment(ctx context.Context, moderatorID, complimentID int64) error {
	if err := s.requireModerator(ctx, moderatorID); err != nil {
		return err
	}
	return s.compliments.Deactivate(ctx, moderatorID, complimentID)
}

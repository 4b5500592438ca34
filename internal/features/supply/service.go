// Package supply — service.go содержит бизнес-логику токенов.
// Валидация сумм, сжигание, разрешения, запросы баланса и выпуска.
package supply

import (
	"context"

	log "github.com/sirupsen/logrus"

	"compliment-bot/internal/common"
)

// Service управляет токенами бота.
type Service struct {
	repo *Repository
}

// NewService создаёт новый сервис токенов.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// GetBalance возвращает текущий баланс пользователя.
func (s *Service) GetBalance(ctx context.Context, userID int64) (int64, error) {
	return s.repo.GetBalance(ctx, userID)
}

// GetTotalIssued возвращает текущий выпуск и потолок.
func (s *Service) GetTotalIssued(ctx context.Context) (*Supply, error) {
	return s.repo.GetTotalIssued(ctx)
}

// CreateBalance создаёт нулевой счёт для нового участника.
func (s *Service) CreateBalance(ctx context.Context, userID int64) error {
	return s.repo.EnsureBalance(ctx, userID)
}

// EmergencyMint — экстренная эмиссия. Авторизацию (только владелец)
// проверяет вызывающая сторона — модуль модерации.
func (s *Service) EmergencyMint(ctx context.Context, userID, amount int64) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	if err := s.repo.EmergencyMint(ctx, userID, amount); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"user_id": userID,
		"amount":  amount,
	}).Warn("Экстренная эмиссия выполнена")
	return nil
}

// Burn сжигает токены с собственного счёта пользователя.
func (s *Service) Burn(ctx context.Context, userID, amount int64) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	return s.repo.Burn(ctx, userID, amount)
}

// BurnFrom сжигает чужие токены в пределах выданного разрешения.
func (s *Service) BurnFrom(ctx context.Context, spenderID, ownerID, amount int64) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	if spenderID == ownerID {
		// Свои токены сжигают обычным Burn, разрешение не нужно
		return s.repo.Burn(ctx, ownerID, amount)
	}
	return s.repo.BurnFrom(ctx, spenderID, ownerID, amount)
}

// Approve выставляет разрешение на списание своих токенов.
func (s *Service) Approve(ctx context.Context, ownerID, spenderID, amount int64) error {
	if amount < 0 {
		return common.ErrInvalidAmount
	}
	if ownerID == spenderID {
		return common.ErrInvalidArgument
	}
	return s.repo.Approve(ctx, ownerID, spenderID, amount)
}

// GetAllowance возвращает оставшийся лимит списания.
func (s *Service) GetAllowance(ctx context.Context, ownerID, spenderID int64) (int64, error) {
	return s.repo.GetAllowance(ctx, ownerID, spenderID)
}

// Audit сверяет бухгалтерию выпуска. Вызывается ночным кроном.
func (s *Service) Audit(ctx context.Context) (*AuditReport, error) {
	return s.repo.Audit(ctx)
}

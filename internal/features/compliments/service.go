// Package compliments — service.go содержит бизнес-логику леджера.
// Валидация входа, оркестровка составных действий, публикация событий.
package compliments

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"compliment-bot/internal/common"
	"compliment-bot/internal/config"
	"compliment-bot/internal/events"
)

// Service управляет леджером комплиментов.
type Service struct {
	repo *Repository
	cfg  *config.Config
	bus  *events.Bus
}

// NewService создаёт сервис комплиментов.
func NewService(repo *Repository, cfg *config.Config, bus *events.Bus) *Service {
	return &Service{repo: repo, cfg: cfg, bus: bus}
}

// Give выдаёт комплимент от giverID к recipientID.
// Проверки до обращения к БД: получатель и текст. Остальное
// (чёрный список, дневной лимит) — внутри транзакции репозитория.
// Неудачный вызов не оставляет следов в состоянии.
func (s *Service) Give(ctx context.Context, giverID, recipientID int64, message string) (*GiveResult, error) {
	if recipientID == 0 || recipientID == giverID {
		return nil, common.ErrInvalidRecipient
	}
	// Длина в байтах: лимит в 280 байт, не рун
	if len(message) == 0 || len(message) > s.cfg.ComplimentMaxLength {
		return nil, common.ErrInvalidMessage
	}

	result, err := s.repo.Give(ctx, GiveParams{
		GiverID:        giverID,
		RecipientID:    recipientID,
		Message:        message,
		Now:            time.Now(),
		DailyLimit:     s.cfg.ComplimentDailyLimit,
		GiverReward:    s.cfg.ComplimentReward,
		RecipientBonus: s.cfg.RecipientBonus,
		RepGiver:       s.cfg.ReputationGiver,
		RepRecipient:   s.cfg.ReputationRecipient,
	})
	if err != nil {
		return nil, err
	}

	if rewardSkipped(result.Minted, s.cfg.ComplimentReward+s.cfg.RecipientBonus) {
		// Потолок выпуска: комплимент записан, награда пропущена.
		// Это бизнес-исход, а не сбой, но след в логах обязателен.
		log.WithFields(log.Fields{
			"compliment_id": result.ID,
			"giver_id":      giverID,
		}).Warn("Награда за комплимент пропущена: достигнут потолок выпуска")
	}

	s.bus.Publish(events.Event{
		Kind:         events.KindComplimentGiven,
		ComplimentID: result.ID,
		UserID:       giverID,
		TargetID:     recipientID,
		Message:      message,
		Minted:       result.Minted,
		CreatedAt:    result.CreatedAt,
	})
	s.bus.Publish(events.Event{
		Kind:       events.KindReputationChanged,
		UserID:     giverID,
		Reputation: result.GiverReputation,
	})
	s.bus.Publish(events.Event{
		Kind:       events.KindReputationChanged,
		UserID:     recipientID,
		Reputation: result.RecipientReputation,
	})

	return result, nil
}

// Like ставит лайк комплименту от имени userID.
func (s *Service) Like(ctx context.Context, userID, complimentID int64) (*LikeResult, error) {
	if complimentID <= 0 {
		// Ноль зарезервирован как "не найдено"
		return nil, common.ErrNotFound
	}

	result, err := s.repo.Like(ctx, LikeParams{
		UserID:       userID,
		ComplimentID: complimentID,
		LikeReward:   s.cfg.LikeReward,
		RepLike:      s.cfg.ReputationLike,
	})
	if err != nil {
		return nil, err
	}

	if rewardSkipped(result.Minted, s.cfg.LikeReward) {
		log.WithFields(log.Fields{
			"compliment_id": complimentID,
			"user_id":       userID,
		}).Warn("Награда за лайк пропущена: достигнут потолок выпуска")
	}

	s.bus.Publish(events.Event{
		Kind:         events.KindComplimentLiked,
		ComplimentID: complimentID,
		UserID:       userID,
		TargetID:     result.GiverID,
		LikeCount:    result.LikeCount,
		Minted:       result.Minted,
	})
	s.bus.Publish(events.Event{
		Kind:       events.KindReputationChanged,
		UserID:     result.GiverID,
		Reputation: result.GiverReputation,
	})

	return result, nil
}

// Get возвращает комплимент по id (включая деактивированные).
func (s *Service) Get(ctx context.Context, id int64) (*Compliment, error) {
	if id <= 0 {
		return nil, common.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

// Deactivate деактивирует комплимент. Авторизацию (модератор)
// проверяет вызывающая сторона — модуль модерации.
func (s *Service) Deactivate(ctx context.Context, moderatorID, id int64) error {
	if id <= 0 {
		return common.ErrNotFound
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}

	s.bus.Publish(events.Event{
		Kind:         events.KindComplimentDeactivated,
		ComplimentID: id,
		UserID:       moderatorID,
	})
	return nil
}

// QueryByGiver возвращает страницу активных комплиментов автора
// (возрастание id). limit свыше MaxPageSize — ошибка, limit 0 —
// пустой результат без обращения к БД.
func (s *Service) QueryByGiver(ctx context.Context, userID int64, offset, limit int) ([]*Compliment, error) {
	if err := validatePage(offset, limit); err != nil {
		return nil, err
	}
	if limit == 0 {
		return nil, nil
	}
	return s.repo.QueryByGiver(ctx, userID, offset, limit)
}

// QueryByRecipient — то же для получателя.
func (s *Service) QueryByRecipient(ctx context.Context, userID int64, offset, limit int) ([]*Compliment, error) {
	if err := validatePage(offset, limit); err != nil {
		return nil, err
	}
	if limit == 0 {
		return nil, nil
	}
	return s.repo.QueryByRecipient(ctx, userID, offset, limit)
}

// QueryRecent возвращает до limit активных комплиментов, свежие первыми.
func (s *Service) QueryRecent(ctx context.Context, limit int) ([]*Compliment, error) {
	if err := validatePage(0, limit); err != nil {
		return nil, err
	}
	if limit == 0 {
		return nil, nil
	}
	return s.repo.QueryRecent(ctx, limit)
}

// TotalCount — сколько комплиментов создано за всё время.
func (s *Service) TotalCount(ctx context.Context) (int64, error) {
	return s.repo.TotalCount(ctx)
}

// Digest — сводка за период для утреннего дайджеста.
func (s *Service) Digest(ctx context.Context, since, until time.Time) (*DigestStats, error) {
	return s.repo.Digest(ctx, since, until)
}

// rewardSkipped: награда была сконфигурирована, но не выпущена.
// При нулевых наградах Minted == 0 — штатная ситуация, не потолок.
func rewardSkipped(minted, configured int64) bool {
	return minted == 0 && configured > 0
}

// validatePage проверяет параметры пагинации.
func validatePage(offset, limit int) error {
	if offset < 0 || limit < 0 || limit > MaxPageSize {
		return common.ErrInvalidArgument
	}
	return nil
}

// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: ночная сверка эмиссии
// и утренний дайджест комплиментов.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"compliment-bot/internal/common"
	"compliment-bot/internal/config"
	"compliment-bot/internal/features/compliments"
	"compliment-bot/internal/features/supply"
	"compliment-bot/internal/features/users"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron        *cron.Cron
	cfg         *config.Config
	compliments *compliments.Service
	supply      *supply.Service
	users       *users.Service
	announce    func(text string)
}

// NewScheduler создаёт планировщик задач с московским часовым поясом.
func NewScheduler(
	cfg *config.Config,
	complimentsSvc *compliments.Service,
	supplySvc *supply.Service,
	usersSvc *users.Service,
	announceFunc func(text string),
) *Scheduler {
	loc, err := time.LoadLocation(cfg.AppTimezone)
	if err != nil {
		log.WithError(err).Warn("Не удалось загрузить часовой пояс, используем UTC+3")
		loc = time.FixedZone("MSK", 3*60*60)
	}

	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:        c,
		cfg:         cfg,
		compliments: complimentsSvc,
		supply:      supplySvc,
		users:       usersSvc,
		announce:    announceFunc,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) {
	// Ночная сверка эмиссии в 03:00 по Москве
	s.cron.AddFunc("0 3 * * *", func() {
		log.Info("[CRON] Ночная сверка эмиссии")
		s.runAudit(ctx)
	})

	// Утренний дайджест в 10:00 по Москве
	if s.cfg.FeatureDigestEnabled {
		s.cron.AddFunc("0 10 * * *", func() {
			log.Info("[CRON] Утренний дайджест")
			s.runDigest(ctx)
		})
	}

	s.cron.Start()
	log.WithField("timezone", s.cfg.AppTimezone).Info("Планировщик задач запущен")
}

// Stop останавливает планировщик и дожидается завершения задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}

// runAudit сверяет таблицу token_supply с суммой по балансам.
// Расхождение — это баг в транзакционной логике, о нём надо кричать.
func (s *Scheduler) runAudit(ctx context.Context) {
	report, err := s.supply.Audit(ctx)
	if err != nil {
		log.WithError(err).Error("[CRON] Ошибка сверки эмиссии")
		return
	}

	fields := log.Fields{
		"total_issued": report.TotalIssued,
		"max_supply":   report.MaxSupply,
		"sum_balances": report.SumBalances,
	}
	if report.Consistent() {
		log.WithFields(fields).Info("[CRON] Сверка эмиссии: расхождений нет")
	} else {
		log.WithFields(fields).Error("[CRON] Сверка эмиссии: РАСХОЖДЕНИЕ")
	}
}

// digestPeriod возвращает границы вчерашнего дня по Москве:
// с полуночи вчера до полуночи сегодня. В Москве нет перевода часов,
// так что интервал всегда ровно сутки.
func digestPeriod(today time.Time) (since, until time.Time) {
	return today.AddDate(0, 0, -1), today
}

// runDigest собирает сводку за вчерашний день и анонсирует её в чат.
func (s *Scheduler) runDigest(ctx context.Context) {
	since, until := digestPeriod(common.GetMoscowDate())

	stats, err := s.compliments.Digest(ctx, since, until)
	if err != nil {
		log.WithError(err).Error("[CRON] Ошибка сборки дайджеста")
		return
	}

	if stats.Count == 0 {
		// Нечего анонсировать — тишина лучше пустого дайджеста
		log.Debug("[CRON] За сутки ни одного комплимента, дайджест пропущен")
		return
	}

	text := fmt.Sprintf("☀️ Доброе утро! За сутки: %d %s.",
		stats.Count, common.PluralizeCompliments(stats.Count))

	if stats.TopRecipientID != 0 {
		name := fmt.Sprintf("id%d", stats.TopRecipientID)
		if u, err := s.users.GetStats(ctx, stats.TopRecipientID); err == nil {
			name = u.DisplayName()
		}
		text += fmt.Sprintf("\n🏆 Больше всех получил(а) %s: %d %s.",
			name, stats.TopReceived, common.PluralizeCompliments(stats.TopReceived))
	}

	s.announce(text)
}

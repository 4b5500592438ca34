// Package events реализует внутреннюю шину уведомлений.
// Уведомления доставляются синхронно, в порядке вызовов: подписчик,
// упавший с паникой, не должен ронять публикующий код, поэтому
// каждый вызов подписчика обёрнут в recover.
package events

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Kind — тип события.
type Kind string

// Все виды событий, которые публикует леджер.
const (
	KindComplimentGiven       Kind = "compliment_given"
	KindComplimentLiked       Kind = "compliment_liked"
	KindComplimentDeactivated Kind = "compliment_deactivated"
	KindReputationChanged     Kind = "reputation_changed"
	KindUserBlacklisted       Kind = "user_blacklisted"
	KindUserWhitelisted       Kind = "user_whitelisted"
	KindModeratorAdded        Kind = "moderator_added"
	KindModeratorRemoved      Kind = "moderator_removed"
)

// Event — одно уведомление. Заполняются только поля, осмысленные
// для конкретного вида события.
type Event struct {
	Kind         Kind
	ComplimentID int64
	UserID       int64 // инициатор действия (автор комплимента, лайкнувший, модератор)
	TargetID     int64 // второй участник (получатель комплимента, забаненный)
	Message      string
	LikeCount    int
	Reputation   int64 // новое значение репутации (для reputation_changed)
	Minted       int64 // сколько токенов реально выпущено (0 при пропуске из-за потолка)
	CreatedAt    time.Time
}

// Subscriber — обработчик события.
type Subscriber func(Event)

// Bus — шина событий. Publish сериализован мьютексом, поэтому порядок
// доставки совпадает с порядком завершённых действий.
type Bus struct {
	mu   sync.Mutex
	subs []Subscriber
}

// NewBus создаёт пустую шину.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe добавляет подписчика. Подписчики вызываются в порядке регистрации.
func (b *Bus) Subscribe(s Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, s)
}

// Publish доставляет событие всем подписчикам синхронно.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	for _, s := range b.subs {
		b.deliver(s, e)
	}
}

func (b *Bus) deliver(s Subscriber, e Event) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"kind":  e.Kind,
				"panic": r,
			}).Error("Паника в подписчике событий — восстановлено")
		}
	}()
	s(e)
}

// LogSubscriber — стандартный подписчик, пишущий все события в журнал.
// Подключается в app.New, чтобы каждое действие оставляло след в логах.
func LogSubscriber(e Event) {
	log.WithFields(log.Fields{
		"kind":          e.Kind,
		"compliment_id": e.ComplimentID,
		"user_id":       e.UserID,
		"target_id":     e.TargetID,
		"minted":        e.Minted,
	}).Info("Событие леджера")
}

package events

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBusDeliversInOrder(t *testing.T) {
	bus := NewBus()

	var got []Kind
	bus.Subscribe(func(e Event) {
		got = append(got, e.Kind)
	})

	bus.Publish(Event{Kind: KindComplimentGiven})
	bus.Publish(Event{Kind: KindComplimentLiked})
	bus.Publish(Event{Kind: KindReputationChanged})

	require.Equal(t, []Kind{KindComplimentGiven, KindComplimentLiked, KindReputationChanged}, got)
}

func TestBusDeliversToAllSubscribers(t *testing.T) {
	bus := NewBus()

	var first, second int
	bus.Subscribe(func(Event) { first++ })
	bus.Subscribe(func(Event) { second++ })

	bus.Publish(Event{Kind: KindComplimentGiven})

	require.Equal(t, 1, first)
	require.Equal(t, 1, second)
}

func TestBusSurvivesPanickingSubscriber(t *testing.T) {
	bus := NewBus()

	var delivered bool
	bus.Subscribe(func(Event) { panic("подписчик сломался") })
	bus.Subscribe(func(Event) { delivered = true })

	require.NotPanics(t, func() {
		bus.Publish(Event{Kind: KindComplimentGiven})
	})
	require.True(t, delivered, "паника одного подписчика не должна глушить остальных")
}

func TestBusStampsCreatedAt(t *testing.T) {
	bus := NewBus()

	var got Event
	bus.Subscribe(func(e Event) { got = e })

	bus.Publish(Event{Kind: KindComplimentGiven})
	require.False(t, got.CreatedAt.IsZero())
}

package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-lostfound/internal/domain"
)

func itemEvent(status domain.ItemStatus) domain.ChangeEvent {
	return domain.ItemChange(domain.ChangeUpdate, &domain.Item{ID: uuid.New(), Status: status, ReportedBy: uuid.New()})
}

func TestBrokerLocalDelivery(t *testing.T) {
	b := NewBroker(nil, nil)
	filter, err := domain.ParseChangeFilter("status=in.(lost,claimed)")
	require.NoError(t, err)

	events, cancel := b.Subscribe(4, domain.Subscription{Table: domain.TableItems, Filter: filter})
	defer cancel()

	b.Publish(context.Background(), itemEvent(domain.ItemStatusFound))
	b.Publish(context.Background(), itemEvent(domain.ItemStatusClaimed))

	select {
	case ev := <-events:
		assert.Equal(t, "claimed", ev.Columns["status"])
	case <-time.After(time.Second):
		t.Fatal("expected an event")
	}
	assert.Len(t, events, 0, "non-matching event must be filtered")
}

func TestBrokerCoalescesBursts(t *testing.T) {
	b := NewBroker(nil, nil)
	events, cancel := b.Subscribe(1, domain.Subscription{Table: domain.TableItems})
	defer cancel()

	for i := 0; i < 10; i++ {
		b.Publish(context.Background(), itemEvent(domain.ItemStatusLost))
	}
	assert.Len(t, events, 1)
}

func TestBrokerCancelRemovesListener(t *testing.T) {
	b := NewBroker(nil, nil)
	_, cancel := b.Subscribe(1, domain.Subscription{})
	assert.Equal(t, 1, b.Listeners())
	cancel()
	cancel()
	assert.Equal(t, 0, b.Listeners())
}

func TestBrokerRunWithoutRedisStopsOnCancel(t *testing.T) {
	b := NewBroker(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}

// Package realtime fans committed row changes out to live listeners.
package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"campus-lostfound/internal/domain"
)

// Channel is the Redis pub/sub channel change events travel on.
const Channel = "lostfound:changes"

// Publisher announces committed writes.
type Publisher interface {
	Publish(ctx context.Context, ev domain.ChangeEvent)
}

// Subscriber hands out event streams. The returned cancel func must be
// called to release the stream.
type Subscriber interface {
	Subscribe(buffer int, subs ...domain.Subscription) (<-chan domain.ChangeEvent, func())
}

type listener struct {
	subs []domain.Subscription
	ch   chan domain.ChangeEvent
}

func (l *listener) wants(ev domain.ChangeEvent) bool {
	for _, s := range l.subs {
		if s.Matches(ev) {
			return true
		}
	}
	return false
}

// Broker delivers change events to local listeners. With a Redis client the
// events round-trip through pub/sub so every API instance sees every write;
// Run must then be running for anything to be delivered.
type Broker struct {
	rdb *redis.Client
	log *zap.SugaredLogger

	mu        sync.RWMutex
	listeners map[uint64]*listener
	nextID    uint64
}

func NewBroker(rdb *redis.Client, log *zap.SugaredLogger) *Broker {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Broker{
		rdb:       rdb,
		log:       log,
		listeners: make(map[uint64]*listener),
	}
}

func (b *Broker) Publish(ctx context.Context, ev domain.ChangeEvent) {
	if b.rdb == nil {
		b.dispatch(ev)
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		b.log.Errorw("failed to encode change event", "table", ev.Table, "error", err)
		return
	}
	if err := b.rdb.Publish(ctx, Channel, data).Err(); err != nil {
		b.log.Warnw("redis publish failed, delivering locally", "table", ev.Table, "error", err)
		b.dispatch(ev)
	}
}

// Run relays events from Redis to local listeners until ctx ends.
func (b *Broker) Run(ctx context.Context) error {
	if b.rdb == nil {
		<-ctx.Done()
		return nil
	}

	pubsub := b.rdb.Subscribe(ctx, Channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}

	msgs := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			var ev domain.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.log.Warnw("dropping malformed change event", "error", err)
				continue
			}
			b.dispatch(ev)
		}
	}
}

// Subscribe registers a listener for events matching any of subs. A full
// buffer drops the event for that listener; with buffer 1 a burst of writes
// collapses into a single wake-up.
func (b *Broker) Subscribe(buffer int, subs ...domain.Subscription) (<-chan domain.ChangeEvent, func()) {
	if buffer < 1 {
		buffer = 1
	}
	l := &listener{subs: subs, ch: make(chan domain.ChangeEvent, buffer)}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = l
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
	return l.ch, cancel
}

func (b *Broker) dispatch(ev domain.ChangeEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, l := range b.listeners {
		if !l.wants(ev) {
			continue
		}
		select {
		case l.ch <- ev:
		default:
		}
	}
}

// Listeners returns the number of registered listeners.
func (b *Broker) Listeners() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

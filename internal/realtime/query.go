package realtime

import (
	"context"
	"sync"

	"campus-lostfound/internal/domain"
)

// Fetcher loads the full current value of a live query.
type Fetcher[T any] func(ctx context.Context) (T, error)

type Snapshot[T any] struct {
	Data    T     `json:"data"`
	Loading bool  `json:"loading"`
	Err     error `json:"-"`
}

// Query holds the latest result of a fetcher. Every matching change event
// triggers a full re-fetch rather than a patch of the held value.
type Query[T any] struct {
	fetch Fetcher[T]

	mu      sync.RWMutex
	data    T
	loading bool
	err     error
}

func NewQuery[T any](fetch Fetcher[T]) *Query[T] {
	return &Query[T]{fetch: fetch, loading: true}
}

func (q *Query[T]) Snapshot() Snapshot[T] {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return Snapshot[T]{Data: q.data, Loading: q.loading, Err: q.err}
}

// Refetch runs the fetcher and stores its result. A failed fetch keeps the
// previous data and records the error.
func (q *Query[T]) Refetch(ctx context.Context) Snapshot[T] {
	q.mu.Lock()
	q.loading = true
	q.mu.Unlock()

	data, err := q.fetch(ctx)

	q.mu.Lock()
	defer q.mu.Unlock()
	q.loading = false
	q.err = err
	if err == nil {
		q.data = data
	}
	return Snapshot[T]{Data: q.data, Loading: false, Err: q.err}
}

// Watch fetches once, then re-fetches after every event on source matching
// subs, calling onUpdate with each result. It returns when ctx ends or
// onUpdate returns an error, releasing the subscription either way.
func (q *Query[T]) Watch(ctx context.Context, source Subscriber, onUpdate func(Snapshot[T]) error, subs ...domain.Subscription) error {
	events, cancel := source.Subscribe(1, subs...)
	defer cancel()

	if err := onUpdate(q.Refetch(ctx)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-events:
			if err := onUpdate(q.Refetch(ctx)); err != nil {
				return err
			}
		}
	}
}

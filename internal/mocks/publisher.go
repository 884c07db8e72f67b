package mocks

import (
	"context"
	"sync"

	"campus-lostfound/internal/domain"
)

// Publisher records published change events.
type Publisher struct {
	mu     sync.Mutex
	events []domain.ChangeEvent
}

func (p *Publisher) Publish(_ context.Context, ev domain.ChangeEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *Publisher) Events() []domain.ChangeEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.ChangeEvent(nil), p.events...)
}

// Tables lists the table of every recorded event in publish order.
func (p *Publisher) Tables() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	tables := make([]string, len(p.events))
	for i, ev := range p.events {
		tables[i] = ev.Table
	}
	return tables
}

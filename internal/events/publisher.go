// Package events delivers committed events to subscribers outside the process.
package events

import (
	"context"
	"sync"

	"cabinets/internal/domain/models"
)

// Publisher delivers a committed event
type Publisher interface {
	Publish(ctx context.Context, event *models.Event) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

// Publish discards the event
func (NopPublisher) Publish(context.Context, *models.Event) error { return nil }

// Close is a no-op
func (NopPublisher) Close() error { return nil }

// MemoryPublisher keeps published events in memory
type MemoryPublisher struct {
	mu     sync.Mutex
	events []models.Event
	err    error
}

// FailWith makes subsequent Publish calls return err
func (p *MemoryPublisher) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Publish stores a copy of event, or fails with the error set by FailWith
func (p *MemoryPublisher) Publish(_ context.Context, event *models.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, *event)
	return nil
}

// Events returns a copy of everything published so far
func (p *MemoryPublisher) Events() []models.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.Event(nil), p.events...)
}

// Close is a no-op
func (p *MemoryPublisher) Close() error { return nil }

package events

import (
	"context"
	"sync"

	"github.com/dentalflow/clinicadmin/internal/domain/providers"
)

// MemoryEventBus is an in-process EventBus. Publish delivers synchronously
// to every subscriber's buffered channel; a full subscriber drops the event.
type MemoryEventBus struct {
	mu          sync.Mutex
	subscribers map[string]map[chan *providers.SessionEvent]struct{}
	closed      bool
}

// NewMemoryEventBus creates an in-process event bus
func NewMemoryEventBus() *MemoryEventBus {
	return &MemoryEventBus{
		subscribers: make(map[string]map[chan *providers.SessionEvent]struct{}),
	}
}

// Publish publishes an event to all subscribers
func (b *MemoryEventBus) Publish(ctx context.Context, channel string, event *providers.SessionEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for subscriber := range b.subscribers[channel] {
		ev := *event
		select {
		case subscriber <- &ev:
		default:
		}
	}
	return nil
}

// Subscribe subscribes to events on a channel until ctx is done
func (b *MemoryEventBus) Subscribe(ctx context.Context, channel string) (<-chan *providers.SessionEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	eventChan := make(chan *providers.SessionEvent, 16)
	if b.closed {
		close(eventChan)
		return eventChan, nil
	}
	if b.subscribers[channel] == nil {
		b.subscribers[channel] = make(map[chan *providers.SessionEvent]struct{})
	}
	b.subscribers[channel][eventChan] = struct{}{}

	go func() {
		<-ctx.Done()
		b.remove(channel, eventChan)
	}()
	return eventChan, nil
}

func (b *MemoryEventBus) remove(channel string, eventChan chan *providers.SessionEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subscribers[channel][eventChan]; ok {
		delete(b.subscribers[channel], eventChan)
		close(eventChan)
	}
}

// Unsubscribe closes every subscription on channel
func (b *MemoryEventBus) Unsubscribe(ctx context.Context, channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for subscriber := range b.subscribers[channel] {
		close(subscriber)
	}
	delete(b.subscribers, channel)
	return nil
}

// Close closes the event bus and all subscriptions
func (b *MemoryEventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for channel, subs := range b.subscribers {
		for subscriber := range subs {
			close(subscriber)
		}
		delete(b.subscribers, channel)
	}
	b.closed = true
	return nil
}

var _ providers.EventBus = (*MemoryEventBus)(nil)

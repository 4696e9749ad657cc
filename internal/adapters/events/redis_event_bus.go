package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dentalflow/clinicadmin/internal/domain/providers"
	redisclient "github.com/dentalflow/clinicadmin/internal/infrastructure/clients/redis"
)

// RedisEventBus carries session events over Redis Pub/Sub. Shells sharing a
// Redis credential store see each other's logouts and 401 teardowns, so a
// watch running in one terminal stops when another signs out.
type RedisEventBus struct {
	client *redisclient.Client
	logger zerolog.Logger

	mu     sync.Mutex
	subs   map[*redis.PubSub]string
	closed bool
}

// NewRedisEventBus creates a new Redis-based event bus
func NewRedisEventBus(client *redisclient.Client) providers.EventBus {
	return &RedisEventBus{
		client: client,
		logger: log.With().Str("component", "redis_event_bus").Logger(),
		subs:   make(map[*redis.PubSub]string),
	}
}

// Publish stamps the event if needed and sends it to every subscribed process
func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *providers.SessionEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal session event: %w", err)
	}

	receivers, err := b.client.Client().Publish(ctx, channel, data).Result()
	if err != nil {
		return fmt.Errorf("failed to publish session event: %w", err)
	}
	b.logger.Debug().
		Str("channel", channel).
		Str("type", string(event.Type)).
		Str("reason", event.Reason).
		Int64("receivers", receivers).
		Msg("published session event")
	return nil
}

// Subscribe opens a dedicated Redis subscription. The returned channel is
// closed once ctx is done, the channel is unsubscribed, or the bus is closed.
func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *providers.SessionEvent, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, errors.New("event bus is closed")
	}
	b.mu.Unlock()

	pubsub := b.client.Client().Subscribe(ctx, channel)
	// Wait for the confirmation so a publish right after Subscribe is not lost
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	b.mu.Lock()
	b.subs[pubsub] = channel
	b.mu.Unlock()

	out := make(chan *providers.SessionEvent, 16)
	go b.forward(ctx, channel, pubsub, out)
	return out, nil
}

func (b *RedisEventBus) forward(ctx context.Context, channel string, pubsub *redis.PubSub, out chan<- *providers.SessionEvent) {
	defer close(out)
	defer b.drop(pubsub)

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var ev providers.SessionEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.logger.Warn().Err(err).Str("channel", channel).Msg("dropping malformed session event")
				continue
			}
			select {
			case out <- &ev:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (b *RedisEventBus) drop(pubsub *redis.PubSub) {
	b.mu.Lock()
	delete(b.subs, pubsub)
	b.mu.Unlock()
	if err := pubsub.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		b.logger.Debug().Err(err).Msg("failed to close subscription")
	}
}

// Unsubscribe ends every subscription on channel
func (b *RedisEventBus) Unsubscribe(ctx context.Context, channel string) error {
	return b.closeWhere(func(ch string) bool { return ch == channel })
}

// Close ends every subscription; Publish keeps working on the shared client
func (b *RedisEventBus) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return b.closeWhere(func(string) bool { return true })
}

func (b *RedisEventBus) closeWhere(match func(channel string) bool) error {
	b.mu.Lock()
	var targets []*redis.PubSub
	for pubsub, ch := range b.subs {
		if match(ch) {
			targets = append(targets, pubsub)
		}
	}
	b.mu.Unlock()

	var errs []error
	for _, pubsub := range targets {
		// Closing the Go channel returned by pubsub.Channel ends forward
		if err := pubsub.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

package query

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/dentalflow/clinicadmin/internal/domain/providers"
	"github.com/dentalflow/clinicadmin/internal/infrastructure/observability"
	"github.com/dentalflow/clinicadmin/internal/query/adapters"
)

// DefaultTTL bounds how long a cached response is served without a refetch
const DefaultTTL = 5 * time.Minute

// Client is the read-through server-state cache. Concurrent reads of one key
// share a single fetch; invalidations drop only the keys they name.
type Client struct {
	cache   *adapters.QueryCacheAdapter
	ttl     time.Duration
	metrics *observability.Metrics
	logger  zerolog.Logger

	group singleflight.Group

	mu     sync.Mutex
	epochs map[string]uint64
}

// Option configures a Client
type Option func(*Client)

// WithTTL overrides DefaultTTL
func WithTTL(ttl time.Duration) Option {
	return func(c *Client) { c.ttl = ttl }
}

// WithMetrics records cache hit/miss and invalidation metrics
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a query client over cache
func NewClient(cache providers.CacheProvider, opts ...Option) *Client {
	c := &Client{
		cache:  adapters.NewQueryCacheAdapter(cache),
		ttl:    DefaultTTL,
		logger: zerolog.Nop(),
		epochs: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the cached value for key or runs fetch once for all
// concurrent callers. A fetch that started before an invalidation of its key
// is neither stored nor shared with reads that start after it.
func Fetch[T any](ctx context.Context, c *Client, key Key, fetch func(context.Context) (T, error)) (T, error) {
	var out T
	k := key.String()

	err := c.cache.GetJSON(ctx, k, &out)
	if err == nil {
		observability.RecordCacheHit(ctx, c.metrics, key.Resource)
		return out, nil
	}
	if !errors.Is(err, providers.ErrCacheMiss) {
		c.logger.Warn().Err(err).Str("key", k).Msg("cache read failed")
		_ = c.cache.Delete(ctx, k)
	}
	observability.RecordCacheMiss(ctx, c.metrics, key.Resource)

	scope := key.scope()
	epoch := c.epoch(scope)
	flight := k + "@" + strconv.FormatUint(epoch, 10)

	v, err, shared := c.group.Do(flight, func() (interface{}, error) {
		// Followers share this result, so the leader's cancellation must not fail them.
		value, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		c.store(ctx, scope, k, data, epoch)
		return data, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	if shared {
		c.logger.Debug().Str("key", k).Msg("coalesced read")
	}

	// Decode per caller so no two callers alias the same value.
	var result T
	if err := json.Unmarshal(v.([]byte), &result); err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// Cached returns the cached value for key without fetching
func Cached[T any](ctx context.Context, c *Client, key Key) (T, bool) {
	var out T
	if err := c.cache.GetJSON(ctx, key.String(), &out); err != nil {
		var zero T
		return zero, false
	}
	return out, true
}

// Put stores value under key, replacing what was cached. Used when a mutation
// response is itself the fresh state of the key.
func Put[T any](ctx context.Context, c *Client, key Key, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	scope := key.scope()

	c.mu.Lock()
	defer c.mu.Unlock()
	// Reads already in flight for this key must not overwrite the newer value.
	c.epochs[scope]++
	return c.cache.SetRaw(ctx, key.String(), data, c.ttl)
}

// Invalidate drops the given keys: list keys by resource prefix, all others
// exactly. Reads in flight for those keys will not write their results back.
func (c *Client) Invalidate(ctx context.Context, keys ...Key) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for _, key := range keys {
		scope := key.scope()
		c.epochs[scope]++

		var err error
		if key.Operation == OpList {
			err = c.cache.DeletePrefix(ctx, scope)
		} else {
			err = c.cache.Delete(ctx, scope)
		}
		if err != nil {
			errs = append(errs, err)
		}
		observability.RecordInvalidation(ctx, c.metrics, key.Resource, key.Operation)
		c.logger.Debug().Str("scope", scope).Msg("invalidated")
	}
	return errors.Join(errs...)
}

func (c *Client) epoch(scope string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epochs[scope]
}

func (c *Client) store(ctx context.Context, scope, key string, data []byte, epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epochs[scope] != epoch {
		c.logger.Debug().Str("key", key).Msg("discarding result fetched before invalidation")
		return
	}
	if err := c.cache.SetRaw(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// invalidateAfter runs a mutation and, only when it succeeds, invalidates keys.
// An invalidation failure is logged; the mutation result still stands.
func invalidateAfter[T any](ctx context.Context, c *Client, mutate func() (T, error), keys func(T) []Key) (T, error) {
	result, err := mutate()
	if err != nil {
		return result, err
	}
	if err := c.Invalidate(ctx, keys(result)...); err != nil {
		c.logger.Warn().Err(err).Msg("cache invalidation failed")
	}
	return result, nil
}

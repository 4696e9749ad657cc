package adapters

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dentalflow/clinicadmin/internal/domain/providers"
)

// QueryCacheAdapter wraps the domain CacheProvider with JSON encoding and
// duration-based expirations for the query layer
type QueryCacheAdapter struct {
	provider providers.CacheProvider
}

// NewQueryCacheAdapter creates a new query cache adapter
func NewQueryCacheAdapter(provider providers.CacheProvider) *QueryCacheAdapter {
	return &QueryCacheAdapter{provider: provider}
}

// GetJSON retrieves a value from cache and unmarshals it into out
func (a *QueryCacheAdapter) GetJSON(ctx context.Context, key string, out interface{}) error {
	data, err := a.provider.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// SetRaw stores already-encoded JSON. ttl is rounded up to whole seconds.
func (a *QueryCacheAdapter) SetRaw(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return a.provider.Set(ctx, key, data, ttlSeconds(ttl))
}

// Delete removes a value from cache
func (a *QueryCacheAdapter) Delete(ctx context.Context, key string) error {
	return a.provider.Delete(ctx, key)
}

// DeletePrefix removes every key starting with prefix
func (a *QueryCacheAdapter) DeletePrefix(ctx context.Context, prefix string) error {
	return a.provider.DeletePattern(ctx, prefix)
}

func ttlSeconds(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	secs := int(ttl / time.Second)
	if ttl%time.Second != 0 {
		secs++
	}
	return secs
}

package cache

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/dentalflow/clinicadmin/internal/domain/providers"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryAdapter implements CacheProvider with an in-process expirable LRU.
// maxTTL bounds every entry; shorter per-entry expirations are honoured on read.
type MemoryAdapter struct {
	lru *expirable.LRU[string, memoryEntry]
	now func() time.Time
}

// NewMemoryAdapter creates an in-process cache holding at most size entries
func NewMemoryAdapter(size int, maxTTL time.Duration) *MemoryAdapter {
	if size <= 0 {
		size = 1024
	}
	return &MemoryAdapter{
		lru: expirable.NewLRU[string, memoryEntry](size, nil, maxTTL),
		now: time.Now,
	}
}

// Get retrieves a value from cache
func (a *MemoryAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	entry, ok := a.lru.Get(key)
	if !ok {
		return nil, providers.ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && !a.now().Before(entry.expiresAt) {
		a.lru.Remove(key)
		return nil, providers.ErrCacheMiss
	}
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

// Set stores a value in cache with expiration; 0 means the LRU-wide TTL
func (a *MemoryAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if expirationSeconds > 0 {
		entry.expiresAt = a.now().Add(time.Duration(expirationSeconds) * time.Second)
	}
	a.lru.Add(key, entry)
	return nil
}

// Delete removes a value from cache
func (a *MemoryAdapter) Delete(ctx context.Context, key string) error {
	a.lru.Remove(key)
	return nil
}

// DeletePattern removes every key starting with prefix
func (a *MemoryAdapter) DeletePattern(ctx context.Context, prefix string) error {
	for _, key := range a.lru.Keys() {
		if strings.HasPrefix(key, prefix) {
			a.lru.Remove(key)
		}
	}
	return nil
}

// Exists checks if a key exists in cache
func (a *MemoryAdapter) Exists(ctx context.Context, key string) (bool, error) {
	_, err := a.Get(ctx, key)
	return err == nil, nil
}

// Len reports the number of live entries
func (a *MemoryAdapter) Len() int {
	return a.lru.Len()
}

var _ providers.CacheProvider = (*MemoryAdapter)(nil)

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalflow/clinicadmin/internal/domain/providers"
)

func TestMemoryAdapter_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryAdapter(16, time.Minute)

	_, err := c.Get(ctx, "appointments:detail:1")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "appointments:detail:1", []byte(`{"id":1}`), 60))
	got, err := c.Get(ctx, "appointments:detail:1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1}`, string(got))

	require.NoError(t, c.Delete(ctx, "appointments:detail:1"))
	ok, err := c.Exists(ctx, "appointments:detail:1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryAdapter_PerEntryExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryAdapter(16, time.Hour)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 10))
	now = now.Add(11 * time.Second)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

func TestMemoryAdapter_DeletePattern(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryAdapter(16, time.Minute)
	for _, k := range []string{"appointments:list:{}", "appointments:list:{\"date\":\"2026-01-01\"}", "appointments:detail:3", "patients:list:{}"} {
		require.NoError(t, c.Set(ctx, k, []byte("x"), 0))
	}

	require.NoError(t, c.DeletePattern(ctx, "appointments:list:"))

	assert.Equal(t, 2, c.Len())
	ok, _ := c.Exists(ctx, "appointments:detail:3")
	assert.True(t, ok)
	ok, _ = c.Exists(ctx, "patients:list:{}")
	assert.True(t, ok)
}

func TestMemoryAdapter_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryAdapter(4, time.Minute)
	buf := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", buf, 0))
	buf[0] = 'z'

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

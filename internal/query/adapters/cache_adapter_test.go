package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalflow/clinicadmin/internal/adapters/cache"
	"github.com/dentalflow/clinicadmin/internal/domain/providers"
)

func TestQueryCacheAdapter_RoundTrip(t *testing.T) {
	ctx := context.Background()
	a := NewQueryCacheAdapter(cache.NewMemoryAdapter(16, time.Minute))

	require.NoError(t, a.SetRaw(ctx, "patients:detail:7", []byte(`{"id":7,"name":"Ivy"}`), time.Minute))

	var got struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, a.GetJSON(ctx, "patients:detail:7", &got))
	assert.Equal(t, "Ivy", got.Name)

	require.NoError(t, a.DeletePrefix(ctx, "patients:"))
	assert.ErrorIs(t, a.GetJSON(ctx, "patients:detail:7", &got), providers.ErrCacheMiss)
}

func TestTTLSeconds(t *testing.T) {
	assert.Equal(t, 0, ttlSeconds(0))
	assert.Equal(t, 1, ttlSeconds(200*time.Millisecond))
	assert.Equal(t, 300, ttlSeconds(5*time.Minute))
}

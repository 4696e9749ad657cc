package cache

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalflow/clinicadmin/internal/domain/providers"
	redisclient "github.com/dentalflow/clinicadmin/internal/infrastructure/clients/redis"
	"github.com/dentalflow/clinicadmin/pkg/config"
)

func newTestRedis(t *testing.T) *redisclient.Client {
	t.Helper()
	host := os.Getenv("TEST_REDIS_HOST")
	if host == "" {
		t.Skip("Skipping Redis test: TEST_REDIS_HOST not set")
	}
	port, err := strconv.Atoi(os.Getenv("TEST_REDIS_PORT"))
	if err != nil {
		port = 6379
	}
	client, err := redisclient.NewClient(context.Background(), &config.RedisConfig{Host: host, Port: port})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisAdapter_DeletePattern(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()
	c := NewRedisAdapter(client, "clinicadmin-test:"+t.Name()+":")

	require.NoError(t, c.Set(ctx, "appointments:list:{}", []byte("a"), 60))
	require.NoError(t, c.Set(ctx, "appointments:detail:1", []byte("b"), 60))
	require.NoError(t, c.DeletePattern(ctx, "appointments:list:"))

	_, err := c.Get(ctx, "appointments:list:{}")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)

	got, err := c.Get(ctx, "appointments:detail:1")
	require.NoError(t, err)
	assert.Equal(t, "b", string(got))
	require.NoError(t, c.Delete(ctx, "appointments:detail:1"))
}

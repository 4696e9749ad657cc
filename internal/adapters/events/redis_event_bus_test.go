package events

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalflow/clinicadmin/internal/domain/providers"
	redisclient "github.com/dentalflow/clinicadmin/internal/infrastructure/clients/redis"
	"github.com/dentalflow/clinicadmin/pkg/config"
)

func testRedis(t *testing.T) *redisclient.Client {
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

func TestRedisEventBus_PublishSubscribe(t *testing.T) {
	client := testRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewRedisEventBus(client)
	defer bus.Close()

	channel := "clinicadmin-test:" + t.Name()
	sub, err := bus.Subscribe(ctx, channel)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, channel, &providers.SessionEvent{
		Type:   providers.SessionEventCleared,
		Reason: providers.ReasonLogout,
		Email:  "doc@clinic.test",
	}))

	ev := waitForEvent(t, sub)
	assert.Equal(t, providers.SessionEventCleared, ev.Type)
	assert.Equal(t, "doc@clinic.test", ev.Email)
}

func TestRedisEventBus_CancelClosesSubscription(t *testing.T) {
	client := testRedis(t)
	bus := NewRedisEventBus(client)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := bus.Subscribe(ctx, "clinicadmin-test:"+t.Name())
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-sub:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription was not closed")
	}
}

func TestRedisEventBus_SubscribeAfterClose(t *testing.T) {
	client := testRedis(t)
	bus := NewRedisEventBus(client)
	require.NoError(t, bus.Close())

	_, err := bus.Subscribe(context.Background(), "clinicadmin-test:"+t.Name())
	assert.Error(t, err)
}

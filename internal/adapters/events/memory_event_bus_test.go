package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalflow/clinicadmin/internal/domain/providers"
)

func waitForEvent(t *testing.T, ch <-chan *providers.SessionEvent) *providers.SessionEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "channel closed")
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestMemoryEventBus_Fanout(t *testing.T) {
	bus := NewMemoryEventBus()
	defer bus.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub1, err := bus.Subscribe(ctx, providers.EventChannelSession)
	require.NoError(t, err)
	sub2, err := bus.Subscribe(ctx, providers.EventChannelSession)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, providers.EventChannelSession, &providers.SessionEvent{
		Type:   providers.SessionEventCleared,
		Reason: providers.ReasonUnauthorized,
	}))

	assert.Equal(t, providers.SessionEventCleared, waitForEvent(t, sub1).Type)
	assert.Equal(t, providers.ReasonUnauthorized, waitForEvent(t, sub2).Reason)
}

func TestMemoryEventBus_CancelClosesSubscription(t *testing.T) {
	bus := NewMemoryEventBus()
	ctx, cancel := context.WithCancel(context.Background())

	sub, err := bus.Subscribe(ctx, providers.EventChannelSession)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-sub:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscription not closed")
	}
}

func TestMemoryEventBus_CloseEndsSubscribers(t *testing.T) {
	bus := NewMemoryEventBus()
	sub, err := bus.Subscribe(context.Background(), providers.EventChannelSession)
	require.NoError(t, err)

	require.NoError(t, bus.Close())
	_, ok := <-sub
	assert.False(t, ok)

	require.NoError(t, bus.Publish(context.Background(), providers.EventChannelSession, &providers.SessionEvent{}))
}

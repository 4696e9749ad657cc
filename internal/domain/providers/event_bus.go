package providers

import (
	"context"
	"time"
)

// SessionEventType names a change in the credential lifecycle
type SessionEventType string

const (
	SessionEventLoggedIn SessionEventType = "session.logged_in"
	SessionEventCleared  SessionEventType = "session.cleared"
)

// Teardown reasons carried on SessionEventCleared
const (
	ReasonLogout       = "logout"
	ReasonUnauthorized = "unauthorized"
	ReasonExpired      = "expired"
)

// SessionEvent is published whenever the stored credential changes
type SessionEvent struct {
	Type      SessionEventType `json:"type"`
	Reason    string           `json:"reason,omitempty"`
	Email     string           `json:"email,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// EventBus defines the interface for publishing and subscribing to events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *SessionEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *SessionEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelSession carries SessionEvent values
const EventChannelSession = "clinicadmin:session"

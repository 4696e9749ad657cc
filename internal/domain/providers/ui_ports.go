package providers

import (
	"context"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
)

// Window is a handle to an opened external context
type Window interface {
	Closed() bool
}

// WindowOpener opens provider URLs outside the application. A nil Window with
// a nil error means the open was blocked.
type WindowOpener interface {
	Open(ctx context.Context, url string) (Window, error)
}

// Notifier surfaces non-blocking operator notifications
type Notifier interface {
	Notify(ctx context.Context, toast entities.Toast)
}

// Navigator moves the operator between routes
type Navigator interface {
	Current() string
	Navigate(ctx context.Context, route string) error
}

// Routes used by guards and session teardown
const (
	RouteLogin     = "/login"
	RouteDashboard = "/dashboard"
)

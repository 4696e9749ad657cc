package navigation

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dentalflow/clinicadmin/internal/domain/providers"
)

// CLINavigator tracks the logical route of a CLI invocation. Navigating to the
// login route tells the operator to sign in again.
type CLINavigator struct {
	mu      sync.Mutex
	current string
	out     io.Writer
	history []string
}

// NewCLINavigator creates a navigator starting at route
func NewCLINavigator(route string, out io.Writer) *CLINavigator {
	return &CLINavigator{current: route, out: out}
}

func (n *CLINavigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *CLINavigator) Navigate(ctx context.Context, route string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = route
	n.history = append(n.history, route)

	if n.out == nil {
		return nil
	}
	var err error
	switch route {
	case providers.RouteLogin:
		_, err = fmt.Fprintln(n.out, "Your session has ended. Run 'clinicadmin login' to sign in again.")
	case providers.RouteDashboard:
		_, err = fmt.Fprintln(n.out, "This action requires an administrator account.")
	}
	return err
}

// History lists every route navigated to, oldest first
func (n *CLINavigator) History() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.history...)
}

var _ providers.Navigator = (*CLINavigator)(nil)

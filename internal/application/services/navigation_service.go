package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dentalflow/clinicadmin/internal/domain/providers"
)

// NavigationService sends the operator to the login route whenever the
// session is cleared, unless they are already there.
type NavigationService struct {
	bus       providers.EventBus
	navigator providers.Navigator
	logger    zerolog.Logger
}

// NewNavigationService creates a navigation service
func NewNavigationService(bus providers.EventBus, navigator providers.Navigator, logger zerolog.Logger) *NavigationService {
	return &NavigationService{
		bus:       bus,
		navigator: navigator,
		logger:    logger.With().Str("component", "navigation").Logger(),
	}
}

// Start subscribes to session events. The returned stop function unsubscribes
// and waits until every event already delivered has been handled.
func (s *NavigationService) Start(ctx context.Context) (stop func(), err error) {
	subCtx, cancel := context.WithCancel(ctx)
	events, err := s.bus.Subscribe(subCtx, providers.EventChannelSession)
	if err != nil {
		cancel()
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events {
			s.Handle(ctx, ev)
		}
	}()

	return func() {
		cancel()
		<-done
	}, nil
}

// Handle applies one session event
func (s *NavigationService) Handle(ctx context.Context, ev *providers.SessionEvent) {
	if ev == nil || ev.Type != providers.SessionEventCleared {
		return
	}
	if s.navigator.Current() == providers.RouteLogin {
		return
	}
	if err := s.navigator.Navigate(ctx, providers.RouteLogin); err != nil {
		s.logger.Warn().Err(err).Msg("failed to navigate to login")
		return
	}
	s.logger.Debug().Str("reason", ev.Reason).Msg("redirected to login")
}

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// StatusPoller reconciles a controller's session on a fixed interval while it
// is pending or active, so an out-of-band end is seen within one interval.
type StatusPoller struct {
	controller *TeleConsultController
	interval   time.Duration
	logger     zerolog.Logger
	now        func() time.Time
}

// NewStatusPoller creates a poller; interval must be positive
func NewStatusPoller(controller *TeleConsultController, interval time.Duration, logger zerolog.Logger) *StatusPoller {
	return &StatusPoller{
		controller: controller,
		interval:   interval,
		logger:     logger.With().Str("component", "status_poller").Logger(),
		now:        time.Now,
	}
}

// Run polls until the session is terminal (returns nil) or ctx is done.
// Failed checks are logged and retried on the next tick.
func (p *StatusPoller) Run(ctx context.Context) error {
	if p.interval <= 0 {
		return errors.New("poll interval must be positive")
	}
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if p.controller.State() == TeleStateTerminal {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		// No session yet: reload past the cache in case another operator started one.
		if p.controller.State() == TeleStateNoSession {
			if err := p.controller.Refresh(ctx); err != nil {
				p.logger.Warn().Err(err).Msg("reload failed")
			}
			continue
		}
		if _, err := p.controller.checkStatus(ctx, false); err != nil {
			if errors.Is(err, ErrActionInFlight) {
				continue
			}
			p.logger.Warn().Err(err).Msg("status check failed")
		}
	}
}

// Staleness is the time since the session was last confirmed by the server.
// While Run is active it stays below the interval plus one request.
func (p *StatusPoller) Staleness() time.Duration {
	return p.now().Sub(p.controller.LastReconciled())
}

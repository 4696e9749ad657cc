package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/providers"
	"github.com/dentalflow/clinicadmin/internal/domain/repositories"
	apperrors "github.com/dentalflow/clinicadmin/pkg/errors"
)

// SessionService owns the credential lifecycle. It is the Credentials source
// of the API client: every request reads the token through it and a 401 tears
// the session down through it.
type SessionService struct {
	store  providers.CredentialStore
	bus    providers.EventBus
	auth   repositories.AuthRepository
	logger zerolog.Logger
	now    func() time.Time

	mu sync.Mutex
}

// NewSessionService creates a session service. BindAuth must be called before Login.
func NewSessionService(store providers.CredentialStore, bus providers.EventBus, logger zerolog.Logger) *SessionService {
	return &SessionService{
		store:  store,
		bus:    bus,
		logger: logger.With().Str("component", "session").Logger(),
		now:    time.Now,
	}
}

// BindAuth sets the auth repository. The repository's client itself depends
// on this service, so it cannot be a constructor argument.
func (s *SessionService) BindAuth(auth repositories.AuthRepository) {
	s.auth = auth
}

// Login exchanges credentials for a token, resolves the identity behind it
// and persists both.
func (s *SessionService) Login(ctx context.Context, email, password string) (*entities.Credential, error) {
	if s.auth == nil {
		return nil, apperrors.NewInternalError("session service has no auth repository", nil)
	}

	resp, err := s.auth.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, apperrors.NewProviderError("Login response did not include an access token")
	}

	user, err := s.auth.Me(ctx, resp.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve signed-in user: %w", err)
	}

	cred := &entities.Credential{Token: resp.AccessToken, User: *user, IssuedAt: s.now().UTC()}

	s.mu.Lock()
	err = s.store.Save(ctx, cred)
	s.mu.Unlock()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to store credential", err)
	}

	s.publish(ctx, &providers.SessionEvent{Type: providers.SessionEventLoggedIn, Email: user.Email})
	s.logger.Info().Str("email", user.Email).Str("role", user.Role).Msg("signed in")
	return cred, nil
}

// Current returns the stored credential or ErrNoCredential
func (s *SessionService) Current(ctx context.Context) (*entities.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Load(ctx)
}

// Role returns the signed-in role, or "" when signed out
func (s *SessionService) Role(ctx context.Context) entities.RoleName {
	cred, err := s.Current(ctx)
	if err != nil {
		return ""
	}
	return cred.User.RoleName()
}

// Token implements clinicapi.Credentials. No stored credential means an
// anonymous request, not an error.
func (s *SessionService) Token(ctx context.Context) (string, error) {
	cred, err := s.Current(ctx)
	if errors.Is(err, providers.ErrNoCredential) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return cred.Token, nil
}

// Teardown clears the stored credential and announces it. Safe to call on an
// already cleared session.
func (s *SessionService) Teardown(ctx context.Context, reason string) error {
	s.mu.Lock()
	var email string
	if cred, err := s.store.Load(ctx); err == nil {
		email = cred.User.Email
	}
	err := s.store.Clear(ctx)
	s.mu.Unlock()
	if err != nil {
		return apperrors.NewInternalError("failed to clear credential", err)
	}

	s.publish(ctx, &providers.SessionEvent{Type: providers.SessionEventCleared, Reason: reason, Email: email})
	s.logger.Info().Str("reason", reason).Str("email", email).Msg("session cleared")
	return nil
}

// Logout ends the session at the operator's request
func (s *SessionService) Logout(ctx context.Context) error {
	return s.Teardown(ctx, providers.ReasonLogout)
}

func (s *SessionService) publish(ctx context.Context, ev *providers.SessionEvent) {
	if s.bus == nil {
		return
	}
	ev.Timestamp = s.now().UTC()
	if err := s.bus.Publish(ctx, providers.EventChannelSession, ev); err != nil {
		s.logger.Warn().Err(err).Str("type", string(ev.Type)).Msg("failed to publish session event")
	}
}

package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalflow/clinicadmin/internal/adapters/events"
	"github.com/dentalflow/clinicadmin/internal/adapters/navigation"
	"github.com/dentalflow/clinicadmin/internal/adapters/restapi"
	"github.com/dentalflow/clinicadmin/internal/adapters/session"
	"github.com/dentalflow/clinicadmin/internal/application/services"
	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/providers"
	"github.com/dentalflow/clinicadmin/internal/infrastructure/clients/clinicapi"
	"github.com/dentalflow/clinicadmin/internal/testutil/fakebackend"
	"github.com/dentalflow/clinicadmin/pkg/config"
	apperrors "github.com/dentalflow/clinicadmin/pkg/errors"
)

func TestSessionService_LoginStoresCredentialAndAnnounces(t *testing.T) {
	backend := fakebackend.New(t)
	backend.AddAccount("admin@clinic.test", "secret1", "Clinic Admin", entities.RoleAdmin)
	bus := events.NewMemoryEventBus()
	defer bus.Close()
	ctx := context.Background()

	svc := services.NewSessionService(session.NewMemoryStore(), bus, zerolog.Nop())
	api := clinicapi.NewClient(config.APIConfig{BaseURL: backend.BaseURL(), Timeout: 5 * time.Second}, svc)
	svc.BindAuth(restapi.NewAuthAdapter(api))

	sub, err := bus.Subscribe(ctx, providers.EventChannelSession)
	require.NoError(t, err)

	cred, err := svc.Login(ctx, " admin@clinic.test ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "token-admin@clinic.test", cred.Token)
	assert.Equal(t, entities.RoleAdmin, svc.Role(ctx))

	token, err := svc.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, cred.Token, token)

	ev := <-sub
	assert.Equal(t, providers.SessionEventLoggedIn, ev.Type)
	assert.Equal(t, "admin@clinic.test", ev.Email)
}

func TestSessionService_BadPasswordKeepsSignedOut(t *testing.T) {
	backend := fakebackend.New(t)
	backend.AddAccount("admin@clinic.test", "secret1", "Clinic Admin", entities.RoleAdmin)

	svc := services.NewSessionService(session.NewMemoryStore(), nil, zerolog.Nop())
	api := clinicapi.NewClient(config.APIConfig{BaseURL: backend.BaseURL(), Timeout: 5 * time.Second}, svc)
	svc.BindAuth(restapi.NewAuthAdapter(api))

	_, err := svc.Login(context.Background(), "admin@clinic.test", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Incorrect email or password", apperrors.UserMessage(err, "Login failed"))
	assert.Equal(t, entities.RoleName(""), svc.Role(context.Background()))
}

func TestSessionService_LogoutNavigatesToLogin(t *testing.T) {
	backend := fakebackend.New(t)
	admin := newActor(t, backend, "admin@clinic.test", entities.RoleAdmin)
	ctx := context.Background()

	nav := services.NewNavigationService(admin.bus, admin.navigator, zerolog.Nop())
	stop, err := nav.Start(ctx)
	require.NoError(t, err)

	require.NoError(t, admin.session.Logout(ctx))
	require.NoError(t, admin.session.Logout(ctx))
	stop()

	assert.Equal(t, []string{providers.RouteLogin}, admin.navigator.History())
	token, err := admin.session.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestNavigationService_IgnoresOtherEvents(t *testing.T) {
	nav := navigation.NewCLINavigator("/patients", nil)
	svc := services.NewNavigationService(events.NewMemoryEventBus(), nav, zerolog.Nop())

	svc.Handle(context.Background(), &providers.SessionEvent{Type: providers.SessionEventLoggedIn})
	svc.Handle(context.Background(), nil)
	assert.Equal(t, "/patients", nav.Current())

	svc.Handle(context.Background(), &providers.SessionEvent{Type: providers.SessionEventCleared, Reason: providers.ReasonExpired})
	assert.Equal(t, providers.RouteLogin, nav.Current())
}

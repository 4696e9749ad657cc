package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dentalflow/clinicadmin/internal/application/services"
	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/testutil/fakebackend"
)

func TestStatusPoller_SeesOutOfBandEnd(t *testing.T) {
	backend := fakebackend.New(t)
	appt := seedTeleAppointment(backend)
	ts := backend.SeedSession(appt.ID, entities.TeleSessionStatusActive)
	doctor := newActor(t, backend, "doctor@clinic.test", entities.RoleDoctor)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ctrl, err := doctor.tele.Controller(ctx, appt.ID)
	require.NoError(t, err)

	poller := services.NewStatusPoller(ctrl, teleConfig.PollInterval, zerolog.Nop())
	done := make(chan error, 1)
	go func() { done <- poller.Run(ctx) }()

	backend.EndAtProvider(ts.ID)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("poller did not observe the ended session")
	}

	assert.Equal(t, services.TeleStateTerminal, ctrl.State())
	assert.Less(t, poller.Staleness(), time.Second)
	assert.GreaterOrEqual(t, backend.Hits("POST /tele-sessions/{id}/check-status"), 1)
}

func TestStatusPoller_FindsSessionStartedElsewhere(t *testing.T) {
	backend := fakebackend.New(t)
	appt := seedTeleAppointment(backend)
	watcher := newActor(t, backend, "admin@clinic.test", entities.RoleAdmin)
	host := newActor(t, backend, "doctor@clinic.test", entities.RoleDoctor)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	watched, err := watcher.tele.Controller(ctx, appt.ID)
	require.NoError(t, err)
	require.Equal(t, services.TeleStateNoSession, watched.State())

	hosting, err := host.tele.Controller(ctx, appt.ID)
	require.NoError(t, err)
	host.opener.On("Open", mock.Anything, mock.Anything).Return(openWindow{}, nil).Once()
	started, err := hosting.Start(ctx)
	require.NoError(t, err)
	backend.EndAtProvider(started.Session.ID)

	require.NoError(t, services.NewStatusPoller(watched, teleConfig.PollInterval, zerolog.Nop()).Run(ctx))
	assert.Equal(t, services.TeleStateTerminal, watched.State())
	assert.Equal(t, started.Session.ID, watched.Snapshot().Session.ID)
	assert.Greater(t, backend.Hits("GET /tele-sessions/appointment/{id}"), 2)
}

func TestStatusPoller_StopsOnCancel(t *testing.T) {
	backend := fakebackend.New(t)
	appt := seedTeleAppointment(backend)
	backend.SeedSession(appt.ID, entities.TeleSessionStatusActive)
	doctor := newActor(t, backend, "doctor@clinic.test", entities.RoleDoctor)

	ctrl, err := doctor.tele.Controller(context.Background(), appt.ID)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err = services.NewStatusPoller(ctrl, teleConfig.PollInterval, zerolog.Nop()).Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, services.TeleStateActive, ctrl.State())
}

func TestStatusPoller_SurvivesFailedChecks(t *testing.T) {
	backend := fakebackend.New(t)
	appt := seedTeleAppointment(backend)
	ts := backend.SeedSession(appt.ID, entities.TeleSessionStatusActive)
	doctor := newActor(t, backend, "doctor@clinic.test", entities.RoleDoctor)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ctrl, err := doctor.tele.Controller(ctx, appt.ID)
	require.NoError(t, err)

	backend.FailNext("POST /tele-sessions/{id}/check-status", 2)
	backend.EndAtProvider(ts.ID)

	require.NoError(t, services.NewStatusPoller(ctrl, teleConfig.PollInterval, zerolog.Nop()).Run(ctx))
	assert.Equal(t, 3, backend.Hits("POST /tele-sessions/{id}/check-status"))
	assert.Empty(t, doctor.toasts.BySeverity(entities.SeverityError))
}

func TestStatusPoller_RejectsNonPositiveInterval(t *testing.T) {
	err := services.NewStatusPoller(nil, 0, zerolog.Nop()).Run(context.Background())
	assert.Error(t, err)
}

package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dentalflow/clinicadmin/internal/adapters/cache"
	"github.com/dentalflow/clinicadmin/internal/adapters/events"
	"github.com/dentalflow/clinicadmin/internal/adapters/navigation"
	"github.com/dentalflow/clinicadmin/internal/adapters/notify"
	"github.com/dentalflow/clinicadmin/internal/adapters/restapi"
	"github.com/dentalflow/clinicadmin/internal/adapters/session"
	"github.com/dentalflow/clinicadmin/internal/application/services"
	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/providers"
	"github.com/dentalflow/clinicadmin/internal/infrastructure/clients/clinicapi"
	"github.com/dentalflow/clinicadmin/internal/query"
	"github.com/dentalflow/clinicadmin/internal/testutil/fakebackend"
	"github.com/dentalflow/clinicadmin/pkg/config"
)

// Mocks

type MockWindowOpener struct {
	mock.Mock
}

func (m *MockWindowOpener) Open(ctx context.Context, url string) (providers.Window, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(providers.Window), args.Error(1)
}

type openWindow struct{}

func (openWindow) Closed() bool { return false }

var teleConfig = config.TeleConfig{
	ZoomJoinBaseURL: "https://zoom.us",
	MeetBaseURL:     "https://meet.google.com",
	PollInterval:    20 * time.Millisecond,
}

// actor is one signed-in operator with their own cache, as a separate browser would have
type actor struct {
	session      *services.SessionService
	tele         *services.TeleConsultService
	appointments *services.AppointmentService
	queries      *query.AppointmentQueries
	sessions     *query.TeleSessionQueries
	opener       *MockWindowOpener
	toasts       *notify.Recorder
	bus          *events.MemoryEventBus
	navigator    *navigation.CLINavigator
}

func newActor(t *testing.T, backend *fakebackend.Server, email string, role entities.RoleName) *actor {
	t.Helper()
	backend.AddAccount(email, "secret1", "Staff "+string(role), role)

	logger := zerolog.Nop()
	bus := events.NewMemoryEventBus()
	t.Cleanup(func() { _ = bus.Close() })

	sessionSvc := services.NewSessionService(session.NewMemoryStore(), bus, logger)
	api := clinicapi.NewClient(config.APIConfig{BaseURL: backend.BaseURL(), Timeout: 5 * time.Second}, sessionSvc)
	sessionSvc.BindAuth(restapi.NewAuthAdapter(api))

	_, err := sessionSvc.Login(context.Background(), email, "secret1")
	require.NoError(t, err)

	qc := query.NewClient(cache.NewMemoryAdapter(256, time.Hour))
	appointments := query.NewAppointmentQueries(qc, restapi.NewAppointmentAdapter(api))
	sessions := query.NewTeleSessionQueries(qc, restapi.NewTeleSessionAdapter(api))

	opener := &MockWindowOpener{}
	toasts := &notify.Recorder{}
	return &actor{
		session:      sessionSvc,
		tele:         services.NewTeleConsultService(sessions, appointments, sessionSvc, opener, toasts, teleConfig, logger),
		appointments: services.NewAppointmentService(appointments, sessionSvc, toasts, logger),
		queries:      appointments,
		sessions:     sessions,
		opener:       opener,
		toasts:       toasts,
		bus:          bus,
		navigator:    navigation.NewCLINavigator("/appointments", nil),
	}
}

func seedTeleAppointment(backend *fakebackend.Server) *entities.Appointment {
	patient := backend.SeedPatient(entities.Patient{Name: "Ada Patient"})
	doctor := backend.SeedDoctor(entities.Doctor{Name: "Dr. Molar"})
	return backend.SeedAppointment(entities.Appointment{
		PatientID:   patient.ID,
		DoctorID:    doctor.ID,
		Type:        entities.AppointmentTypeTele,
		ScheduledAt: time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	})
}

package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalflow/clinicadmin/internal/application/forms"
	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/testutil/fakebackend"
	apperrors "github.com/dentalflow/clinicadmin/pkg/errors"
)

func TestAppointmentService_CancelAfterReschedule(t *testing.T) {
	backend := fakebackend.New(t)
	desk := newActor(t, backend, "desk@clinic.test", entities.RoleReceptionist)
	patient := backend.SeedPatient(entities.Patient{Name: "Ada Patient"})
	doctor := backend.SeedDoctor(entities.Doctor{Name: "Dr. Molar"})
	ctx := context.Background()

	created, err := desk.appointments.Create(ctx, forms.AppointmentDraft{
		PatientID:   patient.ID,
		DoctorID:    doctor.ID,
		Type:        string(entities.AppointmentTypeInPerson),
		ScheduledAt: time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second),
	})
	require.NoError(t, err)
	assert.Equal(t, entities.AppointmentStatusScheduled, created.Status)

	later := created.ScheduledAt.Add(48 * time.Hour)
	moved, err := desk.appointments.Reschedule(ctx, created.ID, forms.RescheduleDraft{ScheduledAt: later})
	require.NoError(t, err)
	assert.True(t, later.Equal(moved.ScheduledAt))

	cancelled, err := desk.appointments.Cancel(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.AppointmentStatusCancelled, cancelled.Status)

	stored, ok := backend.Appointment(created.ID)
	require.True(t, ok)
	assert.Equal(t, entities.AppointmentStatusCancelled, stored.Status)
	assert.True(t, later.Equal(stored.ScheduledAt))

	assert.Equal(t, []string{
		"Appointment created successfully",
		"Appointment rescheduled successfully",
		"Appointment cancelled successfully",
	}, desk.toasts.BySeverity(entities.SeveritySuccess))
}

func TestAppointmentService_GuardsTerminalAppointments(t *testing.T) {
	backend := fakebackend.New(t)
	desk := newActor(t, backend, "desk@clinic.test", entities.RoleReceptionist)
	appt := backend.SeedAppointment(entities.Appointment{
		PatientID:   backend.SeedPatient(entities.Patient{Name: "Ada"}).ID,
		Type:        entities.AppointmentTypeInPerson,
		ScheduledAt: time.Now().Add(time.Hour),
		Status:      entities.AppointmentStatusCompleted,
	})
	ctx := context.Background()

	_, err := desk.appointments.Cancel(ctx, appt.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, err = desk.appointments.Reschedule(ctx, appt.ID, forms.RescheduleDraft{ScheduledAt: time.Now().Add(2 * time.Hour)})
	require.Error(t, err)

	assert.Zero(t, backend.Hits("POST /appointments/{id}/cancel"))
	assert.Zero(t, backend.Hits("POST /appointments/{id}/reschedule"))
	assert.Equal(t, 1, backend.Hits("GET /appointments/{id}"))
	assert.Equal(t, []string{
		"Appointment is completed and cannot be cancelled",
		"Appointment is completed and cannot be rescheduled",
	}, desk.toasts.BySeverity(entities.SeverityError))
}

func TestAppointmentService_ServerRejectionKeepsDetail(t *testing.T) {
	backend := fakebackend.New(t)
	desk := newActor(t, backend, "desk@clinic.test", entities.RoleReceptionist)
	ctx := context.Background()

	_, err := desk.appointments.Create(ctx, forms.AppointmentDraft{
		PatientID:   999,
		DoctorID:    1,
		Type:        string(entities.AppointmentTypeTele),
		ScheduledAt: time.Now().Add(time.Hour),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	assert.Equal(t, []string{"Patient not found"}, desk.toasts.BySeverity(entities.SeverityError))
}

func TestAppointmentService_InvalidDraftNeverReachesServer(t *testing.T) {
	backend := fakebackend.New(t)
	desk := newActor(t, backend, "desk@clinic.test", entities.RoleReceptionist)

	_, err := desk.appointments.Create(context.Background(), forms.AppointmentDraft{Type: "house_call"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.Zero(t, backend.Hits("POST /appointments/"))
}

func TestAppointmentService_PatientRoleIsForbidden(t *testing.T) {
	backend := fakebackend.New(t)
	patient := newActor(t, backend, "patient@clinic.test", entities.RolePatient)

	_, err := patient.appointments.Cancel(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeForbidden))
	assert.Zero(t, backend.Hits("GET /appointments/{id}"))
}

package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to AppointmentStatus
		want     bool
	}{
		{AppointmentStatusScheduled, AppointmentStatusInCall, true},
		{AppointmentStatusScheduled, AppointmentStatusCancelled, true},
		{AppointmentStatusScheduled, AppointmentStatusCompleted, true},
		{AppointmentStatusInCall, AppointmentStatusCompleted, true},
		{AppointmentStatusInCall, AppointmentStatusCancelled, false},
		{AppointmentStatusInCall, AppointmentStatusScheduled, false},
		{AppointmentStatusCompleted, AppointmentStatusCancelled, false},
		{AppointmentStatusCancelled, AppointmentStatusScheduled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestAppointment_Controls(t *testing.T) {
	appt := &Appointment{Status: AppointmentStatusScheduled}
	assert.True(t, appt.CanReschedule())
	assert.True(t, appt.CanCancel())

	for _, s := range []AppointmentStatus{AppointmentStatusInCall, AppointmentStatusCompleted, AppointmentStatusCancelled} {
		appt.Status = s
		assert.False(t, appt.CanReschedule(), s)
		assert.False(t, appt.CanCancel(), s)
	}
}

func TestParseRoleName(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRoleName(" Admin "))
	assert.Equal(t, RoleDoctor, ParseRoleName("doctor"))
	assert.Equal(t, RoleName(""), ParseRoleName("superuser"))

	assert.True(t, RoleDoctor.CanStartSession())
	assert.False(t, RoleReceptionist.CanStartSession())
	assert.False(t, RoleDoctor.CanManageUsers())
	assert.False(t, RoleName("").CanReconcileSession())
}

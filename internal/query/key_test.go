package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
)

func TestKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{"detail", DetailKey(ResourceAppointments, 42), "appointments:detail:42"},
		{"empty filter", ListKey(ResourceAppointments, entities.AppointmentFilter{}), "appointments:list:{}"},
		{"nil params", ListKey(ResourceBranches, nil), "branches:list:{}"},
		{
			"filter fields sorted",
			ListKey(ResourceAppointments, entities.AppointmentFilter{Status: entities.AppointmentStatusScheduled, DoctorID: 3}),
			`appointments:list:{"doctor_id":3,"status":"scheduled"}`,
		},
		{"large id kept exact", DetailKey(ResourcePatients, 9007199254740993), "patients:detail:9007199254740993"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.String())
		})
	}
}

func TestKey_ValueEqualParams(t *testing.T) {
	fromStruct := ListKey(ResourceAppointments, entities.AppointmentFilter{DoctorID: 3, Date: "2026-05-01"})
	fromMap := ListKey(ResourceAppointments, map[string]interface{}{"date": "2026-05-01", "doctor_id": 3})
	fromMapOtherOrder := ListKey(ResourceAppointments, map[string]interface{}{"doctor_id": 3, "date": "2026-05-01"})

	assert.Equal(t, fromStruct.String(), fromMap.String())
	assert.Equal(t, fromMap.String(), fromMapOtherOrder.String())
	assert.NotEqual(t, fromStruct.String(), ListKey(ResourceAppointments, entities.AppointmentFilter{DoctorID: 4}).String())
}

func TestKey_Scope(t *testing.T) {
	assert.Equal(t, "patients:list:", ListKey(ResourcePatients, entities.PatientFilter{Search: "ivy"}).scope())
	assert.Equal(t, "patients:detail:7", DetailKey(ResourcePatients, 7).scope())
}

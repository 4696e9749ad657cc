package entities

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeleSession_ReconcileNeverRegresses(t *testing.T) {
	current := &TeleSession{ID: 7, AppointmentID: 3, Provider: VideoProviderZoom, MeetingID: "m-1", Status: TeleSessionStatusCompleted}

	merged := current.Reconcile(&TeleSession{ID: 7, Status: TeleSessionStatusActive, MeetingID: "other", Provider: VideoProviderGoogleMeet})

	assert.Equal(t, TeleSessionStatusCompleted, merged.Status)
	assert.Equal(t, VideoProviderZoom, merged.Provider)
	assert.Equal(t, "m-1", merged.MeetingID)
}

func TestTeleSession_ReconcileTerminalIsFinal(t *testing.T) {
	end := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	duration := 25

	tests := []struct {
		name    string
		current TeleSessionStatus
		update  TeleSessionStatus
	}{
		{"completed stays completed", TeleSessionStatusCompleted, TeleSessionStatusCancelled},
		{"cancelled stays cancelled", TeleSessionStatusCancelled, TeleSessionStatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := &TeleSession{ID: 1, Status: tt.current}
			merged := current.Reconcile(&TeleSession{ID: 1, Status: tt.update, EndTime: &end, DurationMinutes: &duration})

			assert.Equal(t, tt.current, merged.Status)
			require.NotNil(t, merged.EndTime)
			assert.Equal(t, end, *merged.EndTime)
			require.NotNil(t, merged.DurationMinutes)
			assert.Equal(t, 25, *merged.DurationMinutes)
		})
	}
}

func TestTeleSessionStatus_CanBecome(t *testing.T) {
	assert.True(t, TeleSessionStatusPending.CanBecome(TeleSessionStatusActive))
	assert.True(t, TeleSessionStatusActive.CanBecome(TeleSessionStatusActive))
	assert.True(t, TeleSessionStatusActive.CanBecome(TeleSessionStatusCancelled))
	assert.False(t, TeleSessionStatusActive.CanBecome(TeleSessionStatusPending))
	assert.True(t, TeleSessionStatusCompleted.CanBecome(TeleSessionStatusCompleted))
	assert.False(t, TeleSessionStatusCompleted.CanBecome(TeleSessionStatusCancelled))
	assert.False(t, TeleSessionStatusCancelled.CanBecome(TeleSessionStatusCompleted))
}

func TestTeleSession_ReconcileIdempotent(t *testing.T) {
	end := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	duration := 30
	current := &TeleSession{ID: 7, AppointmentID: 3, Provider: VideoProviderZoom, MeetingID: "m-1", Status: TeleSessionStatusActive}
	update := &TeleSession{ID: 7, Status: TeleSessionStatusCompleted, EndTime: &end, DurationMinutes: &duration}

	once := current.Reconcile(update)
	twice := once.Reconcile(update)

	assert.Equal(t, once, twice)
	assert.Equal(t, TeleSessionStatusCompleted, twice.Status)
	assert.Equal(t, "m-1", twice.MeetingID)
	assert.Equal(t, int64(3), twice.AppointmentID)
}

func TestTeleSession_ReconcileFillsUnknownIdentity(t *testing.T) {
	var current *TeleSession
	merged := current.Reconcile(&TeleSession{ID: 1, MeetingID: "abc", Status: TeleSessionStatusPending})
	require.NotNil(t, merged)
	assert.Equal(t, "abc", merged.MeetingID)

	partial := &TeleSession{ID: 1, Status: TeleSessionStatusPending}
	merged = partial.Reconcile(&TeleSession{ID: 1, MeetingID: "abc", Provider: VideoProviderZoom, Status: TeleSessionStatusActive})
	assert.Equal(t, "abc", merged.MeetingID)
	assert.Equal(t, VideoProviderZoom, merged.Provider)
	assert.Equal(t, TeleSessionStatusActive, merged.Status)
}

func TestTeleSessionStatus_UnmarshalAliases(t *testing.T) {
	var s struct {
		Status TeleSessionStatus `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"status":"in_call"}`), &s))
	assert.Equal(t, TeleSessionStatusActive, s.Status)

	require.NoError(t, json.Unmarshal([]byte(`{"status":"scheduled"}`), &s))
	assert.Equal(t, TeleSessionStatusPending, s.Status)

	require.NoError(t, json.Unmarshal([]byte(`{"status":"completed"}`), &s))
	assert.True(t, s.Status.IsTerminal())
}

func TestTimelineEvent_Unmarshal(t *testing.T) {
	raw := `{"patient_id":4,"events":[
		{"type":"appointment","data":{"id":1,"appointment_type":"tele","status":"completed","scheduled_at":"2026-01-02T09:00:00Z","created_at":"2026-01-01T09:00:00Z"}},
		{"type":"prescription","data":{"id":2,"consultation_id":9,"medication":"Amoxicillin","created_at":"2026-01-02T10:00:00Z"}}
	]}`

	var timeline PatientTimeline
	require.NoError(t, json.Unmarshal([]byte(raw), &timeline))
	require.Len(t, timeline.Events, 2)
	require.NotNil(t, timeline.Events[0].Appointment)
	assert.Equal(t, AppointmentTypeTele, timeline.Events[0].Appointment.Type)
	require.NotNil(t, timeline.Events[1].Prescription)
	assert.Equal(t, "Amoxicillin", timeline.Events[1].Prescription.Medication)

	err := json.Unmarshal([]byte(`{"type":"unknown","data":{}}`), &TimelineEvent{})
	assert.Error(t, err)
}

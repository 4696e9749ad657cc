package entities

import (
	"encoding/json"
	"fmt"
	"time"
)

// PatientGender is the self-reported gender of a patient
type PatientGender string

const (
	PatientGenderMale   PatientGender = "male"
	PatientGenderFemale PatientGender = "female"
	PatientGenderOther  PatientGender = "other"
)

// Patient represents a clinic patient
type Patient struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Phone       string        `json:"phone,omitempty"`
	Email       string        `json:"email,omitempty"`
	Gender      PatientGender `json:"gender,omitempty"`
	DateOfBirth string        `json:"date_of_birth,omitempty"` // YYYY-MM-DD
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// PatientDetail is a patient with their appointment history
type PatientDetail struct {
	Patient
	Appointments []PatientAppointment `json:"appointments,omitempty"`
}

// PatientAppointment is the appointment shape used in patient context
type PatientAppointment struct {
	ID          int64             `json:"id"`
	Type        AppointmentType   `json:"appointment_type"`
	ScheduledAt time.Time         `json:"scheduled_at"`
	Status      AppointmentStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

// PatientFilter narrows patient listings
type PatientFilter struct {
	Search   string `json:"search,omitempty"`
	BranchID int64  `json:"branch_id,omitempty"`
	Skip     *int   `json:"skip,omitempty"`
	Limit    *int   `json:"limit,omitempty"`
}

// PatientPage is the paginated envelope returned by the patient listing
type PatientPage struct {
	Patients []Patient `json:"patients"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}

// CreatePatientRequest is the payload for registering a patient
type CreatePatientRequest struct {
	Name        string        `json:"name"`
	Phone       string        `json:"phone,omitempty"`
	Email       string        `json:"email,omitempty"`
	Gender      PatientGender `json:"gender,omitempty"`
	DateOfBirth string        `json:"date_of_birth,omitempty"`
}

// UpdatePatientRequest is a partial update; nil fields are left unchanged
type UpdatePatientRequest struct {
	Name        *string        `json:"name,omitempty"`
	Phone       *string        `json:"phone,omitempty"`
	Email       *string        `json:"email,omitempty"`
	Gender      *PatientGender `json:"gender,omitempty"`
	DateOfBirth *string        `json:"date_of_birth,omitempty"`
}

// TimelineEventType tags the entries of a patient timeline
type TimelineEventType string

const (
	TimelineEventAppointment    TimelineEventType = "appointment"
	TimelineEventConsultation   TimelineEventType = "consultation"
	TimelineEventPrescription   TimelineEventType = "prescription"
	TimelineEventMigratedRecord TimelineEventType = "migrated_record"
)

// TimelineEvent is one entry of a patient timeline. Exactly one of the
// payload pointers is set, matching Type.
type TimelineEvent struct {
	Type           TimelineEventType
	Appointment    *PatientAppointment
	Consultation   *Consultation
	Prescription   *Prescription
	MigratedRecord *MigratedRecord
}

type timelineEventWire struct {
	Type TimelineEventType `json:"type"`
	Data json.RawMessage   `json:"data"`
}

// UnmarshalJSON decodes the tagged {type, data} wire shape
func (e *TimelineEvent) UnmarshalJSON(b []byte) error {
	var wire timelineEventWire
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	e.Type = wire.Type
	var target interface{}
	switch wire.Type {
	case TimelineEventAppointment:
		e.Appointment = &PatientAppointment{}
		target = e.Appointment
	case TimelineEventConsultation:
		e.Consultation = &Consultation{}
		target = e.Consultation
	case TimelineEventPrescription:
		e.Prescription = &Prescription{}
		target = e.Prescription
	case TimelineEventMigratedRecord:
		e.MigratedRecord = &MigratedRecord{}
		target = e.MigratedRecord
	default:
		return fmt.Errorf("unknown timeline event type %q", wire.Type)
	}
	return json.Unmarshal(wire.Data, target)
}

// MarshalJSON encodes the tagged {type, data} wire shape
func (e TimelineEvent) MarshalJSON() ([]byte, error) {
	var data interface{}
	switch e.Type {
	case TimelineEventAppointment:
		data = e.Appointment
	case TimelineEventConsultation:
		data = e.Consultation
	case TimelineEventPrescription:
		data = e.Prescription
	case TimelineEventMigratedRecord:
		data = e.MigratedRecord
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(timelineEventWire{Type: e.Type, Data: raw})
}

// PatientTimeline lists a patient's history, newest first
type PatientTimeline struct {
	PatientID int64           `json:"patient_id"`
	Events    []TimelineEvent `json:"events"`
}

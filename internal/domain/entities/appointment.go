package entities

import (
	"time"
)

// AppointmentType distinguishes clinic visits from video consultations
type AppointmentType string

const (
	AppointmentTypeInPerson AppointmentType = "in_person"
	AppointmentTypeTele     AppointmentType = "tele"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusInCall    AppointmentStatus = "in_call"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Valid reports whether s is a known status
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusInCall, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is permitted
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled
}

// CanTransitionTo enforces scheduled -> in_call -> completed, with
// cancellation reachable only from scheduled.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch next {
	case AppointmentStatusCancelled:
		return s == AppointmentStatusScheduled
	case AppointmentStatusInCall:
		return s == AppointmentStatusScheduled
	case AppointmentStatusCompleted:
		return s == AppointmentStatusScheduled || s == AppointmentStatusInCall
	}
	return false
}

// Appointment represents a scheduled encounter between one patient and one
// doctor at one branch
type Appointment struct {
	ID          int64             `json:"id"`
	PatientID   int64             `json:"patient_id"`
	DoctorID    int64             `json:"doctor_id"`
	BranchID    int64             `json:"branch_id,omitempty"`
	Type        AppointmentType   `json:"appointment_type"`
	ScheduledAt time.Time         `json:"scheduled_at"`
	Status      AppointmentStatus `json:"status"`
	Notes       string            `json:"notes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`

	Patient     *PatientSummary     `json:"patient,omitempty"`
	Doctor      *DoctorSummary      `json:"doctor,omitempty"`
	TeleSession *TeleSessionSummary `json:"tele_session,omitempty"`
}

// IsTele reports whether the appointment is a video consultation
func (a *Appointment) IsTele() bool {
	return a.Type == AppointmentTypeTele
}

// CanReschedule reports whether the reschedule control should be enabled
func (a *Appointment) CanReschedule() bool {
	return a.Status == AppointmentStatusScheduled
}

// CanCancel reports whether the cancel control should be enabled
func (a *Appointment) CanCancel() bool {
	return a.Status.CanTransitionTo(AppointmentStatusCancelled)
}

// PatientSummary is the patient reference embedded in appointment payloads
type PatientSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// DoctorSummary is the doctor reference embedded in appointment payloads
type DoctorSummary struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization,omitempty"`
}

// TeleSessionSummary is the session reference embedded in appointment payloads
type TeleSessionSummary struct {
	ID     int64             `json:"id"`
	Status TeleSessionStatus `json:"status"`
}

// AppointmentFilter narrows appointment listings. Zero values are omitted.
type AppointmentFilter struct {
	Date      string            `json:"date,omitempty"` // YYYY-MM-DD
	DoctorID  int64             `json:"doctor_id,omitempty"`
	PatientID int64             `json:"patient_id,omitempty"`
	BranchID  int64             `json:"branch_id,omitempty"`
	Status    AppointmentStatus `json:"status,omitempty"`
}

// CreateAppointmentRequest is the payload for booking an appointment
type CreateAppointmentRequest struct {
	PatientID   int64           `json:"patient_id"`
	DoctorID    int64           `json:"doctor_id"`
	BranchID    int64           `json:"branch_id,omitempty"`
	Type        AppointmentType `json:"appointment_type"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	Notes       string          `json:"notes,omitempty"`
}

// RescheduleAppointmentRequest moves an appointment; status stays scheduled
type RescheduleAppointmentRequest struct {
	ScheduledAt time.Time `json:"scheduled_at"`
}

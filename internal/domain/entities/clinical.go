package entities

import "time"

// Consultation is the clinical note attached to an appointment
type Consultation struct {
	ID             int64     `json:"id"`
	AppointmentID  int64     `json:"appointment_id"`
	DoctorID       int64     `json:"doctor_id"`
	Notes          string    `json:"notes,omitempty"`
	ChiefComplaint string    `json:"chief_complaint,omitempty"`
	Diagnosis      string    `json:"diagnosis,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateConsultationRequest records a consultation
type CreateConsultationRequest struct {
	AppointmentID  int64  `json:"appointment_id"`
	Notes          string `json:"notes,omitempty"`
	ChiefComplaint string `json:"chief_complaint,omitempty"`
	Diagnosis      string `json:"diagnosis,omitempty"`
}

// Prescription belongs to a consultation
type Prescription struct {
	ID             int64     `json:"id"`
	ConsultationID int64     `json:"consultation_id"`
	Medication     string    `json:"medication"`
	Dosage         string    `json:"dosage,omitempty"`
	Duration       string    `json:"duration,omitempty"`
	Instructions   string    `json:"instructions,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreatePrescriptionRequest records a prescription
type CreatePrescriptionRequest struct {
	ConsultationID int64  `json:"consultation_id"`
	Medication     string `json:"medication"`
	Dosage         string `json:"dosage,omitempty"`
	Duration       string `json:"duration,omitempty"`
	Instructions   string `json:"instructions,omitempty"`
}

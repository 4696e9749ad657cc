package forms

import (
	"strings"
	"time"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
)

// LoginDraft is the sign-in form
type LoginDraft struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

func (d LoginDraft) Validate() error {
	d.Email = strings.TrimSpace(d.Email)
	return Validate(d)
}

// AppointmentDraft is the booking form
type AppointmentDraft struct {
	PatientID   int64     `form:"patient_id" validate:"required"`
	DoctorID    int64     `form:"doctor_id" validate:"required"`
	BranchID    int64     `form:"branch_id"`
	Type        string    `form:"appointment_type" validate:"required,oneof=in_person tele"`
	ScheduledAt time.Time `form:"scheduled_at" validate:"required,notpast"`
	Notes       string    `form:"notes" validate:"max=2000"`
}

// Request validates the draft and builds the create payload
func (d AppointmentDraft) Request() (*entities.CreateAppointmentRequest, error) {
	if err := Validate(d); err != nil {
		return nil, err
	}
	return &entities.CreateAppointmentRequest{
		PatientID:   d.PatientID,
		DoctorID:    d.DoctorID,
		BranchID:    d.BranchID,
		Type:        entities.AppointmentType(d.Type),
		ScheduledAt: d.ScheduledAt.UTC(),
		Notes:       strings.TrimSpace(d.Notes),
	}, nil
}

// RescheduleDraft moves an appointment
type RescheduleDraft struct {
	ScheduledAt time.Time `form:"scheduled_at" validate:"required,notpast"`
}

func (d RescheduleDraft) Validate() error {
	return Validate(d)
}

// PatientDraft is the patient registration form
type PatientDraft struct {
	Name        string `form:"name" validate:"required,max=200"`
	Phone       string `form:"phone" validate:"required"`
	Email       string `form:"email" validate:"omitempty,email"`
	Gender      string `form:"gender" validate:"omitempty,oneof=male female other"`
	DateOfBirth string `form:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
}

func (d PatientDraft) Request() (*entities.CreatePatientRequest, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.Phone = strings.TrimSpace(d.Phone)
	if err := Validate(d); err != nil {
		return nil, err
	}
	return &entities.CreatePatientRequest{
		Name:        d.Name,
		Phone:       d.Phone,
		Email:       strings.TrimSpace(d.Email),
		Gender:      entities.PatientGender(d.Gender),
		DateOfBirth: d.DateOfBirth,
	}, nil
}

// PatientUpdateDraft is a partial patient edit; nil fields are left unchanged
type PatientUpdateDraft struct {
	Name        *string `form:"name" validate:"omitempty,min=1,max=200"`
	Phone       *string `form:"phone" validate:"omitempty,min=1"`
	Email       *string `form:"email" validate:"omitempty,email"`
	Gender      *string `form:"gender" validate:"omitempty,oneof=male female other"`
	DateOfBirth *string `form:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
}

func (d PatientUpdateDraft) Request() (*entities.UpdatePatientRequest, error) {
	if err := Validate(d); err != nil {
		return nil, err
	}
	req := &entities.UpdatePatientRequest{
		Name:        d.Name,
		Phone:       d.Phone,
		Email:       d.Email,
		DateOfBirth: d.DateOfBirth,
	}
	if d.Gender != nil {
		g := entities.PatientGender(*d.Gender)
		req.Gender = &g
	}
	return req, nil
}

// UserDraft creates a non-doctor user
type UserDraft struct {
	Name     string `form:"name" validate:"required"`
	Email    string `form:"email" validate:"required,email"`
	Phone    string `form:"phone"`
	Password string `form:"password" validate:"required,min=6"`
	RoleID   int64  `form:"role_id" validate:"required"`
}

func (d UserDraft) Request() (*entities.CreateUserRequest, error) {
	if err := Validate(d); err != nil {
		return nil, err
	}
	return &entities.CreateUserRequest{
		Name:     strings.TrimSpace(d.Name),
		Email:    strings.TrimSpace(d.Email),
		Phone:    strings.TrimSpace(d.Phone),
		Password: d.Password,
		RoleID:   d.RoleID,
	}, nil
}

// PasswordResetDraft sets a new password for a user
type PasswordResetDraft struct {
	NewPassword string `form:"new_password" validate:"required,min=6"`
}

func (d PasswordResetDraft) Validate() error {
	return Validate(d)
}

// DoctorDraft creates a doctor with its user account
type DoctorDraft struct {
	Name               string  `form:"name" validate:"required"`
	Email              string  `form:"email" validate:"required,email"`
	Phone              string  `form:"phone"`
	Password           string  `form:"password" validate:"required,min=6"`
	Specialization     string  `form:"specialization"`
	RegistrationNumber string  `form:"registration_number"`
	BranchIDs          []int64 `form:"branch_ids" validate:"dive,gt=0"`
}

func (d DoctorDraft) Request() (*entities.CreateDoctorRequest, error) {
	if err := Validate(d); err != nil {
		return nil, err
	}
	return &entities.CreateDoctorRequest{
		Name:               strings.TrimSpace(d.Name),
		Email:              strings.TrimSpace(d.Email),
		Phone:              strings.TrimSpace(d.Phone),
		Password:           d.Password,
		Specialization:     strings.TrimSpace(d.Specialization),
		RegistrationNumber: strings.TrimSpace(d.RegistrationNumber),
		BranchIDs:          d.BranchIDs,
	}, nil
}

// BranchDraft opens a branch
type BranchDraft struct {
	Name    string `form:"name" validate:"required"`
	Address string `form:"address"`
	Phone   string `form:"phone"`
}

func (d BranchDraft) Request() (*entities.CreateBranchRequest, error) {
	if err := Validate(d); err != nil {
		return nil, err
	}
	return &entities.CreateBranchRequest{
		Name:     strings.TrimSpace(d.Name),
		Address:  strings.TrimSpace(d.Address),
		Phone:    strings.TrimSpace(d.Phone),
		IsActive: true,
	}, nil
}

// PrescriptionDraft adds a prescription to a consultation
type PrescriptionDraft struct {
	ConsultationID int64  `form:"consultation_id" validate:"required"`
	Medication     string `form:"medication" validate:"required"`
	Dosage         string `form:"dosage"`
	Duration       string `form:"duration"`
	Instructions   string `form:"instructions"`
}

func (d PrescriptionDraft) Request() (*entities.CreatePrescriptionRequest, error) {
	if err := Validate(d); err != nil {
		return nil, err
	}
	return &entities.CreatePrescriptionRequest{
		ConsultationID: d.ConsultationID,
		Medication:     strings.TrimSpace(d.Medication),
		Dosage:         d.Dosage,
		Duration:       d.Duration,
		Instructions:   d.Instructions,
	}, nil
}

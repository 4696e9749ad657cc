package repositories

import (
	"context"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
)

// PatientRepository defines the interface for patient data operations
type PatientRepository interface {
	// List retrieves a page of patients
	List(ctx context.Context, filter entities.PatientFilter) (*entities.PatientPage, error)

	// GetByID retrieves a patient with appointment history
	GetByID(ctx context.Context, id int64) (*entities.PatientDetail, error)

	// Create registers a patient
	Create(ctx context.Context, req *entities.CreatePatientRequest) (*entities.Patient, error)

	// Update applies a partial update
	Update(ctx context.Context, id int64, req *entities.UpdatePatientRequest) (*entities.Patient, error)

	// Timeline retrieves the patient's clinical history
	Timeline(ctx context.Context, id int64) (*entities.PatientTimeline, error)
}

// MigratedRecordRepository defines the interface for legacy record uploads
type MigratedRecordRepository interface {
	// ListByPatient retrieves a patient's uploaded records
	ListByPatient(ctx context.Context, patientID int64) ([]*entities.MigratedRecord, error)

	// Upload sends the file as multipart form data
	Upload(ctx context.Context, upload *entities.RecordUpload) (*entities.MigratedRecord, error)

	// UploadURL requests a pre-signed upload location
	UploadURL(ctx context.Context, req *entities.UploadURLRequest) (*entities.UploadURL, error)
}

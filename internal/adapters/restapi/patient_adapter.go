package restapi

import (
	"context"
	"strconv"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/repositories"
	"github.com/dentalflow/clinicadmin/internal/infrastructure/clients/clinicapi"
)

// PatientAdapter implements PatientRepository over the REST backend
type PatientAdapter struct {
	client *clinicapi.Client
}

// NewPatientAdapter creates a new patient adapter
func NewPatientAdapter(client *clinicapi.Client) repositories.PatientRepository {
	return &PatientAdapter{client: client}
}

// List retrieves a page of patients
func (a *PatientAdapter) List(ctx context.Context, filter entities.PatientFilter) (*entities.PatientPage, error) {
	query, err := clinicapi.Query(filter)
	if err != nil {
		return nil, err
	}
	var out entities.PatientPage
	if err := a.client.Get(ctx, pathPatients, query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByID retrieves a patient with appointment history
func (a *PatientAdapter) GetByID(ctx context.Context, id int64) (*entities.PatientDetail, error) {
	var out entities.PatientDetail
	if err := a.client.Get(ctx, patientPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create registers a patient
func (a *PatientAdapter) Create(ctx context.Context, req *entities.CreatePatientRequest) (*entities.Patient, error) {
	var out entities.Patient
	if err := a.client.PostJSON(ctx, pathPatients, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update applies a partial update
func (a *PatientAdapter) Update(ctx context.Context, id int64, req *entities.UpdatePatientRequest) (*entities.Patient, error) {
	var out entities.Patient
	if err := a.client.PatchJSON(ctx, patientPath(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Timeline retrieves the patient's clinical history
func (a *PatientAdapter) Timeline(ctx context.Context, id int64) (*entities.PatientTimeline, error) {
	var out entities.PatientTimeline
	if err := a.client.Get(ctx, patientTimelinePath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MigratedRecordAdapter implements MigratedRecordRepository over the REST backend
type MigratedRecordAdapter struct {
	client *clinicapi.Client
}

// NewMigratedRecordAdapter creates a new migrated record adapter
func NewMigratedRecordAdapter(client *clinicapi.Client) repositories.MigratedRecordRepository {
	return &MigratedRecordAdapter{client: client}
}

// ListByPatient retrieves a patient's uploaded records
func (a *MigratedRecordAdapter) ListByPatient(ctx context.Context, patientID int64) ([]*entities.MigratedRecord, error) {
	var out []*entities.MigratedRecord
	if err := a.client.Get(ctx, recordsByPatientPath(patientID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Upload sends the file as multipart form data
func (a *MigratedRecordAdapter) Upload(ctx context.Context, upload *entities.RecordUpload) (*entities.MigratedRecord, error) {
	fields := map[string]string{
		"patient_id": strconv.FormatInt(upload.PatientID, 10),
		"source":     string(upload.Source),
	}
	if upload.Notes != "" {
		fields["notes"] = upload.Notes
	}

	var out entities.MigratedRecord
	err := a.client.PostMultipart(ctx, pathRecords, fields, clinicapi.FilePart{
		Field:       "file",
		FileName:    upload.FileName,
		ContentType: upload.ContentType,
		Content:     upload.Content,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadURL requests a pre-signed upload location
func (a *MigratedRecordAdapter) UploadURL(ctx context.Context, req *entities.UploadURLRequest) (*entities.UploadURL, error) {
	var out entities.UploadURL
	if err := a.client.PostJSON(ctx, pathRecordUpload, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

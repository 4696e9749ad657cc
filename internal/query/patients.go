package query

import (
	"context"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/repositories"
)

const opTimeline = "timeline"

// PatientQueries caches patient, timeline and migrated record reads
type PatientQueries struct {
	c       *Client
	repo    repositories.PatientRepository
	records repositories.MigratedRecordRepository
}

// NewPatientQueries creates patient queries
func NewPatientQueries(c *Client, repo repositories.PatientRepository, records repositories.MigratedRecordRepository) *PatientQueries {
	return &PatientQueries{c: c, repo: repo, records: records}
}

func (q *PatientQueries) List(ctx context.Context, filter entities.PatientFilter) (*entities.PatientPage, error) {
	return Fetch(ctx, q.c, ListKey(ResourcePatients, filter), func(ctx context.Context) (*entities.PatientPage, error) {
		return q.repo.List(ctx, filter)
	})
}

func (q *PatientQueries) Get(ctx context.Context, id int64) (*entities.PatientDetail, error) {
	return Fetch(ctx, q.c, DetailKey(ResourcePatients, id), func(ctx context.Context) (*entities.PatientDetail, error) {
		return q.repo.GetByID(ctx, id)
	})
}

func (q *PatientQueries) Timeline(ctx context.Context, id int64) (*entities.PatientTimeline, error) {
	return Fetch(ctx, q.c, timelineKey(id), func(ctx context.Context) (*entities.PatientTimeline, error) {
		return q.repo.Timeline(ctx, id)
	})
}

func (q *PatientQueries) Create(ctx context.Context, req *entities.CreatePatientRequest) (*entities.Patient, error) {
	return invalidateAfter(ctx, q.c, func() (*entities.Patient, error) {
		return q.repo.Create(ctx, req)
	}, func(*entities.Patient) []Key {
		return []Key{ListKey(ResourcePatients, nil)}
	})
}

func (q *PatientQueries) Update(ctx context.Context, id int64, req *entities.UpdatePatientRequest) (*entities.Patient, error) {
	return invalidateAfter(ctx, q.c, func() (*entities.Patient, error) {
		return q.repo.Update(ctx, id, req)
	}, func(*entities.Patient) []Key {
		return []Key{DetailKey(ResourcePatients, id), ListKey(ResourcePatients, nil)}
	})
}

// Records lists a patient's migrated records
func (q *PatientQueries) Records(ctx context.Context, patientID int64) ([]*entities.MigratedRecord, error) {
	return Fetch(ctx, q.c, recordsKey(patientID), func(ctx context.Context) ([]*entities.MigratedRecord, error) {
		return q.records.ListByPatient(ctx, patientID)
	})
}

// Upload sends a validated record and refreshes the patient's records and timeline
func (q *PatientQueries) Upload(ctx context.Context, upload *entities.RecordUpload) (*entities.MigratedRecord, error) {
	return invalidateAfter(ctx, q.c, func() (*entities.MigratedRecord, error) {
		return q.records.Upload(ctx, upload)
	}, func(*entities.MigratedRecord) []Key {
		return []Key{recordsKey(upload.PatientID), timelineKey(upload.PatientID)}
	})
}

// UploadURL requests a pre-signed location; nothing is cached
func (q *PatientQueries) UploadURL(ctx context.Context, req *entities.UploadURLRequest) (*entities.UploadURL, error) {
	return q.records.UploadURL(ctx, req)
}

func timelineKey(patientID int64) Key {
	return Key{Resource: ResourcePatients, Operation: opTimeline, Params: patientID}
}

func recordsKey(patientID int64) Key {
	return ListKey(ResourceMigratedRecords, map[string]int64{"patient_id": patientID})
}

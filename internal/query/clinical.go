package query

import (
	"context"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/repositories"
)

// ClinicalQueries caches consultations and prescriptions
type ClinicalQueries struct {
	c             *Client
	consultations repositories.ConsultationRepository
	prescriptions repositories.PrescriptionRepository
}

// NewClinicalQueries creates clinical queries
func NewClinicalQueries(c *Client, consultations repositories.ConsultationRepository, prescriptions repositories.PrescriptionRepository) *ClinicalQueries {
	return &ClinicalQueries{c: c, consultations: consultations, prescriptions: prescriptions}
}

func (q *ClinicalQueries) Consultation(ctx context.Context, id int64) (*entities.Consultation, error) {
	return Fetch(ctx, q.c, DetailKey(ResourceConsultations, id), func(ctx context.Context) (*entities.Consultation, error) {
		return q.consultations.GetByID(ctx, id)
	})
}

func (q *ClinicalQueries) ConsultationByAppointment(ctx context.Context, appointmentID int64) (*entities.Consultation, error) {
	key := Key{Resource: ResourceConsultations, Operation: opByAppointment, Params: appointmentID}
	return Fetch(ctx, q.c, key, func(ctx context.Context) (*entities.Consultation, error) {
		return q.consultations.GetByAppointment(ctx, appointmentID)
	})
}

// CreateConsultation records notes for an appointment. patientID, when known,
// drops that patient's timeline.
func (q *ClinicalQueries) CreateConsultation(ctx context.Context, req *entities.CreateConsultationRequest, patientID int64) (*entities.Consultation, error) {
	return invalidateAfter(ctx, q.c, func() (*entities.Consultation, error) {
		return q.consultations.Create(ctx, req)
	}, func(*entities.Consultation) []Key {
		keys := []Key{{Resource: ResourceConsultations, Operation: opByAppointment, Params: req.AppointmentID}}
		if patientID != 0 {
			keys = append(keys, timelineKey(patientID))
		}
		return keys
	})
}

func (q *ClinicalQueries) Prescription(ctx context.Context, id int64) (*entities.Prescription, error) {
	return Fetch(ctx, q.c, DetailKey(ResourcePrescriptions, id), func(ctx context.Context) (*entities.Prescription, error) {
		return q.prescriptions.GetByID(ctx, id)
	})
}

func (q *ClinicalQueries) Prescriptions(ctx context.Context, consultationID int64) ([]*entities.Prescription, error) {
	return Fetch(ctx, q.c, prescriptionsKey(consultationID), func(ctx context.Context) ([]*entities.Prescription, error) {
		return q.prescriptions.ListByConsultation(ctx, consultationID)
	})
}

func (q *ClinicalQueries) CreatePrescription(ctx context.Context, req *entities.CreatePrescriptionRequest, patientID int64) (*entities.Prescription, error) {
	return invalidateAfter(ctx, q.c, func() (*entities.Prescription, error) {
		return q.prescriptions.Create(ctx, req)
	}, func(*entities.Prescription) []Key {
		keys := []Key{prescriptionsKey(req.ConsultationID)}
		if patientID != 0 {
			keys = append(keys, timelineKey(patientID))
		}
		return keys
	})
}

func prescriptionsKey(consultationID int64) Key {
	return ListKey(ResourcePrescriptions, map[string]int64{"consultation_id": consultationID})
}

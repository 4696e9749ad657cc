package restapi

import (
	"context"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/repositories"
	"github.com/dentalflow/clinicadmin/internal/infrastructure/clients/clinicapi"
)

// ConsultationAdapter implements ConsultationRepository over the REST backend
type ConsultationAdapter struct {
	client *clinicapi.Client
}

// NewConsultationAdapter creates a new consultation adapter
func NewConsultationAdapter(client *clinicapi.Client) repositories.ConsultationRepository {
	return &ConsultationAdapter{client: client}
}

func (a *ConsultationAdapter) Create(ctx context.Context, req *entities.CreateConsultationRequest) (*entities.Consultation, error) {
	var out entities.Consultation
	if err := a.client.PostJSON(ctx, pathConsultations, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ConsultationAdapter) GetByID(ctx context.Context, id int64) (*entities.Consultation, error) {
	var out entities.Consultation
	if err := a.client.Get(ctx, consultationPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ConsultationAdapter) GetByAppointment(ctx context.Context, appointmentID int64) (*entities.Consultation, error) {
	var out entities.Consultation
	if err := a.client.Get(ctx, consultationByAppointmentPath(appointmentID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PrescriptionAdapter implements PrescriptionRepository over the REST backend
type PrescriptionAdapter struct {
	client *clinicapi.Client
}

// NewPrescriptionAdapter creates a new prescription adapter
func NewPrescriptionAdapter(client *clinicapi.Client) repositories.PrescriptionRepository {
	return &PrescriptionAdapter{client: client}
}

func (a *PrescriptionAdapter) Create(ctx context.Context, req *entities.CreatePrescriptionRequest) (*entities.Prescription, error) {
	var out entities.Prescription
	if err := a.client.PostJSON(ctx, pathPrescriptions, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *PrescriptionAdapter) GetByID(ctx context.Context, id int64) (*entities.Prescription, error) {
	var out entities.Prescription
	if err := a.client.Get(ctx, prescriptionPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *PrescriptionAdapter) ListByConsultation(ctx context.Context, consultationID int64) ([]*entities.Prescription, error) {
	var out []*entities.Prescription
	if err := a.client.Get(ctx, prescriptionsByConsultationPath(consultationID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

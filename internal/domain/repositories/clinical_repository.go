package repositories

import (
	"context"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
)

// ConsultationRepository defines the interface for consultation notes
type ConsultationRepository interface {
	Create(ctx context.Context, req *entities.CreateConsultationRequest) (*entities.Consultation, error)
	GetByID(ctx context.Context, id int64) (*entities.Consultation, error)
	GetByAppointment(ctx context.Context, appointmentID int64) (*entities.Consultation, error)
}

// PrescriptionRepository defines the interface for prescriptions
type PrescriptionRepository interface {
	Create(ctx context.Context, req *entities.CreatePrescriptionRequest) (*entities.Prescription, error)
	GetByID(ctx context.Context, id int64) (*entities.Prescription, error)
	ListByConsultation(ctx context.Context, consultationID int64) ([]*entities.Prescription, error)
}

// AuditLogRepository is read-only; audit entries are written by the backend
type AuditLogRepository interface {
	List(ctx context.Context, filter entities.AuditLogFilter) (*entities.AuditLogPage, error)
	GetByID(ctx context.Context, id int64) (*entities.AuditLog, error)
	DistinctActions(ctx context.Context) ([]string, error)
	DistinctEntityTypes(ctx context.Context) ([]string, error)
}

package repositories

import (
	"context"
	"time"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
)

// AppointmentRepository defines the interface for appointment data operations
type AppointmentRepository interface {
	// List retrieves appointments matching filter
	List(ctx context.Context, filter entities.AppointmentFilter) ([]*entities.Appointment, error)

	// GetByID retrieves an appointment by ID
	GetByID(ctx context.Context, id int64) (*entities.Appointment, error)

	// Create books a new appointment
	Create(ctx context.Context, req *entities.CreateAppointmentRequest) (*entities.Appointment, error)

	// Reschedule moves a scheduled appointment
	Reschedule(ctx context.Context, id int64, scheduledAt time.Time) (*entities.Appointment, error)

	// Cancel cancels a scheduled appointment
	Cancel(ctx context.Context, id int64) (*entities.Appointment, error)
}

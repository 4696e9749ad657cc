package restapi

import (
	"context"
	"time"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/repositories"
	"github.com/dentalflow/clinicadmin/internal/infrastructure/clients/clinicapi"
)

// AppointmentAdapter implements AppointmentRepository over the REST backend
type AppointmentAdapter struct {
	client *clinicapi.Client
}

// NewAppointmentAdapter creates a new appointment adapter
func NewAppointmentAdapter(client *clinicapi.Client) repositories.AppointmentRepository {
	return &AppointmentAdapter{client: client}
}

// List retrieves appointments matching filter
func (a *AppointmentAdapter) List(ctx context.Context, filter entities.AppointmentFilter) ([]*entities.Appointment, error) {
	query, err := clinicapi.Query(filter)
	if err != nil {
		return nil, err
	}
	var out []*entities.Appointment
	if err := a.client.Get(ctx, pathAppointments, query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID retrieves an appointment by ID
func (a *AppointmentAdapter) GetByID(ctx context.Context, id int64) (*entities.Appointment, error) {
	var out entities.Appointment
	if err := a.client.Get(ctx, appointmentPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create books a new appointment
func (a *AppointmentAdapter) Create(ctx context.Context, req *entities.CreateAppointmentRequest) (*entities.Appointment, error) {
	var out entities.Appointment
	if err := a.client.PostJSON(ctx, pathAppointments, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reschedule moves an appointment to scheduledAt
func (a *AppointmentAdapter) Reschedule(ctx context.Context, id int64, scheduledAt time.Time) (*entities.Appointment, error) {
	var out entities.Appointment
	body := entities.RescheduleAppointmentRequest{ScheduledAt: scheduledAt}
	if err := a.client.PostJSON(ctx, appointmentActionPath(id, "reschedule"), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Cancel cancels an appointment. The body is empty so the scheduled time is kept.
func (a *AppointmentAdapter) Cancel(ctx context.Context, id int64) (*entities.Appointment, error) {
	var out entities.Appointment
	if err := a.client.PostJSON(ctx, appointmentActionPath(id, "cancel"), struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

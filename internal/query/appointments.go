package query

import (
	"context"
	"time"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/repositories"
)

// AppointmentQueries caches appointment reads and invalidates after writes
type AppointmentQueries struct {
	c    *Client
	repo repositories.AppointmentRepository
}

// NewAppointmentQueries creates appointment queries
func NewAppointmentQueries(c *Client, repo repositories.AppointmentRepository) *AppointmentQueries {
	return &AppointmentQueries{c: c, repo: repo}
}

func (q *AppointmentQueries) List(ctx context.Context, filter entities.AppointmentFilter) ([]*entities.Appointment, error) {
	return Fetch(ctx, q.c, ListKey(ResourceAppointments, filter), func(ctx context.Context) ([]*entities.Appointment, error) {
		return q.repo.List(ctx, filter)
	})
}

func (q *AppointmentQueries) Get(ctx context.Context, id int64) (*entities.Appointment, error) {
	return Fetch(ctx, q.c, DetailKey(ResourceAppointments, id), func(ctx context.Context) (*entities.Appointment, error) {
		return q.repo.GetByID(ctx, id)
	})
}

func (q *AppointmentQueries) Create(ctx context.Context, req *entities.CreateAppointmentRequest) (*entities.Appointment, error) {
	return invalidateAfter(ctx, q.c, func() (*entities.Appointment, error) {
		return q.repo.Create(ctx, req)
	}, func(*entities.Appointment) []Key {
		return []Key{ListKey(ResourceAppointments, nil)}
	})
}

func (q *AppointmentQueries) Reschedule(ctx context.Context, id int64, scheduledAt time.Time) (*entities.Appointment, error) {
	return invalidateAfter(ctx, q.c, func() (*entities.Appointment, error) {
		return q.repo.Reschedule(ctx, id, scheduledAt)
	}, func(*entities.Appointment) []Key {
		return appointmentKeys(id)
	})
}

func (q *AppointmentQueries) Cancel(ctx context.Context, id int64) (*entities.Appointment, error) {
	return invalidateAfter(ctx, q.c, func() (*entities.Appointment, error) {
		return q.repo.Cancel(ctx, id)
	}, func(*entities.Appointment) []Key {
		return appointmentKeys(id)
	})
}

// Invalidate drops one appointment's detail key plus the appointment lists
func (q *AppointmentQueries) Invalidate(ctx context.Context, id int64) error {
	return q.c.Invalidate(ctx, appointmentKeys(id)...)
}

func appointmentKeys(id int64) []Key {
	return []Key{DetailKey(ResourceAppointments, id), ListKey(ResourceAppointments, nil)}
}

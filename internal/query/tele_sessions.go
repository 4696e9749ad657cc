package query

import (
	"context"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/repositories"
)

const (
	opByAppointment      = "appointment"
	opAdminByAppointment = "admin_appointment"
)

// TeleSessionQueries caches tele-session reads. Session mutations also touch
// the parent appointment, whose status follows the session.
type TeleSessionQueries struct {
	c    *Client
	repo repositories.TeleSessionRepository
}

// NewTeleSessionQueries creates tele-session queries
func NewTeleSessionQueries(c *Client, repo repositories.TeleSessionRepository) *TeleSessionQueries {
	return &TeleSessionQueries{c: c, repo: repo}
}

func (q *TeleSessionQueries) Get(ctx context.Context, id int64) (*entities.TeleSession, error) {
	return Fetch(ctx, q.c, DetailKey(ResourceTeleSessions, id), func(ctx context.Context) (*entities.TeleSession, error) {
		return q.repo.GetByID(ctx, id)
	})
}

// ByAppointment returns the appointment's session, or nil when none exists
func (q *TeleSessionQueries) ByAppointment(ctx context.Context, appointmentID int64) (*entities.TeleSession, error) {
	return Fetch(ctx, q.c, byAppointmentKey(appointmentID), func(ctx context.Context) (*entities.TeleSession, error) {
		return q.repo.GetByAppointment(ctx, appointmentID)
	})
}

func (q *TeleSessionQueries) AdminList(ctx context.Context, filter entities.TeleSessionFilter) ([]*entities.TeleSession, error) {
	return Fetch(ctx, q.c, ListKey(ResourceTeleSessions, filter), func(ctx context.Context) ([]*entities.TeleSession, error) {
		return q.repo.AdminList(ctx, filter)
	})
}

func (q *TeleSessionQueries) AdminByAppointment(ctx context.Context, appointmentID int64) (*entities.TeleSession, error) {
	key := Key{Resource: ResourceTeleSessions, Operation: opAdminByAppointment, Params: appointmentID}
	return Fetch(ctx, q.c, key, func(ctx context.Context) (*entities.TeleSession, error) {
		return q.repo.AdminGetByAppointment(ctx, appointmentID)
	})
}

func (q *TeleSessionQueries) Start(ctx context.Context, appointmentID int64) (*entities.StartSessionResult, error) {
	return invalidateAfter(ctx, q.c, func() (*entities.StartSessionResult, error) {
		return q.repo.Start(ctx, appointmentID)
	}, func(res *entities.StartSessionResult) []Key {
		keys := sessionKeys(appointmentID)
		if res != nil && res.Session != nil {
			keys = append(keys, DetailKey(ResourceTeleSessions, res.Session.ID))
		}
		return keys
	})
}

// Join issues a join token; no cached state changes
func (q *TeleSessionQueries) Join(ctx context.Context, key int64) (*entities.JoinSessionResult, error) {
	return q.repo.Join(ctx, key)
}

func (q *TeleSessionQueries) End(ctx context.Context, sessionID, appointmentID int64) (*entities.TeleSession, error) {
	return invalidateAfter(ctx, q.c, func() (*entities.TeleSession, error) {
		return q.repo.End(ctx, sessionID)
	}, func(*entities.TeleSession) []Key {
		return append(sessionKeys(appointmentID), DetailKey(ResourceTeleSessions, sessionID))
	})
}

// CheckStatus reconciles the session with the provider. The merged result
// replaces the cached session; a terminal result also drops the appointment.
func (q *TeleSessionQueries) CheckStatus(ctx context.Context, current *entities.TeleSession) (*entities.TeleSession, error) {
	fresh, err := q.repo.CheckStatus(ctx, current.ID)
	if err != nil {
		return nil, err
	}
	merged := current.Reconcile(fresh)

	if err := Put(ctx, q.c, DetailKey(ResourceTeleSessions, merged.ID), merged); err != nil {
		q.c.logger.Warn().Err(err).Int64("session_id", merged.ID).Msg("failed to cache reconciled session")
	}
	if err := Put(ctx, q.c, byAppointmentKey(merged.AppointmentID), merged); err != nil {
		q.c.logger.Warn().Err(err).Int64("appointment_id", merged.AppointmentID).Msg("failed to cache reconciled session")
	}

	keys := []Key{ListKey(ResourceTeleSessions, nil)}
	if merged.Status.IsTerminal() {
		keys = append(keys, appointmentKeys(merged.AppointmentID)...)
	}
	if err := q.c.Invalidate(ctx, keys...); err != nil {
		q.c.logger.Warn().Err(err).Msg("cache invalidation failed")
	}
	return merged, nil
}

// Invalidate drops everything cached about an appointment's session, for
// when the server is known to disagree with the cache.
func (q *TeleSessionQueries) Invalidate(ctx context.Context, appointmentID int64) error {
	return q.c.Invalidate(ctx, sessionKeys(appointmentID)...)
}

func byAppointmentKey(appointmentID int64) Key {
	return Key{Resource: ResourceTeleSessions, Operation: opByAppointment, Params: appointmentID}
}

func sessionKeys(appointmentID int64) []Key {
	return append(appointmentKeys(appointmentID),
		byAppointmentKey(appointmentID),
		ListKey(ResourceTeleSessions, nil),
	)
}

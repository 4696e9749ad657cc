package restapi

import (
	"context"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/repositories"
	"github.com/dentalflow/clinicadmin/internal/infrastructure/clients/clinicapi"
	apperrors "github.com/dentalflow/clinicadmin/pkg/errors"
)

// TeleSessionAdapter implements TeleSessionRepository over the REST backend
type TeleSessionAdapter struct {
	client *clinicapi.Client
}

// NewTeleSessionAdapter creates a new tele-session adapter
func NewTeleSessionAdapter(client *clinicapi.Client) repositories.TeleSessionRepository {
	return &TeleSessionAdapter{client: client}
}

// Start creates the session for an appointment
func (a *TeleSessionAdapter) Start(ctx context.Context, appointmentID int64) (*entities.StartSessionResult, error) {
	var out entities.StartSessionResult
	if err := a.client.PostJSON(ctx, pathTeleStart, entities.StartSessionRequest{AppointmentID: appointmentID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Join issues a join token for a session (or appointment) key
func (a *TeleSessionAdapter) Join(ctx context.Context, key int64) (*entities.JoinSessionResult, error) {
	var out entities.JoinSessionResult
	if err := a.client.PostJSON(ctx, teleSessionActionPath(key, "join"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// End marks the session completed
func (a *TeleSessionAdapter) End(ctx context.Context, sessionID int64) (*entities.TeleSession, error) {
	return a.sessionAction(ctx, sessionID, "end")
}

// CheckStatus reconciles the session with the video provider
func (a *TeleSessionAdapter) CheckStatus(ctx context.Context, sessionID int64) (*entities.TeleSession, error) {
	return a.sessionAction(ctx, sessionID, "check-status")
}

func (a *TeleSessionAdapter) sessionAction(ctx context.Context, sessionID int64, action string) (*entities.TeleSession, error) {
	var out entities.TeleSession
	if err := a.client.PostJSON(ctx, teleSessionActionPath(sessionID, action), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByID retrieves a session
func (a *TeleSessionAdapter) GetByID(ctx context.Context, sessionID int64) (*entities.TeleSession, error) {
	var out entities.TeleSession
	if err := a.client.Get(ctx, teleSessionPath(sessionID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByAppointment retrieves the session bound to an appointment. A null
// body or a 404 means no session exists and yields (nil, nil).
func (a *TeleSessionAdapter) GetByAppointment(ctx context.Context, appointmentID int64) (*entities.TeleSession, error) {
	return a.getOptional(ctx, teleByAppointmentPath(appointmentID))
}

// AdminList lists sessions across branches
func (a *TeleSessionAdapter) AdminList(ctx context.Context, filter entities.TeleSessionFilter) ([]*entities.TeleSession, error) {
	query, err := clinicapi.Query(filter)
	if err != nil {
		return nil, err
	}
	var out []*entities.TeleSession
	if err := a.client.Get(ctx, pathTeleAdminList, query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminGetByAppointment retrieves the admin view of an appointment's session
func (a *TeleSessionAdapter) AdminGetByAppointment(ctx context.Context, appointmentID int64) (*entities.TeleSession, error) {
	return a.getOptional(ctx, teleAdminByAppointmentPath(appointmentID))
}

func (a *TeleSessionAdapter) getOptional(ctx context.Context, path string) (*entities.TeleSession, error) {
	var out *entities.TeleSession
	err := a.client.Get(ctx, path, nil, &out)
	if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

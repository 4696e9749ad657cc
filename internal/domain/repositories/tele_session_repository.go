package repositories

import (
	"context"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
)

// TeleSessionRepository defines the interface for tele-consultation sessions
type TeleSessionRepository interface {
	// Start creates (or returns) the session for an appointment with a host artifact
	Start(ctx context.Context, appointmentID int64) (*entities.StartSessionResult, error)

	// Join issues a join token; key is a session ID or, as a fallback, an appointment ID
	Join(ctx context.Context, key int64) (*entities.JoinSessionResult, error)

	// End marks the session completed
	End(ctx context.Context, sessionID int64) (*entities.TeleSession, error)

	// CheckStatus reconciles the session with the video provider
	CheckStatus(ctx context.Context, sessionID int64) (*entities.TeleSession, error)

	// GetByID retrieves a session
	GetByID(ctx context.Context, sessionID int64) (*entities.TeleSession, error)

	// GetByAppointment retrieves the session bound to an appointment
	GetByAppointment(ctx context.Context, appointmentID int64) (*entities.TeleSession, error)

	// AdminList lists sessions across branches
	AdminList(ctx context.Context, filter entities.TeleSessionFilter) ([]*entities.TeleSession, error)

	// AdminGetByAppointment retrieves the admin view of an appointment's session
	AdminGetByAppointment(ctx context.Context, appointmentID int64) (*entities.TeleSession, error)
}

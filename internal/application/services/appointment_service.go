package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dentalflow/clinicadmin/internal/application/forms"
	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/providers"
	"github.com/dentalflow/clinicadmin/internal/query"
	apperrors "github.com/dentalflow/clinicadmin/pkg/errors"
)

const (
	msgCreateFailed     = "Failed to create appointment. Please try again."
	msgRescheduleFailed = "Failed to reschedule appointment. Please try again."
	msgCancelFailed     = "Failed to cancel appointment. Please try again."
)

// AppointmentService handles booking, rescheduling and cancellation
type AppointmentService struct {
	queries  *query.AppointmentQueries
	session  *SessionService
	notifier providers.Notifier
	logger   zerolog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(
	queries *query.AppointmentQueries,
	session *SessionService,
	notifier providers.Notifier,
	logger zerolog.Logger,
) *AppointmentService {
	return &AppointmentService{
		queries:  queries,
		session:  session,
		notifier: notifier,
		logger:   logger.With().Str("component", "appointments").Logger(),
		inFlight: make(map[string]struct{}),
	}
}

// Create books an appointment from a validated draft
func (s *AppointmentService) Create(ctx context.Context, draft forms.AppointmentDraft) (*entities.Appointment, error) {
	if err := s.authorize(ctx); err != nil {
		return nil, s.fail(ctx, err, msgCreateFailed)
	}
	req, err := draft.Request()
	if err != nil {
		return nil, err
	}

	release, err := s.acquire(fmt.Sprintf("create:%d:%d:%d", req.PatientID, req.DoctorID, req.ScheduledAt.Unix()))
	if err != nil {
		return nil, err
	}
	defer release()

	appt, err := s.queries.Create(ctx, req)
	if err != nil {
		return nil, s.fail(ctx, err, msgCreateFailed)
	}
	s.logger.Info().Int64("appointment_id", appt.ID).Msg("appointment created")
	s.notify(ctx, entities.SeveritySuccess, "Appointment created successfully")
	return appt, nil
}

// Reschedule moves a scheduled appointment
func (s *AppointmentService) Reschedule(ctx context.Context, id int64, draft forms.RescheduleDraft) (*entities.Appointment, error) {
	if err := s.authorize(ctx); err != nil {
		return nil, s.fail(ctx, err, msgRescheduleFailed)
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	current, err := s.queries.Get(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, err, msgRescheduleFailed)
	}
	if !current.CanReschedule() {
		return nil, s.fail(ctx, apperrors.NewValidationError(fmt.Sprintf("Appointment is %s and cannot be rescheduled", current.Status)), msgRescheduleFailed)
	}

	release, err := s.acquire(fmt.Sprintf("appointment:%d", id))
	if err != nil {
		return nil, err
	}
	defer release()

	appt, err := s.queries.Reschedule(ctx, id, draft.ScheduledAt)
	if err != nil {
		return nil, s.fail(ctx, err, msgRescheduleFailed)
	}
	s.notify(ctx, entities.SeveritySuccess, "Appointment rescheduled successfully")
	return appt, nil
}

// Cancel cancels a scheduled appointment
func (s *AppointmentService) Cancel(ctx context.Context, id int64) (*entities.Appointment, error) {
	if err := s.authorize(ctx); err != nil {
		return nil, s.fail(ctx, err, msgCancelFailed)
	}

	current, err := s.queries.Get(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, err, msgCancelFailed)
	}
	if !current.CanCancel() {
		return nil, s.fail(ctx, apperrors.NewValidationError(fmt.Sprintf("Appointment is %s and cannot be cancelled", current.Status)), msgCancelFailed)
	}

	release, err := s.acquire(fmt.Sprintf("appointment:%d", id))
	if err != nil {
		return nil, err
	}
	defer release()

	appt, err := s.queries.Cancel(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, err, msgCancelFailed)
	}
	s.notify(ctx, entities.SeveritySuccess, "Appointment cancelled successfully")
	return appt, nil
}

func (s *AppointmentService) authorize(ctx context.Context) error {
	if !s.session.Role(ctx).CanManageAppointments() {
		return apperrors.NewForbiddenError("You do not have permission to manage appointments")
	}
	return nil
}

// acquire marks key as submitting; a second submit of the same key fails
// until release is called.
func (s *AppointmentService) acquire(key string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inFlight[key]; ok {
		return nil, ErrActionInFlight
	}
	s.inFlight[key] = struct{}{}
	return func() {
		s.mu.Lock()
		delete(s.inFlight, key)
		s.mu.Unlock()
	}, nil
}

func (s *AppointmentService) fail(ctx context.Context, err error, fallback string) error {
	s.logger.Warn().Err(err).Msg(fallback)
	s.notify(ctx, entities.SeverityError, apperrors.UserMessage(err, fallback))
	return err
}

func (s *AppointmentService) notify(ctx context.Context, severity entities.Severity, msg string) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, entities.Toast{Severity: severity, Message: msg})
	}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/providers"
	"github.com/dentalflow/clinicadmin/internal/query"
	"github.com/dentalflow/clinicadmin/pkg/config"
	apperrors "github.com/dentalflow/clinicadmin/pkg/errors"
)

// TeleState is the client-observed lifecycle of one appointment's session
type TeleState string

const (
	TeleStateNoSession TeleState = "no_session"
	TeleStatePending   TeleState = "pending"
	TeleStateActive    TeleState = "active"
	TeleStateTerminal  TeleState = "terminal"
)

// Operator-facing messages
const (
	msgStarted        = "Consultation session started successfully"
	msgJoining        = "Joining consultation session"
	msgEnded          = "Consultation session ended"
	msgPopupBlocked   = "Unable to open session window. Please check browser popup settings."
	msgInvalidSession = "Invalid session response from server"
	msgAlreadyStarted = "This consultation was already started by another user. Showing the current session."
	msgStartFailed    = "Failed to start consultation"
	msgJoinFailed     = "Failed to join consultation"
	msgCheckFailed    = "Failed to check session status"
	msgEndFailed      = "Failed to end consultation"
)

// ErrActionInFlight is returned when an action is requested while another
// action of the same controller has not finished.
var ErrActionInFlight = errors.New("another consultation action is in progress")

// TeleConsultService creates controllers bound to the signed-in operator
type TeleConsultService struct {
	sessions     *query.TeleSessionQueries
	appointments *query.AppointmentQueries
	session      *SessionService
	opener       providers.WindowOpener
	notifier     providers.Notifier
	cfg          config.TeleConfig
	logger       zerolog.Logger
}

// NewTeleConsultService creates a tele-consultation service
func NewTeleConsultService(
	sessions *query.TeleSessionQueries,
	appointments *query.AppointmentQueries,
	session *SessionService,
	opener providers.WindowOpener,
	notifier providers.Notifier,
	cfg config.TeleConfig,
	logger zerolog.Logger,
) *TeleConsultService {
	return &TeleConsultService{
		sessions:     sessions,
		appointments: appointments,
		session:      session,
		opener:       opener,
		notifier:     notifier,
		cfg:          cfg,
		logger:       logger.With().Str("component", "teleconsult").Logger(),
	}
}

// Controller loads the appointment and its session and returns a controller
// acting with the signed-in operator's role.
func (s *TeleConsultService) Controller(ctx context.Context, appointmentID int64) (*TeleConsultController, error) {
	c := &TeleConsultController{
		appointmentID: appointmentID,
		role:          s.session.Role(ctx),
		sessions:      s.sessions,
		appointments:  s.appointments,
		opener:        s.opener,
		notifier:      s.notifier,
		cfg:           s.cfg,
		logger:        s.logger.With().Int64("appointment_id", appointmentID).Logger(),
		now:           time.Now,
	}
	if err := c.Load(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// TeleSnapshot is a copy of the controller's view
type TeleSnapshot struct {
	State          TeleState
	Appointment    *entities.Appointment
	Session        *entities.TeleSession
	LastReconciled time.Time
}

// TeleConsultController drives one appointment's video session. State only
// changes when a server response arrives.
type TeleConsultController struct {
	appointmentID int64
	role          entities.RoleName
	sessions      *query.TeleSessionQueries
	appointments  *query.AppointmentQueries
	opener        providers.WindowOpener
	notifier      providers.Notifier
	cfg           config.TeleConfig
	logger        zerolog.Logger
	now           func() time.Time

	mu             sync.Mutex
	busy           bool
	appointment    *entities.Appointment
	session        *entities.TeleSession
	lastReconciled time.Time
}

// Load fetches the appointment and the session bound to it
func (c *TeleConsultController) Load(ctx context.Context) error {
	appt, err := c.appointments.Get(ctx, c.appointmentID)
	if err != nil {
		return err
	}
	if !appt.IsTele() {
		return apperrors.NewValidationError("Appointment is not a tele-consultation")
	}
	ts, err := c.sessions.ByAppointment(ctx, c.appointmentID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.appointment = appt
	c.applySession(ts)
	c.lastReconciled = c.now()
	return nil
}

// Refresh drops the cached session and appointment and loads them again, for
// when another operator may have changed them.
func (c *TeleConsultController) Refresh(ctx context.Context) error {
	if err := c.sessions.Invalidate(ctx, c.appointmentID); err != nil {
		c.logger.Warn().Err(err).Msg("cache invalidation failed")
	}
	return c.Load(ctx)
}

// State derives the lifecycle state from the latest snapshots
func (c *TeleConsultController) State() TeleState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state()
}

func (c *TeleConsultController) state() TeleState {
	if c.appointment != nil && c.appointment.Status.IsTerminal() {
		return TeleStateTerminal
	}
	if c.session == nil {
		return TeleStateNoSession
	}
	switch {
	case c.session.Status.IsTerminal():
		return TeleStateTerminal
	case c.session.Status == entities.TeleSessionStatusActive:
		return TeleStateActive
	default:
		return TeleStatePending
	}
}

// Snapshot returns a copy of the current view
func (c *TeleConsultController) Snapshot() TeleSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := TeleSnapshot{State: c.state(), LastReconciled: c.lastReconciled}
	if c.appointment != nil {
		appt := *c.appointment
		snap.Appointment = &appt
	}
	if c.session != nil {
		ts := *c.session
		snap.Session = &ts
	}
	return snap
}

// Controls mirrors which actions are currently offered
type Controls struct {
	Start, Join, CheckStatus, End bool
}

// Controls reports which actions the operator may take right now
func (c *TeleConsultController) Controls() Controls {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return Controls{}
	}
	st := c.state()
	hasSession := c.session != nil && st != TeleStateTerminal
	return Controls{
		Start:       c.role.CanStartSession() && (st == TeleStateNoSession || st == TeleStatePending),
		Join:        st != TeleStateTerminal,
		CheckStatus: c.role.CanReconcileSession() && c.session != nil,
		End:         c.role.CanReconcileSession() && hasSession,
	}
}

// Start creates the session as host and opens the start URL
func (c *TeleConsultController) Start(ctx context.Context) (*entities.StartSessionResult, error) {
	if !c.role.CanStartSession() {
		return nil, c.fail(ctx, apperrors.NewForbiddenError("Only doctors and admins can start a consultation"), msgStartFailed)
	}
	err := c.begin(func(st TeleState) error {
		if st != TeleStateNoSession && st != TeleStatePending {
			return apperrors.NewValidationError(fmt.Sprintf("Consultation cannot be started while %s", st))
		}
		return nil
	})
	if errors.Is(err, ErrActionInFlight) {
		return nil, err
	}
	if err != nil {
		return nil, c.fail(ctx, err, msgStartFailed)
	}
	defer c.end()

	res, err := c.sessions.Start(ctx, c.appointmentID)
	if apperrors.IsType(err, apperrors.ErrorTypeConflict) {
		c.adoptExisting(ctx)
		return nil, err
	}
	if err != nil {
		return nil, c.fail(ctx, err, msgStartFailed)
	}
	if !validStartArtifact(res) {
		return nil, c.fail(ctx, apperrors.NewProviderError(msgInvalidSession), msgStartFailed)
	}

	target := res.StartURL
	if target == "" {
		target, err = JoinURL(c.cfg, res.Session.Provider, res.Session.MeetingID, res.JoinToken.Token)
		if err != nil {
			return nil, c.fail(ctx, err, msgStartFailed)
		}
	}

	c.mu.Lock()
	ts := *res.Session
	if ts.Status.Rank() < entities.TeleSessionStatusActive.Rank() {
		ts.Status = entities.TeleSessionStatusActive
	}
	c.applySession(&ts)
	if c.appointment != nil && c.appointment.Status.CanTransitionTo(entities.AppointmentStatusInCall) {
		c.appointment.Status = entities.AppointmentStatusInCall
	}
	c.mu.Unlock()

	c.notify(ctx, entities.SeveritySuccess, msgStarted)
	c.open(ctx, target)
	c.logger.Info().Int64("session_id", ts.ID).Msg("consultation started")
	return res, nil
}

// adoptExisting handles a start conflict: someone else already started the
// session, so the server's session replaces ours and no window is opened.
func (c *TeleConsultController) adoptExisting(ctx context.Context) {
	c.notify(ctx, entities.SeverityWarning, msgAlreadyStarted)
	if err := c.Refresh(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("failed to re-read session after conflict")
	}
}

// Join opens the provider join URL. It uses the known session ID, or the
// appointment ID for the server to resolve. Lifecycle state is unchanged.
func (c *TeleConsultController) Join(ctx context.Context) (*entities.JoinSessionResult, error) {
	err := c.begin(func(st TeleState) error {
		if st == TeleStateTerminal {
			return apperrors.NewValidationError("Consultation has ended")
		}
		return nil
	})
	if errors.Is(err, ErrActionInFlight) {
		return nil, err
	}
	if err != nil {
		return nil, c.fail(ctx, err, msgJoinFailed)
	}
	defer c.end()

	c.mu.Lock()
	key := c.appointmentID
	if c.session != nil && c.session.ID != 0 {
		key = c.session.ID
	}
	c.mu.Unlock()

	res, err := c.sessions.Join(ctx, key)
	if err != nil {
		return nil, c.fail(ctx, err, msgJoinFailed)
	}
	if res.Session == nil || res.Session.MeetingID == "" || res.JoinToken == nil || res.JoinToken.Token == "" {
		return nil, c.fail(ctx, apperrors.NewProviderError(msgInvalidSession), msgJoinFailed)
	}

	target, err := JoinURL(c.cfg, res.Session.Provider, res.Session.MeetingID, res.JoinToken.Token)
	if err != nil {
		return nil, c.fail(ctx, err, msgJoinFailed)
	}

	c.mu.Lock()
	if c.session == nil {
		c.applySession(res.Session)
	}
	c.mu.Unlock()

	c.notify(ctx, entities.SeverityInfo, msgJoining)
	c.open(ctx, target)
	return res, nil
}

// CheckStatus reconciles the session with the provider. Repeating it on a
// completed session changes nothing.
func (c *TeleConsultController) CheckStatus(ctx context.Context) (*entities.TeleSession, error) {
	return c.checkStatus(ctx, true)
}

func (c *TeleConsultController) checkStatus(ctx context.Context, notifyErrors bool) (*entities.TeleSession, error) {
	if !c.role.CanReconcileSession() {
		err := apperrors.NewForbiddenError("Only doctors and admins can check session status")
		if notifyErrors {
			return nil, c.fail(ctx, err, msgCheckFailed)
		}
		return nil, err
	}

	c.mu.Lock()
	var current *entities.TeleSession
	if c.session != nil {
		cp := *c.session
		current = &cp
	}
	c.mu.Unlock()
	if current == nil {
		err := apperrors.NewValidationError("No consultation session to check")
		if notifyErrors {
			return nil, c.fail(ctx, err, msgCheckFailed)
		}
		return nil, err
	}

	if err := c.begin(nil); err != nil {
		return nil, err
	}
	defer c.end()

	merged, err := c.sessions.CheckStatus(ctx, current)
	if err != nil {
		if notifyErrors {
			return nil, c.fail(ctx, err, msgCheckFailed)
		}
		return nil, err
	}

	c.mu.Lock()
	c.applySession(merged)
	c.lastReconciled = c.now()
	terminal := c.session.Status.IsTerminal()
	c.mu.Unlock()

	if terminal {
		c.refreshAppointment(ctx)
	}
	return merged, nil
}

// End completes the session server-side
func (c *TeleConsultController) End(ctx context.Context) (*entities.TeleSession, error) {
	if !c.role.CanReconcileSession() {
		return nil, c.fail(ctx, apperrors.NewForbiddenError("Only doctors and admins can end a consultation"), msgEndFailed)
	}
	c.mu.Lock()
	var sessionID int64
	if c.session != nil {
		sessionID = c.session.ID
	}
	c.mu.Unlock()
	if sessionID == 0 {
		return nil, c.fail(ctx, apperrors.NewValidationError("No consultation session to end"), msgEndFailed)
	}

	if err := c.begin(nil); err != nil {
		return nil, err
	}
	defer c.end()

	ts, err := c.sessions.End(ctx, sessionID, c.appointmentID)
	if err != nil {
		return nil, c.fail(ctx, err, msgEndFailed)
	}

	c.mu.Lock()
	c.applySession(ts)
	c.lastReconciled = c.now()
	c.mu.Unlock()

	c.refreshAppointment(ctx)
	c.notify(ctx, entities.SeveritySuccess, msgEnded)
	return ts, nil
}

// LastReconciled is when the session was last confirmed by the server
func (c *TeleConsultController) LastReconciled() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastReconciled
}

func (c *TeleConsultController) refreshAppointment(ctx context.Context) {
	appt, err := c.appointments.Get(ctx, c.appointmentID)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to refresh appointment")
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.appointment == nil || appt.Status.IsTerminal() || !c.appointment.Status.IsTerminal() {
		c.appointment = appt
	}
}

// applySession must be called with c.mu held. A snapshot of the same session
// that ranks below the current status is ignored, a terminal status is kept
// while the snapshot's timestamps merge, and a different session replaces the
// current one.
func (c *TeleConsultController) applySession(ts *entities.TeleSession) {
	if ts == nil {
		return
	}
	if c.session != nil && c.session.ID == ts.ID {
		if ts.Status.Rank() < c.session.Status.Rank() && !c.session.Status.IsTerminal() {
			c.logger.Debug().Str("current", string(c.session.Status)).Str("stale", string(ts.Status)).Msg("ignoring stale session snapshot")
			return
		}
		c.session = c.session.Reconcile(ts)
		return
	}
	cp := *ts
	c.session = &cp
}

// begin marks the controller busy. allowed, when set, is checked against the
// state under the same lock, so two concurrent actions cannot both pass it.
func (c *TeleConsultController) begin(allowed func(TeleState) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return ErrActionInFlight
	}
	if allowed != nil {
		if err := allowed(c.state()); err != nil {
			return err
		}
	}
	c.busy = true
	return nil
}

func (c *TeleConsultController) end() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

func (c *TeleConsultController) fail(ctx context.Context, err error, fallback string) error {
	c.notify(ctx, entities.SeverityError, apperrors.UserMessage(err, fallback))
	c.logger.Warn().Err(err).Msg(fallback)
	return err
}

func (c *TeleConsultController) notify(ctx context.Context, severity entities.Severity, msg string) {
	if c.notifier != nil {
		c.notifier.Notify(ctx, entities.Toast{Severity: severity, Message: msg})
	}
}

// open hands target to the opener. A blocked or failed open is a warning:
// the session already exists server-side.
func (c *TeleConsultController) open(ctx context.Context, target string) {
	w, err := c.opener.Open(ctx, target)
	if err != nil || w == nil || w.Closed() {
		if err != nil {
			c.logger.Warn().Err(err).Msg("failed to open session window")
		}
		c.notify(ctx, entities.SeverityWarning, msgPopupBlocked)
	}
}

func validStartArtifact(res *entities.StartSessionResult) bool {
	if res == nil || res.Session == nil {
		return false
	}
	if res.StartURL != "" {
		return true
	}
	return res.Session.MeetingID != "" && res.JoinToken != nil && res.JoinToken.Token != ""
}

// JoinURL builds the provider URL a participant opens to enter the call
func JoinURL(cfg config.TeleConfig, provider entities.VideoProvider, meetingID, token string) (string, error) {
	if meetingID == "" {
		return "", apperrors.NewProviderError(msgInvalidSession)
	}
	switch provider {
	case entities.VideoProviderZoom, "":
		if token == "" {
			return "", apperrors.NewProviderError(msgInvalidSession)
		}
		return fmt.Sprintf("%s/wc/join/%s?pwd=%s", cfg.ZoomJoinBaseURL, url.PathEscape(meetingID), url.QueryEscape(token)), nil
	case entities.VideoProviderGoogleMeet:
		return fmt.Sprintf("%s/%s", cfg.MeetBaseURL, url.PathEscape(meetingID)), nil
	}
	return "", apperrors.NewProviderError(fmt.Sprintf("Unsupported video provider %q", provider))
}

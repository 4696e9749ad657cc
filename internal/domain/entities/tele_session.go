package entities

import (
	"encoding/json"
	"time"
)

// VideoProvider identifies the third-party video host
type VideoProvider string

const (
	VideoProviderZoom       VideoProvider = "zoom"
	VideoProviderGoogleMeet VideoProvider = "google_meet"
)

// TeleSessionStatus is the session's own small state machine
type TeleSessionStatus string

const (
	TeleSessionStatusPending   TeleSessionStatus = "pending"
	TeleSessionStatusActive    TeleSessionStatus = "active"
	TeleSessionStatusCompleted TeleSessionStatus = "completed"
	TeleSessionStatusCancelled TeleSessionStatus = "cancelled"
)

// Rank orders statuses so regressions can be detected. Unknown statuses rank -1.
func (s TeleSessionStatus) Rank() int {
	switch s {
	case TeleSessionStatusPending:
		return 0
	case TeleSessionStatusActive:
		return 1
	case TeleSessionStatusCompleted, TeleSessionStatusCancelled:
		return 2
	}
	return -1
}

// IsTerminal reports whether the session has ended
func (s TeleSessionStatus) IsTerminal() bool {
	return s == TeleSessionStatusCompleted || s == TeleSessionStatusCancelled
}

// CanBecome reports whether a snapshot carrying next may replace s. Equal
// statuses are accepted so that a repeated snapshot still merges.
func (s TeleSessionStatus) CanBecome(next TeleSessionStatus) bool {
	if s.IsTerminal() {
		return next == s
	}
	return next.Rank() >= s.Rank()
}

// UnmarshalJSON accepts the admin endpoints' appointment-flavoured values
// (scheduled, in_call) as aliases of pending and active.
func (s *TeleSessionStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw {
	case "scheduled":
		*s = TeleSessionStatusPending
	case "in_call":
		*s = TeleSessionStatusActive
	default:
		*s = TeleSessionStatus(raw)
	}
	return nil
}

// TeleSession is one video-call session bound 1:1 to a tele appointment
type TeleSession struct {
	ID                     int64             `json:"id"`
	AppointmentID          int64             `json:"appointment_id"`
	Provider               VideoProvider     `json:"provider"`
	MeetingID              string            `json:"meeting_id,omitempty"`
	StartTime              *time.Time        `json:"start_time,omitempty"`
	EndTime                *time.Time        `json:"end_time,omitempty"`
	DurationMinutes        *int              `json:"duration_minutes,omitempty"`
	Status                 TeleSessionStatus `json:"status"`
	DoctorName             string            `json:"doctor_name,omitempty"`
	PatientName            string            `json:"patient_name,omitempty"`
	BranchName             string            `json:"branch_name,omitempty"`
	AppointmentScheduledAt *time.Time        `json:"appointment_scheduled_at,omitempty"`
}

// Reconcile merges a status-check result into the session. Status never
// regresses, a terminal status is final, and identity fields are never
// overwritten once known. Timestamps and duration always merge.
func (s *TeleSession) Reconcile(update *TeleSession) *TeleSession {
	if update == nil {
		return s
	}
	if s == nil {
		cp := *update
		return &cp
	}

	merged := *s
	if s.Status.CanBecome(update.Status) {
		merged.Status = update.Status
	}
	if merged.ID == 0 {
		merged.ID = update.ID
	}
	if merged.AppointmentID == 0 {
		merged.AppointmentID = update.AppointmentID
	}
	if merged.Provider == "" {
		merged.Provider = update.Provider
	}
	if merged.MeetingID == "" {
		merged.MeetingID = update.MeetingID
	}
	if update.StartTime != nil {
		merged.StartTime = update.StartTime
	}
	if update.EndTime != nil {
		merged.EndTime = update.EndTime
	}
	if update.DurationMinutes != nil {
		merged.DurationMinutes = update.DurationMinutes
	}
	return &merged
}

// Duration returns the observed call length, if both ends are known
func (s *TeleSession) Duration() (time.Duration, bool) {
	if s.StartTime == nil || s.EndTime == nil {
		return 0, false
	}
	return s.EndTime.Sub(*s.StartTime), true
}

// JoinToken is a short-lived provider credential for entering a call
type JoinToken struct {
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// StartSessionRequest creates a session for an appointment
type StartSessionRequest struct {
	AppointmentID int64 `json:"appointment_id"`
}

// StartSessionResult is the start artifact returned to the host
type StartSessionResult struct {
	Session   *TeleSession `json:"session"`
	StartURL  string       `json:"start_url,omitempty"`
	JoinToken *JoinToken   `json:"join_token,omitempty"`
}

// JoinSessionResult carries the join token for a participant
type JoinSessionResult struct {
	Session   *TeleSession `json:"session"`
	JoinToken *JoinToken   `json:"join_token"`
}

// TeleSessionFilter narrows the admin session listing
type TeleSessionFilter struct {
	Skip     *int              `json:"skip,omitempty"`
	Limit    *int              `json:"limit,omitempty"`
	BranchID int64             `json:"branch_id,omitempty"`
	DoctorID int64             `json:"doctor_id,omitempty"`
	Status   AppointmentStatus `json:"status,omitempty"`
}

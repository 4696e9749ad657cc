package fakebackend

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
)

// SeedSession binds a session in the given status to an appointment
func (s *Server) SeedSession(appointmentID int64, status entities.TeleSessionStatus) *entities.TeleSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := &entities.TeleSession{
		ID:            s.id(),
		AppointmentID: appointmentID,
		Provider:      entities.VideoProviderZoom,
		Status:        status,
	}
	ts.MeetingID = fmt.Sprintf("mtg-%d", ts.ID)
	s.sessions[ts.ID] = ts
	s.sessionByAppt[appointmentID] = ts.ID
	cp := *ts
	return &cp
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	info, _ := s.authorize(r)
	if !entities.ParseRoleName(info.Role).CanStartSession() {
		detail(w, http.StatusForbidden, "Only doctors and admins can start a consultation")
		return
	}
	var req entities.StartSessionRequest
	if err := decode(r, &req); err != nil {
		detail(w, http.StatusUnprocessableEntity, "appointment_id is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	appt, ok := s.appointments[req.AppointmentID]
	if !ok {
		detail(w, http.StatusNotFound, "Appointment not found")
		return
	}
	if appt.Type != entities.AppointmentTypeTele {
		detail(w, http.StatusBadRequest, "Appointment is not a tele-consultation")
		return
	}
	if appt.Status.IsTerminal() {
		detail(w, http.StatusBadRequest, "Appointment is %s", appt.Status)
		return
	}

	var ts *entities.TeleSession
	if id, exists := s.sessionByAppt[appt.ID]; exists {
		ts = s.sessions[id]
		if ts.Status != entities.TeleSessionStatusPending {
			detail(w, http.StatusConflict, "Tele-session already started for this appointment")
			return
		}
	} else {
		ts = &entities.TeleSession{ID: s.id(), AppointmentID: appt.ID, Provider: entities.VideoProviderZoom}
		ts.MeetingID = fmt.Sprintf("mtg-%d", ts.ID)
		s.sessions[ts.ID] = ts
		s.sessionByAppt[appt.ID] = ts.ID
	}

	now := s.now()
	ts.Status = entities.TeleSessionStatusActive
	ts.StartTime = &now
	appt.Status = entities.AppointmentStatusInCall
	s.audit(r, "tele_session.start", "tele_session", ts.ID)

	cp := *ts
	if s.bareStart {
		writeJSON(w, http.StatusOK, entities.StartSessionResult{Session: &cp})
		return
	}
	writeJSON(w, http.StatusOK, entities.StartSessionResult{
		Session:   &cp,
		StartURL:  fmt.Sprintf("https://zoom.us/s/%s?zak=host-%d", ts.MeetingID, ts.ID),
		JoinToken: s.joinToken(ts),
	})
}

func (s *Server) joinSession(w http.ResponseWriter, r *http.Request) {
	key, _ := pathID(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()

	ts, ok := s.sessions[key]
	if !ok {
		if id, byAppt := s.sessionByAppt[key]; byAppt {
			ts, ok = s.sessions[id]
		}
	}
	if !ok {
		detail(w, http.StatusNotFound, "Tele-session not found")
		return
	}
	if ts.Status.IsTerminal() {
		detail(w, http.StatusBadRequest, "Tele-session has ended")
		return
	}
	cp := *ts
	writeJSON(w, http.StatusOK, entities.JoinSessionResult{Session: &cp, JoinToken: s.joinToken(ts)})
}

func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	ts, ok := s.sessions[id]
	if !ok {
		detail(w, http.StatusNotFound, "Tele-session not found")
		return
	}
	if !ts.Status.IsTerminal() {
		end := s.now()
		ts.Status = entities.TeleSessionStatusCompleted
		ts.EndTime = &end
	}
	s.completeAppointment(ts)
	cp := *ts
	writeJSON(w, http.StatusOK, &cp)
}

func (s *Server) checkSessionStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	ts, ok := s.sessions[id]
	if !ok {
		detail(w, http.StatusNotFound, "Tele-session not found")
		return
	}
	s.completeAppointment(ts)
	cp := *ts
	writeJSON(w, http.StatusOK, &cp)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	ts, ok := s.sessions[id]
	if !ok {
		detail(w, http.StatusNotFound, "Tele-session not found")
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

func (s *Server) sessionByAppointment(w http.ResponseWriter, r *http.Request) {
	apptID, _ := pathID(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.sessionByAppt[apptID]
	if !ok {
		s.noSession(w)
		return
	}
	writeJSON(w, http.StatusOK, s.sessions[id])
}

// adminSessionByAppointment returns the session with the appointment's
// schedule and the doctor and patient names filled in
func (s *Server) adminSessionByAppointment(w http.ResponseWriter, r *http.Request) {
	apptID, _ := pathID(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.sessionByAppt[apptID]
	if !ok {
		s.noSession(w)
		return
	}
	cp := *s.sessions[id]
	if appt, ok := s.appointments[apptID]; ok {
		at := appt.ScheduledAt
		cp.AppointmentScheduledAt = &at
		if d, ok := s.doctors[appt.DoctorID]; ok {
			cp.DoctorName = d.Name
			cp.BranchName = d.BranchName
		}
		if p, ok := s.patients[appt.PatientID]; ok {
			cp.PatientName = p.Name
		}
	}
	writeJSON(w, http.StatusOK, &cp)
}

// noSession must be called with s.mu held
func (s *Server) noSession(w http.ResponseWriter) {
	if s.missingSessionNotFound {
		detail(w, http.StatusNotFound, "Tele-session not found")
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) adminListSessions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*entities.TeleSession{}
	for _, ts := range s.sessions {
		appt := s.appointments[ts.AppointmentID]
		if v := q.Get("doctor_id"); v != "" && (appt == nil || strconv.FormatInt(appt.DoctorID, 10) != v) {
			continue
		}
		cp := *ts
		if appt != nil {
			at := appt.ScheduledAt
			cp.AppointmentScheduledAt = &at
		}
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

// joinToken must be called with s.mu held
func (s *Server) joinToken(ts *entities.TeleSession) *entities.JoinToken {
	expires := s.now().Add(15 * time.Minute)
	s.nextID++
	return &entities.JoinToken{Token: fmt.Sprintf("jt-%d-%d", ts.ID, s.nextID), ExpiresAt: &expires}
}

// completeAppointment must be called with s.mu held
func (s *Server) completeAppointment(ts *entities.TeleSession) {
	if ts.Status != entities.TeleSessionStatusCompleted {
		return
	}
	if appt, ok := s.appointments[ts.AppointmentID]; ok && appt.Status.CanTransitionTo(entities.AppointmentStatusCompleted) {
		appt.Status = entities.AppointmentStatusCompleted
	}
	if ts.StartTime != nil && ts.EndTime != nil && ts.DurationMinutes == nil {
		d := int(ts.EndTime.Sub(*ts.StartTime).Minutes())
		ts.DurationMinutes = &d
	}
}

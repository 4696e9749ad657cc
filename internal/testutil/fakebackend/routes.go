package fakebackend

import (
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
)

func (s *Server) routes(mux *http.ServeMux) {
	s.handle(mux, http.MethodPost, "/auth/login", true, s.login)
	s.handle(mux, http.MethodGet, "/health", true, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.handle(mux, http.MethodGet, "/auth/me", false, s.me)

	s.handle(mux, http.MethodGet, "/appointments/", false, s.listAppointments)
	s.handle(mux, http.MethodPost, "/appointments/", false, s.createAppointment)
	s.handle(mux, http.MethodGet, "/appointments/{id}", false, s.getAppointment)
	s.handle(mux, http.MethodPost, "/appointments/{id}/reschedule", false, s.rescheduleAppointment)
	s.handle(mux, http.MethodPost, "/appointments/{id}/cancel", false, s.cancelAppointment)

	s.handle(mux, http.MethodGet, "/admin/patients/", false, s.listPatients)
	s.handle(mux, http.MethodPost, "/admin/patients/", false, s.createPatient)
	s.handle(mux, http.MethodGet, "/admin/patients/{id}", false, s.getPatient)
	s.handle(mux, http.MethodPatch, "/admin/patients/{id}", false, s.updatePatient)
	s.handle(mux, http.MethodGet, "/patients/{id}/timeline", false, s.patientTimeline)

	s.handle(mux, http.MethodGet, "/doctors/", false, s.listDoctors)
	s.handle(mux, http.MethodGet, "/doctors/{id}", false, s.getDoctor)
	s.handle(mux, http.MethodPatch, "/doctors/{id}/status", false, s.setDoctorStatus)

	s.handle(mux, http.MethodGet, "/branches/", false, s.listBranches)
	s.handle(mux, http.MethodPost, "/branches/{id}/activate", false, s.branchActive(true))
	s.handle(mux, http.MethodPost, "/branches/{id}/deactivate", false, s.branchActive(false))

	s.handle(mux, http.MethodGet, "/users/", false, s.listUsers)
	s.handle(mux, http.MethodPost, "/users/", false, s.createUser)
	s.handle(mux, http.MethodPost, "/users/{id}/activate", false, s.setUserActive)

	s.handle(mux, http.MethodGet, "/roles/", false, func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		writeJSON(w, http.StatusOK, s.roles)
	})

	s.handle(mux, http.MethodPost, "/tele-sessions/start", false, s.startSession)
	s.handle(mux, http.MethodPost, "/tele-sessions/{id}/join", false, s.joinSession)
	s.handle(mux, http.MethodPost, "/tele-sessions/{id}/end", false, s.endSession)
	s.handle(mux, http.MethodPost, "/tele-sessions/{id}/check-status", false, s.checkSessionStatus)
	s.handle(mux, http.MethodGet, "/tele-sessions/{id}", false, s.getSession)
	s.handle(mux, http.MethodGet, "/tele-sessions/appointment/{id}", false, s.sessionByAppointment)
	s.handle(mux, http.MethodGet, "/tele-sessions/admin/appointment/{id}", false, s.adminSessionByAppointment)
	s.handle(mux, http.MethodGet, "/tele-sessions/admin/list", false, s.adminListSessions)

	s.handle(mux, http.MethodGet, "/migrated-records/patient/{id}", false, s.listRecords)
	s.handle(mux, http.MethodPost, "/migrated-records/", false, s.uploadRecord)
	s.handle(mux, http.MethodPost, "/migrated-records/upload-url", false, s.recordUploadURL)

	s.handle(mux, http.MethodGet, "/audit-logs/", false, s.listAuditLogs)
	s.handle(mux, http.MethodGet, "/audit-logs/actions/distinct", false, s.distinctAudit(func(l *entities.AuditLog) string { return l.Action }))
	s.handle(mux, http.MethodGet, "/audit-logs/entity-types/distinct", false, s.distinctAudit(func(l *entities.AuditLog) string { return l.EntityType }))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		detail(w, http.StatusBadRequest, "invalid form")
		return
	}
	email, password := r.PostForm.Get("username"), r.PostForm.Get("password")

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[email]
	if !ok || acct.password != password {
		detail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	token := "token-" + email
	s.tokens[token] = acct.info
	writeJSON(w, http.StatusOK, entities.LoginResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	info, _ := s.authorize(r)
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) listAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []*entities.Appointment{}
	for _, a := range s.appointments {
		if v := q.Get("status"); v != "" && string(a.Status) != v {
			continue
		}
		if v := q.Get("doctor_id"); v != "" && strconv.FormatInt(a.DoctorID, 10) != v {
			continue
		}
		if v := q.Get("patient_id"); v != "" && strconv.FormatInt(a.PatientID, 10) != v {
			continue
		}
		if v := q.Get("date"); v != "" && a.ScheduledAt.Format("2006-01-02") != v {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createAppointment(w http.ResponseWriter, r *http.Request) {
	var req entities.CreateAppointmentRequest
	if err := decode(r, &req); err != nil {
		detail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients[req.PatientID]; !ok {
		detail(w, http.StatusNotFound, "Patient not found")
		return
	}
	a := &entities.Appointment{
		ID:          s.id(),
		PatientID:   req.PatientID,
		DoctorID:    req.DoctorID,
		BranchID:    req.BranchID,
		Type:        req.Type,
		ScheduledAt: req.ScheduledAt,
		Status:      entities.AppointmentStatusScheduled,
		Notes:       req.Notes,
		CreatedAt:   s.now(),
	}
	s.appointments[a.ID] = a
	s.audit(r, "appointment.create", "appointment", a.ID)
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) getAppointment(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok {
		detail(w, http.StatusNotFound, "Appointment not found")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) rescheduleAppointment(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	var req struct {
		ScheduledAt *time.Time `json:"scheduled_at"`
	}
	if err := decode(r, &req); err != nil || req.ScheduledAt == nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"detail": []map[string]interface{}{{"loc": []string{"body", "scheduled_at"}, "msg": "field required"}},
		})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok {
		detail(w, http.StatusNotFound, "Appointment not found")
		return
	}
	if a.Status != entities.AppointmentStatusScheduled {
		detail(w, http.StatusBadRequest, "Appointment is not in scheduled state")
		return
	}
	a.ScheduledAt = *req.ScheduledAt
	s.audit(r, "appointment.reschedule", "appointment", a.ID)
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) cancelAppointment(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	body, _ := io.ReadAll(r.Body)
	if strings.Contains(string(body), "scheduled_at") {
		detail(w, http.StatusBadRequest, "Cancellation does not accept a schedule")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok {
		detail(w, http.StatusNotFound, "Appointment not found")
		return
	}
	if a.Status != entities.AppointmentStatusScheduled {
		detail(w, http.StatusBadRequest, "Appointment is not in scheduled state")
		return
	}
	a.Status = entities.AppointmentStatusCancelled
	s.audit(r, "appointment.cancel", "appointment", a.ID)
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) listPatients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	skip, _ := strconv.Atoi(q.Get("skip"))
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit <= 0 {
		limit = 100
	}
	search := strings.ToLower(q.Get("search"))

	s.mu.Lock()
	defer s.mu.Unlock()
	matched := []entities.Patient{}
	for _, p := range s.patients {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		matched = append(matched, *p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	page := entities.PatientPage{Patients: []entities.Patient{}, Total: len(matched), Skip: skip, Limit: limit}
	if skip < len(matched) {
		end := skip + limit
		if end > len(matched) {
			end = len(matched)
		}
		page.Patients = matched[skip:end]
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) createPatient(w http.ResponseWriter, r *http.Request) {
	var req entities.CreatePatientRequest
	if err := decode(r, &req); err != nil || req.Name == "" {
		detail(w, http.StatusUnprocessableEntity, "name is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.patients {
		if req.Email != "" && p.Email == req.Email {
			detail(w, http.StatusBadRequest, "Patient with this email already exists")
			return
		}
	}
	p := &entities.Patient{
		ID:          s.id(),
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Gender:      req.Gender,
		DateOfBirth: req.DateOfBirth,
		CreatedAt:   s.now(),
	}
	p.UpdatedAt = p.CreatedAt
	s.patients[p.ID] = p
	s.audit(r, "patient.create", "patient", p.ID)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) getPatient(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patients[id]
	if !ok {
		detail(w, http.StatusNotFound, "Patient not found")
		return
	}
	out := entities.PatientDetail{Patient: *p}
	for _, a := range s.sortedAppointments() {
		if a.PatientID == id {
			out.Appointments = append(out.Appointments, entities.PatientAppointment{
				ID: a.ID, Type: a.Type, ScheduledAt: a.ScheduledAt, Status: a.Status, CreatedAt: a.CreatedAt,
			})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) updatePatient(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	var req entities.UpdatePatientRequest
	if err := decode(r, &req); err != nil {
		detail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.patients[id]
	if !ok {
		detail(w, http.StatusNotFound, "Patient not found")
		return
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}
	if req.Email != nil {
		p.Email = *req.Email
	}
	if req.Gender != nil {
		p.Gender = *req.Gender
	}
	if req.DateOfBirth != nil {
		p.DateOfBirth = *req.DateOfBirth
	}
	p.UpdatedAt = s.now()
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) patientTimeline(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients[id]; !ok {
		detail(w, http.StatusNotFound, "Patient not found")
		return
	}
	timeline := entities.PatientTimeline{PatientID: id, Events: []entities.TimelineEvent{}}
	for _, a := range s.sortedAppointments() {
		if a.PatientID != id {
			continue
		}
		timeline.Events = append(timeline.Events, entities.TimelineEvent{
			Type:        entities.TimelineEventAppointment,
			Appointment: &entities.PatientAppointment{ID: a.ID, Type: a.Type, ScheduledAt: a.ScheduledAt, Status: a.Status, CreatedAt: a.CreatedAt},
		})
	}
	for _, rec := range s.records[id] {
		timeline.Events = append(timeline.Events, entities.TimelineEvent{Type: entities.TimelineEventMigratedRecord, MigratedRecord: rec})
	}
	writeJSON(w, http.StatusOK, timeline)
}

func (s *Server) listDoctors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*entities.Doctor{}
	for _, d := range s.doctors {
		if v := q.Get("is_active"); v != "" && strconv.FormatBool(d.IsActive) != v {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getDoctor(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.doctors[id]
	if !ok {
		detail(w, http.StatusNotFound, "Doctor not found")
		return
	}
	writeJSON(w, http.StatusOK, entities.DoctorDetail{Doctor: *d})
}

func (s *Server) setDoctorStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	var req entities.DoctorStatusUpdate
	if err := decode(r, &req); err != nil {
		detail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.doctors[id]
	if !ok {
		detail(w, http.StatusNotFound, "Doctor not found")
		return
	}
	d.IsActive = req.IsActive
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) listBranches(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*entities.Branch{}
	for _, b := range s.branches {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) branchActive(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := pathID(r, "id")
		s.mu.Lock()
		defer s.mu.Unlock()
		b, ok := s.branches[id]
		if !ok {
			detail(w, http.StatusNotFound, "Branch not found")
			return
		}
		b.IsActive = active
		writeJSON(w, http.StatusOK, b)
	}
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*entities.User{}
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req entities.CreateUserRequest
	if err := decode(r, &req); err != nil {
		detail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == req.Email {
			detail(w, http.StatusBadRequest, "Email already registered")
			return
		}
	}
	var role *entities.Role
	for _, candidate := range s.roles {
		if candidate.ID == req.RoleID {
			role = candidate
		}
	}
	if role == nil {
		detail(w, http.StatusBadRequest, "Role not found")
		return
	}
	u := &entities.User{
		ID:        s.id(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		RoleID:    role.ID,
		RoleName:  role.Name,
		IsActive:  true,
		CreatedAt: s.now(),
	}
	s.users[u.ID] = u
	s.audit(r, "user.create", "user", u.ID)
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) setUserActive(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := decode(r, &req); err != nil {
		detail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		detail(w, http.StatusNotFound, "User not found")
		return
	}
	u.IsActive = req.IsActive
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) listRecords(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.records[id]
	if out == nil {
		out = []*entities.MigratedRecord{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) uploadRecord(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		detail(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	patientID, err := strconv.ParseInt(r.FormValue("patient_id"), 10, 64)
	if err != nil {
		detail(w, http.StatusUnprocessableEntity, "patient_id is required")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		detail(w, http.StatusUnprocessableEntity, "file is required")
		return
	}
	_ = file.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients[patientID]; !ok {
		detail(w, http.StatusNotFound, "Patient not found")
		return
	}
	rec := &entities.MigratedRecord{
		ID:         s.id(),
		PatientID:  patientID,
		FileName:   header.Filename,
		Source:     entities.RecordSource(r.FormValue("source")),
		Notes:      r.FormValue("notes"),
		UploadedAt: s.now(),
	}
	rec.FileURL = "https://files.clinic.test/records/" + strconv.FormatInt(rec.ID, 10) + "/" + header.Filename
	s.records[patientID] = append(s.records[patientID], rec)
	s.audit(r, "migrated_record.upload", "migrated_record", rec.ID)
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) recordUploadURL(w http.ResponseWriter, r *http.Request) {
	var req entities.UploadURLRequest
	if err := decode(r, &req); err != nil || req.FileName == "" {
		detail(w, http.StatusUnprocessableEntity, "file_name is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patients[req.PatientID]; !ok {
		detail(w, http.StatusNotFound, "Patient not found")
		return
	}
	key := strconv.FormatInt(s.id(), 10) + "/" + req.FileName
	expires := s.now().Add(15 * time.Minute)
	writeJSON(w, http.StatusOK, entities.UploadURL{
		UploadURL: "https://uploads.clinic.test/" + key + "?signature=fake",
		FileURL:   "https://files.clinic.test/records/" + key,
		ExpiresAt: &expires,
	})
}

func (s *Server) listAuditLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.mu.Lock()
	defer s.mu.Unlock()
	items := []entities.AuditLog{}
	for _, l := range s.auditLogs {
		if v := q.Get("action"); v != "" && l.Action != v {
			continue
		}
		if v := q.Get("entity_type"); v != "" && l.EntityType != v {
			continue
		}
		items = append(items, *l)
	}
	writeJSON(w, http.StatusOK, entities.AuditLogPage{Items: items, Total: len(items), Limit: 100})
}

func (s *Server) distinctAudit(field func(*entities.AuditLog) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		seen := map[string]bool{}
		out := []string{}
		for _, l := range s.auditLogs {
			v := field(l)
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
		sort.Strings(out)
		writeJSON(w, http.StatusOK, out)
	}
}

// audit must be called with s.mu held
func (s *Server) audit(r *http.Request, action, entityType string, entityID int64) {
	token, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	info := s.tokens[token]
	id := entityID
	s.nextID++
	s.auditLogs = append(s.auditLogs, &entities.AuditLog{
		ID:         s.nextID,
		UserName:   info.FullName,
		UserRole:   info.Role,
		Action:     action,
		EntityType: entityType,
		EntityID:   &id,
		Timestamp:  s.now(),
	})
}

// sortedAppointments must be called with s.mu held
func (s *Server) sortedAppointments() []*entities.Appointment {
	out := make([]*entities.Appointment, 0, len(s.appointments))
	for _, a := range s.appointments {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

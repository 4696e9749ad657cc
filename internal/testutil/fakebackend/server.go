// Package fakebackend is an in-memory stand-in for the clinic REST backend,
// served over httptest for adapter, query and controller tests.
package fakebackend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
)

// APIPrefix is the versioned path the fake serves under
const APIPrefix = "/api/v1"

type account struct {
	password string
	info     entities.UserInfo
}

// Server is a stateful fake of the clinic backend
type Server struct {
	srv *httptest.Server
	now func() time.Time

	mu            sync.Mutex
	nextID        int64
	accounts      map[string]account
	tokens        map[string]entities.UserInfo
	appointments  map[int64]*entities.Appointment
	patients      map[int64]*entities.Patient
	doctors       map[int64]*entities.Doctor
	branches      map[int64]*entities.Branch
	users         map[int64]*entities.User
	roles         []*entities.Role
	sessions      map[int64]*entities.TeleSession
	sessionByAppt map[int64]int64
	records       map[int64][]*entities.MigratedRecord
	auditLogs     []*entities.AuditLog
	hits          map[string]int
	failures      map[string]int

	missingSessionNotFound bool
	bareStart              bool
}

// New starts a fake backend that is closed when the test ends
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		now:           func() time.Time { return time.Now().UTC().Truncate(time.Second) },
		nextID:        100,
		accounts:      map[string]account{},
		tokens:        map[string]entities.UserInfo{},
		appointments:  map[int64]*entities.Appointment{},
		patients:      map[int64]*entities.Patient{},
		doctors:       map[int64]*entities.Doctor{},
		branches:      map[int64]*entities.Branch{},
		users:         map[int64]*entities.User{},
		sessions:      map[int64]*entities.TeleSession{},
		sessionByAppt: map[int64]int64{},
		records:       map[int64][]*entities.MigratedRecord{},
		hits:          map[string]int{},
		failures:      map[string]int{},
		roles: []*entities.Role{
			{ID: 1, Name: string(entities.RoleAdmin)},
			{ID: 2, Name: string(entities.RoleDoctor)},
			{ID: 3, Name: string(entities.RoleReceptionist)},
			{ID: 4, Name: string(entities.RolePatient)},
		},
	}

	mux := http.NewServeMux()
	s.routes(mux)
	s.srv = httptest.NewServer(mux)
	t.Cleanup(s.srv.Close)
	return s
}

// BaseURL is the value to use as API_BASE_URL
func (s *Server) BaseURL() string {
	return s.srv.URL + APIPrefix
}

// AddAccount registers a login and returns a ready token for it
func (s *Server) AddAccount(email, password, fullName string, role entities.RoleName) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	info := entities.UserInfo{Email: email, FullName: fullName, Role: string(role)}
	s.accounts[email] = account{password: password, info: info}
	token := "token-" + email
	s.tokens[token] = info
	return token
}

// RevokeAll invalidates every issued token, as a server-side logout would
func (s *Server) RevokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = map[string]entities.UserInfo{}
}

// Hits returns how many times pattern (for example "GET /appointments/{id}") was served
func (s *Server) Hits(pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[pattern]
}

// FailNext makes the next n requests matching pattern return 500
func (s *Server) FailNext(pattern string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[pattern] = n
}

// MissingSessionNotFound makes session-by-appointment lookups answer 404
// instead of a null body when no session exists
func (s *Server) MissingSessionNotFound() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.missingSessionNotFound = true
}

// BareStart makes session start respond without a start URL or join token
func (s *Server) BareStart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bareStart = true
}

// SeedPatient stores a patient and returns it with an ID
func (s *Server) SeedPatient(p entities.Patient) *entities.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	s.patients[p.ID] = &p
	return &p
}

// SeedDoctor stores a doctor and returns it with an ID
func (s *Server) SeedDoctor(d entities.Doctor) *entities.Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ID = s.id()
	s.doctors[d.ID] = &d
	return &d
}

// SeedBranch stores a branch and returns it with an ID
func (s *Server) SeedBranch(b entities.Branch) *entities.Branch {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.id()
	s.branches[b.ID] = &b
	return &b
}

// SeedAppointment stores an appointment. Status defaults to scheduled.
func (s *Server) SeedAppointment(a entities.Appointment) *entities.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.id()
	if a.Status == "" {
		a.Status = entities.AppointmentStatusScheduled
	}
	a.CreatedAt = s.now()
	s.appointments[a.ID] = &a
	cp := a
	return &cp
}

// SeedAuditLog appends an audit entry
func (s *Server) SeedAuditLog(l entities.AuditLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = s.id()
	s.auditLogs = append(s.auditLogs, &l)
}

// Appointment returns a copy of the stored appointment
func (s *Server) Appointment(id int64) (entities.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok {
		return entities.Appointment{}, false
	}
	return *a, true
}

// Session returns a copy of the stored tele-session
func (s *Server) Session(id int64) (entities.TeleSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts, ok := s.sessions[id]
	if !ok {
		return entities.TeleSession{}, false
	}
	return *ts, true
}

// EndAtProvider simulates participants ending the call in the provider UI.
// Only a status check reveals it.
func (s *Server) EndAtProvider(sessionID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ts, ok := s.sessions[sessionID]; ok {
		ts.Status = entities.TeleSessionStatusCompleted
		end := s.now()
		ts.EndTime = &end
	}
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

// handle registers h under the API prefix with hit counting, auth and failure injection
func (s *Server) handle(mux *http.ServeMux, method, path string, public bool, h func(w http.ResponseWriter, r *http.Request)) {
	key := method + " " + path
	mux.HandleFunc(method+" "+APIPrefix+path, func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[key]++
		fail := s.failures[key] > 0
		if fail {
			s.failures[key]--
		}
		s.mu.Unlock()

		if fail {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Injected failure"})
			return
		}
		if !public {
			if _, ok := s.authorize(r); !ok {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
				return
			}
		}
		h(w, r)
	})
}

func (s *Server) authorize(r *http.Request) (entities.UserInfo, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return entities.UserInfo{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.tokens[token]
	return info, ok
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func detail(w http.ResponseWriter, status int, format string, args ...interface{}) {
	writeJSON(w, status, map[string]string{"detail": fmt.Sprintf(format, args...)})
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil
}

func decode(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

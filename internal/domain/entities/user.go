package entities

import (
	"strings"
	"time"
)

// RoleName is the closed set of roles the backend issues
type RoleName string

const (
	RoleAdmin        RoleName = "admin"
	RoleDoctor       RoleName = "doctor"
	RoleReceptionist RoleName = "receptionist"
	RolePatient      RoleName = "patient"
)

// ParseRoleName normalises a role claim. Unknown roles map to "" and grant nothing.
func ParseRoleName(raw string) RoleName {
	switch r := RoleName(strings.ToLower(strings.TrimSpace(raw))); r {
	case RoleAdmin, RoleDoctor, RoleReceptionist, RolePatient:
		return r
	}
	return ""
}

// IsAdmin reports whether the role may enter admin-only routes
func (r RoleName) IsAdmin() bool { return r == RoleAdmin }

// CanManageUsers covers user creation, activation and role assignment
func (r RoleName) CanManageUsers() bool { return r == RoleAdmin }

// CanManageBranches covers branch and doctor administration
func (r RoleName) CanManageBranches() bool { return r == RoleAdmin }

// CanViewAuditLogs gates the audit log screens
func (r RoleName) CanViewAuditLogs() bool { return r == RoleAdmin }

// CanStartSession reports whether the role may host a tele-consultation
func (r RoleName) CanStartSession() bool {
	return r == RoleAdmin || r == RoleDoctor
}

// CanReconcileSession reports whether the role may check or end a session
func (r RoleName) CanReconcileSession() bool {
	return r == RoleAdmin || r == RoleDoctor
}

// CanManageAppointments covers booking, rescheduling and cancelling
func (r RoleName) CanManageAppointments() bool {
	return r == RoleAdmin || r == RoleDoctor || r == RoleReceptionist
}

// User is a staff or patient account
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	RoleID    int64     `json:"role_id"`
	RoleName  string    `json:"role_name,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Role is a backend role record
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CreateUserRequest is the payload for creating a non-doctor user
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
	RoleID   int64  `json:"role_id"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// UserInfo is the identity returned by /auth/me
type UserInfo struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// RoleName returns the parsed role of the signed-in user
func (u UserInfo) RoleName() RoleName {
	return ParseRoleName(u.Role)
}

// Credential is the persisted session: bearer token plus identity
type Credential struct {
	Token    string    `json:"token"`
	User     UserInfo  `json:"user"`
	IssuedAt time.Time `json:"issued_at"`
}

// LoginResponse is the OAuth2 password-flow token response
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

package entities

import "time"

// AuditLog is a read-only record of an action a user performed on an entity
type AuditLog struct {
	ID         int64     `json:"id"`
	UserID     *int64    `json:"user_id,omitempty"`
	UserName   string    `json:"user_name,omitempty"`
	UserRole   string    `json:"user_role,omitempty"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   *int64    `json:"entity_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// AuditLogFilter narrows audit log listings
type AuditLogFilter struct {
	Skip       *int   `json:"skip,omitempty"`
	Limit      *int   `json:"limit,omitempty"`
	StartDate  string `json:"start_date,omitempty"`
	EndDate    string `json:"end_date,omitempty"`
	UserID     int64  `json:"user_id,omitempty"`
	Action     string `json:"action,omitempty"`
	EntityType string `json:"entity_type,omitempty"`
}

// AuditLogPage is the paginated envelope returned by the audit log listing
type AuditLogPage struct {
	Items []AuditLog `json:"items"`
	Total int        `json:"total"`
	Skip  int        `json:"skip"`
	Limit int        `json:"limit"`
}

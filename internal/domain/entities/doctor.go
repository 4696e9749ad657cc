package entities

import "time"

// DayOfWeek names a working day
type DayOfWeek string

const (
	Monday    DayOfWeek = "monday"
	Tuesday   DayOfWeek = "tuesday"
	Wednesday DayOfWeek = "wednesday"
	Thursday  DayOfWeek = "thursday"
	Friday    DayOfWeek = "friday"
	Saturday  DayOfWeek = "saturday"
	Sunday    DayOfWeek = "sunday"
)

// BranchRef is the branch reference embedded in doctor payloads
type BranchRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Doctor is a clinician; identity fields come from the linked user
type Doctor struct {
	ID                 int64       `json:"id"`
	UserID             int64       `json:"user_id"`
	Name               string      `json:"name"`
	Email              string      `json:"email,omitempty"`
	Phone              string      `json:"phone,omitempty"`
	Specialization     string      `json:"specialization,omitempty"`
	RegistrationNumber string      `json:"registration_number,omitempty"`
	BranchID           int64       `json:"branch_id,omitempty"`
	BranchName         string      `json:"branch_name,omitempty"`
	Branches           []BranchRef `json:"branches,omitempty"`
	IsActive           bool        `json:"is_active"`
	CreatedAt          *time.Time  `json:"created_at,omitempty"`
	UpdatedAt          *time.Time  `json:"updated_at,omitempty"`
}

// DoctorDetail is a doctor with availability
type DoctorDetail struct {
	Doctor
	Availability *Availability `json:"availability,omitempty"`
}

// Availability describes when a doctor can be booked
type Availability struct {
	ID          int64        `json:"id,omitempty"`
	DoctorID    int64        `json:"doctor_id"`
	WorkingDays []WorkingDay `json:"working_days"`
	TimeSlots   []TimeSlot   `json:"time_slots,omitempty"`
}

// WorkingDay is one weekday's schedule; times are HH:MM
type WorkingDay struct {
	Day       DayOfWeek `json:"day"`
	IsWorking bool      `json:"is_working"`
	StartTime string    `json:"start_time,omitempty"`
	EndTime   string    `json:"end_time,omitempty"`
}

// TimeSlot is a bookable slot on a given date
type TimeSlot struct {
	ID          int64  `json:"id,omitempty"`
	DoctorID    int64  `json:"doctor_id"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
}

// DoctorFilter narrows doctor listings
type DoctorFilter struct {
	BranchID       int64  `json:"branch_id,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	Search         string `json:"search,omitempty"`
	IsActive       *bool  `json:"is_active,omitempty"`
}

// CreateDoctorRequest creates the doctor and its user account together
type CreateDoctorRequest struct {
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	Phone              string  `json:"phone,omitempty"`
	Password           string  `json:"password"`
	Specialization     string  `json:"specialization,omitempty"`
	RegistrationNumber string  `json:"registration_number,omitempty"`
	BranchIDs          []int64 `json:"branch_ids,omitempty"`
}

// UpdateDoctorRequest is a partial update; nil fields are left unchanged
type UpdateDoctorRequest struct {
	Name               *string `json:"name,omitempty"`
	Phone              *string `json:"phone,omitempty"`
	Specialization     *string `json:"specialization,omitempty"`
	RegistrationNumber *string `json:"registration_number,omitempty"`
}

// DoctorStatusUpdate toggles a doctor's active flag
type DoctorStatusUpdate struct {
	IsActive bool `json:"is_active"`
}

// DoctorBranchesUpdate replaces a doctor's branch assignments
type DoctorBranchesUpdate struct {
	BranchIDs []int64 `json:"branch_ids"`
}

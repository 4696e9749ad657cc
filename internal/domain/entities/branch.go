package entities

// Branch is a clinic location
type Branch struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
	IsActive bool   `json:"is_active"`
}

// BranchMember is a user or doctor assigned to a branch
type BranchMember struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id,omitempty"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
}

// BranchDetail is a branch with its assigned staff
type BranchDetail struct {
	Branch
	Users   []BranchMember `json:"users,omitempty"`
	Doctors []BranchMember `json:"doctors,omitempty"`
}

// CreateBranchRequest is the payload for opening a branch
type CreateBranchRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
	IsActive bool   `json:"is_active"`
}

// UpdateBranchRequest is a partial update; nil fields are left unchanged
type UpdateBranchRequest struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
}

// AssignUserRequest attaches a user to a branch
type AssignUserRequest struct {
	UserID int64 `json:"user_id"`
}

// AssignDoctorRequest attaches a doctor to a branch
type AssignDoctorRequest struct {
	DoctorID int64 `json:"doctor_id"`
}

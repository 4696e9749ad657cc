package repositories

import (
	"context"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
)

// DoctorRepository defines the interface for doctor data operations
type DoctorRepository interface {
	List(ctx context.Context, filter entities.DoctorFilter) ([]*entities.Doctor, error)
	GetByID(ctx context.Context, id int64) (*entities.DoctorDetail, error)
	Availability(ctx context.Context, id int64) (*entities.Availability, error)
	Create(ctx context.Context, req *entities.CreateDoctorRequest) (*entities.Doctor, error)
	Update(ctx context.Context, id int64, req *entities.UpdateDoctorRequest) (*entities.Doctor, error)
	SetStatus(ctx context.Context, id int64, active bool) (*entities.Doctor, error)
	SetBranches(ctx context.Context, id int64, branchIDs []int64) (*entities.Doctor, error)
}

// BranchRepository defines the interface for branch data operations
type BranchRepository interface {
	List(ctx context.Context) ([]*entities.Branch, error)
	GetByID(ctx context.Context, id int64) (*entities.BranchDetail, error)
	Create(ctx context.Context, req *entities.CreateBranchRequest) (*entities.Branch, error)
	Update(ctx context.Context, id int64, req *entities.UpdateBranchRequest) (*entities.Branch, error)
	Activate(ctx context.Context, id int64) (*entities.Branch, error)
	Deactivate(ctx context.Context, id int64) (*entities.Branch, error)
	AssignUser(ctx context.Context, id, userID int64) error
	UnassignUser(ctx context.Context, id, userID int64) error
	AssignDoctor(ctx context.Context, id, doctorID int64) error
	UnassignDoctor(ctx context.Context, id, doctorID int64) error
}

package restapi

import (
	"context"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/repositories"
	"github.com/dentalflow/clinicadmin/internal/infrastructure/clients/clinicapi"
)

// BranchAdapter implements BranchRepository over the REST backend
type BranchAdapter struct {
	client *clinicapi.Client
}

// NewBranchAdapter creates a new branch adapter
func NewBranchAdapter(client *clinicapi.Client) repositories.BranchRepository {
	return &BranchAdapter{client: client}
}

func (a *BranchAdapter) List(ctx context.Context) ([]*entities.Branch, error) {
	var out []*entities.Branch
	if err := a.client.Get(ctx, pathBranches, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *BranchAdapter) GetByID(ctx context.Context, id int64) (*entities.BranchDetail, error) {
	var out entities.BranchDetail
	if err := a.client.Get(ctx, branchPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *BranchAdapter) Create(ctx context.Context, req *entities.CreateBranchRequest) (*entities.Branch, error) {
	var out entities.Branch
	if err := a.client.PostJSON(ctx, pathBranches, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *BranchAdapter) Update(ctx context.Context, id int64, req *entities.UpdateBranchRequest) (*entities.Branch, error) {
	var out entities.Branch
	if err := a.client.PatchJSON(ctx, branchPath(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *BranchAdapter) Activate(ctx context.Context, id int64) (*entities.Branch, error) {
	var out entities.Branch
	if err := a.client.PostJSON(ctx, branchActionPath(id, "activate"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *BranchAdapter) Deactivate(ctx context.Context, id int64) (*entities.Branch, error) {
	var out entities.Branch
	if err := a.client.PostJSON(ctx, branchActionPath(id, "deactivate"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *BranchAdapter) AssignUser(ctx context.Context, id, userID int64) error {
	return a.client.PostJSON(ctx, branchActionPath(id, "assign-user"), entities.AssignUserRequest{UserID: userID}, nil)
}

func (a *BranchAdapter) UnassignUser(ctx context.Context, id, userID int64) error {
	return a.client.PostJSON(ctx, branchActionPath(id, "unassign-user"), entities.AssignUserRequest{UserID: userID}, nil)
}

func (a *BranchAdapter) AssignDoctor(ctx context.Context, id, doctorID int64) error {
	return a.client.PostJSON(ctx, branchActionPath(id, "assign-doctor"), entities.AssignDoctorRequest{DoctorID: doctorID}, nil)
}

func (a *BranchAdapter) UnassignDoctor(ctx context.Context, id, doctorID int64) error {
	return a.client.PostJSON(ctx, branchActionPath(id, "unassign-doctor"), entities.AssignDoctorRequest{DoctorID: doctorID}, nil)
}

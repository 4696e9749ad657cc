package restapi

import (
	"context"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/repositories"
	"github.com/dentalflow/clinicadmin/internal/infrastructure/clients/clinicapi"
)

// DoctorAdapter implements DoctorRepository over the REST backend
type DoctorAdapter struct {
	client *clinicapi.Client
}

// NewDoctorAdapter creates a new doctor adapter
func NewDoctorAdapter(client *clinicapi.Client) repositories.DoctorRepository {
	return &DoctorAdapter{client: client}
}

func (a *DoctorAdapter) List(ctx context.Context, filter entities.DoctorFilter) ([]*entities.Doctor, error) {
	query, err := clinicapi.Query(filter)
	if err != nil {
		return nil, err
	}
	var out []*entities.Doctor
	if err := a.client.Get(ctx, pathDoctors, query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *DoctorAdapter) GetByID(ctx context.Context, id int64) (*entities.DoctorDetail, error) {
	var out entities.DoctorDetail
	if err := a.client.Get(ctx, doctorPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *DoctorAdapter) Availability(ctx context.Context, id int64) (*entities.Availability, error) {
	var out entities.Availability
	if err := a.client.Get(ctx, doctorActionPath(id, "availability"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *DoctorAdapter) Create(ctx context.Context, req *entities.CreateDoctorRequest) (*entities.Doctor, error) {
	var out entities.Doctor
	if err := a.client.PostJSON(ctx, pathDoctors, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *DoctorAdapter) Update(ctx context.Context, id int64, req *entities.UpdateDoctorRequest) (*entities.Doctor, error) {
	var out entities.Doctor
	if err := a.client.PatchJSON(ctx, doctorPath(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *DoctorAdapter) SetStatus(ctx context.Context, id int64, active bool) (*entities.Doctor, error) {
	var out entities.Doctor
	if err := a.client.PatchJSON(ctx, doctorActionPath(id, "status"), entities.DoctorStatusUpdate{IsActive: active}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *DoctorAdapter) SetBranches(ctx context.Context, id int64, branchIDs []int64) (*entities.Doctor, error) {
	if branchIDs == nil {
		branchIDs = []int64{}
	}
	var out entities.Doctor
	if err := a.client.PutJSON(ctx, doctorActionPath(id, "branches"), entities.DoctorBranchesUpdate{BranchIDs: branchIDs}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

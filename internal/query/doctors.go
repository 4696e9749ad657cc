package query

import (
	"context"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/repositories"
)

const opAvailability = "availability"

// DoctorQueries caches doctor reads
type DoctorQueries struct {
	c    *Client
	repo repositories.DoctorRepository
}

// NewDoctorQueries creates doctor queries
func NewDoctorQueries(c *Client, repo repositories.DoctorRepository) *DoctorQueries {
	return &DoctorQueries{c: c, repo: repo}
}

func (q *DoctorQueries) List(ctx context.Context, filter entities.DoctorFilter) ([]*entities.Doctor, error) {
	return Fetch(ctx, q.c, ListKey(ResourceDoctors, filter), func(ctx context.Context) ([]*entities.Doctor, error) {
		return q.repo.List(ctx, filter)
	})
}

func (q *DoctorQueries) Get(ctx context.Context, id int64) (*entities.DoctorDetail, error) {
	return Fetch(ctx, q.c, DetailKey(ResourceDoctors, id), func(ctx context.Context) (*entities.DoctorDetail, error) {
		return q.repo.GetByID(ctx, id)
	})
}

func (q *DoctorQueries) Availability(ctx context.Context, id int64) (*entities.Availability, error) {
	key := Key{Resource: ResourceDoctors, Operation: opAvailability, Params: id}
	return Fetch(ctx, q.c, key, func(ctx context.Context) (*entities.Availability, error) {
		return q.repo.Availability(ctx, id)
	})
}

func (q *DoctorQueries) Create(ctx context.Context, req *entities.CreateDoctorRequest) (*entities.Doctor, error) {
	return invalidateAfter(ctx, q.c, func() (*entities.Doctor, error) {
		return q.repo.Create(ctx, req)
	}, func(*entities.Doctor) []Key {
		keys := []Key{ListKey(ResourceDoctors, nil)}
		for _, branchID := range req.BranchIDs {
			keys = append(keys, DetailKey(ResourceBranches, branchID))
		}
		return keys
	})
}

func (q *DoctorQueries) Update(ctx context.Context, id int64, req *entities.UpdateDoctorRequest) (*entities.Doctor, error) {
	return invalidateAfter(ctx, q.c, func() (*entities.Doctor, error) {
		return q.repo.Update(ctx, id, req)
	}, func(*entities.Doctor) []Key {
		return doctorKeys(id)
	})
}

func (q *DoctorQueries) SetStatus(ctx context.Context, id int64, active bool) (*entities.Doctor, error) {
	return invalidateAfter(ctx, q.c, func() (*entities.Doctor, error) {
		return q.repo.SetStatus(ctx, id, active)
	}, func(*entities.Doctor) []Key {
		return doctorKeys(id)
	})
}

// SetBranches replaces the doctor's branch memberships. Branch details embed
// their doctors, so the branches named before (when cached) and after the change
// are dropped too.
func (q *DoctorQueries) SetBranches(ctx context.Context, id int64, branchIDs []int64) (*entities.Doctor, error) {
	var previous []int64
	if cached, ok := Cached[*entities.DoctorDetail](ctx, q.c, DetailKey(ResourceDoctors, id)); ok {
		for _, b := range cached.Branches {
			previous = append(previous, b.ID)
		}
	}

	return invalidateAfter(ctx, q.c, func() (*entities.Doctor, error) {
		return q.repo.SetBranches(ctx, id, branchIDs)
	}, func(*entities.Doctor) []Key {
		keys := doctorKeys(id)
		seen := make(map[int64]bool)
		for _, branchID := range append(previous, branchIDs...) {
			if !seen[branchID] {
				seen[branchID] = true
				keys = append(keys, DetailKey(ResourceBranches, branchID))
			}
		}
		return keys
	})
}

func doctorKeys(id int64) []Key {
	return []Key{DetailKey(ResourceDoctors, id), ListKey(ResourceDoctors, nil)}
}

package query

import (
	"context"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/repositories"
)

// BranchQueries caches branch reads
type BranchQueries struct {
	c    *Client
	repo repositories.BranchRepository
}

// NewBranchQueries creates branch queries
func NewBranchQueries(c *Client, repo repositories.BranchRepository) *BranchQueries {
	return &BranchQueries{c: c, repo: repo}
}

func (q *BranchQueries) List(ctx context.Context) ([]*entities.Branch, error) {
	return Fetch(ctx, q.c, ListKey(ResourceBranches, nil), q.repo.List)
}

func (q *BranchQueries) Get(ctx context.Context, id int64) (*entities.BranchDetail, error) {
	return Fetch(ctx, q.c, DetailKey(ResourceBranches, id), func(ctx context.Context) (*entities.BranchDetail, error) {
		return q.repo.GetByID(ctx, id)
	})
}

func (q *BranchQueries) Create(ctx context.Context, req *entities.CreateBranchRequest) (*entities.Branch, error) {
	return invalidateAfter(ctx, q.c, func() (*entities.Branch, error) {
		return q.repo.Create(ctx, req)
	}, func(*entities.Branch) []Key {
		return []Key{ListKey(ResourceBranches, nil)}
	})
}

func (q *BranchQueries) Update(ctx context.Context, id int64, req *entities.UpdateBranchRequest) (*entities.Branch, error) {
	return q.mutate(ctx, id, func() (*entities.Branch, error) { return q.repo.Update(ctx, id, req) })
}

func (q *BranchQueries) Activate(ctx context.Context, id int64) (*entities.Branch, error) {
	return q.mutate(ctx, id, func() (*entities.Branch, error) { return q.repo.Activate(ctx, id) })
}

func (q *BranchQueries) Deactivate(ctx context.Context, id int64) (*entities.Branch, error) {
	return q.mutate(ctx, id, func() (*entities.Branch, error) { return q.repo.Deactivate(ctx, id) })
}

func (q *BranchQueries) AssignUser(ctx context.Context, id, userID int64) error {
	return q.membership(ctx, id, func() error { return q.repo.AssignUser(ctx, id, userID) },
		DetailKey(ResourceUsers, userID))
}

func (q *BranchQueries) UnassignUser(ctx context.Context, id, userID int64) error {
	return q.membership(ctx, id, func() error { return q.repo.UnassignUser(ctx, id, userID) },
		DetailKey(ResourceUsers, userID))
}

func (q *BranchQueries) AssignDoctor(ctx context.Context, id, doctorID int64) error {
	return q.membership(ctx, id, func() error { return q.repo.AssignDoctor(ctx, id, doctorID) },
		doctorKeys(doctorID)...)
}

func (q *BranchQueries) UnassignDoctor(ctx context.Context, id, doctorID int64) error {
	return q.membership(ctx, id, func() error { return q.repo.UnassignDoctor(ctx, id, doctorID) },
		doctorKeys(doctorID)...)
}

func (q *BranchQueries) mutate(ctx context.Context, id int64, fn func() (*entities.Branch, error)) (*entities.Branch, error) {
	return invalidateAfter(ctx, q.c, fn, func(*entities.Branch) []Key {
		return branchKeys(id)
	})
}

func (q *BranchQueries) membership(ctx context.Context, id int64, fn func() error, extra ...Key) error {
	_, err := invalidateAfter(ctx, q.c, func() (struct{}, error) {
		return struct{}{}, fn()
	}, func(struct{}) []Key {
		return append(branchKeys(id), extra...)
	})
	return err
}

func branchKeys(id int64) []Key {
	return []Key{DetailKey(ResourceBranches, id), ListKey(ResourceBranches, nil)}
}

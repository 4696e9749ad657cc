package query

import (
	"context"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/repositories"
)

// UserQueries caches user and role reads
type UserQueries struct {
	c     *Client
	repo  repositories.UserRepository
	roles repositories.RoleRepository
}

// NewUserQueries creates user queries
func NewUserQueries(c *Client, repo repositories.UserRepository, roles repositories.RoleRepository) *UserQueries {
	return &UserQueries{c: c, repo: repo, roles: roles}
}

func (q *UserQueries) List(ctx context.Context) ([]*entities.User, error) {
	return Fetch(ctx, q.c, ListKey(ResourceUsers, nil), q.repo.List)
}

func (q *UserQueries) Get(ctx context.Context, id int64) (*entities.User, error) {
	return Fetch(ctx, q.c, DetailKey(ResourceUsers, id), func(ctx context.Context) (*entities.User, error) {
		return q.repo.GetByID(ctx, id)
	})
}

func (q *UserQueries) Roles(ctx context.Context) ([]*entities.Role, error) {
	return Fetch(ctx, q.c, ListKey(ResourceRoles, nil), q.roles.List)
}

func (q *UserQueries) Role(ctx context.Context, id int64) (*entities.Role, error) {
	return Fetch(ctx, q.c, DetailKey(ResourceRoles, id), func(ctx context.Context) (*entities.Role, error) {
		return q.roles.GetByID(ctx, id)
	})
}

func (q *UserQueries) Create(ctx context.Context, req *entities.CreateUserRequest) (*entities.User, error) {
	return invalidateAfter(ctx, q.c, func() (*entities.User, error) {
		return q.repo.Create(ctx, req)
	}, func(*entities.User) []Key {
		return []Key{ListKey(ResourceUsers, nil)}
	})
}

func (q *UserQueries) SetActive(ctx context.Context, id int64, active bool) (*entities.User, error) {
	return q.mutate(ctx, id, func() (*entities.User, error) { return q.repo.SetActive(ctx, id, active) })
}

func (q *UserQueries) AssignRole(ctx context.Context, id, roleID int64) (*entities.User, error) {
	return q.mutate(ctx, id, func() (*entities.User, error) { return q.repo.AssignRole(ctx, id, roleID) })
}

func (q *UserQueries) ResetPassword(ctx context.Context, id int64, newPassword string) (*entities.User, error) {
	return q.mutate(ctx, id, func() (*entities.User, error) { return q.repo.ResetPassword(ctx, id, newPassword) })
}

func (q *UserQueries) mutate(ctx context.Context, id int64, fn func() (*entities.User, error)) (*entities.User, error) {
	return invalidateAfter(ctx, q.c, fn, func(*entities.User) []Key {
		return []Key{DetailKey(ResourceUsers, id), ListKey(ResourceUsers, nil)}
	})
}

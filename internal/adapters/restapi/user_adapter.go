package restapi

import (
	"context"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/repositories"
	"github.com/dentalflow/clinicadmin/internal/infrastructure/clients/clinicapi"
)

// UserAdapter implements UserRepository over the REST backend
type UserAdapter struct {
	client *clinicapi.Client
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *clinicapi.Client) repositories.UserRepository {
	return &UserAdapter{client: client}
}

func (a *UserAdapter) List(ctx context.Context) ([]*entities.User, error) {
	var out []*entities.User
	if err := a.client.Get(ctx, pathUsers, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *UserAdapter) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	var out entities.User
	if err := a.client.Get(ctx, userPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *UserAdapter) Create(ctx context.Context, req *entities.CreateUserRequest) (*entities.User, error) {
	var out entities.User
	if err := a.client.PostJSON(ctx, pathUsers, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *UserAdapter) SetActive(ctx context.Context, id int64, active bool) (*entities.User, error) {
	return a.action(ctx, id, "activate", map[string]bool{"is_active": active})
}

func (a *UserAdapter) AssignRole(ctx context.Context, id, roleID int64) (*entities.User, error) {
	return a.action(ctx, id, "assign-role", map[string]int64{"role_id": roleID})
}

func (a *UserAdapter) ResetPassword(ctx context.Context, id int64, newPassword string) (*entities.User, error) {
	return a.action(ctx, id, "reset-password", map[string]string{"new_password": newPassword})
}

func (a *UserAdapter) action(ctx context.Context, id int64, action string, body interface{}) (*entities.User, error) {
	var out entities.User
	if err := a.client.PostJSON(ctx, userActionPath(id, action), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RoleAdapter implements RoleRepository over the REST backend
type RoleAdapter struct {
	client *clinicapi.Client
}

// NewRoleAdapter creates a new role adapter
func NewRoleAdapter(client *clinicapi.Client) repositories.RoleRepository {
	return &RoleAdapter{client: client}
}

func (a *RoleAdapter) List(ctx context.Context) ([]*entities.Role, error) {
	var out []*entities.Role
	if err := a.client.Get(ctx, pathRoles, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *RoleAdapter) GetByID(ctx context.Context, id int64) (*entities.Role, error) {
	var out entities.Role
	if err := a.client.Get(ctx, rolePath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

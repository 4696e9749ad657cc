package repositories

import (
	"context"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
)

// AuthRepository covers login and identity lookup
type AuthRepository interface {
	// Login exchanges email and password for a bearer token
	Login(ctx context.Context, email, password string) (*entities.LoginResponse, error)

	// Me returns the identity behind token; an empty token uses the stored credential
	Me(ctx context.Context, token string) (*entities.UserInfo, error)

	// Health pings the backend
	Health(ctx context.Context) (map[string]interface{}, error)
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// List retrieves all users with role information
	List(ctx context.Context) ([]*entities.User, error)

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*entities.User, error)

	// Create creates a non-doctor user
	Create(ctx context.Context, req *entities.CreateUserRequest) (*entities.User, error)

	// SetActive activates or deactivates a user
	SetActive(ctx context.Context, id int64, active bool) (*entities.User, error)

	// AssignRole assigns a non-doctor role
	AssignRole(ctx context.Context, id, roleID int64) (*entities.User, error)

	// ResetPassword sets a new password
	ResetPassword(ctx context.Context, id int64, newPassword string) (*entities.User, error)
}

// RoleRepository defines the interface for role lookups
type RoleRepository interface {
	List(ctx context.Context) ([]*entities.Role, error)
	GetByID(ctx context.Context, id int64) (*entities.Role, error)
}

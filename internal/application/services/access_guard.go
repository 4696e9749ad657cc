package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/providers"
)

// CredentialSource is the part of SessionService the guard needs
type CredentialSource interface {
	Current(ctx context.Context) (*entities.Credential, error)
	Teardown(ctx context.Context, reason string) error
}

// Decision is the outcome of a guard check
type Decision struct {
	Allowed  bool
	Redirect string
	Role     entities.RoleName
}

// AccessGuard gates routes on the stored credential
type AccessGuard struct {
	source CredentialSource
	now    func() time.Time
}

// NewAccessGuard creates a guard over source
func NewAccessGuard(source CredentialSource) *AccessGuard {
	return &AccessGuard{source: source, now: time.Now}
}

// RequireAuthenticated allows any valid credential; otherwise redirects to login
func (g *AccessGuard) RequireAuthenticated(ctx context.Context) Decision {
	role, ok := g.authenticated(ctx)
	if !ok {
		return Decision{Redirect: providers.RouteLogin}
	}
	return Decision{Allowed: true, Role: role}
}

// RequireAdmin allows admins. Signed-in non-admins go to the dashboard, not to login.
func (g *AccessGuard) RequireAdmin(ctx context.Context) Decision {
	return g.Require(ctx, entities.RoleName.IsAdmin)
}

// Require allows roles satisfying capability
func (g *AccessGuard) Require(ctx context.Context, capability func(entities.RoleName) bool) Decision {
	role, ok := g.authenticated(ctx)
	if !ok {
		return Decision{Redirect: providers.RouteLogin}
	}
	if !capability(role) {
		return Decision{Redirect: providers.RouteDashboard, Role: role}
	}
	return Decision{Allowed: true, Role: role}
}

func (g *AccessGuard) authenticated(ctx context.Context) (entities.RoleName, bool) {
	cred, err := g.source.Current(ctx)
	if err != nil || cred.Token == "" {
		return "", false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(cred.Token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && !g.now().Before(exp.Time) {
			_ = g.source.Teardown(ctx, providers.ReasonExpired)
			return "", false
		}
	}
	// Opaque (non-JWT) tokens are only checked by the server.

	role := cred.User.RoleName()
	if role == "" {
		role = roleClaim(claims)
	}
	return role, true
}

func roleClaim(claims jwt.MapClaims) entities.RoleName {
	raw, ok := claims["role"].(string)
	if !ok {
		return ""
	}
	return entities.ParseRoleName(raw)
}

// ErrNotAuthenticated is returned by CLI commands when the guard redirects to login
var ErrNotAuthenticated = errors.New("not signed in")

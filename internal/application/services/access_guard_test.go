package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dentalflow/clinicadmin/internal/application/services"
	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/providers"
)

type MockCredentialSource struct {
	mock.Mock
}

func (m *MockCredentialSource) Current(ctx context.Context) (*entities.Credential, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Credential), args.Error(1)
}

func (m *MockCredentialSource) Teardown(ctx context.Context, reason string) error {
	args := m.Called(ctx, reason)
	return args.Error(0)
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestAccessGuard_NoCredentialRedirectsToLogin(t *testing.T) {
	source := &MockCredentialSource{}
	source.On("Current", mock.Anything).Return(nil, providers.ErrNoCredential)

	d := services.NewAccessGuard(source).RequireAuthenticated(context.Background())
	assert.False(t, d.Allowed)
	assert.Equal(t, providers.RouteLogin, d.Redirect)
}

func TestAccessGuard_ExpiredTokenTearsDown(t *testing.T) {
	source := &MockCredentialSource{}
	token := signedToken(t, jwt.MapClaims{"sub": "doctor@clinic.test", "exp": time.Now().Add(-time.Minute).Unix()})
	source.On("Current", mock.Anything).Return(&entities.Credential{Token: token, User: entities.UserInfo{Role: "doctor"}}, nil)
	source.On("Teardown", mock.Anything, providers.ReasonExpired).Return(nil).Once()

	d := services.NewAccessGuard(source).RequireAuthenticated(context.Background())
	assert.False(t, d.Allowed)
	assert.Equal(t, providers.RouteLogin, d.Redirect)
	source.AssertExpectations(t)
}

func TestAccessGuard_RequireAdmin(t *testing.T) {
	tests := []struct {
		name         string
		cred         *entities.Credential
		wantAllowed  bool
		wantRedirect string
	}{
		{
			name:        "admin with opaque token",
			cred:        &entities.Credential{Token: "opaque", User: entities.UserInfo{Role: "admin"}},
			wantAllowed: true,
		},
		{
			name:         "receptionist goes to dashboard",
			cred:         &entities.Credential{Token: "opaque", User: entities.UserInfo{Role: "receptionist"}},
			wantRedirect: providers.RouteDashboard,
		},
		{
			name:        "role taken from token claims",
			cred:        &entities.Credential{Token: signedToken(t, jwt.MapClaims{"role": "admin", "exp": time.Now().Add(time.Hour).Unix()})},
			wantAllowed: true,
		},
		{
			name:         "empty token",
			cred:         &entities.Credential{User: entities.UserInfo{Role: "admin"}},
			wantRedirect: providers.RouteLogin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &MockCredentialSource{}
			source.On("Current", mock.Anything).Return(tt.cred, nil)

			d := services.NewAccessGuard(source).RequireAdmin(context.Background())
			assert.Equal(t, tt.wantAllowed, d.Allowed)
			assert.Equal(t, tt.wantRedirect, d.Redirect)
			source.AssertNotCalled(t, "Teardown", mock.Anything, mock.Anything)
		})
	}
}

package restapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/repositories"
	"github.com/dentalflow/clinicadmin/internal/infrastructure/clients/clinicapi"
)

// AuthAdapter implements AuthRepository over the REST backend
type AuthAdapter struct {
	client *clinicapi.Client
}

// NewAuthAdapter creates a new auth adapter
func NewAuthAdapter(client *clinicapi.Client) repositories.AuthRepository {
	return &AuthAdapter{client: client}
}

// Login uses the OAuth2 password flow; the email goes in the username field
func (a *AuthAdapter) Login(ctx context.Context, email, password string) (*entities.LoginResponse, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var out entities.LoginResponse
	if err := a.client.PostForm(ctx, pathLogin, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the identity behind token
func (a *AuthAdapter) Me(ctx context.Context, token string) (*entities.UserInfo, error) {
	var out entities.UserInfo
	if err := a.client.Do(ctx, &clinicapi.Request{Method: http.MethodGet, Path: pathMe, Token: token}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health pings the backend
func (a *AuthAdapter) Health(ctx context.Context) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	if err := a.client.Get(ctx, pathHealth, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

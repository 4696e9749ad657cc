package providers

import (
	"context"
	"errors"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
)

// ErrNoCredential is returned when nothing is stored
var ErrNoCredential = errors.New("no stored credential")

// CredentialStore persists the signed-in session between invocations
type CredentialStore interface {
	// Load returns the stored credential or ErrNoCredential
	Load(ctx context.Context) (*entities.Credential, error)

	// Save replaces the stored credential
	Save(ctx context.Context, cred *entities.Credential) error

	// Clear removes the stored credential; clearing an empty store is not an error
	Clear(ctx context.Context) error
}

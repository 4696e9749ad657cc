package session

import (
	"context"
	"sync"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/providers"
)

// MemoryStore holds the credential for the lifetime of the process
type MemoryStore struct {
	mu   sync.RWMutex
	cred *entities.Credential
}

// NewMemoryStore creates an empty in-process credential store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (*entities.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil {
		return nil, providers.ErrNoCredential
	}
	cp := *s.cred
	return &cp, nil
}

func (s *MemoryStore) Save(ctx context.Context, cred *entities.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *cred
	s.cred = &cp
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = nil
	return nil
}

var _ providers.CredentialStore = (*MemoryStore)(nil)

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/providers"
)

// FileStore keeps the credential in a JSON file readable only by the owner
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a file-backed credential store
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file location
func (s *FileStore) Path() string {
	return s.path
}

// Load returns the stored credential or ErrNoCredential
func (s *FileStore) Load(ctx context.Context) (*entities.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, providers.ErrNoCredential
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	var cred entities.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("failed to decode credential file: %w", err)
	}
	if cred.Token == "" {
		return nil, providers.ErrNoCredential
	}
	return &cred, nil
}

// Save replaces the stored credential atomically
func (s *FileStore) Save(ctx context.Context, cred *entities.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return fmt.Errorf("failed to create credential file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// Clear removes the stored credential
func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove credential file: %w", err)
	}
	return nil
}

var _ providers.CredentialStore = (*FileStore)(nil)

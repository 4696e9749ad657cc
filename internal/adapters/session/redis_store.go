package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/providers"
	redisclient "github.com/dentalflow/clinicadmin/internal/infrastructure/clients/redis"
)

// RedisStore keeps the credential under a single Redis key so several
// operator shells can share one session.
type RedisStore struct {
	client *redisclient.Client
	key    string
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed credential store. A zero ttl keeps the
// key until it is cleared.
func NewRedisStore(client *redisclient.Client, key string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, key: key, ttl: ttl}
}

// Load returns the stored credential or ErrNoCredential
func (s *RedisStore) Load(ctx context.Context) (*entities.Credential, error) {
	data, err := s.client.Client().Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, providers.ErrNoCredential
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}

	var cred entities.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("failed to decode credential: %w", err)
	}
	return &cred, nil
}

// Save replaces the stored credential
func (s *RedisStore) Save(ctx context.Context, cred *entities.Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}
	if err := s.client.Client().Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

// Clear removes the stored credential
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Client().Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	return nil
}

var _ providers.CredentialStore = (*RedisStore)(nil)

package session

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/providers"
	redisclient "github.com/dentalflow/clinicadmin/internal/infrastructure/clients/redis"
	"github.com/dentalflow/clinicadmin/pkg/config"
)

func sampleCredential() *entities.Credential {
	return &entities.Credential{
		Token:    "token-admin@clinic.test",
		User:     entities.UserInfo{Email: "admin@clinic.test", FullName: "Ada Admin", Role: "admin"},
		IssuedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func exerciseStore(t *testing.T, store providers.CredentialStore) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, providers.ErrNoCredential)

	require.NoError(t, store.Save(ctx, sampleCredential()))
	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleCredential(), got)

	require.NoError(t, store.Clear(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, providers.ErrNoCredential)

	require.NoError(t, store.Clear(ctx), "clearing an empty store")
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	exerciseStore(t, NewFileStore(path))
}

func TestFileStore_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)
	require.NoError(t, store.Save(context.Background(), sampleCredential()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path).Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, providers.ErrNoCredential)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	host := os.Getenv("TEST_REDIS_HOST")
	if host == "" {
		t.Skip("Skipping Redis test: TEST_REDIS_HOST not set")
	}
	port, err := strconv.Atoi(os.Getenv("TEST_REDIS_PORT"))
	if err != nil {
		port = 6379
	}
	client, err := redisclient.NewClient(context.Background(), &config.RedisConfig{Host: host, Port: port})
	require.NoError(t, err)
	defer client.Close()

	exerciseStore(t, NewRedisStore(client, "clinicadmin-test:"+t.Name(), time.Minute))
}

package secrets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyVaultSecrets_KVv2(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/secret/data/clinicadmin", r.URL.Path)
		assert.Equal(t, "root", r.Header.Get("X-Vault-Token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"data":{"CLINIC_TEST_BASE_URL":"https://vault.example/api/v1","CLINIC_TEST_REDIS_DB":3,"CLINIC_TEST_KEEP":"vault"}}}`))
	}))
	defer server.Close()

	t.Setenv("CLINIC_TEST_KEEP", "env")
	defer os.Unsetenv("CLINIC_TEST_BASE_URL")
	defer os.Unsetenv("CLINIC_TEST_REDIS_DB")

	res, err := ApplyVaultSecrets(context.Background(), VaultConfig{
		Enabled:   true,
		Addr:      server.URL,
		Token:     "root",
		Mount:     "secret",
		Path:      "clinicadmin",
		KVVersion: 2,
		Timeout:   time.Second,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Loaded)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, "https://vault.example/api/v1", os.Getenv("CLINIC_TEST_BASE_URL"))
	assert.Equal(t, "3", os.Getenv("CLINIC_TEST_REDIS_DB"))
	assert.Equal(t, "env", os.Getenv("CLINIC_TEST_KEEP"))
}

func TestApplyVaultSecrets_Disabled(t *testing.T) {
	res, err := ApplyVaultSecrets(context.Background(), VaultConfig{Enabled: false})
	require.NoError(t, err)
	assert.False(t, res.Enabled)
}

func TestApplyVaultSecrets_Incomplete(t *testing.T) {
	_, err := ApplyVaultSecrets(context.Background(), VaultConfig{Enabled: true, Addr: "http://vault"})
	assert.Error(t, err)
}

func TestApplyVaultSecrets_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "permission denied", http.StatusForbidden)
	}))
	defer server.Close()

	_, err := ApplyVaultSecrets(context.Background(), VaultConfig{
		Enabled: true, Addr: server.URL, Token: "t", Mount: "secret", Path: "p", KVVersion: 2, Timeout: time.Second,
	})
	assert.ErrorContains(t, err, "403")
}

package clinicapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalflow/clinicadmin/internal/domain/providers"
	"github.com/dentalflow/clinicadmin/pkg/config"
	apperrors "github.com/dentalflow/clinicadmin/pkg/errors"
)

type stubCredentials struct {
	mu        sync.Mutex
	token     string
	teardowns []string
}

func (s *stubCredentials) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *stubCredentials) Teardown(ctx context.Context, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.teardowns = append(s.teardowns, reason)
	return nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc, creds Credentials) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.APIConfig{BaseURL: server.URL + "/api/v1/", Timeout: 5 * time.Second}, creds)
}

func TestClient_AttachesBearerAndRequestID(t *testing.T) {
	creds := &stubCredentials{token: "tok-123"}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/appointments/", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Equal(t, "2026-03-01", r.URL.Query().Get("date"))
		_, _ = w.Write([]byte(`[{"id":1}]`))
	}, creds)

	var out []map[string]interface{}
	err := client.Get(context.Background(), "/appointments/", url.Values{"date": {"2026-03-01"}}, &out)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestClient_AnonymousRequestHasNoAuthorization(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}, &stubCredentials{})

	require.NoError(t, client.Get(context.Background(), "/health", nil, nil))
}

func TestClient_UnauthorizedTearsDown(t *testing.T) {
	creds := &stubCredentials{token: "expired"}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	}, creds)

	err := client.Get(context.Background(), "/patients/1/timeline", nil, &struct{}{})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
	assert.Equal(t, []string{providers.ReasonUnauthorized}, creds.teardowns)
	assert.Empty(t, creds.token)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		errType apperrors.ErrorType
		message string
	}{
		{"string detail", http.StatusBadRequest, `{"detail":"Appointment is not in scheduled state"}`, apperrors.ErrorTypeRejected, "Appointment is not in scheduled state"},
		{"validation list", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","scheduled_at"],"msg":"field required"},{"loc":["body"],"msg":"bad date"}]}`, apperrors.ErrorTypeRejected, "field required; bad date"},
		{"not found", http.StatusNotFound, `{"detail":"Appointment not found"}`, apperrors.ErrorTypeNotFound, "Appointment not found"},
		{"conflict", http.StatusConflict, `{"detail":"Session already started"}`, apperrors.ErrorTypeConflict, "Session already started"},
		{"server error without detail", http.StatusBadGateway, `<html>bad gateway</html>`, apperrors.ErrorTypeExternal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, nil)

			err := client.PostJSON(context.Background(), "/appointments/1/cancel", nil, nil)
			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.errType, appErr.Type)
			assert.Equal(t, tt.message, appErr.Message)
			assert.Equal(t, tt.status, appErr.StatusCode)
		})
	}
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(config.APIConfig{BaseURL: server.URL, Timeout: time.Second}, nil)
	err := client.Get(context.Background(), "/appointments/", nil, nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeTransport))
	assert.Equal(t, "Failed to load appointments", apperrors.UserMessage(err, "Failed to load appointments"))
}

func TestClient_PostJSONSendsEmptyObject(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.JSONEq(t, `{}`, string(body))
		_, _ = w.Write([]byte(`{"id":5,"status":"cancelled"}`))
	}, nil)

	var out struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, client.PostJSON(context.Background(), "/appointments/5/cancel", nil, &out))
	assert.Equal(t, "cancelled", out.Status)
}

func TestClient_PostForm(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "admin@clinic.test", r.PostForm.Get("username"))
		assert.Equal(t, "secret1", r.PostForm.Get("password"))
		_, _ = w.Write([]byte(`{"access_token":"abc","token_type":"bearer"}`))
	}, nil)

	var out map[string]string
	err := client.PostForm(context.Background(), "/auth/login", url.Values{"username": {"admin@clinic.test"}, "password": {"secret1"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "abc", out["access_token"])
}

func TestClient_PostMultipart(t *testing.T) {
	content := []byte("%PDF-1.4 test")
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "12", r.FormValue("patient_id"))
		assert.Equal(t, "scan", r.FormValue("source"))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		got, _ := io.ReadAll(file)
		assert.Equal(t, content, got)
		assert.Equal(t, "chart.pdf", header.Filename)
		assert.Equal(t, "application/pdf", header.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"id":3}`))
	}, nil)

	err := client.PostMultipart(context.Background(), "/migrated-records/",
		map[string]string{"patient_id": "12", "source": "scan"},
		FilePart{Field: "file", FileName: "chart.pdf", ContentType: "application/pdf", Content: content},
		nil)
	require.NoError(t, err)
}

func TestClient_ExplicitTokenOverridesStore(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer fresh", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{}`))
	}, &stubCredentials{token: "stale"})

	require.NoError(t, client.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/auth/me", Token: "fresh"}, nil))
}

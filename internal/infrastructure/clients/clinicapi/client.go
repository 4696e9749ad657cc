package clinicapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/dentalflow/clinicadmin/internal/domain/providers"
	"github.com/dentalflow/clinicadmin/internal/infrastructure/observability"
	"github.com/dentalflow/clinicadmin/pkg/config"
	apperrors "github.com/dentalflow/clinicadmin/pkg/errors"
)

// Credentials supplies the bearer token and tears the session down when the
// backend rejects it.
type Credentials interface {
	Token(ctx context.Context) (string, error)
	Teardown(ctx context.Context, reason string) error
}

// Client is the single configured request client for the clinic backend
type Client struct {
	baseURL     string
	httpClient  *http.Client
	credentials Credentials
	metrics     *observability.Metrics
	logger      zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its transport is still
// wrapped for logging and metrics.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMetrics records request metrics
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger overrides the global logger
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a backend client. creds may be nil for anonymous use.
func NewClient(cfg config.APIConfig, creds Credentials, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		credentials: creds,
		logger:      log.With().Str("component", "clinicapi").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	hc := *c.httpClient
	hc.Timeout = timeout
	hc.Transport = newLoggingTransport(hc.Transport, c.logger, c.metrics)
	c.httpClient = &hc

	return c
}

// BaseURL returns the configured API root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request describes one backend call
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Body        io.Reader
	ContentType string
	// Token overrides the stored credential for this call
	Token string
}

// Get issues a GET and decodes the JSON response into out
func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// PostJSON issues a POST with a JSON body
func (c *Client) PostJSON(ctx context.Context, path string, body, out interface{}) error {
	return c.sendJSON(ctx, http.MethodPost, path, body, out)
}

// PatchJSON issues a PATCH with a JSON body
func (c *Client) PatchJSON(ctx context.Context, path string, body, out interface{}) error {
	return c.sendJSON(ctx, http.MethodPatch, path, body, out)
}

// PutJSON issues a PUT with a JSON body
func (c *Client) PutJSON(ctx context.Context, path string, body, out interface{}) error {
	return c.sendJSON(ctx, http.MethodPut, path, body, out)
}

// PostForm issues an url-encoded POST, as the OAuth2 password flow expects
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out interface{}) error {
	return c.Do(ctx, &Request{
		Method:      http.MethodPost,
		Path:        path,
		Body:        strings.NewReader(form.Encode()),
		ContentType: "application/x-www-form-urlencoded",
	}, out)
}

// FilePart is the file field of a multipart upload
type FilePart struct {
	Field       string
	FileName    string
	ContentType string
	Content     []byte
}

// PostMultipart issues a multipart/form-data POST. The file is passed through unchanged.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, file FilePart, out interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return apperrors.NewInternalError("failed to encode form field", err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, file.Field, escapeQuotes(file.FileName)))
	if file.ContentType != "" {
		header.Set("Content-Type", file.ContentType)
	}
	part, err := w.CreatePart(header)
	if err != nil {
		return apperrors.NewInternalError("failed to create file part", err)
	}
	if _, err := part.Write(file.Content); err != nil {
		return apperrors.NewInternalError("failed to write file part", err)
	}
	if err := w.Close(); err != nil {
		return apperrors.NewInternalError("failed to close multipart body", err)
	}

	return c.Do(ctx, &Request{
		Method:      http.MethodPost,
		Path:        path,
		Body:        &buf,
		ContentType: w.FormDataContentType(),
	}, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body, out interface{}) error {
	if body == nil {
		body = struct{}{}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return apperrors.NewInternalError("failed to encode request body", err)
	}
	return c.Do(ctx, &Request{
		Method:      method,
		Path:        path,
		Body:        bytes.NewReader(payload),
		ContentType: "application/json",
	}, out)
}

// Do sends req and decodes a 2xx JSON body into out. Non-2xx responses become
// *errors.AppError. A 401 tears the session down before returning.
func (c *Client) Do(ctx context.Context, req *Request, out interface{}) error {
	ctx, span := observability.StartSpan(ctx, "clinicapi "+req.Method+" "+routeOf(req.Path))
	defer span.End()

	endpoint := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		endpoint += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, req.Body)
	if err != nil {
		return apperrors.NewInternalError("failed to build request", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}

	token := req.Token
	if token == "" && c.credentials != nil {
		token, err = c.credentials.Token(ctx)
		if err != nil {
			return apperrors.NewInternalError("failed to read credential", err)
		}
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	observability.SetSpanAttributes(span,
		attribute.String("http.method", req.Method),
		attribute.String("http.route", routeOf(req.Path)),
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		observability.RecordError(span, err)
		return apperrors.NewTransportError("request failed", err)
	}
	defer resp.Body.Close()

	observability.SetSpanAttributes(span, attribute.Int("http.status_code", resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.RecordError(span, err)
		return apperrors.NewTransportError("failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		appErr := errorFromResponse(resp.StatusCode, body)
		observability.RecordError(span, appErr)
		if resp.StatusCode == http.StatusUnauthorized && c.credentials != nil {
			if terr := c.credentials.Teardown(ctx, providers.ReasonUnauthorized); terr != nil {
				c.logger.Error().Err(terr).Msg("session teardown failed")
			}
		}
		return appErr
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.NewInternalError("failed to decode response", err)
	}
	return nil
}

func escapeQuotes(s string) string {
	return strings.NewReplacer("\\", "\\\\", `"`, "\\\"").Replace(s)
}

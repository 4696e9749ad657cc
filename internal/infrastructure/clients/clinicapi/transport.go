package clinicapi

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dentalflow/clinicadmin/internal/infrastructure/observability"
)

// loggingTransport logs and meters every backend round trip
type loggingTransport struct {
	next    http.RoundTripper
	logger  zerolog.Logger
	metrics *observability.Metrics
}

func newLoggingTransport(next http.RoundTripper, logger zerolog.Logger, metrics *observability.Metrics) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{next: next, logger: logger, metrics: metrics}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	route := routeOf(req.URL.Path)

	resp, err := t.next.RoundTrip(req)
	duration := time.Since(start)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	observability.RecordRequestMetric(req.Context(), t.metrics, req.Method, route, status, duration)

	logger := observability.WithTrace(req.Context(), t.logger)
	event := logger.Debug()
	if err != nil {
		event = logger.Warn().Err(err)
	} else if status >= 500 {
		event = logger.Warn()
	}
	event.
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", status).
		Dur("duration", duration).
		Str("request_id", req.Header.Get("X-Request-ID")).
		Msg("api request")

	return resp, err
}

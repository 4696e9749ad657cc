package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
	"github.com/dentalflow/clinicadmin/internal/domain/providers"
	"github.com/dentalflow/clinicadmin/internal/infrastructure/observability"
)

var prefixes = map[entities.Severity]string{
	entities.SeveritySuccess: "✔",
	entities.SeverityInfo:    "ℹ",
	entities.SeverityWarning: "⚠",
	entities.SeverityError:   "✖",
}

// ConsoleNotifier prints toasts for the operator and mirrors them to the log
type ConsoleNotifier struct {
	out     io.Writer
	logger  zerolog.Logger
	metrics *observability.Metrics
	mu      sync.Mutex
}

// NewConsoleNotifier creates a notifier writing to out. metrics may be nil.
func NewConsoleNotifier(out io.Writer, logger zerolog.Logger, metrics *observability.Metrics) *ConsoleNotifier {
	return &ConsoleNotifier{out: out, logger: logger, metrics: metrics}
}

// Notify surfaces a toast. Write failures are logged, never returned.
func (n *ConsoleNotifier) Notify(ctx context.Context, toast entities.Toast) {
	n.mu.Lock()
	_, err := fmt.Fprintf(n.out, "%s %s\n", prefixes[toast.Severity], toast.Message)
	n.mu.Unlock()
	if err != nil {
		n.logger.Warn().Err(err).Msg("failed to write toast")
	}

	level := zerolog.DebugLevel
	if toast.Severity == entities.SeverityError {
		level = zerolog.WarnLevel
	}
	n.logger.WithLevel(level).Str("severity", string(toast.Severity)).Msg(toast.Message)
	observability.RecordToast(ctx, n.metrics, string(toast.Severity))
}

// Recorder keeps every toast in memory
type Recorder struct {
	mu     sync.Mutex
	toasts []entities.Toast
}

func (r *Recorder) Notify(ctx context.Context, toast entities.Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, toast)
}

// Toasts returns a copy of everything notified so far
func (r *Recorder) Toasts() []entities.Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entities.Toast(nil), r.toasts...)
}

// BySeverity returns the messages notified at one severity
func (r *Recorder) BySeverity(severity entities.Severity) []string {
	var out []string
	for _, t := range r.Toasts() {
		if t.Severity == severity {
			out = append(out, t.Message)
		}
	}
	return out
}

var (
	_ providers.Notifier = (*ConsoleNotifier)(nil)
	_ providers.Notifier = (*Recorder)(nil)
)

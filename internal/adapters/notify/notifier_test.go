package notify

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/dentalflow/clinicadmin/internal/domain/entities"
)

func TestConsoleNotifier(t *testing.T) {
	var out, logs bytes.Buffer
	n := NewConsoleNotifier(&out, zerolog.New(&logs), nil)

	n.Notify(context.Background(), entities.Toast{Severity: entities.SeverityWarning, Message: "Unable to open session window"})

	assert.Equal(t, "⚠ Unable to open session window\n", out.String())
	assert.Contains(t, logs.String(), "warning")
}

func TestRecorder_BySeverity(t *testing.T) {
	r := &Recorder{}
	ctx := context.Background()
	r.Notify(ctx, entities.Toast{Severity: entities.SeveritySuccess, Message: "a"})
	r.Notify(ctx, entities.Toast{Severity: entities.SeverityWarning, Message: "b"})
	r.Notify(ctx, entities.Toast{Severity: entities.SeveritySuccess, Message: "c"})

	assert.Equal(t, []string{"a", "c"}, r.BySeverity(entities.SeveritySuccess))
	assert.Len(t, r.Toasts(), 3)
}

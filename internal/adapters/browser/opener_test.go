package browser

import (
	"bytes"
	"context"
	"os/exec"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemOpener_MissingHandlerIsBlocked(t *testing.T) {
	o := &SystemOpener{
		command: func(ctx context.Context, url string) *exec.Cmd {
			return exec.CommandContext(ctx, "/nonexistent/clinicadmin-browser", url)
		},
		logger: zerolog.Nop(),
	}

	w, err := o.Open(context.Background(), "https://zoom.us/wc/join/1")
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestPrintOpener(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewPrintOpener(&buf).Open(context.Background(), "https://meet.google.com/abc-defg-hij")
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.False(t, w.Closed())
	assert.Contains(t, buf.String(), "https://meet.google.com/abc-defg-hij")
}

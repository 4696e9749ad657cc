package browser

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/dentalflow/clinicadmin/internal/domain/providers"
)

// SystemOpener hands URLs to the desktop's default handler (xdg-open, open,
// rundll32). When no handler can be started the open counts as blocked.
type SystemOpener struct {
	command func(ctx context.Context, url string) *exec.Cmd
	logger  zerolog.Logger
}

// NewSystemOpener creates an opener for the current platform
func NewSystemOpener(logger zerolog.Logger) *SystemOpener {
	return &SystemOpener{command: platformCommand, logger: logger}
}

func platformCommand(ctx context.Context, url string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.CommandContext(ctx, "open", url)
	case "windows":
		return exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return exec.CommandContext(ctx, "xdg-open", url)
	}
}

// Open starts the handler without waiting for the browser to exit
func (o *SystemOpener) Open(ctx context.Context, url string) (providers.Window, error) {
	// Detached from ctx: the browser must outlive the command that opened it.
	cmd := o.command(context.WithoutCancel(ctx), url)
	if err := cmd.Start(); err != nil {
		o.logger.Warn().Err(err).Str("cmd", cmd.Path).Msg("no browser handler available")
		return nil, nil
	}

	w := &processWindow{}
	go func() {
		if err := cmd.Wait(); err != nil {
			w.closed.Store(true)
		}
	}()
	return w, nil
}

type processWindow struct {
	closed atomic.Bool
}

// Closed reports whether the handler exited with an error
func (w *processWindow) Closed() bool {
	return w.closed.Load()
}

// PrintOpener writes the URL for the operator to open by hand. Used with
// --no-browser and on headless hosts.
type PrintOpener struct {
	out io.Writer
}

// NewPrintOpener creates an opener that prints URLs to out
func NewPrintOpener(out io.Writer) *PrintOpener {
	return &PrintOpener{out: out}
}

func (o *PrintOpener) Open(ctx context.Context, url string) (providers.Window, error) {
	if _, err := fmt.Fprintf(o.out, "Open this link to continue: %s\n", url); err != nil {
		return nil, err
	}
	return openWindow{}, nil
}

type openWindow struct{}

func (openWindow) Closed() bool { return false }

var (
	_ providers.WindowOpener = (*SystemOpener)(nil)
	_ providers.WindowOpener = (*PrintOpener)(nil)
)

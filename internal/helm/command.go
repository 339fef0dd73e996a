// Package helm runs the helm CLI as a subprocess and turns its output into
// typed results. Every call is a single blocking invocation bounded by the
// gateway timeout; nothing is retried.
package helm

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/lucas-albers-lz4/helmad/pkg/chart"
	log "github.com/lucas-albers-lz4/helmad/pkg/log"
)

const (
	// DefaultBinary is looked up on PATH when no binary is configured.
	DefaultBinary = "helm"
	// DefaultTimeout bounds a single helm invocation.
	DefaultTimeout = 2 * time.Minute

	// waitDelay bounds how long output copying may continue after the
	// process was killed, in case a child process still holds the pipes.
	waitDelay = 2 * time.Second
)

// Gateway invokes the helm binary resolved at construction time.
type Gateway struct {
	binary  string
	timeout time.Duration
	fs      afero.Fs
}

// Option customizes a Gateway.
type Option func(*Gateway)

// WithTimeout sets the per-invocation timeout. Zero or negative disables it.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.timeout = d }
}

// New resolves binary (a name on PATH or a path to an executable) once and
// returns a Gateway using it.
func New(binary string, opts ...Option) (*Gateway, error) {
	if binary == "" {
		binary = DefaultBinary
	}
	resolved, err := exec.LookPath(binary)
	if err != nil {
		return nil, &chart.ConfigError{Argument: "helm binary", Reason: err.Error()}
	}

	g := &Gateway{
		binary:  resolved,
		timeout: DefaultTimeout,
		fs:      afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(g)
	}

	log.Debug("Using helm binary", "path", resolved, "timeout", g.timeout)
	return g, nil
}

// Binary returns the resolved path of the helm executable.
func (g *Gateway) Binary() string {
	return g.binary
}

// run executes helm with args and returns its standard output. Failures to
// start, non-zero exits and timeouts are reported as ToolInvocationError with
// the captured standard error attached.
func (g *Gateway) run(ctx context.Context, args ...string) ([]byte, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	log.Debug("Executing helm", "args", strings.Join(args, " "))

	// #nosec G204 -- arguments are validated by chart.CheckArgument and never go through a shell
	cmd := exec.CommandContext(ctx, g.binary, args...)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	if err != nil {
		invErr := &chart.ToolInvocationError{
			Args:     args,
			ExitCode: -1,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			invErr.ExitCode = exitErr.ExitCode()
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			invErr.TimedOut = true
		}
		log.Error("Helm command failed", "args", strings.Join(args, " "), "exitCode", invErr.ExitCode,
			"timedOut", invErr.TimedOut, "stderr", invErr.Stderr)
		return nil, invErr
	}

	log.Debug("Helm command completed", "args", args[0], "outputSize", stdout.Len(), "duration", time.Since(start))
	return stdout.Bytes(), nil
}

// Package ghostscript runs the Ghostscript pdfwrite device as a compression backend.
package ghostscript

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/iamNilotpal/pdfcompress/internal/core/domain"
	"github.com/iamNilotpal/pdfcompress/pkg/errors"
	"github.com/iamNilotpal/pdfcompress/pkg/pool"
)

const name = "ghostscript"

// Ghostscript implements ports.Backend by executing gs.
type Ghostscript struct {
	opts    domain.GhostscriptOptions
	logger  *zap.SugaredLogger
	buffers *pool.BufferPool

	// Executable discovery, replaceable in tests.
	goos     string
	lookPath func(file string) (string, error)

	mu         sync.Mutex
	executable string // Resolved on first successful probe.
}

// New creates the backend. Discovery is deferred to the first Available or
// Compress call.
func New(opts domain.GhostscriptOptions, logger *zap.SugaredLogger) (*Ghostscript, error) {
	opts = prepareDefaults(opts)
	if err := Validate(opts); err != nil {
		return nil, errors.NewValidationError("ghostscript", opts, err)
	}

	return &Ghostscript{
		opts:     opts,
		logger:   logger,
		buffers:  pool.NewBufferPool(4096),
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
	}, nil
}

func (g *Ghostscript) Name() string {
	return name
}

// Available resolves and probes the executable.
func (g *Ghostscript) Available(ctx context.Context) error {
	_, err := g.resolve(ctx)
	return err
}

// Version returns the output of `gs --version`.
func (g *Ghostscript) Version(ctx context.Context) (string, error) {
	exe, err := g.resolve(ctx)
	if err != nil {
		return "", err
	}
	return g.probe(ctx, exe)
}

// Executable returns the resolved executable path, empty before discovery.
func (g *Ghostscript) Executable() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.executable
}

// Compress runs one pdfwrite pass from input to output.
func (g *Ghostscript) Compress(ctx context.Context, input, output string, preset domain.Preset) error {
	exe, err := g.resolve(ctx)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	stderr := g.buffers.Get()
	defer g.buffers.Put(stderr)

	args := Args(g.opts, preset, input, output)
	g.logger.Debugw("running ghostscript", "executable", exe, "args", args)

	cmd := exec.CommandContext(runCtx, exe, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if stderrors.Is(err, exec.ErrNotFound) || stderrors.Is(err, os.ErrNotExist) {
			g.forget()
			return errors.NewBackendUnavailable(name, err)
		}
		if runCtx.Err() != nil {
			err = fmt.Errorf("timed out after %s", g.opts.Timeout)
		} else if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return errors.NewBackendError(name+" "+preset.Name, input, err)
	}

	if _, err := os.Stat(output); err != nil {
		return errors.NewBackendError(name+" "+preset.Name, input, fmt.Errorf("no output produced: %w", err))
	}
	return nil
}

// resolve returns the cached executable or discovers one. Failures are not
// cached so a later call can succeed once Ghostscript is installed or the
// context allows the probe to finish.
func (g *Ghostscript) resolve(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.executable != "" {
		return g.executable, nil
	}

	candidates := Candidates(g.goos)
	if g.opts.Executable != "" {
		candidates = []string{g.opts.Executable}
	}

	var lastErr error
	for _, candidate := range candidates {
		path, err := g.lookPath(candidate)
		if err != nil {
			lastErr = err
			continue
		}

		version, err := g.probe(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			lastErr = err
			continue
		}

		g.logger.Debugw("ghostscript found", "executable", path, "version", version)
		g.executable = path
		return path, nil
	}

	return "", errors.NewBackendUnavailable(
		name, fmt.Errorf("no ghostscript executable found (tried %s): %w", strings.Join(candidates, ", "), lastErr),
	)
}

func (g *Ghostscript) probe(ctx context.Context, exe string) (string, error) {
	probeCtx, cancel := context.WithTimeout(ctx, DefaultProbeTimeout)
	defer cancel()

	out, err := exec.CommandContext(probeCtx, exe, "--version").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func (g *Ghostscript) forget() {
	g.mu.Lock()
	g.executable = ""
	g.mu.Unlock()
}

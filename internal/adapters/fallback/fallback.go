// Package fallback chains backends so a missing Ghostscript degrades to the
// in-process optimiser instead of failing the run.
package fallback

import (
	"context"
	stderrors "errors"
	"strings"

	"go.uber.org/zap"

	"github.com/iamNilotpal/pdfcompress/internal/core/domain"
	"github.com/iamNilotpal/pdfcompress/internal/core/ports"
	"github.com/iamNilotpal/pdfcompress/pkg/errors"
)

var errNoBackends = stderrors.New("no backends configured")

// Chain tries its backends in order until one succeeds.
type Chain struct {
	backends []ports.Backend
	logger   *zap.SugaredLogger
}

func New(logger *zap.SugaredLogger, backends ...ports.Backend) *Chain {
	return &Chain{backends: backends, logger: logger}
}

// Name joins member names, e.g. "ghostscript+pdfcpu".
func (c *Chain) Name() string {
	names := make([]string, len(c.backends))
	for i, b := range c.backends {
		names[i] = b.Name()
	}
	return strings.Join(names, "+")
}

// Available succeeds if any member is available.
func (c *Chain) Available(ctx context.Context) error {
	var lastErr error
	for _, b := range c.backends {
		err := b.Available(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Debugw("backend unavailable", "backend", b.Name(), "error", err)
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errNoBackends
	}
	return errors.NewBackendUnavailable("probe "+c.Name(), lastErr)
}

// Compress returns on the first member that succeeds. When every member is
// unavailable the error matches ErrBackendUnavailable, otherwise it is a
// BackendError carrying the last real failure.
func (c *Chain) Compress(ctx context.Context, input, output string, preset domain.Preset) error {
	var lastErr, lastFailure error

	for _, b := range c.backends {
		err := b.Compress(ctx, input, output, preset)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.logger.Debugw("backend failed, trying next", "backend", b.Name(), "preset", preset.Name, "error", err)
		if !errors.Is(err, errors.ErrBackendUnavailable) {
			lastFailure = err
		}
		lastErr = err
	}

	if lastErr == nil {
		return errors.NewBackendUnavailable("compress", errNoBackends)
	}
	if lastFailure == nil {
		return errors.NewBackendUnavailable("compress "+input, lastErr)
	}
	return errors.NewBackendError("compress "+preset.Name, input, lastFailure)
}

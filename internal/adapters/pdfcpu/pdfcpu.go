// Package pdfcpu optimises PDFs in-process with pdfcpu. It serves as the
// fallback when Ghostscript is not installed.
package pdfcpu

import (
	"bytes"
	"context"
	"os"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"

	"github.com/iamNilotpal/pdfcompress/internal/core/domain"
	"github.com/iamNilotpal/pdfcompress/pkg/errors"
	"github.com/iamNilotpal/pdfcompress/pkg/system"
)

const name = "pdfcpu"

var disableConfigDir sync.Once

// PDFCPU implements ports.Backend. pdfcpu has no quality knobs, so every
// preset produces the same output: stream recompression, duplicate object
// removal and unused resource cleanup.
type PDFCPU struct {
	logger *zap.SugaredLogger
}

func New(logger *zap.SugaredLogger) *PDFCPU {
	// pdfcpu would otherwise install a config directory under the user's home.
	disableConfigDir.Do(api.DisableConfigDir)
	return &PDFCPU{logger: logger}
}

func (p *PDFCPU) Name() string {
	return name
}

// Available always succeeds, the library is linked in.
func (p *PDFCPU) Available(ctx context.Context) error {
	return ctx.Err()
}

// Compress optimises input into memory and writes output only once the run
// completed, so an abandoned run never leaves a file behind.
func (p *PDFCPU) Compress(ctx context.Context, input, output string, preset domain.Preset) error {
	var buf bytes.Buffer

	err := system.RunWithContext(ctx, func(context.Context) error {
		f, err := os.Open(input)
		if err != nil {
			return err
		}
		defer f.Close()

		return api.Optimize(f, &buf, configuration())
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.NewBackendError(name+" "+preset.Name, input, err)
	}

	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		return errors.NewBackendError(name+" "+preset.Name, input, err)
	}

	p.logger.Debugw("pdfcpu optimized", "input", input, "preset", preset.Name, "size", buf.Len())
	return nil
}

func configuration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

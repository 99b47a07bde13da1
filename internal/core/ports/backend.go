package ports

import (
	"context"

	"github.com/iamNilotpal/pdfcompress/internal/core/domain"
)

// Backend performs the actual PDF recompression. The search treats it as a
// black box whose output size is roughly correlated with preset rank.
type Backend interface {
	// Name identifies the backend in logs and reports.
	Name() string

	// Available returns nil when the backend can be invoked. The error
	// matches errors.ErrBackendUnavailable otherwise.
	Available(ctx context.Context) error

	// Compress writes a recompressed copy of input to output using preset.
	// A failure matching errors.ErrBackendUnavailable means no attempt was
	// possible at all; any other failure concerns this attempt only.
	Compress(ctx context.Context, input, output string, preset domain.Preset) error
}

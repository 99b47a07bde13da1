package compressor

import (
	"fmt"
	"os"
	"strings"

	"github.com/iamNilotpal/pdfcompress/internal/core/domain"
	"github.com/iamNilotpal/pdfcompress/pkg/errors"
)

// Validate checks options after defaults have been applied.
func Validate(opts domain.CompressOptions) error {
	if opts.TargetBytes < 0 {
		return errors.NewValidationError("target_bytes", opts.TargetBytes, fmt.Errorf("target size must not be negative"))
	}

	if strings.ContainsAny(opts.OutputSuffix, `/\`) {
		return errors.NewValidationError("output_suffix", opts.OutputSuffix, fmt.Errorf("suffix must not contain path separators"))
	}

	if opts.OutputDir != "" {
		if info, err := os.Stat(opts.OutputDir); err == nil && !info.IsDir() {
			return errors.NewValidationError("output_dir", opts.OutputDir, fmt.Errorf("path exists and is not a directory"))
		}
	}

	for _, p := range opts.Ladder {
		if p.Name == "" || p.PDFSettings == "" {
			return errors.NewValidationError("ladder", p, fmt.Errorf("preset needs a name and distiller settings"))
		}
	}

	return nil
}

package compression

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/iamNilotpal/pdfcompress/internal/core/ports"
)

// Compression level constants define the trade-off between compression ratio and speed.
// Higher levels provide better compression at the cost of increased CPU usage and time.
const (
	FastestLevel uint8 = 1 // Optimized for speed with minimal compression
	DefaultLevel uint8 = 2 // Balanced between speed and compression ratio
	BestLevel    uint8 = 4 // Maximum compression ratio, higher CPU usage
)

// Options configures an encoding.
type Options struct {
	Level uint8
}

// Returns Options initialized with the default level.
func DefaultOptions() Options {
	return Options{Level: DefaultLevel}
}

// Checks the level is within FastestLevel and BestLevel.
func Validate(opts Options) error {
	if opts.Level < FastestLevel || opts.Level > BestLevel {
		return fmt.Errorf("compression level must be between %d and %d, got %d", FastestLevel, BestLevel, opts.Level)
	}
	return nil
}

// ForPath picks the encoding from a file name: ".zst" selects zstd, ".gz"
// selects gzip, anything else is written as is.
func ForPath(path string, opts Options) (ports.CompressionPort, error) {
	if err := Validate(opts); err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return NewZstdCompression(opts), nil
	case ".gz", ".gzip":
		return NewGzipCompression(opts), nil
	default:
		return NewNoopCompression(), nil
	}
}

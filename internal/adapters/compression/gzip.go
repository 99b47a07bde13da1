package compression

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// GzipCompression implements CompressionPort with klauspost's gzip.
type GzipCompression struct {
	level int
}

// Maps the shared 1-4 scale onto gzip levels.
func NewGzipCompression(opts Options) *GzipCompression {
	levels := map[uint8]int{
		FastestLevel: gzip.BestSpeed,
		DefaultLevel: gzip.DefaultCompression,
		3:            7,
		BestLevel:    gzip.BestCompression,
	}

	level, ok := levels[opts.Level]
	if !ok {
		level = gzip.DefaultCompression
	}
	return &GzipCompression{level: level}
}

func (g *GzipCompression) Name() string {
	return "gzip"
}

func (g *GzipCompression) NewWriter(w io.Writer) (io.WriteCloser, error) {
	gz, err := gzip.NewWriterLevel(w, g.level)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip writer: %w", err)
	}
	return gz, nil
}

func (g *GzipCompression) NewReader(r io.Reader) (io.ReadCloser, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	return gz, nil
}

// NoopCompression passes bytes through unchanged.
type NoopCompression struct{}

func NewNoopCompression() *NoopCompression {
	return &NoopCompression{}
}

func (NoopCompression) Name() string {
	return "none"
}

func (NoopCompression) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

func (NoopCompression) NewReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

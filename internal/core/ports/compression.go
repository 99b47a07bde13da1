package ports

import "io"

// CompressionPort wraps report streams in an encoding. This allows the
// report writer to pick zstd, gzip or plain output by file name.
type CompressionPort interface {
	// Name returns the encoding name, e.g. "zstd".
	Name() string

	// NewWriter wraps w. Closing the returned writer flushes the encoding
	// but does not close w.
	NewWriter(w io.Writer) (io.WriteCloser, error)

	// NewReader wraps r for decoding.
	NewReader(r io.Reader) (io.ReadCloser, error)
}

// Package compression provides the stream encodings used for run reports.
package compression

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// ZstdCompression implements CompressionPort using the zstd algorithm.
type ZstdCompression struct {
	level uint8
}

func NewZstdCompression(opts Options) *ZstdCompression {
	return &ZstdCompression{level: opts.Level}
}

func (z *ZstdCompression) Name() string {
	return "zstd"
}

// NewWriter returns a zstd encoder writing to w. Close flushes the final
// frame and leaves w open.
func (z *ZstdCompression) NewWriter(w io.Writer) (io.WriteCloser, error) {
	encoder, err := zstd.NewWriter(
		w,
		zstd.WithEncoderLevel(zstd.EncoderLevel(z.level)),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create encoder: %w", err)
	}
	return encoder, nil
}

func (z *ZstdCompression) NewReader(r io.Reader) (io.ReadCloser, error) {
	decoder, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	return decoder.IOReadCloser(), nil
}

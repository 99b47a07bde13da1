package pdfcpu

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iamNilotpal/pdfcompress/internal/core/domain"
	"github.com/iamNilotpal/pdfcompress/pkg/errors"
)

// minimalPDF builds a one-page document with a correct cross-reference table.
func minimalPDF() []byte {
	content := "0 0 m 100 100 l S"
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 200 200] /Resources << >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func writeMinimalPDF(t *testing.T) (input, output string) {
	t.Helper()
	dir := t.TempDir()
	input = filepath.Join(dir, "in.pdf")
	require.NoError(t, os.WriteFile(input, minimalPDF(), 0644))
	return input, filepath.Join(dir, "out.pdf")
}

func TestCompressWritesOptimizedOutput(t *testing.T) {
	input, output := writeMinimalPDF(t)

	err := New(zap.NewNop().Sugar()).Compress(context.Background(), input, output, domain.PresetHigh)
	require.NoError(t, err)

	stat, err := os.Stat(output)
	require.NoError(t, err)
	assert.Positive(t, stat.Size())

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestCompressCancelledLeavesNoOutput(t *testing.T) {
	input, output := writeMinimalPDF(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(zap.NewNop().Sugar()).Compress(ctx, input, output, domain.PresetHigh)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, output)
}

func TestAvailable(t *testing.T) {
	p := New(zap.NewNop().Sugar())
	assert.Equal(t, "pdfcpu", p.Name())
	assert.NoError(t, p.Available(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Available(ctx), context.Canceled)
}

func TestCompressRejectsNonPDF(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "notes.pdf")
	output := filepath.Join(dir, "out.pdf")
	require.NoError(t, os.WriteFile(input, []byte("plain text, not a pdf"), 0644))

	err := New(zap.NewNop().Sugar()).Compress(context.Background(), input, output, domain.PresetLow)
	assert.ErrorIs(t, err, errors.ErrBackend)

	_, statErr := os.Stat(output)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestCompressMissingInput(t *testing.T) {
	dir := t.TempDir()
	err := New(zap.NewNop().Sugar()).Compress(
		context.Background(), filepath.Join(dir, "missing.pdf"), filepath.Join(dir, "out.pdf"), domain.PresetLow,
	)
	assert.ErrorIs(t, err, errors.ErrBackend)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

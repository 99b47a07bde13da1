package ghostscript

import (
	"context"
	stderrors "errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iamNilotpal/pdfcompress/internal/core/domain"
	"github.com/iamNilotpal/pdfcompress/pkg/errors"
)

const fakeGS = `#!/bin/sh
if [ "$1" = "--version" ]; then
  echo 10.02.1
  exit 0
fi
out=""
last=""
for a in "$@"; do
  case "$a" in
    -sOutputFile=*) out="${a#-sOutputFile=}" ;;
  esac
  last="$a"
done
if [ "$FAKE_GS_MODE" = "fail" ]; then
  echo "Error: /syntaxerror in pdfwrite" >&2
  exit 1
fi
if [ "$FAKE_GS_MODE" = "silent" ]; then
  exit 0
fi
cp "$last" "$out"
`

func writeFakeGS(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake ghostscript is a shell script")
	}
	path := filepath.Join(t.TempDir(), "gs")
	require.NoError(t, os.WriteFile(path, []byte(fakeGS), 0755))
	return path
}

func newBackend(t *testing.T, opts domain.GhostscriptOptions) *Ghostscript {
	t.Helper()
	g, err := New(opts, zap.NewNop().Sugar())
	require.NoError(t, err)
	return g
}

func TestArgsWithImageSettings(t *testing.T) {
	args := Args(DefaultOptions(), domain.PresetHigh, "in.pdf", "out.pdf")

	assert.Equal(t, []string{
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=1.4",
		"-dPDFSETTINGS=/ebook",
		"-dNOPAUSE",
		"-dQUIET",
		"-dBATCH",
		"-dSAFER",
		"-dColorImageResolution=100",
		"-dGrayImageResolution=100",
		"-dMonoImageResolution=200",
		"-dColorImageDownsampleType=/Bicubic",
		"-dGrayImageDownsampleType=/Bicubic",
		"-dJPEGQ=60",
		"-dOptimize=true",
		"-dEmbedAllFonts=true",
		"-dSubsetFonts=true",
		"-sOutputFile=out.pdf",
		"in.pdf",
	}, args)
}

func TestArgsPlainPresetAndEscaping(t *testing.T) {
	preset := domain.Preset{Name: "plain", PDFSettings: "/prepress"}
	args := Args(domain.GhostscriptOptions{CompatibilityLevel: "1.7"}, preset, "-odd.pdf", "out/100%.pdf")

	assert.Contains(t, args, "-dCompatibilityLevel=1.7")
	assert.NotContains(t, args, "-dOptimize=true")
	assert.Equal(t, "-sOutputFile=out/100%%.pdf", args[len(args)-2])
	assert.Equal(t, "."+string(filepath.Separator)+"-odd.pdf", args[len(args)-1])
}

func TestCandidates(t *testing.T) {
	assert.Equal(t, []string{"gswin64c", "gswin32c", "gs"}, Candidates("windows"))
	assert.Equal(t, []string{"gs"}, Candidates("linux"))
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, err := New(domain.GhostscriptOptions{CompatibilityLevel: "9.9"}, zap.NewNop().Sugar())
	assert.True(t, errors.IsValidationError(err))

	_, err = New(domain.GhostscriptOptions{Timeout: -time.Second}, zap.NewNop().Sugar())
	assert.Error(t, err)
}

func TestAvailableWithoutExecutable(t *testing.T) {
	g := newBackend(t, domain.GhostscriptOptions{})
	g.lookPath = func(string) (string, error) { return "", exec.ErrNotFound }

	err := g.Available(context.Background())
	assert.ErrorIs(t, err, errors.ErrBackendUnavailable)

	err = g.Compress(context.Background(), "in.pdf", "out.pdf", domain.PresetLow)
	assert.ErrorIs(t, err, errors.ErrBackendUnavailable)
}

func TestWindowsDiscoveryFallsBack(t *testing.T) {
	exe := writeFakeGS(t)

	g := newBackend(t, domain.GhostscriptOptions{})
	g.goos = "windows"
	var tried []string
	g.lookPath = func(file string) (string, error) {
		tried = append(tried, file)
		if file == "gs" {
			return exe, nil
		}
		return "", exec.ErrNotFound
	}

	version, err := g.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "10.02.1", version)
	assert.Equal(t, []string{"gswin64c", "gswin32c", "gs"}, tried)
	assert.Equal(t, exe, g.Executable())
}

func TestCompressWithFakeExecutable(t *testing.T) {
	exe := writeFakeGS(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "in.pdf")
	output := filepath.Join(dir, "out.pdf")
	require.NoError(t, os.WriteFile(input, []byte("%PDF-1.4 fake"), 0644))

	g := newBackend(t, domain.GhostscriptOptions{Executable: exe})
	require.NoError(t, g.Compress(context.Background(), input, output, domain.PresetMedium))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(data))
}

func TestCompressReportsStderr(t *testing.T) {
	exe := writeFakeGS(t)
	t.Setenv("FAKE_GS_MODE", "fail")

	g := newBackend(t, domain.GhostscriptOptions{Executable: exe})
	err := g.Compress(context.Background(), "in.pdf", filepath.Join(t.TempDir(), "out.pdf"), domain.PresetLow)

	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrBackend)
	assert.NotErrorIs(t, err, errors.ErrBackendUnavailable)
	assert.Contains(t, err.Error(), "/syntaxerror")

	var ce *errors.CompressError
	require.True(t, stderrors.As(err, &ce))
	assert.True(t, ce.IsRetryAble())
}

func TestCompressWithoutOutputIsBackendError(t *testing.T) {
	exe := writeFakeGS(t)
	t.Setenv("FAKE_GS_MODE", "silent")

	g := newBackend(t, domain.GhostscriptOptions{Executable: exe})
	err := g.Compress(context.Background(), "in.pdf", filepath.Join(t.TempDir(), "out.pdf"), domain.PresetLow)
	assert.ErrorIs(t, err, errors.ErrBackend)
	assert.Contains(t, err.Error(), "no output produced")
}

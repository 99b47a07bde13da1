package search

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iamNilotpal/pdfcompress/internal/core/domain"
	"github.com/iamNilotpal/pdfcompress/pkg/errors"
	"github.com/iamNilotpal/pdfcompress/pkg/fs"
)

const mb = 1024 * 1024

// scriptedBackend writes sparse files of a fixed size per preset.
type scriptedBackend struct {
	sizes   map[string]int64
	fail    map[string]error
	partial bool // write a partial file before failing
	onCall  func(preset string)
	calls   []string
}

func (b *scriptedBackend) Name() string { return "scripted" }

func (b *scriptedBackend) Available(context.Context) error { return nil }

func (b *scriptedBackend) Compress(ctx context.Context, input, output string, preset domain.Preset) error {
	b.calls = append(b.calls, preset.Name)
	if b.onCall != nil {
		b.onCall(preset.Name)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err, ok := b.fail[preset.Name]; ok {
		if b.partial {
			_ = os.WriteFile(output, []byte("%PDF-partial"), 0644)
		}
		return err
	}
	return writeSized(output, b.sizes[preset.Name])
}

func writeSized(path string, size int64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type fixture struct {
	dir    string
	input  string
	output string
}

func newFixture(t *testing.T, inputSize int64) fixture {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "scan.pdf")
	require.NoError(t, writeSized(input, inputSize))
	return fixture{dir: dir, input: input, output: filepath.Join(dir, "scan_compressed.pdf")}
}

// entries lists every file left in the fixture directory.
func (f fixture) entries(t *testing.T) []string {
	t.Helper()
	list, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	names := make([]string, 0, len(list))
	for _, e := range list {
		names = append(names, e.Name())
	}
	return names
}

func newController(b *scriptedBackend, opts domain.SearchOptions) *Controller {
	return New(b, fs.NewLocalFileSystem(), zap.NewNop().Sugar(), opts)
}

func ladderSizes() map[string]int64 {
	return map[string]int64{
		"low":     8 * mb,
		"medium":  3 * mb,
		"high":    9 * mb / 10,
		"maximum": mb / 2,
	}
}

func TestSelectsFirstPresetMeetingTarget(t *testing.T) {
	f := newFixture(t, 10*mb)
	b := &scriptedBackend{sizes: ladderSizes()}

	res, err := newController(b, DefaultOptions()).FindBestCompression(context.Background(), f.input, f.output, mb, domain.Presets())
	require.NoError(t, err)

	assert.Equal(t, "high", res.Preset.Name)
	assert.True(t, res.TargetMet)
	assert.False(t, res.Skipped)
	assert.Equal(t, int64(9*mb/10), res.FinalSize)
	assert.Equal(t, int64(10*mb), res.OriginalSize)
	assert.Equal(t, 3, res.Invocations)
	assert.Equal(t, []string{"low", "medium", "high"}, b.calls)
	assert.Equal(t, f.output, res.Output)

	stat, err := os.Stat(f.output)
	require.NoError(t, err)
	assert.Equal(t, int64(9*mb/10), stat.Size())
	assert.ElementsMatch(t, []string{"scan.pdf", "scan_compressed.pdf"}, f.entries(t))
}

func TestKeepsSmallestWhenTargetUnreachable(t *testing.T) {
	f := newFixture(t, 10*mb)
	b := &scriptedBackend{sizes: ladderSizes()}

	res, err := newController(b, DefaultOptions()).FindBestCompression(context.Background(), f.input, f.output, mb/10, domain.Presets())
	require.NoError(t, err)

	assert.Equal(t, "maximum", res.Preset.Name)
	assert.False(t, res.TargetMet)
	assert.Equal(t, int64(mb/2), res.FinalSize)
	assert.Equal(t, 4, res.Invocations)
	assert.ElementsMatch(t, []string{"scan.pdf", "scan_compressed.pdf"}, f.entries(t))
}

func TestTieKeepsLessAggressivePreset(t *testing.T) {
	f := newFixture(t, 10*mb)
	b := &scriptedBackend{sizes: map[string]int64{"low": 4 * mb, "medium": 2 * mb, "high": 2 * mb, "maximum": 3 * mb}}

	res, err := newController(b, DefaultOptions()).FindBestCompression(context.Background(), f.input, f.output, mb, domain.Presets())
	require.NoError(t, err)
	assert.Equal(t, "medium", res.Preset.Name)
	assert.False(t, res.TargetMet)
}

func TestSkipsWhenAlreadyWithinTarget(t *testing.T) {
	f := newFixture(t, mb/2)
	b := &scriptedBackend{sizes: ladderSizes()}

	res, err := newController(b, DefaultOptions()).FindBestCompression(context.Background(), f.input, f.output, mb, domain.Presets())
	require.NoError(t, err)

	assert.True(t, res.Skipped)
	assert.True(t, res.TargetMet)
	assert.Zero(t, res.Invocations)
	assert.Empty(t, b.calls)
	assert.Equal(t, res.OriginalSize, res.FinalSize)
	assert.Equal(t, f.input, res.Output)
}

func TestNoSkipPolicyStillCompresses(t *testing.T) {
	f := newFixture(t, mb/2)
	b := &scriptedBackend{sizes: ladderSizes()}

	res, err := newController(b, domain.SearchOptions{}).FindBestCompression(context.Background(), f.input, f.output, mb, domain.Presets())
	require.NoError(t, err)

	assert.False(t, res.Skipped)
	assert.Equal(t, "high", res.Preset.Name)
	assert.Equal(t, 3, res.Invocations)
}

func TestFailedPresetIsSkipped(t *testing.T) {
	f := newFixture(t, 10*mb)
	b := &scriptedBackend{
		sizes:   ladderSizes(),
		fail:    map[string]error{"medium": errors.NewBackendError("gs", f.input, stderrors.New("exit status 1"))},
		partial: true,
	}

	res, err := newController(b, DefaultOptions()).FindBestCompression(context.Background(), f.input, f.output, mb, domain.Presets())
	require.NoError(t, err)

	assert.Equal(t, "high", res.Preset.Name)
	assert.Equal(t, []string{"low", "medium", "high"}, b.calls)
	assert.ElementsMatch(t, []string{"scan.pdf", "scan_compressed.pdf"}, f.entries(t))
}

func TestAllAttemptsFailingIsBackendUnavailable(t *testing.T) {
	f := newFixture(t, 10*mb)
	boom := stderrors.New("gs: command not found")
	b := &scriptedBackend{
		fail:    map[string]error{"low": boom, "medium": boom, "high": boom, "maximum": boom},
		partial: true,
	}

	_, err := newController(b, DefaultOptions()).FindBestCompression(context.Background(), f.input, f.output, mb, domain.Presets())
	assert.ErrorIs(t, err, errors.ErrBackendUnavailable)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, b.calls, 4)
	assert.Equal(t, []string{"scan.pdf"}, f.entries(t))
}

func TestMissingSourceIsSourceReadError(t *testing.T) {
	dir := t.TempDir()
	b := &scriptedBackend{sizes: ladderSizes()}

	_, err := newController(b, DefaultOptions()).FindBestCompression(
		context.Background(), filepath.Join(dir, "missing.pdf"), filepath.Join(dir, "out.pdf"), mb, domain.Presets(),
	)
	assert.ErrorIs(t, err, errors.ErrSourceRead)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, b.calls)
}

func TestNoTargetTakesFirstSuccess(t *testing.T) {
	f := newFixture(t, 10*mb)
	b := &scriptedBackend{sizes: ladderSizes()}

	res, err := newController(b, DefaultOptions()).FindBestCompression(
		context.Background(), f.input, f.output, 0, []domain.Preset{domain.PresetMedium},
	)
	require.NoError(t, err)
	assert.Equal(t, "medium", res.Preset.Name)
	assert.True(t, res.TargetMet)
	assert.Equal(t, 1, res.Invocations)
}

func TestPresetsAreSearchedInRankOrder(t *testing.T) {
	f := newFixture(t, 10*mb)
	b := &scriptedBackend{sizes: ladderSizes()}

	shuffled := []domain.Preset{domain.PresetMaximum, domain.PresetLow, domain.PresetHigh, domain.PresetMedium}
	res, err := newController(b, DefaultOptions()).FindBestCompression(context.Background(), f.input, f.output, mb, shuffled)
	require.NoError(t, err)
	assert.Equal(t, []string{"low", "medium", "high"}, b.calls)
	assert.Equal(t, "high", res.Preset.Name)
}

func TestInvocationsNeverExceedPresetCount(t *testing.T) {
	for n := 1; n <= 4; n++ {
		f := newFixture(t, 10*mb)
		b := &scriptedBackend{sizes: ladderSizes()}

		res, err := newController(b, DefaultOptions()).FindBestCompression(context.Background(), f.input, f.output, 1, domain.Presets()[:n])
		require.NoError(t, err)
		assert.Equal(t, n, res.Invocations)
		assert.LessOrEqual(t, len(b.calls), n)
	}
}

func TestCancellationCleansUp(t *testing.T) {
	f := newFixture(t, 10*mb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := &scriptedBackend{sizes: ladderSizes()}
	b.onCall = func(preset string) {
		if preset == "medium" {
			cancel()
		}
	}

	_, err := newController(b, DefaultOptions()).FindBestCompression(ctx, f.input, f.output, mb, domain.Presets())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"scan.pdf"}, f.entries(t))
}

func TestEmptyPresetList(t *testing.T) {
	f := newFixture(t, mb)
	_, err := newController(&scriptedBackend{}, DefaultOptions()).FindBestCompression(context.Background(), f.input, f.output, mb, nil)
	assert.True(t, errors.IsValidationError(err))
}

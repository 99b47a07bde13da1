// Package search implements the target-size search: it walks an ordered
// preset list, invoking the backend once per preset, and keeps the least
// aggressive candidate that fits the target.
package search

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/iamNilotpal/pdfcompress/internal/core/domain"
	"github.com/iamNilotpal/pdfcompress/internal/core/ports"
	"github.com/iamNilotpal/pdfcompress/pkg/errors"
	"github.com/iamNilotpal/pdfcompress/pkg/fs"
	"github.com/iamNilotpal/pdfcompress/pkg/units"
)

// Controller runs searches. It holds no per-search state and is safe for
// concurrent use as long as concurrent searches write different outputs.
type Controller struct {
	opts    domain.SearchOptions
	fs      ports.FileSystemPort
	backend ports.Backend
	logger  *zap.SugaredLogger
}

// DefaultOptions returns the search defaults: inputs already within target
// are returned untouched.
func DefaultOptions() domain.SearchOptions {
	return domain.SearchOptions{SkipIfSmaller: true}
}

func New(backend ports.Backend, fsys ports.FileSystemPort, logger *zap.SugaredLogger, opts domain.SearchOptions) *Controller {
	return &Controller{
		fs:      fsys,
		opts:    opts,
		logger:  logger,
		backend: backend,
	}
}

// candidate is one backend output on disk.
type candidate struct {
	path   string
	size   int64
	preset domain.Preset
}

// FindBestCompression compresses input into output using at most
// len(presets) backend invocations.
//
// With targetBytes > 0 the first preset, least aggressive first, whose
// output is within target wins. If none is, the smallest output wins and the
// result has TargetMet false. With targetBytes <= 0 the first successful
// preset wins.
//
// Every candidate except the winner is deleted before returning, on every
// path. Errors:
//   - SourceReadError when input cannot be measured
//   - BackendUnavailable when every invocation failed
//   - ctx.Err() when cancelled between or during attempts
func (c *Controller) FindBestCompression(
	ctx context.Context, input, output string, targetBytes int64, presets []domain.Preset,
) (*domain.Result, error) {
	if len(presets) == 0 {
		return nil, errors.NewValidationError("presets", presets, fmt.Errorf("at least one preset is required"))
	}

	originalSize, err := c.fs.Size(input)
	if err != nil {
		return nil, errors.NewSourceReadError(input, err)
	}

	result := &domain.Result{
		Input:        input,
		Output:       output,
		OriginalSize: originalSize,
	}

	if targetBytes > 0 && originalSize <= targetBytes && c.opts.SkipIfSmaller {
		c.logger.Debugw(
			"already within target, skipping compression",
			"file", filepath.Base(input),
			"size", units.FormatSize(originalSize),
			"target", units.FormatSize(targetBytes),
		)
		result.Output = input
		result.FinalSize = originalSize
		result.TargetMet = true
		result.Skipped = true
		return result, nil
	}

	var (
		best    *candidate
		keep    string
		lastErr error
		created []string
	)

	// Candidates are registered before the backend runs so partial output
	// from a failed or cancelled attempt is removed too.
	defer func() {
		for _, path := range created {
			if path == keep {
				continue
			}
			if err := c.fs.DeleteFile(path); err != nil {
				c.logger.Warnw("failed to remove candidate", "path", path, "error", err)
			}
		}
	}()

	for _, preset := range domain.OrderPresets(presets) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := fs.CandidatePath(output, preset.Name)
		created = append(created, path)
		result.Invocations++

		attempt := c.try(ctx, input, path, preset)
		if !attempt.Ok() {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warnw("compression attempt failed", "file", filepath.Base(input), "preset", preset.Name, "error", attempt.Err)
			lastErr = attempt.Err
			continue
		}

		c.logger.Debugw(
			"compression attempt",
			"file", filepath.Base(input),
			"preset", preset.Name,
			"size", units.FormatSize(attempt.Size),
		)

		// Strictly smaller, so on a tie the less aggressive preset stays.
		if best == nil || attempt.Size < best.size {
			best = &candidate{path: path, size: attempt.Size, preset: preset}
		}

		if targetBytes <= 0 || attempt.Size <= targetBytes {
			best = &candidate{path: path, size: attempt.Size, preset: preset}
			break
		}
	}

	if best == nil {
		return nil, errors.NewBackendUnavailable(
			fmt.Sprintf("compress %s (%d attempts)", input, result.Invocations), lastErr,
		)
	}

	if err := c.fs.Rename(best.path, output); err != nil {
		return nil, errors.NewOutputError("move result", output, err)
	}
	keep = best.path

	result.Preset = best.preset
	result.FinalSize = best.size
	result.TargetMet = targetBytes <= 0 || best.size <= targetBytes

	if !result.TargetMet {
		c.logger.Debugw(
			"no preset met the target, keeping smallest result",
			"file", filepath.Base(input),
			"preset", best.preset.Name,
			"size", units.FormatSize(best.size),
		)
	}
	return result, nil
}

// try runs one backend invocation and measures its output.
func (c *Controller) try(ctx context.Context, input, path string, preset domain.Preset) domain.Attempt {
	attempt := domain.Attempt{Preset: preset}

	if err := c.backend.Compress(ctx, input, path, preset); err != nil {
		attempt.Err = err
		return attempt
	}

	size, err := c.fs.Size(path)
	if err != nil {
		attempt.Err = errors.NewBackendError("measure candidate", path, err)
		return attempt
	}

	attempt.Size = size
	return attempt
}

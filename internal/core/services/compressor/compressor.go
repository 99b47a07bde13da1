// Package compressor compresses one PDF: it validates the input, derives the
// output path, picks single-preset or target mode and reports the outcome.
package compressor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/iamNilotpal/pdfcompress/internal/core/domain"
	"github.com/iamNilotpal/pdfcompress/internal/core/ports"
	"github.com/iamNilotpal/pdfcompress/internal/core/services/search"
	"github.com/iamNilotpal/pdfcompress/pkg/errors"
	"github.com/iamNilotpal/pdfcompress/pkg/fs"
	"github.com/iamNilotpal/pdfcompress/pkg/units"
)

// Service compresses individual files. It is safe for concurrent use on
// distinct inputs.
type Service struct {
	opts    domain.CompressOptions
	fs      ports.FileSystemPort
	backend ports.Backend
	search  *search.Controller
	logger  *zap.SugaredLogger
}

func New(
	backend ports.Backend, fsys ports.FileSystemPort, logger *zap.SugaredLogger, opts domain.CompressOptions,
) (*Service, error) {
	opts = prepareDefaults(opts)
	if err := Validate(opts); err != nil {
		return nil, err
	}

	return &Service{
		fs:      fsys,
		opts:    opts,
		logger:  logger,
		backend: backend,
		search:  search.New(backend, fsys, logger, opts.Search),
	}, nil
}

// Options returns the effective options.
func (s *Service) Options() domain.CompressOptions {
	return s.opts
}

// Backend returns the backend files are compressed with.
func (s *Service) Backend() ports.Backend {
	return s.backend
}

// OutputPath returns where CompressFile writes input when no explicit output
// is given.
func (s *Service) OutputPath(input string) string {
	return fs.DerivedOutputPath(input, s.opts.OutputDir, s.opts.OutputSuffix)
}

// ResolveOutput returns the path CompressFile writes for input. An output
// directory takes precedence over an explicit output, which in turn takes
// precedence over the derived name next to the input.
func (s *Service) ResolveOutput(input, output string) string {
	if output == "" || s.opts.OutputDir != "" {
		return s.OutputPath(input)
	}
	return output
}

// CompressFile compresses input into ResolveOutput(input, output). A result
// that misses the target is returned without error and with TargetMet false.
func (s *Service) CompressFile(ctx context.Context, input, output string) (*domain.Result, error) {
	if !strings.EqualFold(filepath.Ext(input), ".pdf") {
		return nil, errors.NewSourceReadError(input, fmt.Errorf("not a PDF file"))
	}

	originalSize, err := s.fs.Size(input)
	if err != nil {
		return nil, errors.NewSourceReadError(input, err)
	}

	if resolved := s.ResolveOutput(input, output); resolved != output {
		if output != "" {
			s.logger.Warnw("output directory overrides explicit output", "output", output, "using", resolved)
		}
		output = resolved
	}

	if samePath(input, output) {
		return nil, errors.NewValidationError("output", output, fmt.Errorf("output would overwrite the input"))
	}

	if err := s.fs.CreateDir(filepath.Dir(output), 0755); err != nil {
		return nil, errors.NewOutputError("create output directory", filepath.Dir(output), err)
	}

	s.logger.Infow(
		fmt.Sprintf("Compressing: %s (%s)", filepath.Base(input), units.FormatSize(originalSize)),
		"mode", s.mode(),
	)

	presets, target := []domain.Preset{s.opts.Quality}, int64(0)
	if s.opts.TargetBytes > 0 {
		presets, target = s.opts.Ladder, s.opts.TargetBytes
	}

	result, err := s.search.FindBestCompression(ctx, input, output, target, presets)
	if err != nil {
		return nil, err
	}

	if result.Skipped {
		if err := s.fs.CopyFile(input, output); err != nil {
			return nil, errors.NewOutputError("copy original", output, err)
		}
		result.Output = output

		s.logger.Infow(
			fmt.Sprintf("Already within target: %s (%s), copied unchanged", filepath.Base(output), units.FormatSize(result.FinalSize)),
		)
		return result, nil
	}

	s.logger.Infow(
		fmt.Sprintf(
			"Compressed: %s (%s) - %.1f%% reduction",
			filepath.Base(output), units.FormatSize(result.FinalSize), result.Reduction(),
		),
		"preset", result.Preset.Name,
		"attempts", result.Invocations,
	)

	if !result.TargetMet {
		s.logger.Warnw(
			"target size not met, kept the smallest result",
			"file", filepath.Base(output),
			"size", units.FormatSize(result.FinalSize),
			"target", units.FormatSize(target),
		)
	}

	return result, nil
}

func (s *Service) mode() string {
	if s.opts.TargetBytes > 0 {
		return "target " + units.FormatSize(s.opts.TargetBytes)
	}
	return "quality " + s.opts.Quality.Name
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

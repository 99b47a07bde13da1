// Package batch compresses many inputs with a bounded number of workers and
// collects a report in input order.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/iamNilotpal/pdfcompress/internal/core/domain"
	"github.com/iamNilotpal/pdfcompress/internal/core/ports"
	"github.com/iamNilotpal/pdfcompress/pkg/errors"
	"github.com/iamNilotpal/pdfcompress/pkg/fs"
)

// FileCompressor is the per-file operation a Runner drives.
type FileCompressor interface {
	CompressFile(ctx context.Context, input, output string) (*domain.Result, error)

	// ResolveOutput returns the path CompressFile would write for input.
	ResolveOutput(input, output string) string
}

// Runner runs a batch.
type Runner struct {
	opts       domain.BatchOptions
	compressor FileCompressor
	logger     *zap.SugaredLogger
}

func DefaultOptions() domain.BatchOptions {
	return domain.BatchOptions{Jobs: 1}
}

func New(compressor FileCompressor, logger *zap.SugaredLogger, opts domain.BatchOptions) (*Runner, error) {
	if opts.Jobs == 0 {
		opts.Jobs = DefaultOptions().Jobs
	}
	if opts.Jobs < 0 {
		return nil, errors.NewValidationError("jobs", opts.Jobs, fmt.Errorf("must be at least 1"))
	}
	return &Runner{opts: opts, compressor: compressor, logger: logger}, nil
}

type job struct {
	index  int
	input  string
	output string
}

// Run compresses every input. output names the destination and is only
// accepted with a single input; otherwise outputs are derived per file.
//
// A failing file is recorded in the report and does not stop the others.
// When the backend stops answering its probe the remaining files are
// abandoned and the error is returned along with the partial report. The
// returned error combines every per-file failure otherwise.
//
// Inputs whose output path is already claimed by an earlier input, e.g. two
// "x.pdf" from different directories sent to one output directory, fail
// without being compressed.
func (r *Runner) Run(ctx context.Context, inputs []string, output string) (*domain.Report, error) {
	if len(inputs) == 0 {
		return nil, errors.NewValidationError("inputs", inputs, fmt.Errorf("no input files"))
	}
	if output != "" && len(inputs) > 1 {
		return nil, errors.NewValidationError("output", output, fmt.Errorf("an explicit output requires exactly one input, got %d", len(inputs)))
	}

	report := &domain.Report{StartedAt: time.Now(), Files: make([]domain.FileReport, len(inputs))}
	pending := r.plan(inputs, output, report)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		fatalErr error
		jobs     = make(chan job)
	)

	workers := min(r.opts.Jobs, len(inputs))
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := runCtx.Err(); err != nil {
					report.Files[j.index] = fileReport(j.input, nil, fmt.Errorf("not processed: %w", err))
					continue
				}

				res, err := r.compressor.CompressFile(runCtx, j.input, j.output)
				report.Files[j.index] = fileReport(j.input, res, err)

				if err != nil && errors.Is(err, errors.ErrBackendUnavailable) && r.backendGone(runCtx) {
					mu.Lock()
					if fatalErr == nil {
						fatalErr = err
					}
					mu.Unlock()
					cancel()
				}
			}
		}()
	}

dispatch:
	for _, j := range pending {
		select {
		case <-runCtx.Done():
			break dispatch
		case jobs <- j:
		}
	}
	close(jobs)
	wg.Wait()

	for i, f := range report.Files {
		if f.Input == "" {
			report.Files[i] = fileReport(inputs[i], nil, fmt.Errorf("not processed: %w", context.Cause(runCtx)))
		}
	}

	report.FinishedAt = time.Now()
	report.Summarize()

	r.logger.Infow(
		fmt.Sprintf("Processed %d/%d files", report.Succeeded, report.TotalFiles),
		"failed", report.Failed,
		"reduction", fmt.Sprintf("%.1f%%", report.Reduction),
		"elapsed", report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond),
	)

	if fatalErr != nil {
		return report, fatalErr
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	var errs error
	for _, f := range report.Files {
		if !f.Success {
			errs = multierr.Append(errs, fmt.Errorf("%s: %s", filepath.Base(f.Input), f.Error))
		}
	}
	return report, errs
}

// plan resolves every output path and returns the jobs to run. Inputs that
// collide with an earlier input's output are recorded as failed in report.
func (r *Runner) plan(inputs []string, output string, report *domain.Report) []job {
	claimed := make(map[string]string, len(inputs))
	pending := make([]job, 0, len(inputs))

	for i, input := range inputs {
		out := r.compressor.ResolveOutput(input, output)
		key := pathKey(out)

		if owner, ok := claimed[key]; ok {
			err := errors.NewValidationError(
				"output", out, fmt.Errorf("output already used by %s", owner),
			)
			r.logger.Warnw("skipping input with colliding output", "file", input, "output", out, "owner", owner)
			report.Files[i] = fileReport(input, nil, err)
			continue
		}

		claimed[key] = input
		pending = append(pending, job{index: i, input: input, output: out})
	}
	return pending
}

func pathKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// backendGone re-probes the backend after a file exhausted every preset. A
// backend that still answers means the file itself is at fault.
func (r *Runner) backendGone(ctx context.Context) bool {
	b, ok := r.compressor.(interface{ Backend() ports.Backend })
	if !ok {
		return true
	}
	if err := b.Backend().Available(ctx); err != nil {
		r.logger.Errorw("compression backend lost", "backend", b.Backend().Name(), "error", err)
		return true
	}
	return false
}

func fileReport(input string, res *domain.Result, err error) domain.FileReport {
	if err == nil && res != nil {
		return domain.NewFileReport(res)
	}
	fr := domain.FileReport{Input: input}
	if err != nil {
		fr.Error = err.Error()
		if cat := errors.CategoryOf(err); cat != 0 {
			fr.ErrorCategory = cat.String()
		} else if errors.IsValidationError(err) {
			fr.ErrorCategory = errors.ErrorConfig.String()
		}
	}
	return fr
}

// ExpandInputs resolves glob patterns and plain paths into a deduplicated
// list of PDF files, keeping first-seen order. Patterns matching nothing and
// missing paths are logged and skipped.
func ExpandInputs(fsys ports.FileSystemPort, logger *zap.SugaredLogger, patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string

	add := func(path string) {
		if !fs.IsPDF(path) {
			logger.Warnw("skipping non-PDF file", "path", path)
			return
		}
		key := filepath.Clean(path)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		files = append(files, path)
	}

	for _, pattern := range patterns {
		if fs.IsPattern(pattern) {
			matches, err := fsys.Glob(pattern)
			if err != nil {
				return nil, errors.NewValidationError("input", pattern, err)
			}
			if len(matches) == 0 {
				logger.Warnw("no files match pattern", "pattern", pattern)
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}

		exists, err := fsys.Exists(pattern)
		if err != nil {
			return nil, errors.NewSourceReadError(pattern, err)
		}
		if !exists {
			logger.Warnw("file not found", "path", pattern)
			continue
		}
		add(pattern)
	}

	if len(files) == 0 {
		return nil, errors.NewValidationError("inputs", patterns, fmt.Errorf("no PDF files to process"))
	}
	return files, nil
}

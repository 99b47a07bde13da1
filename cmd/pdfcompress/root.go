package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iamNilotpal/pdfcompress/config"
	"github.com/iamNilotpal/pdfcompress/internal/adapters/fallback"
	"github.com/iamNilotpal/pdfcompress/internal/adapters/ghostscript"
	"github.com/iamNilotpal/pdfcompress/internal/adapters/pdfcpu"
	"github.com/iamNilotpal/pdfcompress/internal/adapters/report"
	"github.com/iamNilotpal/pdfcompress/internal/core/domain"
	"github.com/iamNilotpal/pdfcompress/internal/core/ports"
	"github.com/iamNilotpal/pdfcompress/internal/core/services/batch"
	"github.com/iamNilotpal/pdfcompress/internal/core/services/compressor"
	"github.com/iamNilotpal/pdfcompress/pkg/errors"
	"github.com/iamNilotpal/pdfcompress/pkg/fs"
	"github.com/iamNilotpal/pdfcompress/pkg/logger"
	"github.com/iamNilotpal/pdfcompress/pkg/units"
)

type options struct {
	configPath string
	verbose    bool

	output     string
	outputDir  string
	quality    string
	targetMB   float64
	jobs       int
	reportPath string
	noSkip     bool
	backend    string
}

func newRootCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pdfcompress [flags] <input>...",
		Short: "Compress PDF files with Ghostscript, optionally down to a target size",
		Example: "  pdfcompress report.pdf\n" +
			"  pdfcompress -q high -d out/ scans/*.pdf\n" +
			"  pdfcompress --target-size-mb 2 -o small.pdf big.pdf",
		Version:       version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log every compression attempt")

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (single input only)")
	f.StringVarP(&opts.outputDir, "output-dir", "d", "", "directory for compressed files")
	f.StringVarP(&opts.quality, "quality", "q", domain.DefaultPreset.Name, "quality preset: low, medium, high, maximum")
	f.Float64Var(&opts.targetMB, "target-size-mb", 0, "target size in MB; tries presets until the output fits")
	f.IntVarP(&opts.jobs, "jobs", "j", 1, "files compressed in parallel")
	f.StringVar(&opts.reportPath, "report", "", "write a JSON report (.zst or .gz to compress it)")
	f.BoolVar(&opts.noSkip, "no-skip", false, "compress even when the input is already within the target")
	f.StringVar(&opts.backend, "backend", config.BackendAuto, "compression backend: auto, ghostscript, pdfcpu")

	cmd.AddCommand(newCheckCommand(opts))
	return cmd
}

// loadConfig reads the config file, if any, and applies flags the user set.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := config.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("quality") {
		cfg.Quality = opts.quality
	}
	if flags.Changed("target-size-mb") {
		cfg.TargetSizeMB = opts.targetMB
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = opts.outputDir
	}
	if flags.Changed("jobs") {
		cfg.Jobs = opts.jobs
	}
	if flags.Changed("report") {
		cfg.ReportPath = opts.reportPath
	}
	if flags.Changed("no-skip") {
		cfg.SkipIfSmaller = !opts.noSkip
	}
	if flags.Changed("backend") {
		cfg.Backend = opts.backend
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newBackend(cfg *config.Config, log *zap.SugaredLogger) (ports.Backend, error) {
	switch cfg.Backend {
	case config.BackendPdfcpu:
		return pdfcpu.New(log), nil
	case config.BackendGhostscript:
		return ghostscript.New(cfg.GhostscriptOptions(), log)
	default:
		gs, err := ghostscript.New(cfg.GhostscriptOptions(), log)
		if err != nil {
			return nil, err
		}
		return fallback.New(log, gs, pdfcpu.New(log)), nil
	}
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	log := logger.New("pdfcompress", opts.verbose)
	defer log.Sync()

	ctx := cmd.Context()

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		logConfigError(log, err)
		return err
	}

	backend, err := newBackend(cfg, log)
	if err != nil {
		logConfigError(log, err)
		return err
	}

	if err := backend.Available(ctx); err != nil {
		log.Errorw("no compression backend available", "backend", backend.Name(), "error", err)
		for _, hint := range installHints(goos) {
			log.Infow("install ghostscript", "command", hint)
		}
		return err
	}

	localFS := fs.NewLocalFileSystem()
	inputs, err := batch.ExpandInputs(localFS, log, args)
	if err != nil {
		return err
	}

	compressOpts, err := cfg.CompressOptions()
	if err != nil {
		return err
	}

	svc, err := compressor.New(backend, localFS, log, compressOpts)
	if err != nil {
		return err
	}

	runner, err := batch.New(svc, log, cfg.BatchOptions())
	if err != nil {
		return err
	}

	if opts.output != "" && cfg.OutputDir != "" {
		log.Warnw("--output-dir takes precedence over --output", "output", opts.output, "output_dir", cfg.OutputDir)
	}

	rep, runErr := runner.Run(ctx, inputs, opts.output)
	if rep == nil {
		return runErr
	}

	rep.Backend = backend.Name()
	rep.TargetBytes = compressOpts.TargetBytes
	if compressOpts.TargetBytes == 0 {
		rep.Quality = compressOpts.Quality.Name
	}

	logSummary(log, rep)

	if cfg.ReportPath != "" {
		if err := report.Write(cfg.ReportPath, rep); err != nil {
			log.Errorw("failed to write report", "path", cfg.ReportPath, "error", err)
			if runErr == nil {
				runErr = err
			}
		} else {
			log.Infow("report written", "path", cfg.ReportPath)
		}
	}

	if runErr != nil && rep.Failed > 0 && !errors.Is(runErr, errors.ErrBackendUnavailable) && !isContextErr(runErr) {
		return fmt.Errorf("%d of %d files failed", rep.Failed, rep.TotalFiles)
	}
	return runErr
}

func logSummary(log *zap.SugaredLogger, rep *domain.Report) {
	if rep.TotalFiles > 1 {
		log.Infow(fmt.Sprintf(
			"Total: %s -> %s (%.1f%% reduction)",
			units.FormatSize(rep.TotalOriginal), units.FormatSize(rep.TotalFinal), rep.Reduction,
		))
	}
	failed := rep.FailedInputs()
	if len(failed) == 0 {
		return
	}
	for _, f := range rep.Files {
		if !f.Success {
			log.Errorw("failed", "file", f.Input, "category", f.ErrorCategory, "error", f.Error)
		}
	}
	log.Errorw(fmt.Sprintf("%d of %d files failed", len(failed), rep.TotalFiles), "files", failed)
}

func logConfigError(log *zap.SugaredLogger, err error) {
	if ve := errors.AsValidationError(err); ve != nil {
		log.Errorw("invalid configuration", "field", ve.Field, "value", ve.Value, "error", ve.Err)
		return
	}
	log.Errorw("invalid configuration", "error", err)
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

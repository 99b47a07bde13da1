package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/iamNilotpal/pdfcompress/internal/core/domain"
	"github.com/iamNilotpal/pdfcompress/pkg/errors"
	"github.com/iamNilotpal/pdfcompress/pkg/units"
)

// Backend selection values.
const (
	BackendAuto        = "auto"
	BackendGhostscript = "ghostscript"
	BackendPdfcpu      = "pdfcpu"
)

var backends = []string{BackendAuto, BackendGhostscript, BackendPdfcpu}

type Config struct {
	Quality       string            `yaml:"quality"`         // Preset used without a target size
	TargetSizeMB  float64           `yaml:"target_size_mb"`  // Target size in MiB, 0 disables target mode
	OutputDir     string            `yaml:"output_dir"`      // Directory for derived outputs
	OutputSuffix  string            `yaml:"output_suffix"`   // Appended to derived output names
	SkipIfSmaller bool              `yaml:"skip_if_smaller"` // Leave inputs already within target untouched
	Jobs          int               `yaml:"jobs"`            // Files compressed in parallel
	Backend       string            `yaml:"backend"`         // auto, ghostscript or pdfcpu
	Ladder        []string          `yaml:"ladder"`          // Presets searched in target mode
	ReportPath    string            `yaml:"report_path"`     // JSON report destination, .zst/.gz compressed
	Ghostscript   GhostscriptConfig `yaml:"ghostscript"`
}

// Holds Ghostscript-specific configuration
type GhostscriptConfig struct {
	Executable         string        `yaml:"executable"`          // Overrides executable discovery
	CompatibilityLevel string        `yaml:"compatibility_level"` // Output PDF version
	Timeout            time.Duration `yaml:"timeout"`             // Per-invocation limit, e.g. "5m"
}

// Returns a Config struct with reasonable default values.
func DefaultConfig() *Config {
	return &Config{
		Quality:       domain.DefaultPreset.Name,
		OutputSuffix:  "_compressed",
		SkipIfSmaller: true,
		Jobs:          1,
		Backend:       BackendAuto,
		Ladder:        domain.PresetNames(),
		Ghostscript: GhostscriptConfig{
			CompatibilityLevel: "1.4",
			Timeout:            5 * time.Minute,
		},
	}
}

// Loads configuration from a YAML file. Keys missing from the file keep
// their default values.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs error

	if _, err := domain.LookupPreset(c.Quality); err != nil {
		errs = multierr.Append(errs, errors.NewValidationError("quality", c.Quality, err))
	}

	if _, err := domain.ParseLadder(c.Ladder); err != nil {
		errs = multierr.Append(errs, errors.NewValidationError("ladder", c.Ladder, err))
	}

	if c.TargetSizeMB < 0 {
		errs = multierr.Append(errs, errors.NewValidationError("target_size_mb", c.TargetSizeMB, fmt.Errorf("must not be negative")))
	}

	if c.Jobs < 1 {
		errs = multierr.Append(errs, errors.NewValidationError("jobs", c.Jobs, fmt.Errorf("must be at least 1")))
	}

	if !validBackend(c.Backend) {
		errs = multierr.Append(errs, errors.NewValidationError(
			"backend", c.Backend, fmt.Errorf("choose from: %s", strings.Join(backends, ", ")),
		))
	}

	if strings.ContainsAny(c.OutputSuffix, `/\`) {
		errs = multierr.Append(errs, errors.NewValidationError("output_suffix", c.OutputSuffix, fmt.Errorf("must not contain path separators")))
	}

	if c.Ghostscript.Timeout < 0 {
		errs = multierr.Append(errs, errors.NewValidationError("ghostscript.timeout", c.Ghostscript.Timeout, fmt.Errorf("must not be negative")))
	}

	return errs
}

// TargetBytes converts TargetSizeMB, 0 when no target is set.
func (c *Config) TargetBytes() int64 {
	return units.MegabytesToBytes(c.TargetSizeMB)
}

// CompressOptions builds the file compressor options. Call Validate first.
func (c *Config) CompressOptions() (domain.CompressOptions, error) {
	quality, err := domain.LookupPreset(c.Quality)
	if err != nil {
		return domain.CompressOptions{}, errors.NewValidationError("quality", c.Quality, err)
	}

	ladder, err := domain.ParseLadder(c.Ladder)
	if err != nil {
		return domain.CompressOptions{}, errors.NewValidationError("ladder", c.Ladder, err)
	}

	return domain.CompressOptions{
		Quality:      quality,
		TargetBytes:  c.TargetBytes(),
		Ladder:       ladder,
		OutputDir:    c.OutputDir,
		OutputSuffix: c.OutputSuffix,
		Search:       domain.SearchOptions{SkipIfSmaller: c.SkipIfSmaller},
	}, nil
}

func (c *Config) GhostscriptOptions() domain.GhostscriptOptions {
	return domain.GhostscriptOptions{
		Executable:         c.Ghostscript.Executable,
		CompatibilityLevel: c.Ghostscript.CompatibilityLevel,
		Timeout:            c.Ghostscript.Timeout,
	}
}

func (c *Config) BatchOptions() domain.BatchOptions {
	return domain.BatchOptions{Jobs: c.Jobs}
}

func validBackend(name string) bool {
	for _, b := range backends {
		if name == b {
			return true
		}
	}
	return false
}

package ghostscript

import (
	"fmt"
	"strings"
	"time"

	"github.com/iamNilotpal/pdfcompress/internal/core/domain"
)

const (
	DefaultCompatibilityLevel = "1.4"
	DefaultTimeout            = 5 * time.Minute
	DefaultProbeTimeout       = 10 * time.Second
)

var compatibilityLevels = []string{"1.3", "1.4", "1.5", "1.6", "1.7", "2.0"}

// Returns GhostscriptOptions with the defaults used by the command.
func DefaultOptions() domain.GhostscriptOptions {
	return domain.GhostscriptOptions{
		CompatibilityLevel: DefaultCompatibilityLevel,
		Timeout:            DefaultTimeout,
	}
}

func prepareDefaults(opts domain.GhostscriptOptions) domain.GhostscriptOptions {
	if strings.TrimSpace(opts.CompatibilityLevel) == "" {
		opts.CompatibilityLevel = DefaultCompatibilityLevel
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	return opts
}

// Checks the options after defaults have been applied.
func Validate(opts domain.GhostscriptOptions) error {
	if opts.Timeout < 0 {
		return fmt.Errorf("ghostscript timeout must not be negative, got %s", opts.Timeout)
	}

	for _, level := range compatibilityLevels {
		if opts.CompatibilityLevel == level {
			return nil
		}
	}
	return fmt.Errorf(
		"unsupported compatibility level %q, choose from: %s",
		opts.CompatibilityLevel, strings.Join(compatibilityLevels, ", "),
	)
}

// Candidates lists the executable names tried, in order, for an OS.
func Candidates(goos string) []string {
	if goos == "windows" {
		return []string{"gswin64c", "gswin32c", "gs"}
	}
	return []string{"gs"}
}

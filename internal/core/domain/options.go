// Package domain defines the core types shared by the compression services.
package domain

import "time"

// SearchOptions controls the target-size search.
type SearchOptions struct {
	// SkipIfSmaller returns an input that is already within the target
	// without invoking the backend.
	//
	// Default: true
	SkipIfSmaller bool
}

// CompressOptions controls how a single file is compressed.
type CompressOptions struct {
	// Quality is the preset used when no target size is set.
	Quality Preset

	// TargetBytes enables target mode when positive.
	TargetBytes int64

	// Ladder is the preset list searched in target mode, least to most
	// aggressive. Empty means every built-in level.
	Ladder []Preset

	// OutputDir places derived outputs in this directory instead of next
	// to the input.
	OutputDir string

	// OutputSuffix is appended to the input's stem for derived outputs.
	//
	// Default: "_compressed"
	OutputSuffix string

	Search SearchOptions
}

// BatchOptions controls a multi-file run.
type BatchOptions struct {
	// Jobs is the number of files compressed in parallel.
	//
	// Default: 1
	Jobs int
}

// GhostscriptOptions configures the Ghostscript backend.
type GhostscriptOptions struct {
	// Executable overrides executable discovery when set.
	Executable string

	// CompatibilityLevel is the output PDF version.
	//
	// Default: "1.4"
	CompatibilityLevel string

	// Timeout bounds a single invocation.
	//
	// Default: 5 minutes
	Timeout time.Duration
}

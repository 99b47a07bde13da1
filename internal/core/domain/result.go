package domain

import "github.com/iamNilotpal/pdfcompress/pkg/units"

// Attempt records one backend invocation during a search. Attempts are
// logged and then discarded.
type Attempt struct {
	Preset Preset
	Size   int64
	Err    error
}

// Ok reports whether the invocation produced a candidate.
func (a Attempt) Ok() bool {
	return a.Err == nil
}

// Result is the outcome of compressing one file.
type Result struct {
	// Input is the source file.
	Input string

	// Output is where the usable result lives. For a skipped file written
	// in place this equals Input.
	Output string

	// OriginalSize is the input size in bytes.
	OriginalSize int64

	// FinalSize is the size of Output in bytes.
	FinalSize int64

	// Preset is the winning preset. Zero when Skipped.
	Preset Preset

	// TargetMet is false when no preset reached the target and the smallest
	// candidate was kept instead. Always true without a target.
	TargetMet bool

	// Skipped is true when the input was already within target and the
	// backend was never invoked.
	Skipped bool

	// Invocations counts backend calls made for this file.
	Invocations int
}

// Saved returns the number of bytes removed.
func (r *Result) Saved() int64 {
	return r.OriginalSize - r.FinalSize
}

// Reduction returns the percentage saved, 0 for an empty input.
func (r *Result) Reduction() float64 {
	return units.Reduction(r.OriginalSize, r.FinalSize)
}

package domain

import (
	"time"

	"github.com/iamNilotpal/pdfcompress/pkg/units"
)

// FileReport is the serialisable outcome for one input of a batch.
type FileReport struct {
	Input          string  `json:"input"`
	Output         string  `json:"output,omitempty"`
	OriginalSize   int64   `json:"original_size"`
	CompressedSize int64   `json:"compressed_size"`
	Reduction      float64 `json:"reduction_percent"`
	Preset         string  `json:"preset,omitempty"`
	TargetMet      bool    `json:"target_met"`
	Skipped        bool    `json:"skipped,omitempty"`
	Invocations    int     `json:"invocations"`
	Success        bool    `json:"success"`
	ErrorCategory  string  `json:"error_category,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// Report summarises a whole run. Files keeps the order inputs were given in.
type Report struct {
	StartedAt     time.Time    `json:"started_at"`
	FinishedAt    time.Time    `json:"finished_at"`
	Backend       string       `json:"backend"`
	Quality       string       `json:"quality,omitempty"`
	TargetBytes   int64        `json:"target_bytes,omitempty"`
	Files         []FileReport `json:"files"`
	TotalFiles    int          `json:"total_files"`
	Succeeded     int          `json:"succeeded"`
	Failed        int          `json:"failed"`
	TotalOriginal int64        `json:"total_original_size"`
	TotalFinal    int64        `json:"total_compressed_size"`
	Reduction     float64      `json:"overall_reduction_percent"`
}

// NewFileReport converts a successful Result.
func NewFileReport(r *Result) FileReport {
	return FileReport{
		Input:          r.Input,
		Output:         r.Output,
		OriginalSize:   r.OriginalSize,
		CompressedSize: r.FinalSize,
		Reduction:      r.Reduction(),
		Preset:         r.Preset.Name,
		TargetMet:      r.TargetMet,
		Skipped:        r.Skipped,
		Invocations:    r.Invocations,
		Success:        true,
	}
}

// Summarize fills the totals from Files.
func (r *Report) Summarize() {
	r.TotalFiles = len(r.Files)
	r.Succeeded, r.Failed = 0, 0
	r.TotalOriginal, r.TotalFinal = 0, 0

	for _, f := range r.Files {
		if !f.Success {
			r.Failed++
			continue
		}
		r.Succeeded++
		r.TotalOriginal += f.OriginalSize
		r.TotalFinal += f.CompressedSize
	}

	r.Reduction = units.Reduction(r.TotalOriginal, r.TotalFinal)
}

// FailedInputs lists the inputs that did not produce an output.
func (r *Report) FailedInputs() []string {
	var failed []string
	for _, f := range r.Files {
		if !f.Success {
			failed = append(failed, f.Input)
		}
	}
	return failed
}

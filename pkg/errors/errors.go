package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCategory classifies the failures that can occur while compressing a
// PDF. Callers use the category to decide whether a failure is fatal for the
// whole run, skips a single file, or only ends one backend attempt.
type ErrorCategory int

const (
	// ErrorSource indicates the input file is missing, unreadable, or cannot
	// be measured. The file is skipped, other files in a batch continue.
	ErrorSource ErrorCategory = iota + 1

	// ErrorBackend indicates a single backend invocation failed, such as
	// Ghostscript exiting non-zero for one preset. The search moves on to
	// the next preset.
	ErrorBackend

	// ErrorBackendUnavailable indicates no compression backend could be
	// invoked at all. This is fatal for the whole run.
	ErrorBackendUnavailable

	// ErrorOutput indicates the compressed result could not be written,
	// renamed, or copied into place.
	ErrorOutput

	// ErrorConfig indicates invalid configuration or command-line input.
	ErrorConfig
)

// Sentinels matched through errors.Is against any *CompressError of the
// same category.
var (
	ErrSourceRead         = errors.New("source read error")
	ErrBackend            = errors.New("backend error")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrOutput             = errors.New("output error")
	ErrConfig             = errors.New("configuration error")
)

// String returns the string representation of the error category.
// This is useful for logging and reports.
func (c ErrorCategory) String() string {
	switch c {
	case ErrorSource:
		return "source"
	case ErrorBackend:
		return "backend"
	case ErrorBackendUnavailable:
		return "backend-unavailable"
	case ErrorOutput:
		return "output"
	case ErrorConfig:
		return "config"
	default:
		return "unknown"
	}
}

func (c ErrorCategory) sentinel() error {
	switch c {
	case ErrorSource:
		return ErrSourceRead
	case ErrorBackend:
		return ErrBackend
	case ErrorBackendUnavailable:
		return ErrBackendUnavailable
	case ErrorOutput:
		return ErrOutput
	case ErrorConfig:
		return ErrConfig
	default:
		return nil
	}
}

// CompressError carries the category, the failed operation and the file it
// concerned, along with the underlying cause.
type CompressError struct {
	Err       error
	Path      string
	Operation string
	Timestamp time.Time
	Category  ErrorCategory
}

// New creates a CompressError stamped with the current time.
func New(category ErrorCategory, operation, path string, err error) *CompressError {
	return &CompressError{
		Err:       err,
		Path:      path,
		Operation: operation,
		Category:  category,
		Timestamp: time.Now(),
	}
}

// NewSourceReadError reports an input that cannot be read or measured.
func NewSourceReadError(path string, err error) *CompressError {
	return New(ErrorSource, "read source", path, err)
}

// NewBackendError reports one failed backend invocation.
func NewBackendError(operation, path string, err error) *CompressError {
	return New(ErrorBackend, operation, path, err)
}

// NewBackendUnavailable reports that no backend could be invoked.
func NewBackendUnavailable(operation string, err error) *CompressError {
	return New(ErrorBackendUnavailable, operation, "", err)
}

// NewOutputError reports a failure to place the result on disk.
func NewOutputError(operation, path string, err error) *CompressError {
	return New(ErrorOutput, operation, path, err)
}

func (e *CompressError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%v] %s: %v", e.Category, e.Operation, e.Err)
	}
	return fmt.Sprintf("[%v] %s %s: %v", e.Category, e.Operation, e.Path, e.Err)
}

func (e *CompressError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of this error's category.
func (e *CompressError) Is(target error) bool {
	s := e.Category.sentinel()
	return s != nil && target == s
}

// IsRetryAble returns whether errors of this category can be retried.
// This helps callers decide whether to retry failed operations.
func (e *CompressError) IsRetryAble() bool {
	switch e.Category {
	case ErrorBackend:
		// Another preset or another backend may still succeed.
		return true
	case ErrorOutput:
		// Disk full or permission issues might be temporary.
		return true
	default:
		return false
	}
}

// CategoryOf returns the category of the first CompressError in err's chain,
// or 0 when there is none.
func CategoryOf(err error) ErrorCategory {
	var ce *CompressError
	if errors.As(err, &ce) {
		return ce.Category
	}
	return 0
}

// Is is errors.Is, re-exported so callers importing this package under the
// name errors keep access to it.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

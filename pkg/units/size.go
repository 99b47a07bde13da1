// Package units converts between byte counts and the megabyte figures users type.
package units

import (
	"fmt"
	"math"
)

// MiB is the multiplier applied to --target-size-mb.
const MiB = 1024 * 1024

// FormatSize renders a byte count as "12.3 KB" style text.
func FormatSize(size int64) string {
	value := float64(size)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if value < 1024.0 {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
		value /= 1024.0
	}
	return fmt.Sprintf("%.1f TB", value)
}

// MegabytesToBytes converts a megabyte figure to bytes, rounding up so any
// positive figure yields at least one byte. Zero or negative input yields
// zero, meaning "no target".
func MegabytesToBytes(mb float64) int64 {
	if mb <= 0 {
		return 0
	}
	return max(int64(math.Ceil(mb*MiB)), 1)
}

// Reduction returns the percentage saved going from original to final.
func Reduction(original, final int64) float64 {
	if original <= 0 {
		return 0
	}
	return (1 - float64(final)/float64(original)) * 100
}

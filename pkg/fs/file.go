package fs

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// CandidatePath returns a unique hidden path next to output for one search
// attempt, e.g. "out/.report.3f2c...e1.medium.tmp.pdf". The UUID keeps
// concurrent runs writing into the same directory apart.
func CandidatePath(output, preset string) string {
	dir, name := filepath.Split(output)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.%s.tmp.pdf", stem, uuid.NewString(), preset))
}

// DerivedOutputPath returns "<dir>/<stem><suffix>.pdf" for input. When dir is
// empty the input's own directory is used.
func DerivedOutputPath(input, dir, suffix string) string {
	if dir == "" {
		dir = filepath.Dir(input)
	}
	name := filepath.Base(input)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(dir, stem+suffix+".pdf")
}

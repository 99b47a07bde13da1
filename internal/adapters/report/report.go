// Package report persists run summaries as JSON, optionally zstd or gzip
// encoded depending on the file name.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iamNilotpal/pdfcompress/internal/adapters/compression"
	"github.com/iamNilotpal/pdfcompress/internal/core/domain"
	"github.com/iamNilotpal/pdfcompress/internal/core/ports"
	"github.com/iamNilotpal/pdfcompress/internal/serialize"
	"github.com/iamNilotpal/pdfcompress/pkg/errors"
	"github.com/iamNilotpal/pdfcompress/pkg/fs"
)

// Write stores r at path, creating parent directories. The file is written
// to a temporary name first and renamed into place.
func Write(path string, r *domain.Report) error {
	codec, err := compression.ForPath(path, compression.DefaultOptions())
	if err != nil {
		return errors.NewOutputError("write report", path, err)
	}

	if err := fs.EnsureDir(filepath.Dir(path), 0755); err != nil {
		return errors.NewOutputError("write report", path, err)
	}

	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return errors.NewOutputError("write report", path, err)
	}

	if err := encode(file, codec, r); err != nil {
		file.Close()
		os.Remove(tmp)
		return errors.NewOutputError("write report", path, err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return errors.NewOutputError("write report", path, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.NewOutputError("write report", path, err)
	}
	return nil
}

func encode(file *os.File, codec ports.CompressionPort, r *domain.Report) error {
	w, err := codec.NewWriter(file)
	if err != nil {
		return err
	}

	if err := serialize.EncodeJSON(w, r); err != nil {
		w.Close()
		return fmt.Errorf("encoding report: %w", err)
	}
	return w.Close()
}

// Read loads a report written by Write.
func Read(path string) (*domain.Report, error) {
	codec, err := compression.ForPath(path, compression.DefaultOptions())
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rd, err := codec.NewReader(file)
	if err != nil {
		return nil, err
	}
	defer rd.Close()

	var r domain.Report
	if err := serialize.DecodeJSON(rd, &r); err != nil {
		return nil, fmt.Errorf("decoding report %s: %w", path, err)
	}
	return &r, nil
}

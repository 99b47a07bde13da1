package compressor

import (
	"strings"

	"github.com/iamNilotpal/pdfcompress/internal/core/domain"
	"github.com/iamNilotpal/pdfcompress/internal/core/services/search"
)

const DefaultOutputSuffix = "_compressed"

// DefaultOptions returns options for single-preset compression at the
// default quality.
func DefaultOptions() domain.CompressOptions {
	return domain.CompressOptions{
		Quality:      domain.DefaultPreset,
		Ladder:       domain.Presets(),
		OutputSuffix: DefaultOutputSuffix,
		Search:       search.DefaultOptions(),
	}
}

func prepareDefaults(opts domain.CompressOptions) domain.CompressOptions {
	if opts.Quality.Name == "" {
		opts.Quality = domain.DefaultPreset
	}

	if len(opts.Ladder) == 0 {
		opts.Ladder = domain.Presets()
	} else {
		opts.Ladder = domain.OrderPresets(opts.Ladder)
	}

	if strings.TrimSpace(opts.OutputSuffix) == "" {
		opts.OutputSuffix = DefaultOutputSuffix
	}

	return opts
}

package ghostscript

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/iamNilotpal/pdfcompress/internal/core/domain"
)

// Args builds the pdfwrite command line for one attempt. Image switches are
// only added for presets that override the distiller defaults.
func Args(opts domain.GhostscriptOptions, preset domain.Preset, input, output string) []string {
	args := []string{
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=" + opts.CompatibilityLevel,
		"-dPDFSETTINGS=" + preset.PDFSettings,
		"-dNOPAUSE",
		"-dQUIET",
		"-dBATCH",
		"-dSAFER",
	}

	if preset.ImageDPI > 0 {
		dpi := strconv.Itoa(preset.ImageDPI)
		args = append(args,
			"-dColorImageResolution="+dpi,
			"-dGrayImageResolution="+dpi,
			"-dMonoImageResolution="+strconv.Itoa(preset.ImageDPI*2),
			"-dColorImageDownsampleType=/Bicubic",
			"-dGrayImageDownsampleType=/Bicubic",
		)
	}

	if preset.JPEGQuality > 0 {
		args = append(args, "-dJPEGQ="+strconv.Itoa(preset.JPEGQuality))
	}

	if preset.ImageDPI > 0 || preset.JPEGQuality > 0 {
		args = append(args, "-dOptimize=true", "-dEmbedAllFonts=true", "-dSubsetFonts=true")
	}

	return append(args, "-sOutputFile="+escapeOutput(output), safeInput(input))
}

// Ghostscript expands %d style page templates in the output name.
func escapeOutput(path string) string {
	return strings.ReplaceAll(path, "%", "%%")
}

// A relative input starting with '-' would be parsed as a switch.
func safeInput(path string) string {
	if strings.HasPrefix(path, "-") {
		return "." + string(filepath.Separator) + path
	}
	return path
}

package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/iamNilotpal/pdfcompress/internal/adapters/ghostscript"
	"github.com/iamNilotpal/pdfcompress/internal/adapters/pdfcpu"
	"github.com/iamNilotpal/pdfcompress/pkg/logger"
)

var goos = runtime.GOOS

func newCheckCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report which compression backends are available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger.New("pdfcompress", opts.verbose)
			defer log.Sync()

			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			gs, err := ghostscript.New(cfg.GhostscriptOptions(), log)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			ctx := cmd.Context()

			gsVersion, gsErr := gs.Version(ctx)
			if gsErr == nil {
				fmt.Fprintf(out, "ghostscript: available (version %s, %s)\n", gsVersion, gs.Executable())
			} else {
				fmt.Fprintf(out, "ghostscript: not found (%v)\n", gsErr)
				printInstallHints(out, goos)
			}

			lib := pdfcpu.New(log)
			if err := lib.Available(ctx); err != nil {
				fmt.Fprintf(out, "pdfcpu: unavailable (%v)\n", err)
				return err
			}
			fmt.Fprintln(out, "pdfcpu: available (built in, lossless optimisation only)")
			return nil
		},
	}
}

// installHints returns the usual ways to install Ghostscript on an OS.
func installHints(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"brew install ghostscript"}
	case "windows":
		return []string{"choco install ghostscript", "winget install ArtifexSoftware.GhostScript"}
	default:
		return []string{"sudo apt-get install ghostscript", "sudo yum install ghostscript"}
	}
}

func printInstallHints(w io.Writer, goos string) {
	fmt.Fprintln(w, "  install with one of:")
	for _, hint := range installHints(goos) {
		fmt.Fprintf(w, "    %s\n", hint)
	}
}

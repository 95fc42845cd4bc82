package main

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"layerspeed/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "layerspeed",
		Short: "Insert speed overrides into sliced G-code",
		Long: `layerspeed inserts an M220 speed-override command right after the
LAYER:<n> marker that slicers write into G-code, so a print changes speed
from that layer on.`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(newEditLayerCmd())
	root.AddCommand(newLayersCmd())
	root.AddCommand(newPlanCmd())
	root.AddCommand(newUICmd())
	root.AddCommand(newAboutCmd())
	root.AddCommand(newCleanCmd())
	root.AddCommand(newVersionCmd())

	flags := root.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.String("config", "", "path to layerspeed.toml (default: search upwards from the working directory)")
	flags.String("trace", "", "trace output file (\"-\" for stderr)")
	flags.String("trace-level", "", "trace level (off|error|command|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.Int("trace-ring-size", 1024, "events kept in ring mode")

	return root
}

// main runs the root command and maps errors to exit codes: 1 for failures,
// 2 when the requested layer marker is missing.
func main() {
	root := newRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		reportError(root.ErrOrStderr(), err)
		os.Exit(exitCode(err))
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func applyColorMode(mode string) error {
	switch mode {
	case "", "auto":
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return usageError("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}

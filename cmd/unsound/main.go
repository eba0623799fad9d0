package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"unsound/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "unsound",
	Short: "Static checker for type-soundness gaps in Python code",
	Long:  `unsound finds Python patterns that undermine static type checking: typing.Any, cast(), suppression comments, runtime function surgery, and friends`,
}

// errDiagnosticsFound signals that the run completed normally but reported
// at least one diagnostic. The process exits with status 1 for it, and 2
// for every other error.
var errDiagnosticsFound = errors.New("diagnostics reported")

func main() {
	rootCmd.Version = version.Version
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics to show (0=unlimited)")

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errDiagnosticsFound) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the --color flag against the terminal and updates the
// global color state.
func useColor(cmd *cobra.Command) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	var enabled bool
	switch mode {
	case "on":
		enabled = true
	case "off":
		enabled = false
	case "auto":
		enabled = isTerminal(os.Stdout)
	default:
		return false, fmt.Errorf("unknown color mode %q (must be auto, on, or off)", mode)
	}
	color.NoColor = !enabled
	return enabled, nil
}

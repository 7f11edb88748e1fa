package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"loom/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "loom",
	Short: "Loom IR library builder and toolchain",
	Long:  `Loom builds libraries of low-level IR functions and weaves them into LLVM modules`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		mode, _ := cmd.Flags().GetString("color")
		switch mode {
		case "on":
			color.NoColor = false
		case "off":
			color.NoColor = true
		default:
			color.NoColor = !isTerminal(os.Stdout)
		}
	},
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(emitCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"loom/internal/diag"
	"loom/internal/export"
	"loom/internal/sample"
	"loom/internal/ui"
)

var symbolsFormat string

func init() {
	symbolsCmd.Flags().StringVar(&symbolsFormat, "format", "pretty", "output format (pretty|json)")
}

var symbolsCmd = &cobra.Command{
	Use:   "symbols <target>",
	Short: "List the public symbols of a built-in target library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(symbolsFormat)
		switch format {
		case "pretty", "json":
			// supported
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", symbolsFormat)
		}

		lib, err := sample.Build(args[0])
		if err != nil {
			return fmt.Errorf("available targets: %s: %w", strings.Join(sample.Names(), ", "), err)
		}
		if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet && lib.Diagnostics().Len() > 0 {
			bag := lib.Diagnostics()
			bag.Sort()
			diag.Render(cmd.ErrOrStderr(), bag.Items())
		}
		snap := export.Capture(lib)

		out := cmd.OutOrStdout()
		if format == "json" {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		}
		fmt.Fprint(out, ui.SymbolTable(snap))
		return nil
	},
}

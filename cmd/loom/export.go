package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"loom/internal/export"
	"loom/internal/sample"
)

var exportOutput string

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output path (default: <target>.loomsym)")
}

var exportCmd = &cobra.Command{
	Use:   "export <target>",
	Short: "Write a binary snapshot of a target library's public symbols",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := sample.Build(args[0])
		if err != nil {
			return fmt.Errorf("available targets: %s: %w", strings.Join(sample.Names(), ", "), err)
		}
		out := exportOutput
		if out == "" {
			out = args[0] + ".loomsym"
		}
		if err := export.WriteFile(out, lib); err != nil {
			return err
		}
		quiet, _ := cmd.Flags().GetBool("quiet")
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
		}
		return nil
	},
}

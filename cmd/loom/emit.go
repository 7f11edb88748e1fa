package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"loom/internal/emit"
	"loom/internal/manifest"
)

var (
	emitManifestPath string
	emitJobs         int
	emitUI           string
	emitTriple       string
)

func init() {
	emitCmd.Flags().StringVar(&emitManifestPath, "manifest", "", "path to loom.toml (default: search upward from the working directory)")
	emitCmd.Flags().IntVarP(&emitJobs, "jobs", "j", 0, "maximum parallel targets (0 = NumCPU)")
	emitCmd.Flags().StringVar(&emitUI, "ui", "auto", "progress UI (auto|on|off)")
	emitCmd.Flags().StringVar(&emitTriple, "triple", "", "override the manifest target triple")
}

var emitCmd = &cobra.Command{
	Use:   "emit",
	Short: "Build every manifest target and write its module",
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := parseUIMode(emitUI)
		if err != nil {
			return err
		}
		quiet, _ := cmd.Flags().GetBool("quiet")

		path := emitManifestPath
		if path == "" {
			found, ok, err := manifest.Find(".")
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no loom.toml found; run loom emit inside a project or pass --manifest")
			}
			path = found
		}
		m, err := manifest.Load(path)
		if err != nil {
			return err
		}
		if emitTriple != "" {
			m.Program.Triple = emitTriple
		}

		ctx := cmd.Context()
		if !quiet && mode.interactive() {
			results, err := runEmitWithUI(ctx, fmt.Sprintf("emit %s", m.Program.Name), m, emitJobs)
			if err != nil {
				return err
			}
			printEmitSummary(cmd, results, quiet)
			return nil
		}

		results, err := emit.Run(ctx, m, emitJobs, emit.NopSink{})
		if err != nil {
			return err
		}
		printEmitSummary(cmd, results, quiet)
		return nil
	},
}

func printEmitSummary(cmd *cobra.Command, results []emit.Result, quiet bool) {
	if quiet {
		return
	}
	out := cmd.OutOrStdout()
	for _, res := range results {
		fmt.Fprintf(out, "%s: wrote %s (%d bytes)\n", res.Target, res.Output, res.Bytes)
	}
}

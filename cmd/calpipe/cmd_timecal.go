package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/divyekant/calpipe/internal/pipeline"
)

func timecalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timecal",
		Short: "Create the DRS4 time-sampling calibration file for a flat-field run",
		RunE:  runTimecal,
	}
	cmd.Flags().IntP("run", "r", -1, "Run number of the flat-field data")
	cmd.Flags().Int("sub-run", 0, "Sub-run to be processed")
	cmd.Flags().IntP("pedestal-run", "p", -1, "Pedestal run to be used; by default the pedestal of the same date")
	cmd.Flags().IntP("statistics", "s", 0, "Number of events for the statistics (0 = config default)")
	cmd.Flags().Bool("overwrite", false, "Remove an existing output file without asking")
	cmd.MarkFlagRequired("run")
	return cmd
}

func runTimecal(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	tools, err := loadTools(cmd)
	if err != nil {
		return err
	}

	run, _ := cmd.Flags().GetInt("run")
	subRun, _ := cmd.Flags().GetInt("sub-run")
	pedRun, _ := cmd.Flags().GetInt("pedestal-run")
	statEvents, _ := cmd.Flags().GetInt("statistics")
	overwrite, _ := cmd.Flags().GetBool("overwrite")
	if statEvents == 0 {
		statEvents = cfg.StatEvents
	}

	fmt.Printf("%s%sCalculating DRS4 time corrections from run %d%s\n", bold, cyan, run, reset)

	result, err := pipeline.RunTimeCalibration(cmd.Context(), pipeline.Config{
		BaseDir:     cfg.BaseDir,
		ProdVersion: cfg.ProdVersion,
		Tools:       tools,
		ConfirmFn:   confirmFn(cmd),
		ProgressFn:  progressPrinter(cmd),
	}, pipeline.TimeCalOptions{
		Run:         run,
		SubRun:      subRun,
		PedestalRun: pedRun,
		StatEvents:  statEvents,
		Overwrite:   overwrite,
	})
	if err != nil {
		return explainResolveError(err)
	}

	writeOutput(cmd, result, func() {
		fmt.Printf("\n%s✓%s Time calibration file written\n", green, reset)
		fmt.Printf("  input:  %s\n", result.Input)
		fmt.Printf("  output: %s\n", result.Output)
	})
	return nil
}

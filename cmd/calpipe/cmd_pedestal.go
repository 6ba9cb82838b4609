package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/divyekant/calpipe/internal/pipeline"
)

func pedestalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pedestal",
		Short: "Create the DRS4 pedestal file for a run",
		RunE:  runPedestal,
	}
	cmd.Flags().IntP("run", "r", -1, "Run number with drs4 pedestals")
	cmd.Flags().Int("sub-run", 0, "Sub-run to be processed")
	cmd.Flags().IntP("max-events", "m", 0, "Number of events to be processed (0 = config default)")
	cmd.Flags().Bool("overwrite", false, "Remove an existing output file without asking")
	cmd.MarkFlagRequired("run")
	return cmd
}

func runPedestal(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	tools, err := loadTools(cmd)
	if err != nil {
		return err
	}

	run, _ := cmd.Flags().GetInt("run")
	subRun, _ := cmd.Flags().GetInt("sub-run")
	maxEvents, _ := cmd.Flags().GetInt("max-events")
	overwrite, _ := cmd.Flags().GetBool("overwrite")
	if maxEvents == 0 {
		maxEvents = cfg.MaxEvents
	}

	fmt.Printf("%s%sCalculating DRS4 pedestals from run %d%s\n", bold, cyan, run, reset)

	result, err := pipeline.RunPedestal(cmd.Context(), pipeline.Config{
		BaseDir:     cfg.BaseDir,
		ProdVersion: cfg.ProdVersion,
		Tools:       tools,
		ConfirmFn:   confirmFn(cmd),
		ProgressFn:  progressPrinter(cmd),
	}, pipeline.PedestalOptions{
		Run:       run,
		SubRun:    subRun,
		MaxEvents: maxEvents,
		Overwrite: overwrite,
	})
	if err != nil {
		return explainResolveError(err)
	}

	writeOutput(cmd, result, func() {
		fmt.Printf("\n%s✓%s Pedestal file written\n", green, reset)
		fmt.Printf("  input:  %s\n", result.Input)
		fmt.Printf("  output: %s\n", result.Output)
	})
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/divyekant/calpipe/internal/pipeline"
)

func dl3Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dl3",
		Short: "Create a DL3 event-list file from a DL2 file",
		RunE:  runDL3,
	}
	cmd.Flags().StringP("dl2", "d", "", "Input data DL2 file")
	cmd.Flags().String("irf", "", "Compressed FITS file of IRFs")
	cmd.Flags().StringP("output-dir", "o", "", "DL3 output directory (defaults to <base>/DL3/<prod>)")
	cmd.Flags().String("source-name", "", "Name of the source")
	cmd.Flags().String("source-ra", "", "RA position of the source (e.g. 83.633deg)")
	cmd.Flags().String("source-dec", "", "DEC position of the source (e.g. 22.01deg)")
	cmd.Flags().Bool("overwrite", false, "Remove an existing output file without asking")
	cmd.MarkFlagRequired("dl2")
	return cmd
}

func runDL3(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	tools, err := loadTools(cmd)
	if err != nil {
		return err
	}

	dl2, _ := cmd.Flags().GetString("dl2")
	irf, _ := cmd.Flags().GetString("irf")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	sourceName, _ := cmd.Flags().GetString("source-name")
	sourceRA, _ := cmd.Flags().GetString("source-ra")
	sourceDec, _ := cmd.Flags().GetString("source-dec")
	overwrite, _ := cmd.Flags().GetBool("overwrite")

	result, err := pipeline.RunDL3(cmd.Context(), pipeline.Config{
		BaseDir:     cfg.BaseDir,
		ProdVersion: cfg.ProdVersion,
		Tools:       tools,
		ConfirmFn:   confirmFn(cmd),
		ProgressFn:  progressPrinter(cmd),
	}, pipeline.DL3Options{
		DL2File:    dl2,
		IRFFile:    irf,
		OutputDir:  outputDir,
		SourceName: sourceName,
		SourceRA:   sourceRA,
		SourceDec:  sourceDec,
		Overwrite:  overwrite,
	})
	if err != nil {
		return explainResolveError(err)
	}

	writeOutput(cmd, result, func() {
		fmt.Printf("\n%s✓%s DL3 file written\n", green, reset)
		fmt.Printf("  input:  %s\n", result.Input)
		fmt.Printf("  output: %s\n", result.Output)
	})
	return nil
}

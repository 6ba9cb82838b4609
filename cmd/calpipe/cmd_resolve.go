package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/divyekant/calpipe/internal/resolver"
)

// resolveCmdGroup exposes the four calibration lookups directly, for
// debugging a tree or scripting around the pipeline.
func resolveCmdGroup() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve calibration artifacts in the data tree",
	}
	cmd.AddCommand(resolvePedestalCmd())
	cmd.AddCommand(resolveTimecalCmd())
	cmd.AddCommand(resolveSummaryCmd())
	cmd.AddCommand(resolveR0Cmd())
	return cmd
}

func printResolved(cmd *cobra.Command, kind, path string) {
	writeOutput(cmd, map[string]string{kind: path}, func() {
		fmt.Println(path)
	})
}

func resolvePedestalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pedestal",
		Short: "Find a pedestal file by run or date",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			run, _ := cmd.Flags().GetInt("run")
			date, _ := cmd.Flags().GetString("date")

			path, err := resolver.New(cfg.BaseDir).Pedestal(cfg.ProdVersion, run, date)
			if err != nil {
				return explainResolveError(err)
			}
			printResolved(cmd, "pedestal", path)
			return nil
		},
	}
	cmd.Flags().IntP("run", "r", -1, "Pedestal run number")
	cmd.Flags().StringP("date", "d", "", "Observation date (YYYYMMDD)")
	return cmd
}

func resolveTimecalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timecal",
		Short: "Find the time calibration that applies to a run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			run, _ := cmd.Flags().GetInt("run")
			timeRun, _ := cmd.Flags().GetInt("time-run")

			res := resolver.New(cfg.BaseDir)
			var path string
			var err error
			if timeRun >= 0 {
				path, err = res.TimeCalibrationByRun(cfg.ProdVersion, timeRun)
			} else {
				path, err = res.TimeCalibration(cfg.ProdVersion, run)
			}
			if err != nil {
				return explainResolveError(err)
			}
			printResolved(cmd, "time_calibration", path)
			return nil
		},
	}
	cmd.Flags().IntP("run", "r", -1, "Observation run number (floor lookup)")
	cmd.Flags().IntP("time-run", "t", -1, "Explicit time-calibration run (exact lookup)")
	cmd.MarkFlagRequired("run")
	return cmd
}

func resolveSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Find the run-summary index of a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			date, _ := cmd.Flags().GetString("date")

			path, err := resolver.New(cfg.BaseDir).RunSummary(date)
			if err != nil {
				return explainResolveError(err)
			}
			printResolved(cmd, "run_summary", path)
			return nil
		},
	}
	cmd.Flags().StringP("date", "d", "", "Observation date (YYYYMMDD)")
	cmd.MarkFlagRequired("date")
	return cmd
}

func resolveR0Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "r0",
		Short: "Find the raw R0 file of a sub-run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd)
			run, _ := cmd.Flags().GetInt("run")
			subRun, _ := cmd.Flags().GetInt("sub-run")

			path, err := resolver.New(cfg.BaseDir).R0SubRun(run, subRun)
			if err != nil {
				return explainResolveError(err)
			}
			printResolved(cmd, "r0", path)
			return nil
		},
	}
	cmd.Flags().IntP("run", "r", -1, "Run number")
	cmd.Flags().Int("sub-run", 0, "Sub-run number")
	cmd.MarkFlagRequired("run")
	return cmd
}

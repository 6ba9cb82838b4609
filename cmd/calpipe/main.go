package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/divyekant/calpipe/internal/config"
)

func main() {
	// Persisted settings live next to the user's home, like the rest of
	// the onsite tooling.
	if home, err := os.UserHomeDir(); err == nil {
		config.ConfigPath = filepath.Join(home, ".calpipe.json")
	}

	root := &cobra.Command{
		Use:     "calpipe",
		Short:   "Calpipe -- onsite calibration pipeline for the LST data tree",
		Version: config.Version,
	}

	root.PersistentFlags().Bool("json", false, "Output machine-readable JSON")
	root.PersistentFlags().StringP("base-dir", "b", "", "Base dir of the data tree (overrides config)")
	root.PersistentFlags().String("prod", "", "Production version (overrides config)")
	root.PersistentFlags().BoolP("yes", "y", false, "Do not ask interactively for permissions, assume yes")
	root.PersistentFlags().String("tools", "", "Path to a tools.yaml overriding the stage binaries")

	root.AddCommand(pedestalCmd())
	root.AddCommand(timecalCmd())
	root.AddCommand(dl3Cmd())
	root.AddCommand(promoteCmd())
	root.AddCommand(resolveCmdGroup())
	root.AddCommand(configCmdGroup())

	if err := root.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

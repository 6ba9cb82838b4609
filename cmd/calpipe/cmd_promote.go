package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/divyekant/calpipe/internal/pointer"
)

func promoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promote <dir>",
		Short: "Point the pro production link at the given output directory",
		Args:  cobra.ExactArgs(1),
		RunE:  runPromote,
	}
}

func runPromote(cmd *cobra.Command, args []string) error {
	target, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	ptr := pointer.NewSymlink()
	if err := ptr.Promote(target); err != nil {
		return err
	}

	current, _, err := ptr.Current(filepath.Dir(target))
	if err != nil {
		return err
	}

	writeOutput(cmd, map[string]string{"pro": current}, func() {
		fmt.Printf("%s✓%s pro -> %s\n", green, reset, current)
	})
	return nil
}

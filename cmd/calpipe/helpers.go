package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/divyekant/calpipe/internal/config"
	"github.com/divyekant/calpipe/internal/index"
	"github.com/divyekant/calpipe/internal/layout"
)

// ANSI escape codes for colored output.
const (
	bold   = "\033[1m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
	red    = "\033[31m"
	reset  = "\033[0m"
)

// Exit codes the orchestration layer maps resolution failures onto, so
// wrapping scripts can tell a hard absence from an ambiguity that needs an
// operator decision.
const (
	exitFailure    = 1
	exitInvalidArg = 2
	exitNotFound   = 3
	exitAmbiguous  = 4
)

func exitCodeFor(err error) int {
	var ambiguous *index.AmbiguousError
	switch {
	case errors.Is(err, layout.ErrInvalidArgument):
		return exitInvalidArg
	case errors.Is(err, index.ErrNotFound):
		return exitNotFound
	case errors.As(err, &ambiguous):
		return exitAmbiguous
	}
	return exitFailure
}

// explainResolveError prints actionable guidance for the error classes the
// resolver distinguishes, then returns the error unchanged for cobra.
func explainResolveError(err error) error {
	var ambiguous *index.AmbiguousError
	if errors.As(err, &ambiguous) {
		fmt.Fprintf(os.Stderr, "%serror:%s ambiguous match, choose one run:\n", red, reset)
		for _, c := range ambiguous.Candidates {
			fmt.Fprintf(os.Stderr, "  %s\n", c)
		}
	}
	return err
}

// loadConfig merges the persistent flags over the environment/file config.
func loadConfig(cmd *cobra.Command) config.Config {
	cfg := config.Load()
	if baseDir, _ := cmd.Flags().GetString("base-dir"); baseDir != "" {
		cfg.BaseDir = baseDir
	}
	if prod, _ := cmd.Flags().GetString("prod"); prod != "" {
		cfg.ProdVersion = prod
	}
	return cfg
}

// loadTools reads the stage-binary config, honoring the --tools flag.
func loadTools(cmd *cobra.Command) (config.Tools, error) {
	path, _ := cmd.Flags().GetString("tools")
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".calpipe-tools.yaml")
		}
	}
	return config.LoadTools(path)
}

// confirmFn returns the interactive yes/no prompt for destructive actions,
// or nil when running unattended (--yes already handles the allowed case,
// and batch jobs must never block on stdin).
func confirmFn(cmd *cobra.Command) func(string) bool {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return func(string) bool { return true }
	}
	if os.Getenv("SLURM_JOB_ID") != "" {
		return nil
	}
	return promptYesNo
}

// promptYesNo asks on stdin until it gets a yes/no answer. Defaults to no.
func promptYesNo(prompt string) bool {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Printf("%s [y/N] ", prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		case "", "n", "no":
			return false
		}
		fmt.Println("Please answer yes or no.")
	}
}

// writeOutput renders data as JSON (if --json flag is set) or invokes
// the human-readable callback.
func writeOutput(cmd *cobra.Command, data any, humanFn func()) {
	jsonMode, _ := cmd.Flags().GetBool("json")
	if jsonMode {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(data)
		return
	}
	humanFn()
}

// progressPrinter reports pipeline steps on the console unless --json or
// quiet output is wanted.
func progressPrinter(cmd *cobra.Command) func(string) {
	if jsonMode, _ := cmd.Flags().GetBool("json"); jsonMode {
		return func(string) {}
	}
	return func(step string) {
		fmt.Printf("%s-->%s %s\n", cyan, reset, step)
	}
}

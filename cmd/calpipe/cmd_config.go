package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/divyekant/calpipe/internal/config"
)

func configCmdGroup() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and update calpipe configuration",
	}
	cmd.AddCommand(configGetCmd())
	cmd.AddCommand(configSetCmd())
	return cmd
}

func configGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Show configuration values",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigGet,
	}
}

func configMap(cfg config.Config) map[string]string {
	return map[string]string{
		"base_dir":     cfg.BaseDir,
		"prod_version": cfg.ProdVersion,
		"max_events":   strconv.Itoa(cfg.MaxEvents),
		"stat_events":  strconv.Itoa(cfg.StatEvents),
		"tel_id":       strconv.Itoa(cfg.TelID),
	}
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	values := configMap(config.Load())

	if len(args) == 1 {
		key := args[0]
		val, ok := values[key]
		if !ok {
			return fmt.Errorf("unknown config key: %q", key)
		}
		writeOutput(cmd, map[string]string{key: val}, func() {
			fmt.Printf("%s: %s\n", key, val)
		})
		return nil
	}

	writeOutput(cmd, values, func() {
		fmt.Printf("%s%sConfiguration%s\n\n", bold, cyan, reset)
		// Print keys in a stable order.
		orderedKeys := []string{"base_dir", "prod_version", "max_events", "stat_events", "tel_id"}
		for _, k := range orderedKeys {
			fmt.Printf("  %-14s %s\n", k, values[k])
		}
	})
	return nil
}

func configSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE:  runConfigSet,
	}
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	cfg := config.Load()

	switch key {
	case "base_dir":
		cfg.BaseDir = value
	case "prod_version":
		cfg.ProdVersion = value
	case "max_events", "stat_events", "tel_id":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		switch key {
		case "max_events":
			cfg.MaxEvents = n
		case "stat_events":
			cfg.StatEvents = n
		case "tel_id":
			cfg.TelID = n
		}
	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	fmt.Printf("%s✓%s %s = %s\n", green, reset, key, value)
	return nil
}

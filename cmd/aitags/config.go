package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/aitags/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after defaults, the config file and AITAGS_*
environment overrides are applied.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := config.Dump(cfg)
	if err != nil {
		return fmt.Errorf("serializing config: %w", err)
	}

	out := cmd.OutOrStdout()
	if path := config.ConfigFileUsed(config.LoadOptions{File: configFile}); path != "" {
		fmt.Fprintf(out, "# %s\n", path)
	}
	_, err = out.Write(data)
	return err
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show effective configuration",
		Long: `Show the effective configuration in YAML form: the loaded config file
(or defaults) with command-line overrides applied.`,
		Example: `  husk config
  husk config --config /etc/husk/husk.yaml`,
		RunE: configRun,
	}

	cmd.SilenceUsage = true
	return cmd
}

func configRun(cmd *cobra.Command, args []string) error {
	if globalCfg == nil {
		return fmt.Errorf("config not loaded")
	}

	out, err := yaml.Marshal(globalCfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

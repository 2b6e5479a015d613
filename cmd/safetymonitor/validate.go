package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration file, apply defaults and environment overrides,
and report validation errors without starting the server.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "configuration OK (listen %s, lexicon backend %s, metrics %t)\n",
			cfg.Server.ListenAddress, cfg.Lexicon.Backend, cfg.Metrics.Enabled)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

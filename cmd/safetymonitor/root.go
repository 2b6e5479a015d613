package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/elum-utils/safetymonitor/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "safetymonitor",
	Short: "AI Safety Monitor - message moderation webhook",
	Long: `AI Safety Monitor screens chat messages before delivery. Messages pass
through static profanity, sensitive-data and spam checks, per-channel banned
words and length limits, then an AI safety analysis that fails closed.`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", os.Getenv("SAFETY_MONITOR_CONFIG"), "config file path (empty uses defaults and environment)")
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

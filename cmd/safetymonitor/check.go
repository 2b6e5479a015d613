package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/elum-utils/safetymonitor/adapters/ai"
	"github.com/elum-utils/safetymonitor/analyzer"
	"github.com/elum-utils/safetymonitor/core"
	"github.com/elum-utils/safetymonitor/models"
	"github.com/elum-utils/safetymonitor/settings"
)

var checkFlags struct {
	noAI        bool
	bannedWords string
	maxLength   int
	minScore    float64
}

var checkCmd = &cobra.Command{
	Use:   "check MESSAGE",
	Short: "Moderate one message and print the verdict",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkFlags.noAI, "no-ai", false, "skip the AI safety analysis")
	checkCmd.Flags().StringVar(&checkFlags.bannedWords, "banned", "", "comma-separated banned words")
	checkCmd.Flags().IntVar(&checkFlags.maxLength, "max-length", settings.DefaultMaxMessageLength, "maximum message length (0 disables)")
	checkCmd.Flags().Float64Var(&checkFlags.minScore, "min-score", settings.DefaultMinSafetyScore, "minimum safety score")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, closeStore, err := openStorage(cmd.Context(), cfg.Lexicon)
	if err != nil {
		return err
	}
	defer closeStore()

	registry := ai.NewRegistry(ai.RegistryOptions{
		BaseURL: cfg.AI.BaseURL,
		Model:   cfg.AI.Model,
		Timeout: cfg.AI.Timeout,
	})
	pipeline := core.New(core.Options{
		Analyzer:       analyzer.New(analyzer.Options{Provider: registry}),
		Storage:        st,
		FallbackAPIKey: cfg.AI.APIKey,
	})
	if err := pipeline.SyncOnce(cmd.Context()); err != nil {
		return err
	}

	list := []models.Setting{
		{Label: settings.LabelEnableAICheck, Default: !checkFlags.noAI},
		{Label: settings.LabelBannedWords, Default: checkFlags.bannedWords},
		{Label: settings.LabelMaxMessageLength, Default: checkFlags.maxLength},
		{Label: settings.LabelMinSafetyScore, Default: checkFlags.minScore},
	}
	v := pipeline.Moderate(cmd.Context(), strings.Join(args, " "), list)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"status":  v.Status,
		"message": v.Message,
		"action":  v.Action,
		"stage":   v.Stage,
	})
}

package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var lexiconCmd = &cobra.Command{
	Use:   "lexicon",
	Short: "Manage the stored profanity lexicon",
	Long: `Add, remove and list words in the configured lexicon backend. Running
servers pick up changes on the next sync (or immediately for a watched file).

Examples:
  safetymonitor lexicon add zorblax "rude phrase"
  safetymonitor lexicon remove zorblax
  safetymonitor lexicon list`,
}

var lexiconAddCmd = &cobra.Command{
	Use:   "add WORD...",
	Short: "Add words",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editLexicon(cmd, args, true)
	},
}

var lexiconRemoveCmd = &cobra.Command{
	Use:   "remove WORD...",
	Short: "Remove words",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editLexicon(cmd, args, false)
	},
}

var lexiconListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored words",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, closeStore, err := openStorage(cmd.Context(), cfg.Lexicon)
		if err != nil {
			return err
		}
		defer closeStore()

		words, err := st.Words(cmd.Context())
		if err != nil {
			return err
		}
		sort.Strings(words)
		for _, w := range words {
			fmt.Fprintln(cmd.OutOrStdout(), w)
		}
		return nil
	},
}

func init() {
	lexiconCmd.AddCommand(lexiconAddCmd, lexiconRemoveCmd, lexiconListCmd)
	rootCmd.AddCommand(lexiconCmd)
}

func editLexicon(cmd *cobra.Command, args []string, add bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, closeStore, err := openStorage(cmd.Context(), cfg.Lexicon)
	if err != nil {
		return err
	}
	defer closeStore()

	for _, raw := range args {
		word := strings.ToLower(strings.TrimSpace(raw))
		if word == "" {
			continue
		}
		if add {
			err = st.AddWord(cmd.Context(), word)
		} else {
			err = st.RemoveWord(cmd.Context(), word)
		}
		if err != nil {
			return fmt.Errorf("%s %q: %w", cmd.Name(), word, err)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d word(s) processed\n", len(args))
	return nil
}

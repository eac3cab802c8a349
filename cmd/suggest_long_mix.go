package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/mixcore/mixcore/internal/analysis"
	"github.com/mixcore/mixcore/internal/config"

	"github.com/spf13/cobra"
)

var suggestLongMixConfigPath string

// suggestLongMixCmd represents the suggest-long-mix command
var suggestLongMixCmd = &cobra.Command{
	Use:   "suggest-long-mix <cur> <next>",
	Short: "Propose an extended beatmatched mix between two tracks",
	Long: `Analyzes both tracks and runs the transition planner's bass-swap
automation strategy, printing the resulting AdvancedTransition as JSON.

Examples:
  mixcore suggest-long-mix current.mp3 next.mp3`,
	Args: cobra.ExactArgs(2),
	Run:  runSuggestLongMix,
}

func init() {
	rootCmd.AddCommand(suggestLongMixCmd)
	suggestLongMixCmd.Flags().StringVar(&suggestLongMixConfigPath, "config", "", "Path to config.yaml (defaults to platform search path)")
}

func runSuggestLongMix(cmd *cobra.Command, args []string) {
	curPath, nextPath := args[0], args[1]

	cfg, err := config.Load(suggestLongMixConfigPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	cur, next, err := analyzeTwoTracks(cfg, curPath, nextPath)
	if err != nil {
		slog.Error("Analysis failed", "error", err)
		os.Exit(1)
	}

	transition := analysis.SuggestLongMix(cur, next)

	out, err := json.MarshalIndent(transition, "", "  ")
	if err != nil {
		slog.Error("Failed to marshal transition", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

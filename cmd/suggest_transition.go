package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/mixcore/mixcore/internal/analysis"
	"github.com/mixcore/mixcore/internal/config"

	"github.com/spf13/cobra"
)

var suggestTransitionConfigPath string

// suggestTransitionCmd represents the suggest-transition command
var suggestTransitionCmd = &cobra.Command{
	Use:   "suggest-transition <cur> <next>",
	Short: "Propose a short mix transition between two tracks",
	Long: `Analyzes both tracks and runs the transition planner's bar-aligned
strategy selection, printing the resulting TransitionProposal as JSON.

Examples:
  mixcore suggest-transition current.mp3 next.mp3`,
	Args: cobra.ExactArgs(2),
	Run:  runSuggestTransition,
}

func init() {
	rootCmd.AddCommand(suggestTransitionCmd)
	suggestTransitionCmd.Flags().StringVar(&suggestTransitionConfigPath, "config", "", "Path to config.yaml (defaults to platform search path)")
}

func runSuggestTransition(cmd *cobra.Command, args []string) {
	curPath, nextPath := args[0], args[1]

	cfg, err := config.Load(suggestTransitionConfigPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	cur, next, err := analyzeTwoTracks(cfg, curPath, nextPath)
	if err != nil {
		slog.Error("Analysis failed", "error", err)
		os.Exit(1)
	}

	proposal := analysis.SuggestTransition(cur, next)

	out, err := json.MarshalIndent(proposal, "", "  ")
	if err != nil {
		slog.Error("Failed to marshal proposal", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

// analyzeTwoTracks runs TrackAnalyzer over both paths using cfg's analysis
// defaults, shared by the suggest-transition and suggest-long-mix commands.
func analyzeTwoTracks(cfg *config.Config, curPath, nextPath string) (*analysis.AudioAnalysis, *analysis.AudioAnalysis, error) {
	maxTime := cfg.Analysis.MaxAnalyzeTimeSeconds

	curAnalyzer := analysis.NewTrackAnalyzer(curPath, &maxTime, cfg.Analysis.IncludeTail)
	cur, err := curAnalyzer.Analyze(context.Background())
	if err != nil {
		return nil, nil, fmt.Errorf("analyze %q: %w", curPath, err)
	}

	nextAnalyzer := analysis.NewTrackAnalyzer(nextPath, &maxTime, cfg.Analysis.IncludeTail)
	next, err := nextAnalyzer.Analyze(context.Background())
	if err != nil {
		return nil, nil, fmt.Errorf("analyze %q: %w", nextPath, err)
	}

	return cur, next, nil
}

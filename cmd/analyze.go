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

var (
	analyzeMaxTime    float64
	analyzeNoTail     bool
	analyzeConfigPath string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <path>",
	Short: "Analyze a track and print the result as JSON",
	Long: `Runs TrackAnalyzer over a local audio file: tempo and first-beat phase,
musical key, integrated loudness, fade-in/out, drop position, vocal
regions, and a recommended mix-in/mix-out window. Prints the resulting
AudioAnalysis as JSON.

Examples:
  # Analyze a track with default settings
  mixcore analyze track.mp3

  # Cap analysis to the first/last 30 seconds
  mixcore analyze track.flac --max-time 30`,
	Args: cobra.ExactArgs(1),
	Run:  runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().Float64Var(&analyzeMaxTime, "max-time", 0, "Cap head/tail analysis window in seconds (0 uses the config default)")
	analyzeCmd.Flags().BoolVar(&analyzeNoTail, "no-tail", false, "Skip the tail segment (overrides config)")
	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to config.yaml (defaults to platform search path)")
}

func runAnalyze(cmd *cobra.Command, args []string) {
	path := args[0]

	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Error("Input file not found", "path", path)
		os.Exit(1)
	}

	cfg, err := config.Load(analyzeConfigPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	maxTime := cfg.Analysis.MaxAnalyzeTimeSeconds
	if analyzeMaxTime > 0 {
		maxTime = analyzeMaxTime
	}
	includeTail := cfg.Analysis.IncludeTail && !analyzeNoTail

	analyzer := analysis.NewTrackAnalyzer(path, &maxTime, includeTail)
	result, err := analyzer.Analyze(context.Background())
	if err != nil {
		slog.Error("Analysis failed", "path", path, "error", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		slog.Error("Failed to marshal analysis", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mixcore",
	Short: "Playback and analysis core for DJ-style mixing tools",
	Long: `mixcore - a playback engine and offline track analyzer for building
DJ-style mixing tools.

Features:
  - Lock-free SPSC ringbuffer feeding a realtime PortAudio callback
  - Command-driven playback supervisor: play, pause, resume, seek, preload
  - Local file and progressive HTTP/HTTPS streaming sources
  - MP3, FLAC, WAV, and Ogg/Vorbis decoding
  - Offline track analysis: BPM, key, loudness, fades, drops, vocal regions
  - Transition planning between two analyzed tracks

Commands:
  - play: Play a local file or stream URL with realtime status reporting
  - analyze: Run offline analysis on a track and print the result as JSON
  - suggest-transition: Propose a mix strategy between two analyzed tracks
  - suggest-long-mix: Propose an extended beatmatched mix between two tracks
  - transform: Resample an audio file to WAV at a new sample rate`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

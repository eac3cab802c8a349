package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mixcore/mixcore/internal/config"
	"github.com/mixcore/mixcore/internal/player"

	"github.com/drgolem/go-portaudio/portaudio"
	"github.com/spf13/cobra"
)

var (
	playDeviceIdx  int
	playFrames     int
	playVerbose    bool
	playConfigPath string
)

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play <path-or-url>",
	Short: "Play a local file or stream URL",
	Long: `Drives the playback supervisor end to end: opens the source, starts
decoding, and reports PlaybackStatus every 2 seconds until the track ends
or a SIGINT/SIGTERM is received.

Examples:
  # Play a local file
  mixcore play music.mp3

  # Play a progressive HTTP stream
  mixcore play https://example.com/stream.mp3

  # Play on a specific output device
  mixcore play -d 0 music.flac

Supported Formats:
  MP3, FLAC, WAV, Ogg/Vorbis`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().IntVarP(&playDeviceIdx, "device", "d", -1, "Audio output device index (defaults to config)")
	playCmd.Flags().IntVarP(&playFrames, "frames", "f", -1, "Audio frames per buffer (defaults to config; logged only, the stream always uses 512)")
	playCmd.Flags().BoolVarP(&playVerbose, "verbose", "v", false, "Verbose output (debug logging)")
	playCmd.Flags().StringVar(&playConfigPath, "config", "", "Path to config.yaml (defaults to platform search path)")
}

func runPlay(cmd *cobra.Command, args []string) {
	url := args[0]

	logLevel := slog.LevelInfo
	if playVerbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(playConfigPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	deviceIndex := cfg.Audio.DeviceIndex
	if playDeviceIdx >= 0 {
		deviceIndex = playDeviceIdx
	}
	framesPerBuffer := cfg.Audio.FramesPerBuffer
	if playFrames > 0 {
		framesPerBuffer = playFrames
	}

	slog.Info("Initializing PortAudio")
	if err := portaudio.Initialize(); err != nil {
		slog.Error("Failed to initialize PortAudio", "error", err)
		slog.Error("Hint: Make sure PortAudio is installed on your system")
		os.Exit(1)
	}
	defer portaudio.Terminate()

	slog.Info("PortAudio initialized", "version", portaudio.GetVersion())
	slog.Info("Audio configuration",
		"device_index", deviceIndex,
		"frames_per_buffer", framesPerBuffer)

	sup := player.NewSupervisor(player.Config{
		DeviceIndex:     deviceIndex,
		FramesPerBuffer: framesPerBuffer,
	})
	defer sup.Close()

	ended := sup.Subscribe("audioplayer://ended")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	slog.Info("Starting playback", "url", url)
	sup.Play(url)

	statusDone := make(chan struct{})
	go monitorSupervisor(sup, statusDone)

	select {
	case <-ended:
		slog.Info("Playback completed successfully")
	case sig := <-sigChan:
		slog.Info("Signal received, stopping playback", "signal", sig)
		sup.Stop()
	}

	close(statusDone)
	slog.Info("Exiting")
}

// monitorSupervisor polls and logs PlaybackStatus every 2 seconds, mirroring
// the teacher's monitorPlayback helper.
func monitorSupervisor(sup *player.Supervisor, done chan struct{}) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			status := sup.Status()

			totalMilliseconds := int64(status.PositionSeconds() * 1000)
			hours := totalMilliseconds / 3600000
			minutes := (totalMilliseconds % 3600000) / 60000
			seconds := (totalMilliseconds % 60000) / 1000
			milliseconds := totalMilliseconds % 1000
			positionStr := fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, milliseconds)

			title := ""
			if status.Metadata != nil {
				title = status.Metadata.Title
			}

			slog.Info("Playback status",
				"title", title,
				"playing", status.IsPlaying,
				"transitioning", status.IsTransitioning,
				"position", positionStr,
				"duration_secs", fmt.Sprintf("%.3f", status.DurationSecs),
				"sample_rate", status.SampleRate)
		case <-done:
			return
		}
	}
}

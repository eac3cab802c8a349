package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Audio.DeviceIndex != 1 {
		t.Errorf("DeviceIndex = %d, want 1", cfg.Audio.DeviceIndex)
	}
	if cfg.Analysis.MaxAnalyzeTimeSeconds != 60.0 {
		t.Errorf("MaxAnalyzeTimeSeconds = %v, want 60.0", cfg.Analysis.MaxAnalyzeTimeSeconds)
	}
	if cfg.Cache.TempDir == "" {
		t.Error("expected a non-empty temp dir default")
	}
}

func TestLoadExplicitFileOverridesDefaults(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	path := filepath.Join(dir, "mixcore.yaml")
	contents := "audio:\n  device_index: 7\nanalysis:\n  include_tail: false\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Audio.DeviceIndex != 7 {
		t.Errorf("DeviceIndex = %d, want 7", cfg.Audio.DeviceIndex)
	}
	if cfg.Analysis.IncludeTail {
		t.Error("expected include_tail overridden to false")
	}
}

func TestLoadEnvironmentOverride(t *testing.T) {
	viper.Reset()
	t.Setenv("MIXCORE_AUDIO_DEVICE_INDEX", "3")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Audio.DeviceIndex != 3 {
		t.Errorf("DeviceIndex = %d, want 3 from env override", cfg.Audio.DeviceIndex)
	}
}

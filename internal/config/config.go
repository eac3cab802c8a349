// Package config loads mixcore's hierarchical configuration via viper,
// adapted from amp's internal/config.Load: a YAML file under the
// platform config dir, overridable by MIXCORE_-prefixed environment
// variables, layered over compiled-in defaults.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mixcore/mixcore/internal/platform"
)

// Config is the root configuration tree for the mixcore player and
// analysis tooling.
type Config struct {
	Debug bool `mapstructure:"debug"`

	Audio struct {
		DeviceIndex     int    `mapstructure:"device_index"`
		FramesPerBuffer int    `mapstructure:"frames_per_buffer"`
		DefaultVolume   float64 `mapstructure:"default_volume"`
	} `mapstructure:"audio"`

	Stream struct {
		ChunkSize      int `mapstructure:"chunk_size"`
		TimeoutSeconds int `mapstructure:"timeout_seconds"`
		MaxRetries     int `mapstructure:"max_retries"`
	} `mapstructure:"stream"`

	Analysis struct {
		MaxAnalyzeTimeSeconds float64 `mapstructure:"max_analyze_time_seconds"`
		IncludeTail           bool    `mapstructure:"include_tail"`
	} `mapstructure:"analysis"`

	Cache struct {
		TempDir string `mapstructure:"temp_dir"`
	} `mapstructure:"cache"`
}

// Load reads configPath (if non-empty) or searches the platform config dir
// and the working directory for "config.yaml", applies MIXCORE_ environment
// overrides, and unmarshals into a Config seeded with defaults.
func Load(configPath string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		if configDir, err := platform.GetConfigDir(); err == nil {
			viper.AddConfigPath(configDir)
		}
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("MIXCORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.Cache.TempDir, 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("debug", false)

	viper.SetDefault("audio.device_index", 1)
	viper.SetDefault("audio.frames_per_buffer", 512)
	viper.SetDefault("audio.default_volume", 1.0)

	viper.SetDefault("stream.chunk_size", 32*1024)
	viper.SetDefault("stream.timeout_seconds", 30)
	viper.SetDefault("stream.max_retries", 3)

	viper.SetDefault("analysis.max_analyze_time_seconds", 60.0)
	viper.SetDefault("analysis.include_tail", true)

	cacheDir, err := platform.GetCacheDir()
	if err != nil {
		cacheDir = filepath.Join(os.TempDir(), "mixcore")
	}
	viper.SetDefault("cache.temp_dir", filepath.Join(cacheDir, "spool"))
}
